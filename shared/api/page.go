package api

import (
	"net/url"
	"strconv"
	"time"

	"github.com/itchan-dev/bloghub/shared/domain"
)

type PageResponse struct {
	Response
	Page         int     `json:"page"`
	Size         int     `json:"size"`
	TotalPages   int     `json:"totalPages"`
	TotalRecords int     `json:"totalRecords"`
	FirstPage    *string `json:"firstPage,omitempty"`
	LastPage     *string `json:"lastPage,omitempty"`
	NextPage     *string `json:"nextPage,omitempty"`
	PreviousPage *string `json:"previousPage,omitempty"`
}

// NewPageResponse builds a list envelope. Items are passed separately so callers
// can map domain values to response values. Links are derived from requestURL,
// keeping its other query parameters; a nil URL produces no links.
func NewPageResponse[T any](items []T, p domain.Pagination, totalRecords int, requestURL *url.URL) PageResponse {
	if items == nil {
		items = []T{}
	}
	totalPages := domain.TotalPages(totalRecords, p.Size)
	resp := PageResponse{
		Response:     Response{Data: items, Success: true, Date: time.Now().UTC()},
		Page:         p.Page,
		Size:         p.Size,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
	}
	if requestURL == nil {
		return resp
	}

	resp.FirstPage = pageLink(requestURL, 1, p.Size)
	resp.LastPage = pageLink(requestURL, totalPages, p.Size)
	if p.Page < totalPages {
		resp.NextPage = pageLink(requestURL, p.Page+1, p.Size)
	}
	if p.Page > 1 && p.Page <= totalPages {
		resp.PreviousPage = pageLink(requestURL, p.Page-1, p.Size)
	}
	return resp
}

func pageLink(base *url.URL, page, size int) *string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}
