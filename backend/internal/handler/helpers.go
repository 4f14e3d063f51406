package handler

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/bloghub/shared/api"
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/logger"
	"github.com/itchan-dev/bloghub/shared/utils"
	"github.com/itchan-dev/bloghub/shared/validation"
)

// parseIdParam reads a positive integer URL parameter.
func parseIdParam(r *http.Request, name string) (int64, error) {
	val, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || val < 1 {
		return 0, errors.Validation("Invalid %s: must be a positive integer", name)
	}
	return val, nil
}

// pagination never fails: unparsable or out of range values fall back to defaults.
func pagination(r *http.Request) domain.Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return domain.NewPagination(page, size)
}

func search(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("search"))
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	maxRequestSize := validation.CalculateMaxRequestSize(h.cfg.Public.MaxUploadSize, 1<<20)
	if err := validation.ValidateAndParseMultipart(r, w, maxRequestSize); err != nil {
		if stderrors.Is(err, validation.ErrPayloadTooLarge) {
			return fmt.Errorf("%w: upload exceeds the limit of %.0f MB", validation.ErrPayloadTooLarge, validation.FormatSizeMB(h.cfg.Public.MaxUploadSize))
		}
		return err
	}
	return nil
}

// optionalImage validates the image in field, if any. The returned cleanup
// closes the uploaded file and is always safe to call.
func (h *Handler) optionalImage(r *http.Request, field string) (*domain.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, noop, nil
	}
	fh := r.MultipartForm.File[field][0]
	if fh.Size > h.cfg.Public.MaxUploadSize {
		return nil, noop, fmt.Errorf("%w: %s exceeds the limit of %.0f MB", validation.ErrPayloadTooLarge, field, validation.FormatSizeMB(h.cfg.Public.MaxUploadSize))
	}
	upload, file, err := validation.ValidateImage(fh, h.cfg.Public.AllowedImageMimeTypes)
	if err != nil {
		return nil, noop, err
	}
	return upload, func() { file.Close() }, nil
}

// writeError extends utils.WriteErrorAndStatusCode with upload failures.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, validation.ErrPayloadTooLarge):
		utils.WriteStatus(w, http.StatusRequestEntityTooLarge, err.Error())
	case stderrors.Is(err, validation.ErrInvalidMimeType),
		stderrors.Is(err, validation.ErrInvalidImage),
		stderrors.Is(err, validation.ErrMalformedForm):
		utils.WriteErrorAndStatusCode(w, errors.Validation("%s", err.Error()))
	default:
		utils.WriteErrorAndStatusCode(w, err)
	}
}

// writeFile streams stored bytes as a download.
func writeFile(w http.ResponseWriter, name domain.FileName, rc io.ReadCloser) {
	defer rc.Close()

	contentType := "application/octet-stream"
	if rs, ok := rc.(io.ReadSeeker); ok {
		if detected, err := validation.DetectMimeType(rs); err == nil {
			contentType = detected
		}
	} else if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
		contentType = byExt
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.Log.Warn("failed to stream file", "file", name, "error", err)
	}
}

func writeOK(w http.ResponseWriter, status int, data any, message string) {
	utils.WriteJSON(w, status, api.OK(data, message))
}

// decodeWithImage reads body from the "json" field of a multipart form, next
// to an optional image in fileField, or from a plain JSON request body.
func (h *Handler) decodeWithImage(w http.ResponseWriter, r *http.Request, body any, fileField string) (*domain.Upload, func(), error) {
	noop := func() {}
	if !isMultipart(r) {
		return nil, noop, utils.DecodeValidate(r.Body, body)
	}
	if err := h.parseMultipart(w, r); err != nil {
		return nil, noop, err
	}
	if err := utils.DecodeValidate(strings.NewReader(r.FormValue("json")), body); err != nil {
		return nil, noop, err
	}
	return h.optionalImage(r, fileField)
}

// accountForm reads name, email and password from form fields (multipart) or
// JSON, together with an optional profile picture.
func (h *Handler) accountForm(w http.ResponseWriter, r *http.Request, name, email, password *string) (*domain.Upload, func(), error) {
	noop := func() {}
	if !isMultipart(r) {
		var body struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := utils.Decode(r.Body, &body); err != nil {
			return nil, noop, err
		}
		*name, *email, *password = body.Name, body.Email, body.Password
		return nil, noop, nil
	}
	if err := h.parseMultipart(w, r); err != nil {
		return nil, noop, err
	}
	*name, *email, *password = r.FormValue("name"), r.FormValue("email"), r.FormValue("password")
	return h.optionalImage(r, "profilePicture")
}

// requestURL is the absolute URL of r, used for page navigation links.
func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	return &u
}
