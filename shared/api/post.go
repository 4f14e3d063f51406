package api

import "github.com/itchan-dev/bloghub/shared/domain"

// CreatePostRequest is the "json" field of the multipart post form.
type CreatePostRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Subtitle string `json:"subtitle" validate:"max=300"`
	Text     string `json:"text" validate:"required"`
	IsPublic *bool  `json:"isPublic" validate:"required"`
}

type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Subtitle *string `json:"subtitle,omitempty" validate:"omitempty,max=300"`
	Text     *string `json:"text,omitempty"`
	IsPublic *bool   `json:"isPublic,omitempty"`
}

func (r UpdatePostRequest) ToPatch() domain.PostPatch {
	return domain.PostPatch{
		Title:    r.Title,
		Subtitle: r.Subtitle,
		Text:     r.Text,
		IsPublic: r.IsPublic,
	}
}

// PostResponse adds the rendered, sanitized HTML of the Markdown text.
type PostResponse struct {
	domain.Post
	TextHtml string `json:"textHtml"`
}

func (r CreatePostRequest) ToPatch() domain.PostPatch {
	return domain.PostPatch{
		Title:    &r.Title,
		Subtitle: &r.Subtitle,
		Text:     &r.Text,
		IsPublic: r.IsPublic,
	}
}
