package api

import "github.com/itchan-dev/bloghub/shared/domain"

type CreateBlogRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=2000"`
	HeaderColor *string `json:"headerColor,omitempty" validate:"omitempty,max=32"`
	TitleColor  *string `json:"titleColor,omitempty" validate:"omitempty,max=32"`
	IsPublic    *bool   `json:"isPublic" validate:"required"`
}

// UpdateBlogRequest is used by both PUT and PATCH; fields left empty keep their value.
type UpdateBlogRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	HeaderColor *string `json:"headerColor,omitempty" validate:"omitempty,max=32"`
	TitleColor  *string `json:"titleColor,omitempty" validate:"omitempty,max=32"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// ToDomain leaves OwnerId unset; the service takes it from the actor.
func (r CreateBlogRequest) ToDomain() domain.BlogCreationData {
	return domain.BlogCreationData{
		Title:       r.Title,
		Description: r.Description,
		HeaderColor: r.HeaderColor,
		TitleColor:  r.TitleColor,
		IsPublic:    *r.IsPublic,
	}
}

func (r UpdateBlogRequest) ToPatch() domain.BlogPatch {
	return domain.BlogPatch{
		Title:       r.Title,
		Description: r.Description,
		HeaderColor: r.HeaderColor,
		TitleColor:  r.TitleColor,
		IsPublic:    r.IsPublic,
	}
}

// ToPatch lets PUT reuse the merge path once every required field is present.
func (r CreateBlogRequest) ToPatch() domain.BlogPatch {
	return domain.BlogPatch{
		Title:       &r.Title,
		Description: &r.Description,
		HeaderColor: r.HeaderColor,
		TitleColor:  r.TitleColor,
		IsPublic:    r.IsPublic,
	}
}
