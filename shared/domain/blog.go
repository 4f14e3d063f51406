package domain

import "time"

type Blog struct {
	Id          BlogId    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HeaderColor *string   `json:"headerColor,omitempty"`
	TitleColor  *string   `json:"titleColor,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	OwnerId     UserId    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BlogCreationData struct {
	Title       string
	Description string
	HeaderColor *string
	TitleColor  *string
	IsPublic    bool
	OwnerId     UserId
}

// BlogPatch carries merge-patch fields: nil or empty means "not provided".
type BlogPatch struct {
	Title       *string
	Description *string
	HeaderColor *string
	TitleColor  *string
	IsPublic    *bool
}

// Apply merges the provided fields into b.
func (p BlogPatch) Apply(b *Blog) {
	if provided(p.Title) {
		b.Title = *p.Title
	}
	if provided(p.Description) {
		b.Description = *p.Description
	}
	if provided(p.HeaderColor) {
		b.HeaderColor = p.HeaderColor
	}
	if provided(p.TitleColor) {
		b.TitleColor = p.TitleColor
	}
	if p.IsPublic != nil {
		b.IsPublic = *p.IsPublic
	}
}

func provided(s *string) bool {
	return s != nil && *s != ""
}

// BlogFilter narrows blog listings. Zero values mean "no restriction".
type BlogFilter struct {
	OwnerId    *UserId
	PublicOnly bool
	Search     string // matches title or description
}
