package domain

import "time"

type Post struct {
	Id         PostId    `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	Text       string    `json:"text"`
	CoverImage *FileName `json:"coverImage,omitempty"`
	IsPublic   bool      `json:"isPublic"`
	IsUpdated  bool      `json:"isUpdated"`
	CreatedAt  time.Time `json:"createdAt"`
	OwnerId    UserId    `json:"ownerId"`
	BlogId     BlogId    `json:"blogId"`
}

type PostCreationData struct {
	Title      string
	Subtitle   string
	Text       string
	IsPublic   bool
	OwnerId    UserId
	BlogId     BlogId
	CoverImage *Upload
}

type PostPatch struct {
	Title      *string
	Subtitle   *string
	Text       *string
	IsPublic   *bool
	CoverImage *Upload
}

// Apply merges text fields and visibility into p. The cover image is handled by the caller.
func (patch PostPatch) Apply(p *Post) {
	if provided(patch.Title) {
		p.Title = *patch.Title
	}
	if provided(patch.Subtitle) {
		p.Subtitle = *patch.Subtitle
	}
	if provided(patch.Text) {
		p.Text = *patch.Text
	}
	if patch.IsPublic != nil {
		p.IsPublic = *patch.IsPublic
	}
	p.IsUpdated = true
}

// PostFilter narrows post listings. Zero values mean "no restriction".
type PostFilter struct {
	OwnerId    *UserId
	BlogId     *BlogId
	PublicOnly bool // post and its blog are both public
	Search     string
}
