package domain

import "time"

type Comment struct {
	Id        CommentId `json:"id"`
	Text      string    `json:"text"`
	IsUpdated bool      `json:"isUpdated"`
	CreatedAt time.Time `json:"createdAt"`
	AuthorId  UserId    `json:"authorId"`
	PostId    PostId    `json:"postId"`
}

type CommentCreationData struct {
	Text     string
	AuthorId UserId
	PostId   PostId
}

type CommentFilter struct {
	AuthorId *UserId
	PostId   *PostId
	// PublicOnly keeps comments whose post and blog are both public.
	PublicOnly bool
}
