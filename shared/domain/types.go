package domain

type (
	UserId    = int64
	BlogId    = int64
	PostId    = int64
	CommentId = int64

	Email    = string
	Password = string
	FileName = string
)

type RoleName = string

const (
	RoleUser  RoleName = "USER"
	RoleAdmin RoleName = "ADMIN"
)
