package api

type CommentRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}
