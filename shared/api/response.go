package api

import "time"

// Response is the envelope every JSON endpoint writes.
type Response struct {
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	Details string    `json:"details,omitempty"`
	Success bool      `json:"success"`
	Date    time.Time `json:"date"`
}

func OK(data any, message string) Response {
	return Response{Data: data, Message: message, Success: true, Date: time.Now().UTC()}
}

func Fail(message, details string) Response {
	return Response{Message: message, Details: details, Success: false, Date: time.Now().UTC()}
}
