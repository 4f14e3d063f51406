package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/itchan-dev/bloghub/shared/api"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteErrorAndStatusCode maps err to its status and writes the failure envelope.
// Errors outside the taxonomy become 500 with their text as details.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		logger.Log.Error("unhandled error", "error", err)
		e = errors.Internal("Internal server error", err)
	} else if e.Kind == errors.KindInternal {
		logger.Log.Error(e.Message, "details", e.Details)
	}
	WriteJSON(w, e.Kind.StatusCode(), api.Fail(e.Message, e.Details))
}

// WriteStatus writes a failure envelope with an explicit status, for statuses
// outside the taxonomy such as 413 and 429.
func WriteStatus(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, api.Fail(message, ""))
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func DecodeValidate(r io.Reader, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	return Validate(body)
}

func Decode(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		e := errors.Validation("Body is invalid json")
		e.Details = err.Error()
		return e
	}
	return nil
}

// Validate runs struct tag validation and reports every failing field in details.
func Validate(body any) error {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}
	e := errors.Validation("Required fields missing or invalid")
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), describeTag(fe)))
		}
		e.Details = strings.Join(parts, "; ")
	} else {
		e.Details = err.Error()
	}
	return e
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	default:
		return "failed " + fe.Tag()
	}
}
