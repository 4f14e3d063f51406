package validation

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedForm is returned when the body is not a readable multipart form.
var ErrMalformedForm = errors.New("malformed multipart form")

// ValidateAndParseMultipart validates request size and parses the multipart form.
// When the limit is exceeded the server stops reading the body, so clients that
// keep uploading may see a connection reset instead of the 413 response.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
		}
		return fmt.Errorf("%w: %v", ErrMalformedForm, err)
	}

	return nil
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
// It adds a buffer (typically 1 MiB) for form fields and multipart overhead.
func CalculateMaxRequestSize(maxFileSize int64, bufferSize int64) int64 {
	return maxFileSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
