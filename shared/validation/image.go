package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/itchan-dev/bloghub/shared/domain"
	_ "golang.org/x/image/webp"
)

// ValidateImage opens an uploaded file, sniffs its content type, checks it
// against the allowed list and makes sure the image header decodes.
// The returned Upload owns the open file; the caller closes it.
func ValidateImage(fh *multipart.FileHeader, allowedMimes []string) (*domain.Upload, multipart.File, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	mimeType, err := DetectMimeType(file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	if !slices.Contains(allowedMimes, mimeType) {
		file.Close()
		return nil, nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fh.Filename)
	}

	if _, _, err := image.DecodeConfig(file); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidImage, fh.Filename)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	return &domain.Upload{
		Filename: fh.Filename,
		MimeType: mimeType,
		Size:     fh.Size,
		Data:     file,
	}, file, nil
}

// DetectMimeType sniffs the first 512 bytes and rewinds the reader.
func DetectMimeType(r io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}
