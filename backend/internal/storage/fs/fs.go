package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/utils"
)

// Storage keeps uploaded files flat under a single root directory.
// Stored names are generated on save and never taken from the client.
type Storage struct {
	rootPath string
}

func New(rootPath string) (*Storage, error) {
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// Save writes the upload under a fresh name and returns that name.
func (s *Storage) Save(upload *domain.Upload) (domain.FileName, error) {
	if upload == nil || upload.Data == nil {
		return "", fmt.Errorf("nothing to save")
	}
	name := utils.GenerateFileName(upload.Filename)
	fullPath := filepath.Join(s.rootPath, name)

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, upload.Data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return name, nil
}

// Read opens a stored file. Unknown or malformed names are NotFound.
func (s *Storage) Read(name domain.FileName) (io.ReadCloser, error) {
	fullPath, err := s.path(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("File not found")
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *Storage) Delete(name domain.FileName) error {
	fullPath, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Storage) path(name domain.FileName) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errors.NotFound("File not found")
	}
	return filepath.Join(s.rootPath, name), nil
}
