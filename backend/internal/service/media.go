package service

import (
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/logger"
)

// saveUpload stores an optional upload. A nil upload yields a nil name.
func saveUpload(media MediaStorage, upload *domain.Upload) (*domain.FileName, error) {
	if upload == nil {
		return nil, nil
	}
	name, err := media.Save(upload)
	if err != nil {
		return nil, errors.Internal("Failed to save file", err)
	}
	return &name, nil
}

// releaseFiles deletes files that are no longer referenced. Failures only
// leave orphans on disk, so they are logged and not returned.
func releaseFiles(media MediaStorage, names ...domain.FileName) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := media.Delete(name); err != nil {
			logger.Log.Warn("failed to release file", "file", name, "error", err)
		}
	}
}

func releaseFile(media MediaStorage, name *domain.FileName) {
	if name != nil {
		releaseFiles(media, *name)
	}
}

func newPage[T any](items []T, p domain.Pagination, total int) domain.Page[T] {
	return domain.Page[T]{Items: items, Pagination: p, TotalRecords: total}
}
