package complaint

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/campusworks/complaint-management/internal"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxPhotoSize caps complaint photo uploads at 5MB.
const MaxPhotoSize = 5 << 20

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// PhotoStore writes complaint photos to disk and hands back the relative
// URL path stored on the complaint row.
type PhotoStore struct {
	dir string
}

func NewPhotoStore(dir string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &PhotoStore{dir: dir}, nil
}

// Save validates and persists an uploaded photo. The content type is
// sniffed from the bytes, never trusted from the client. A rejected
// photo leaves nothing on disk.
func (ps *PhotoStore) Save(r io.Reader, size int64) (string, error) {
	if size > MaxPhotoSize {
		return "", internal.NewValidationError("File size too large. Maximum 5MB allowed.", internal.ErrCodeInvalidPhoto)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > MaxPhotoSize {
		return "", internal.NewValidationError("File size too large. Maximum 5MB allowed.", internal.ErrCodeInvalidPhoto)
	}

	detected := mimetype.Detect(data)
	ext, ok := allowedPhotoTypes[detected.String()]
	if !ok {
		return "", internal.NewValidationError("Invalid file type. Only JPG, PNG and GIF are allowed.", internal.ErrCodeInvalidPhoto)
	}

	filename := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(ps.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return "/uploads/complaints/" + filename, nil
}

// Remove deletes a previously saved photo, used to clean up when the
// complaint insert fails after the file was written.
func (ps *PhotoStore) Remove(photoPath string) error {
	filename := filepath.Base(strings.TrimPrefix(photoPath, "/"))
	return os.Remove(filepath.Join(ps.dir, filename))
}
