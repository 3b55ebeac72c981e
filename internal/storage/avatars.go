// Package storage keeps uploaded avatar images on the local filesystem.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	avatarSubdir = "business-cards"
	urlSegment   = "/avatars/"
)

var (
	ErrUnsupportedType = errors.New("please upload a JPEG, PNG, WebP, or GIF image")
	ErrTooLarge        = errors.New("image must be smaller than the upload limit")
	ErrEmptyImage      = errors.New("image data cannot be empty")
	ErrInvalidURL      = errors.New("invalid avatar URL")
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// AvatarStorage writes avatars under {dir}/business-cards and hands out
// public URLs of the form {baseURL}/avatars/business-cards/{file}.
type AvatarStorage struct {
	dir      string
	baseURL  string
	maxBytes int64
	now      func() time.Time
	mu       sync.Mutex
}

func NewAvatarStorage(dir, baseURL string, maxBytes int64) (*AvatarStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("avatar directory cannot be empty")
	}
	if err := os.MkdirAll(filepath.Join(dir, avatarSubdir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &AvatarStorage{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}, nil
}

// Dir is the root served at /avatars.
func (s *AvatarStorage) Dir() string {
	return s.dir
}

// Save validates data as a supported image and stores it for tagID.
// It returns the public URL of the stored file.
func (s *AvatarStorage) Save(tagID uuid.UUID, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	ext, ok := extensions[http.DetectContentType(data)]
	if !ok {
		return "", ErrUnsupportedType
	}
	// Sniffing only checks magic bytes; make sure the body actually decodes.
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", ErrUnsupportedType
	}

	name := fmt.Sprintf("%s-%d.%s", tagID, s.now().UnixMilli(), ext)
	rel := path.Join(avatarSubdir, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, filepath.FromSlash(rel)), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}
	return s.baseURL + urlSegment + rel, nil
}

// Delete removes the file behind avatarURL. Only files stored for tagID can
// be removed; a file that is already gone is not an error.
func (s *AvatarStorage) Delete(tagID uuid.UUID, avatarURL string) error {
	rel, err := s.relPath(tagID, avatarURL)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}
	return nil
}

// DeleteAll removes every avatar stored for tagID.
func (s *AvatarStorage) DeleteAll(tagID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, avatarSubdir, tagID.String()+"-*"))
	if err != nil {
		return fmt.Errorf("failed to list avatars: %w", err)
	}
	var errs []error
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to delete avatars: %w", err)
	}
	return nil
}

func (s *AvatarStorage) relPath(tagID uuid.UUID, avatarURL string) (string, error) {
	i := strings.LastIndex(avatarURL, urlSegment)
	if i < 0 {
		return "", ErrInvalidURL
	}
	rel := path.Clean(avatarURL[i+len(urlSegment):])
	dir, file := path.Split(rel)
	if dir != avatarSubdir+"/" || !strings.HasPrefix(file, tagID.String()+"-") {
		return "", ErrInvalidURL
	}
	return rel, nil
}
