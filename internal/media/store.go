// Package media stores uploaded images on the local filesystem.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/Guyuepp/social-blog/domain"
)

// MaxUploadSize bounds a single image upload.
const MaxUploadSize = 5 << 20

var (
	ErrNotImage = domain.NewValidationError("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	ErrTooLarge = domain.NewValidationError("The uploaded image is larger than 5 MB.")
)

type LocalStore struct {
	root    string
	baseURL string
}

var _ domain.MediaStore = (*LocalStore)(nil)

func NewLocalStore(root, baseURL string) *LocalStore {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStore{root: root, baseURL: baseURL}
}

// Save validates that r holds an image and writes it under dir with a fresh name.
// The file appears atomically: it is written to a temp file and renamed into place.
func (s *LocalStore) Save(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + "." + extension(format, filename)
	tmp, err := os.CreateTemp(target, ".upload-*")
	if err != nil {
		return "", err
	}
	defer func() {
		// No-op once renamed.
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(target, name)); err != nil {
		return "", err
	}
	return path.Join(dir, name), nil
}

func (s *LocalStore) Remove(_ context.Context, ref string) error {
	p, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.baseURL + ref
}

// resolve maps ref to a path inside root, rejecting escapes like "../x".
func (s *LocalStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)
	if clean == "/" {
		return "", fmt.Errorf("empty media reference")
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func extension(format, filename string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "png", "gif", "webp":
		return format
	}
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return "img"
}
