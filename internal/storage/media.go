// Package storage is the media store: it turns an uploaded image into a
// stable reference path usable as Post.Image. Size and type violations are
// reported here, before the interaction engine is ever invoked.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxImageSize = 2 << 20 // 2MB

var (
	ErrImageTooLarge = errors.New("image exceeds the 2MB limit")
	ErrImageType     = errors.New("only image files are allowed (jpeg, jpg, png, gif)")
)

var allowedExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

type MediaStore struct {
	root string
}

// NewMediaStore creates the upload directories under root.
func NewMediaStore(root string) (*MediaStore, error) {
	for _, sub := range []string{"posts", "profiles"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return &MediaStore{root: root}, nil
}

// SavePostImage stores an uploaded post image and returns its serving path.
func (m *MediaStore) SavePostImage(fh *multipart.FileHeader) (string, error) {
	return m.save(fh, "posts", "post")
}

// SaveProfileImage stores an uploaded profile picture and returns its path.
func (m *MediaStore) SaveProfileImage(fh *multipart.FileHeader) (string, error) {
	return m.save(fh, "profiles", "profile")
}

func (m *MediaStore) save(fh *multipart.FileHeader, sub, prefix string) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return "", ErrImageType
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", ErrImageType
	}

	name := fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ext)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(m.root, sub, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, MaxImageSize+1)); err != nil {
		return "", err
	}
	return "/uploads/" + sub + "/" + name, nil
}
