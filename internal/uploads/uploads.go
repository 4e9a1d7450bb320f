package uploads

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

const DefaultMaxFileSize = 10 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var permittedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// Store saves uploaded player documents and serves them back by path.
type Store interface {
	Save(header *multipart.FileHeader) (string, error)
	Remove(path string) error
	Open(path string) (io.ReadSeekCloser, error)
}

// DiskStore writes uploads under a single base directory, renaming each file
// to a UUID so client-supplied names never touch the filesystem.
type DiskStore struct {
	baseDir     string
	maxFileSize int64
}

func NewDiskStore(baseDir string, maxFileSize int64) (*DiskStore, error) {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	err := os.MkdirAll(baseDir, 0o755)
	if err != nil {
		return nil, err
	}

	return &DiskStore{baseDir: baseDir, maxFileSize: maxFileSize}, nil
}

func (s *DiskStore) Save(header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxFileSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !permittedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	_, err = io.Copy(dst, io.LimitReader(src, s.maxFileSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return name, nil
}

// Remove deletes a stored file. A missing file is not an error; the database
// row is the source of truth and may outlive a manual cleanup.
func (s *DiskStore) Remove(path string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.Base(path)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DiskStore) Open(path string) (io.ReadSeekCloser, error) {
	return os.Open(filepath.Join(s.baseDir, filepath.Base(path)))
}
