// Package uploads is the disk file store for user-submitted images:
// payment proofs, item pictures, profile pictures. Files keep their
// extension but get a random basename, so original filenames never reach
// the filesystem.
package uploads

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

type Folder string

const (
	FolderItems         Folder = "items"
	FolderPaymentProofs Folder = "payment_proofs"
	FolderProfilePics   Folder = "profile_pics"
)

var ErrBadImage = errors.New("file is not an allowed image type")
var ErrTooLarge = errors.New("file is too large")

var allowedExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true,
}

type Store struct {
	baseDir  string
	maxBytes int64
}

func NewStore(baseDir string, maxBytes int64) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	for _, f := range []Folder{FolderItems, FolderPaymentProofs, FolderProfilePics} {
		if err := os.MkdirAll(filepath.Join(baseDir, string(f)), 0o755); err != nil {
			return nil, fmt.Errorf("prepare upload dir: %w", err)
		}
	}
	return &Store{baseDir: baseDir, maxBytes: maxBytes}, nil
}

// Save writes the uploaded file under the folder and returns the stored
// filename.
func (s *Store) Save(folder Folder, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", ErrBadImage
	}
	if fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	name := hex.EncodeToString(buf) + ext

	dst, err := os.Create(filepath.Join(s.baseDir, string(folder), name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file. Missing files are not an error, so a
// cleanup after a failed write stays idempotent.
func (s *Store) Remove(folder Folder, name string) error {
	if name == "" || name != filepath.Base(name) {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, string(folder), name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path resolves a stored filename for serving. Rejects anything that
// escapes the folder.
func (s *Store) Path(folder Folder, name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", os.ErrNotExist
	}
	p := filepath.Join(s.baseDir, string(folder), name)
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}
