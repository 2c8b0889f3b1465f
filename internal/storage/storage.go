package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidName is returned for IDs or file names that could escape
	// the storage directories.
	ErrInvalidName = errors.New("invalid storage name")
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("upload exceeds size limit")
)

// Store keeps uploaded PDFs and converted Markdown on disk. Every
// conversion lives in its own directory named by its ID, so two uploads
// with the same file name never collide.
type Store struct {
	uploadDir string
	outputDir string
}

// New creates the upload and output directories if needed.
func New(uploadDir, outputDir string) (*Store, error) {
	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return &Store{uploadDir: uploadDir, outputDir: outputDir}, nil
}

// SaveUpload copies at most limit bytes of r to the upload area and returns
// the file path. A limit <= 0 disables the check.
func (s *Store) SaveUpload(id, filename string, r io.Reader, limit int64) (string, error) {
	path, err := s.path(s.uploadDir, id, filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && limit > 0 && n > limit {
		err = ErrTooLarge
	}
	if err != nil {
		s.RemoveUpload(id)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

// OpenUpload opens a previously saved upload.
func (s *Store) OpenUpload(id, filename string) (*os.File, error) {
	path, err := s.path(s.uploadDir, id, filename)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// RemoveUpload deletes the upload directory of a conversion.
func (s *Store) RemoveUpload(id string) error {
	if !ValidID(id) {
		return ErrInvalidName
	}
	return os.RemoveAll(filepath.Join(s.uploadDir, id))
}

// WriteOutput stores converted Markdown and returns the file path.
func (s *Store) WriteOutput(id, filename, content string) (string, error) {
	path, err := s.path(s.outputDir, id, filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return path, nil
}

// OpenOutput opens converted Markdown for download. A missing file yields
// an error matching fs.ErrNotExist.
func (s *Store) OpenOutput(id, filename string) (*os.File, error) {
	path, err := s.path(s.outputDir, id, filename)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes everything stored for a conversion.
func (s *Store) Remove(id string) error {
	if !ValidID(id) {
		return ErrInvalidName
	}
	return errors.Join(
		os.RemoveAll(filepath.Join(s.uploadDir, id)),
		os.RemoveAll(filepath.Join(s.outputDir, id)),
	)
}

func (s *Store) path(root, id, filename string) (string, error) {
	if !ValidID(id) || !validFilename(filename) {
		return "", fmt.Errorf("%w: %q/%q", ErrInvalidName, id, filename)
	}
	return filepath.Join(root, id, filename), nil
}

func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
