package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	internalErrors "github.com/frahmantamala/claim-management/internal"
	"github.com/google/uuid"
)

// allowedExtensions is the closed allow-list for supporting documents.
// Matching is case-insensitive.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

// ErrInvalidExtension is returned before any bytes are written when the
// uploaded file's extension is not on the allow-list. It carries a 400
// status so handlers report it as a client error.
var ErrInvalidExtension = internalErrors.NewValidationError(
	"file type not allowed: only .pdf, .doc and .docx are accepted",
	internalErrors.ErrCodeInvalidFileType,
)

// Store persists claim supporting documents and hands back the stored
// name used as the claim's document reference.
type Store interface {
	Store(ctx context.Context, content io.Reader, originalName string) (string, error)
	Retrieve(ctx context.Context, storedName string) (io.ReadCloser, error)
	Delete(ctx context.Context, storedName string) error
}

// LocalStore keeps documents on the local filesystem under a single
// directory. Stored names are "<uuid>_<original base name>" so two
// lecturers uploading "timesheet.pdf" never collide.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// ValidateExtension checks the original file name against the allow-list.
func ValidateExtension(originalName string) error {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrInvalidExtension
	}
	return nil
}

func (s *LocalStore) Store(ctx context.Context, content io.Reader, originalName string) (string, error) {
	if err := ValidateExtension(originalName); err != nil {
		return "", err
	}

	// Strip any path components a hostile client may have sent.
	base := filepath.Base(originalName)
	storedName := fmt.Sprintf("%s_%s", uuid.NewString(), base)

	dst, err := os.Create(filepath.Join(s.baseDir, storedName))
	if err != nil {
		return "", fmt.Errorf("create document file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write document file: %w", err)
	}
	return storedName, nil
}

func (s *LocalStore) Retrieve(ctx context.Context, storedName string) (io.ReadCloser, error) {
	path, err := s.resolve(storedName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s not found", storedName)
		}
		return nil, fmt.Errorf("open document: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(ctx context.Context, storedName string) error {
	path, err := s.resolve(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// resolve joins the stored name onto the base directory and refuses
// anything that would escape it.
func (s *LocalStore) resolve(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) {
		return "", fmt.Errorf("invalid document name %q", storedName)
	}
	return filepath.Join(s.baseDir, storedName), nil
}
