package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// PDFStorage stores rendered invoices by invoice number
type PDFStorage interface {
	// Store writes data as {name}.pdf, replacing any previous file
	Store(ctx context.Context, name string, data []byte) (*StoreResult, error)
	// Open returns the stored PDF for name
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Path returns the absolute file path for name without touching the disk
	Path(name string) (string, error)
}

// StoreResult contains the result of storing a PDF
type StoreResult struct {
	// FileName is "{name}.pdf"
	FileName string
	// Path is the absolute file path
	Path string
	// Size is the file size in bytes
	Size int64
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the directory holding every invoice PDF.
	// Default: data/invoices
	BasePath string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage stores PDFs in a single directory as {invoiceNumber}.pdf
type FileSystemStorage struct {
	basePath string
	logger   *zap.Logger
}

// NewFileSystemStorage creates the base directory (idempotent) and returns the storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}
	basePath := config.BasePath
	if basePath == "" {
		basePath = "data/invoices"
	}

	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to resolve storage directory", err)
	}
	if err := os.MkdirAll(absBase, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", absBase), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		basePath: absBase,
		logger:   logger,
	}, nil
}

// BasePath returns the absolute storage directory
func (s *FileSystemStorage) BasePath() string {
	return s.basePath
}

// Store writes the PDF to a temp file in the same directory and renames it
// over {name}.pdf, so readers never see a partial document. Concurrent
// stores of the same name are last-writer-wins.
func (s *FileSystemStorage) Store(ctx context.Context, name string, data []byte) (*StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if len(data) == 0 {
		return nil, NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}

	finalPath, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	// The directory may have been removed since start-up
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}

	tmp, err := os.CreateTemp(s.basePath, "."+filepath.Base(finalPath)+".*.tmp")
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create temp file", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to flush PDF file", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to close PDF file", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to set PDF permissions", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to move PDF into place", err)
	}
	committed = true

	s.logger.Info("PDF stored",
		zap.String("path", finalPath),
		zap.Int("size", len(data)))

	return &StoreResult{
		FileName: filepath.Base(finalPath),
		Path:     finalPath,
		Size:     int64(len(data)),
	}, nil
}

// Open returns the stored PDF for name
func (s *FileSystemStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewRenderError(ErrCodeNotFound, "PDF not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open PDF file", err)
	}
	return file, nil
}

// Path maps an invoice number to {base}/{name}.pdf. Names containing path
// separators or ".." are rejected.
func (s *FileSystemStorage) Path(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".pdf")
	if name == "" || name == "." {
		return "", NewRenderError(ErrCodeStorageFailed, "document name is empty", nil)
	}
	if containsDotDot(name) || strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		s.logger.Warn("blocked potentially malicious path", zap.String("name", name))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid document name", nil)
	}

	fullPath := filepath.Join(s.basePath, name+".pdf")
	if !strings.HasPrefix(fullPath, s.basePath+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("name", name),
			zap.String("path", fullPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid document name", nil)
	}
	return fullPath, nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

// Ensure FileSystemStorage implements PDFStorage
var _ PDFStorage = (*FileSystemStorage)(nil)
