// Package storage persists receipt files on the local filesystem, under a
// base directory that must live outside any statically served web root.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/upload"
)

// LocalReceiptStore writes receipts to baseDir/{ownerID}/{random}{ext}.
type LocalReceiptStore struct {
	baseDir string
	log     *logrus.Logger
}

func NewLocalReceiptStore(baseDir string, log *logrus.Logger) *LocalReceiptStore {
	return &LocalReceiptStore{baseDir: baseDir, log: log}
}

func (s *LocalReceiptStore) Save(ctx context.Context, ownerID string, file *upload.ValidatedFile) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("owner id is required")
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + file.Ext
	relPath := path(ownerID, name)

	fullPath, err := s.fullPath(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}
	if err := os.WriteFile(fullPath, file.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"path":     relPath,
		"size":     len(file.Bytes),
	}).Debug("receipt stored")

	return relPath, nil
}

func (s *LocalReceiptStore) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	fullPath, err := s.fullPath(relPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open receipt: %w", err)
	}
	return f, nil
}

// Remove deletes a stored receipt. A missing file is treated as already
// removed so retries and double-deletes stay quiet.
func (s *LocalReceiptStore) Remove(ctx context.Context, relPath string) error {
	fullPath, err := s.fullPath(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove receipt: %w", err)
	}
	return nil
}

// fullPath resolves a stored relative path and rejects anything escaping the
// base directory.
func (s *LocalReceiptStore) fullPath(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid receipt path %q", relPath)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func path(ownerID, name string) string {
	return ownerID + "/" + name
}
