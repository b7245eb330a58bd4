package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/entity"
	"go.uber.org/zap"
)

// FilesystemStore keeps blobs under a root directory, one file per key.
type FilesystemStore struct {
	root   string
	logger *zap.Logger
}

var _ Store = (*FilesystemStore)(nil)

func NewFilesystemStore(cfg config.BlobStoreConfig, logger *zap.Logger) (*FilesystemStore, error) {
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}

	logger.Info("blob store opened", zap.String("root", cfg.Root))

	return &FilesystemStore{
		root:   cfg.Root,
		logger: logger,
	}, nil
}

func (s *FilesystemStore) Put(ctx context.Context, category Category, name string, data []byte) (string, error) {
	key := makeKey(category, name)

	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create blob directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob %s: %w", key, err)
	}

	s.logger.Debug("blob stored",
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return key, nil
}

func (s *FilesystemStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}

	return data, nil
}

func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

// resolve maps a key to a path inside the root, rejecting traversal.
func (s *FilesystemStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: blob key %q", entity.ErrInvalidParameter, key)
	}
	return filepath.Join(s.root, cleaned), nil
}
