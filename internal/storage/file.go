package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/sellermate/prowl/internal/types"
)

// FileStorage appends records to a JSON Lines file, one record per
// line.
type FileStorage struct {
	mu     sync.Mutex
	file   *os.File
	enc    *json.Encoder
	logger *slog.Logger
}

func NewFileStorage(path string, logger *slog.Logger) (*FileStorage, error) {
	if path == "" {
		path = "products.jsonl"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return &FileStorage{
		file:   f,
		enc:    json.NewEncoder(f),
		logger: logger.With("component", "storage", "sink", "json"),
	}, nil
}

func (s *FileStorage) Name() string { return "json" }

func (s *FileStorage) Store(ctx context.Context, rec *types.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	s.logger.Debug("record written", "url", rec.SourceURL)
	return nil
}

func (s *FileStorage) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
