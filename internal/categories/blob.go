package categories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/JaimeStill/clearcase/pkg/storage"
)

// BlobStore keeps every mapping in a single JSON document in blob storage.
// A missing document is an empty store; an unreadable one is logged and
// treated as empty.
type BlobStore struct {
	blobs  storage.System
	key    string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewBlobStore creates a store that reads and writes the document at key.
func NewBlobStore(blobs storage.System, key string, logger *slog.Logger) *BlobStore {
	return &BlobStore{
		blobs:  blobs,
		key:    key,
		logger: logger.With("store", "blob"),
	}
}

func (s *BlobStore) Get(ctx context.Context, key string) (Mapping, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings, err := s.read(ctx)
	if err != nil {
		return Mapping{}, false, err
	}
	m, ok := mappings[key]
	return m, ok, nil
}

// Put rewrites the document with m stored under key.
func (s *BlobStore) Put(ctx context.Context, key string, m Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings, err := s.read(ctx)
	if err != nil {
		return err
	}
	mappings[key] = m
	return s.write(ctx, mappings)
}

// PutIfAbsent rereads the document and leaves it untouched when it already
// holds key.
func (s *BlobStore) PutIfAbsent(ctx context.Context, key string, m Mapping) (Mapping, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings, err := s.read(ctx)
	if err != nil {
		return Mapping{}, false, err
	}
	if existing, ok := mappings[key]; ok {
		return existing, false, nil
	}

	mappings[key] = m
	if err := s.write(ctx, mappings); err != nil {
		return Mapping{}, false, err
	}
	return m, true, nil
}

func (s *BlobStore) write(ctx context.Context, mappings map[string]Mapping) error {
	data, err := json.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("encode mappings: %w", err)
	}
	return s.blobs.Upload(ctx, s.key, bytes.NewReader(data), "application/json")
}

func (s *BlobStore) read(ctx context.Context) (map[string]Mapping, error) {
	rc, err := s.blobs.Download(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return make(map[string]Mapping), nil
		}
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read mappings: %w", err)
	}

	mappings, err := decodeMappings(data)
	if err != nil {
		s.logger.Warn("category mapping document ignored", "key", s.key, "error", err)
		return make(map[string]Mapping), nil
	}
	return mappings, nil
}

func decodeMappings(data []byte) (map[string]Mapping, error) {
	mappings := make(map[string]Mapping)
	if len(bytes.TrimSpace(data)) == 0 {
		return mappings, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptMapping, err)
	}

	for k, v := range raw {
		m, err := decodeMapping(v)
		if err != nil {
			continue
		}
		mappings[k] = m
	}
	return mappings, nil
}

func decodeMapping(data []byte) (Mapping, error) {
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return Mapping{}, fmt.Errorf("%w: %v", ErrCorruptMapping, err)
	}
	if m.Category == "" {
		return Mapping{}, fmt.Errorf("%w: missing category", ErrCorruptMapping)
	}
	return m, nil
}
