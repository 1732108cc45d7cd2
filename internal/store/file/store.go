// Package file persists the tool collection as a single JSON array on disk.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/toolshelf/internal/domain"
	"github.com/MrSnakeDoc/toolshelf/internal/logger"
)

// Store reads and rewrites the whole collection on every call. Writes from
// this process are serialized; other processes writing the same file win or
// lose by timing.
type Store struct {
	path   string
	logger logger.Logger

	mu       sync.Mutex
	lastSave time.Time
}

// Stats is the store summary reported by /infra.
type Stats struct {
	Path     string    `json:"path"`
	Records  int       `json:"records"`
	LastSave time.Time `json:"last_save,omitzero"`
}

func New(path string, log logger.Logger) *Store {
	return &Store{path: path, logger: log}
}

func (s *Store) Path() string { return s.path }

// Load returns the collection in insertion order. A missing file is an empty
// collection; so is a file that cannot be read or decoded, which is logged.
func (s *Store) Load() []domain.Tool {
	data, err := s.read()
	if err != nil {
		s.logger.Warn("tools file unreadable, using empty collection",
			logger.String("path", s.path),
			logger.Error(err),
		)
		return []domain.Tool{}
	}
	return s.decode(data)
}

// read returns the raw file content, nil when the file does not exist.
func (s *Store) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tools: %w", err)
	}
	return data, nil
}

// loadForWrite is Load for Append and Delete: a file that exists but cannot
// be read is an error, so it never gets overwritten.
func (s *Store) loadForWrite() ([]domain.Tool, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return s.decode(data), nil
}

// decode parses the array record by record. A body that is not an array is an
// empty collection; an element that is not an object is skipped.
func (s *Store) decode(data []byte) []domain.Tool {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Tool{}
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		s.logger.Warn("tools file is not a valid collection, using empty collection",
			logger.String("path", s.path),
			logger.Error(err),
		)
		return []domain.Tool{}
	}

	tools := make([]domain.Tool, 0, len(raws))
	for i, raw := range raws {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			s.logger.Warn("skipping tools entry that is not an object",
				logger.String("path", s.path),
				logger.Int("index", i),
			)
			continue
		}
		tools = append(tools, fromFields(fields))
	}
	return tools
}

// fromFields maps one stored object to a Tool. Fields of the wrong type count
// as absent. Older files used texto_original.
func fromFields(f map[string]any) domain.Tool {
	t := domain.Tool{
		ID:           stringField(f, "id"),
		Title:        stringField(f, "titulo"),
		Emoji:        stringField(f, "emoji"),
		Category:     stringField(f, "categoria"),
		Description:  stringField(f, "descricao"),
		URL:          stringField(f, "url"),
		OriginalText: stringField(f, "original_text"),
	}
	if t.OriginalText == "" {
		t.OriginalText = stringField(f, "texto_original")
	}
	if ts, err := time.Parse(time.RFC3339Nano, stringField(f, "created_at")); err == nil {
		t.CreatedAt = ts
	}
	if t.ID == "" {
		t.ID = domain.ContentID(t)
	}
	return t
}

func stringField(f map[string]any, key string) string {
	v, _ := f[key].(string)
	return v
}

// Save replaces the file content with tools. The data goes to a temp file
// first and is renamed over the target, so readers never see a partial write.
func (s *Store) Save(ctx context.Context, tools []domain.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, tools)
}

// Append adds t at the end of the collection.
func (s *Store) Append(ctx context.Context, t domain.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tools, err := s.loadForWrite()
	if err != nil {
		return err
	}
	return s.save(ctx, append(tools, t))
}

// Delete removes the first record with id. It reports false, and writes
// nothing, when no record matches.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tools, err := s.loadForWrite()
	if err != nil {
		return false, err
	}
	idx := domain.IndexByID(tools, id)
	if idx < 0 {
		return false, nil
	}

	tools = slices.Delete(tools, idx, idx+1)
	if err := s.save(ctx, tools); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	last := s.lastSave
	s.mu.Unlock()

	return Stats{
		Path:     s.path,
		Records:  len(s.Load()),
		LastSave: last,
	}
}

func (s *Store) save(ctx context.Context, tools []domain.Tool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save tools: %w", err)
	}
	if tools == nil {
		tools = []domain.Tool{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tools); err != nil {
		return fmt.Errorf("encode tools: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tools dir: %w", err)
		}
	}

	// Replace the link target, not the link.
	target := s.path
	if resolved, err := filepath.EvalSymlinks(s.path); err == nil {
		target = resolved
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write tools: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace tools file: %w", err)
	}

	s.lastSave = time.Now()
	s.logger.Debug("tools saved",
		logger.String("path", target),
		logger.Int("records", len(tools)),
		logger.Time("saved_at", s.lastSave),
	)
	return nil
}
