package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

// ProxyRecordStoreAdapter persists dispatched proxy transactions as JSON
type ProxyRecordStoreAdapter struct {
	mu   sync.Mutex
	path string
}

// NewProxyRecordStoreAdapter creates a store under the data directory
func NewProxyRecordStoreAdapter(cfg *config.RuntimeConfig) *ProxyRecordStoreAdapter {
	return &ProxyRecordStoreAdapter{
		path: filepath.Join(cfg.DataDir, "proxies.json"),
	}
}

// Save appends a record
func (s *ProxyRecordStoreAdapter) Save(_ context.Context, record domain.ProxyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, record)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal proxy records: %w", err)
	}

	// Replace via rename so readers never see a partial file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write proxy records: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write proxy records: %w", err)
	}
	return nil
}

// List returns matching records, newest first
func (s *ProxyRecordStoreAdapter) List(_ context.Context, filter domain.ProxyRecordFilter) ([]domain.ProxyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	matched := lo.Filter(records, func(r domain.ProxyRecord, _ int) bool {
		return filter.Matches(r)
	})
	slices.SortStableFunc(matched, func(a, b domain.ProxyRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return matched, nil
}

func (s *ProxyRecordStoreAdapter) load() ([]domain.ProxyRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.ProxyRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read proxy records: %w", err)
	}

	var records []domain.ProxyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse proxy records: %w", err)
	}
	return records, nil
}
