package storage

import (
	"context"
	"sync"

	"github.com/xaenox/trendlens/internal/models"
)

type MemoryStorage struct {
	mu  sync.RWMutex
	log *BoundedLog[models.ContentRecord]
}

func NewMemoryStorage(capacity int) *MemoryStorage {
	return &MemoryStorage{
		log: NewBoundedLog[models.ContentRecord](capacity),
	}
}

func (s *MemoryStorage) GetTrendRecords(ctx context.Context) ([]models.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.log.Get(), nil
}

func (s *MemoryStorage) AppendRecord(ctx context.Context, record models.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Append(record)
	return nil
}

func (s *MemoryStorage) AppendRecords(ctx context.Context, records []models.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.log.Append(r)
	}
	return nil
}

func (s *MemoryStorage) SetRecords(ctx context.Context, records []models.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Set(records)
	return nil
}

func (s *MemoryStorage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Reset()
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
