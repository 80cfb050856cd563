package storage

import (
	"context"
	"errors"

	"github.com/xaenox/trendlens/internal/models"
)

// DefaultCapacity is the maximum number of records the collection keeps
const DefaultCapacity = 1000

// ErrStorageUnavailable wraps every failure to read or write the collection
var ErrStorageUnavailable = errors.New("storage unavailable")

// Storage owns the bounded, oldest-first record collection. When an append
// would exceed the capacity, the oldest records are evicted first.
type Storage interface {
	GetTrendRecords(ctx context.Context) ([]models.ContentRecord, error)
	AppendRecord(ctx context.Context, record models.ContentRecord) error
	AppendRecords(ctx context.Context, records []models.ContentRecord) error
	SetRecords(ctx context.Context, records []models.ContentRecord) error
	Clear(ctx context.Context) error
	Close() error
}
