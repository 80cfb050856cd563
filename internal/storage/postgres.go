package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xaenox/trendlens/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Capacity int
}

type PostgresStorage struct {
	db       *sql.DB
	capacity int
	logger   *zap.Logger
}

const (
	insertRecordQuery = `
		INSERT INTO trend_records (id, url, content_type, format, characteristics, engagement, keywords, topics, observed_at, page_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	trimRecordsQuery = `
		DELETE FROM trend_records
		WHERE seq <= (SELECT seq FROM trend_records ORDER BY seq DESC OFFSET $1 LIMIT 1)`

	selectRecordsQuery = `
		SELECT id, url, content_type, format, characteristics, engagement, keywords, topics, observed_at, page_url
		FROM trend_records
		ORDER BY seq ASC`

	deleteRecordsQuery = `DELETE FROM trend_records`
)

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: error connecting to the database: %w", ErrStorageUnavailable, err)
	}

	storage := newPostgresStorage(db, config.Capacity, logger)

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", config.Host),
		zap.String("database", config.DBName),
		zap.Int("capacity", storage.capacity))

	return storage, nil
}

func newPostgresStorage(db *sql.DB, capacity int, logger *zap.Logger) *PostgresStorage {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStorage{db: db, capacity: capacity, logger: logger}
}

func (s *PostgresStorage) initializeSchema() error {
	// Read migrations file
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	// Execute migrations
	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetTrendRecords(ctx context.Context) ([]models.ContentRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectRecordsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: error querying records: %w", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	records := make([]models.ContentRecord, 0, s.capacity)
	for rows.Next() {
		var (
			rec       models.ContentRecord
			mediaType string
			format    string
		)
		err := rows.Scan(
			&rec.ID,
			&rec.URL,
			&mediaType,
			&format,
			pq.Array(&rec.Characteristics),
			&rec.Engagement,
			pq.Array(&rec.Metadata.Keywords),
			pq.Array(&rec.Metadata.Topics),
			&rec.Timestamp,
			&rec.PageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: error scanning record: %w", ErrStorageUnavailable, err)
		}
		rec.Type = models.MediaType(mediaType)
		rec.Format = models.Format(format)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating records: %w", ErrStorageUnavailable, err)
	}

	return records, nil
}

func (s *PostgresStorage) AppendRecord(ctx context.Context, record models.ContentRecord) error {
	return s.AppendRecords(ctx, []models.ContentRecord{record})
}

func (s *PostgresStorage) AppendRecords(ctx context.Context, records []models.ContentRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertRecords(ctx, tx, records); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, trimRecordsQuery, s.capacity)
		if err != nil {
			return fmt.Errorf("error evicting old records: %w", err)
		}
		if evicted, err := result.RowsAffected(); err == nil && evicted > 0 {
			s.logger.Debug("Evicted oldest records", zap.Int64("count", evicted))
		}
		return nil
	})
}

func (s *PostgresStorage) SetRecords(ctx context.Context, records []models.ContentRecord) error {
	if over := len(records) - s.capacity; over > 0 {
		records = records[over:]
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteRecordsQuery); err != nil {
			return fmt.Errorf("error clearing records: %w", err)
		}
		return insertRecords(ctx, tx, records)
	})
}

func (s *PostgresStorage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, deleteRecordsQuery); err != nil {
		return fmt.Errorf("%w: error clearing records: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func (s *PostgresStorage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: error starting transaction: %w", ErrStorageUnavailable, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: error committing transaction: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, records []models.ContentRecord) error {
	stmt, err := tx.PrepareContext(ctx, insertRecordQuery)
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		format := rec.Format
		if format == "" {
			format = models.UnknownFormat
		}
		_, err := stmt.ExecContext(ctx,
			id,
			rec.URL,
			string(rec.Type),
			string(format),
			pq.Array(nonNilStrings(rec.Characteristics)),
			rec.Engagement,
			pq.Array(nonNilStrings(rec.Metadata.Keywords)),
			pq.Array(nonNilStrings(rec.Metadata.Topics)),
			rec.Timestamp,
			rec.PageURL,
		)
		if err != nil {
			return fmt.Errorf("error inserting record %s: %w", rec.URL, err)
		}
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
