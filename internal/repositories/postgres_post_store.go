package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

// PostRecord is one row of the post_records table.
type PostRecord struct {
	Key       string         `gorm:"primaryKey;type:text"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (PostRecord) TableName() string {
	return "post_records"
}

// PostgresPostStore implements PostStore for PostgreSQL
type PostgresPostStore struct {
	db *gorm.DB
}

// NewPostgresPostStore creates a new PostgresPostStore, migrating its table.
func NewPostgresPostStore(db *gorm.DB) (*PostgresPostStore, error) {
	if err := db.AutoMigrate(&PostRecord{}); err != nil {
		return nil, fmt.Errorf("migrate post_records: %w", err)
	}
	return &PostgresPostStore{db: db}, nil
}

func (s *PostgresPostStore) Get(ctx context.Context, key string) (*models.Post, error) {
	var record PostRecord
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post %q: %w", key, err)
	}
	return decodePost(key, record.Payload)
}

func (s *PostgresPostStore) Set(ctx context.Context, key string, post *models.Post) error {
	data, err := encodePost(post)
	if err != nil {
		return err
	}
	record := PostRecord{Key: key, Payload: datatypes.JSON(data), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("upsert post %q: %w", key, err)
	}
	return nil
}

func (s *PostgresPostStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&PostRecord{}).Error; err != nil {
		return fmt.Errorf("delete post %q: %w", key, err)
	}
	return nil
}

func (s *PostgresPostStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&PostRecord{}).Order("key").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return keys, nil
}

func (s *PostgresPostStore) Name() string {
	return "postgres_persistent"
}

// Close closes the underlying connection pool.
func (s *PostgresPostStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
