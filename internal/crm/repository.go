package crm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

// Repository persists one CRM record type. Field access goes through the
// accessor supplied at construction so no reflection is needed.
type Repository[T any] struct {
	db         *gorm.DB
	entityType string
	module     string
	fields     func(*T) (*models.BaseModel, *uint)
}

func newRepository[T any](db *gorm.DB, entityType, module string, fields func(*T) (*models.BaseModel, *uint)) (*Repository[T], error) {
	if db == nil {
		return nil, fmt.Errorf("%s repository: db is required", entityType)
	}
	return &Repository[T]{db: db, entityType: entityType, module: module, fields: fields}, nil
}

// EntityType returns the tag used by the access resolver.
func (r *Repository[T]) EntityType() string { return r.entityType }

// Module returns the permission module guarding this record type.
func (r *Repository[T]) Module() string { return r.module }

// ID returns the primary key of record.
func (r *Repository[T]) ID(record *T) uint {
	base, _ := r.fields(record)
	return base.ID
}

// OwnerID returns the owning user of record.
func (r *Repository[T]) OwnerID(record *T) uint {
	_, owner := r.fields(record)
	return *owner
}

// Get loads a record, returning nil when it does not exist.
func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	var record T
	err := r.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s repository: get %d: %w", r.entityType, id, err)
	}
	return &record, nil
}

// List returns every record ordered by ID.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%s repository: list: %w", r.entityType, err)
	}
	return records, nil
}

// Create inserts record owned by ownerID. Any client supplied ID is ignored.
func (r *Repository[T]) Create(ctx context.Context, record *T, ownerID uint) error {
	base, owner := r.fields(record)
	*base = models.BaseModel{}
	*owner = ownerID

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("%s repository: create: %w", r.entityType, err)
	}
	return nil
}

// SetOwner moves ownership of id to ownerID. It reports false when the
// record does not exist.
func (r *Repository[T]) SetOwner(ctx context.Context, id, ownerID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Update("owner_id", ownerID)
	if res.Error != nil {
		return false, fmt.Errorf("%s repository: set owner: %w", r.entityType, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Lookup implements permissions.EntityLookup with a single-column read.
func (r *Repository[T]) Lookup(ctx context.Context, id uint) (*permissions.EntityRef, error) {
	var row struct {
		OwnerID uint
	}
	res := r.db.WithContext(ctx).Model(new(T)).Select("owner_id").Where("id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("%s repository: lookup %d: %w", r.entityType, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &permissions.EntityRef{OwnerID: row.OwnerID}, nil
}
