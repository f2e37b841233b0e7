package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charlesng35/bizsuite/internal/crm"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

// EntityAccessChecker decides per-record visibility for the caller in ctx.
type EntityAccessChecker interface {
	HasEntityAccess(ctx context.Context, entityType string, entityID uint) bool
}

// RecordService exposes one CRM record type with per-record access filtering.
type RecordService[T any] struct {
	repo         *crm.Repository[T]
	access       EntityAccessChecker
	users        *UserService
	auditService *AuditService
}

// NewRecordService constructs a RecordService over repo.
func NewRecordService[T any](repo *crm.Repository[T], access EntityAccessChecker, users *UserService, audit *AuditService) (*RecordService[T], error) {
	if repo == nil {
		return nil, errors.New("record service: repository is required")
	}
	if access == nil {
		return nil, errors.New("record service: access checker is required")
	}
	if users == nil {
		return nil, errors.New("record service: user service is required")
	}
	return &RecordService[T]{repo: repo, access: access, users: users, auditService: audit}, nil
}

// EntityType returns the entity tag of the managed records.
func (s *RecordService[T]) EntityType() string { return s.repo.EntityType() }

// Module returns the permission module guarding the records.
func (s *RecordService[T]) Module() string { return s.repo.Module() }

// List returns the records the caller in ctx may access.
func (s *RecordService[T]) List(ctx context.Context) ([]T, error) {
	ctx = ensureContext(ctx)

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]T, 0, len(records))
	for i := range records {
		if s.access.HasEntityAccess(ctx, s.repo.EntityType(), s.repo.ID(&records[i])) {
			visible = append(visible, records[i])
		}
	}
	return visible, nil
}

// Get loads one record.
func (s *RecordService[T]) Get(ctx context.Context, id uint) (*T, error) {
	ctx = ensureContext(ctx)

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrEntityNotFound
	}
	return record, nil
}

// Create stores record owned by the caller in ctx.
func (s *RecordService[T]) Create(ctx context.Context, record *T) (*T, error) {
	ctx = ensureContext(ctx)

	principal, ok := permissions.PrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("record service: caller identity is required")
	}
	if err := s.repo.Create(ctx, record, principal.UserID); err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   s.repo.EntityType() + ".create",
		Resource: fmt.Sprintf("%s:%d", s.repo.EntityType(), s.repo.ID(record)),
		Result:   AuditSuccess,
	})
	return record, nil
}

// Reassign transfers ownership to ownerID. Existing assignments stay in
// place, so previously granted users keep their access.
func (s *RecordService[T]) Reassign(ctx context.Context, id, ownerID uint) (*T, error) {
	ctx = ensureContext(ctx)

	exists, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	previous, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Some drivers report zero affected rows when the owner is unchanged;
	// existence was already confirmed above.
	if _, err := s.repo.SetOwner(ctx, id, ownerID); err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   s.repo.EntityType() + ".reassign",
		Resource: fmt.Sprintf("%s:%d", s.repo.EntityType(), id),
		Result:   AuditSuccess,
		Metadata: map[string]any{
			"from_owner_id": s.repo.OwnerID(previous),
			"to_owner_id":   ownerID,
		},
	})

	return s.Get(ctx, id)
}
