package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
	apperrors "github.com/charlesng35/bizsuite/pkg/errors"
)

// AssignInput describes an explicit entity grant.
type AssignInput struct {
	EntityType   string
	EntityID     uint
	AssigneeType string
	AssigneeID   uint
	Notes        string
}

// AssignmentStore is the persistence surface AssignmentService needs.
type AssignmentStore interface {
	permissions.AssignmentStore
	GetTeam(ctx context.Context, id uint) (*models.Team, error)
}

// AssignmentService creates and removes entity assignments.
type AssignmentService struct {
	store        AssignmentStore
	entities     *permissions.EntityRegistry
	users        *UserService
	auditService *AuditService
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(store AssignmentStore, entities *permissions.EntityRegistry, users *UserService, audit *AuditService) (*AssignmentService, error) {
	if store == nil {
		return nil, errors.New("assignment service: store is required")
	}
	if entities == nil {
		return nil, errors.New("assignment service: entity registry is required")
	}
	if users == nil {
		return nil, errors.New("assignment service: user service is required")
	}
	return &AssignmentService{store: store, entities: entities, users: users, auditService: audit}, nil
}

// Assign records a grant after checking that the entity and assignee exist.
func (s *AssignmentService) Assign(ctx context.Context, input AssignInput) (*models.Assignment, error) {
	ctx = ensureContext(ctx)

	entityType := strings.TrimSpace(input.EntityType)
	if err := s.requireEntity(ctx, entityType, input.EntityID); err != nil {
		return nil, err
	}

	assigneeType := strings.ToLower(strings.TrimSpace(input.AssigneeType))
	switch assigneeType {
	case models.AssigneeUser:
		exists, err := s.users.Exists(ctx, input.AssigneeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrUserNotFound
		}
	case models.AssigneeTeam:
		team, err := s.store.GetTeam(ctx, input.AssigneeID)
		if err != nil {
			return nil, fmt.Errorf("assignment service: load team: %w", err)
		}
		if team == nil {
			return nil, ErrTeamNotFound
		}
	default:
		return nil, apperrors.NewBadRequest("assigned_to_type must be user or team")
	}

	assignment := &models.Assignment{
		EntityType:     entityType,
		EntityID:       input.EntityID,
		AssignedToType: assigneeType,
		AssignedToID:   input.AssigneeID,
		Notes:          strings.TrimSpace(input.Notes),
	}
	if actor := actorID(ctx); actor != nil {
		assignment.AssignedBy = *actor
	}

	if err := s.store.CreateAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("assignment service: create: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "assignment.create",
		Resource: fmt.Sprintf("%s:%d", entityType, input.EntityID),
		Result:   AuditSuccess,
		Metadata: map[string]any{
			"assignment_id":    assignment.ID,
			"assigned_to_type": assigneeType,
			"assigned_to_id":   input.AssigneeID,
		},
	})

	return assignment, nil
}

// List returns the assignments on one entity.
func (s *AssignmentService) List(ctx context.Context, entityType string, entityID uint) ([]models.Assignment, error) {
	ctx = ensureContext(ctx)

	if !s.entities.Has(entityType) {
		return nil, ErrEntityTypeUnknown
	}
	rows, err := s.store.ListAssignments(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("assignment service: list: %w", err)
	}
	return rows, nil
}

// Get loads one assignment.
func (s *AssignmentService) Get(ctx context.Context, id uint) (*models.Assignment, error) {
	ctx = ensureContext(ctx)

	assignment, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("assignment service: get: %w", err)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}
	return assignment, nil
}

// Delete revokes an assignment. Ownership is unaffected.
func (s *AssignmentService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	assignment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteAssignment(ctx, id)
	if err != nil {
		return fmt.Errorf("assignment service: delete: %w", err)
	}
	if !deleted {
		return ErrAssignmentNotFound
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "assignment.delete",
		Resource: fmt.Sprintf("%s:%d", assignment.EntityType, assignment.EntityID),
		Result:   AuditSuccess,
		Metadata: map[string]any{"assignment_id": id},
	})
	return nil
}

func (s *AssignmentService) requireEntity(ctx context.Context, entityType string, entityID uint) error {
	if !s.entities.Has(entityType) {
		return ErrEntityTypeUnknown
	}
	ref, err := s.entities.GetEntityByID(ctx, entityType, entityID)
	if err != nil {
		return fmt.Errorf("assignment service: %w", err)
	}
	if ref == nil {
		return ErrEntityNotFound
	}
	return nil
}
