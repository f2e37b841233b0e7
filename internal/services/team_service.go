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

// CreateTeamInput captures new team metadata.
type CreateTeamInput struct {
	Name        string
	Description string
}

// TeamService handles team lifecycle and membership management.
type TeamService struct {
	store        permissions.TeamStore
	users        *UserService
	auditService *AuditService
}

// NewTeamService constructs a TeamService instance.
func NewTeamService(store permissions.TeamStore, users *UserService, auditService *AuditService) (*TeamService, error) {
	if store == nil {
		return nil, errors.New("team service: store is required")
	}
	if users == nil {
		return nil, errors.New("team service: user service is required")
	}
	return &TeamService{
		store:        store,
		users:        users,
		auditService: auditService,
	}, nil
}

// Create registers a new team.
func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("team name is required")
	}

	team := &models.Team{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}

	if err := s.store.CreateTeam(ctx, team); err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrTeamExists
		}
		return nil, fmt.Errorf("team service: create team: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "team.create",
		Resource: fmt.Sprintf("team:%d", team.ID),
		Result:   AuditSuccess,
		Metadata: map[string]any{"name": team.Name},
	})

	return team, nil
}

// List returns every team ordered by name.
func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	ctx = ensureContext(ctx)

	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("team service: list teams: %w", err)
	}
	return teams, nil
}

// GetByID loads a team together with its members.
func (s *TeamService) GetByID(ctx context.Context, id uint) (*models.Team, error) {
	ctx = ensureContext(ctx)

	team, err := s.store.GetTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("team service: load team: %w", err)
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}

	members, err := s.store.ListTeamMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("team service: list members: %w", err)
	}
	team.Members = members
	return team, nil
}

// Delete removes a team, its memberships and its assignments.
func (s *TeamService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	deleted, err := s.store.DeleteTeam(ctx, id)
	if err != nil {
		return fmt.Errorf("team service: delete team: %w", err)
	}
	if !deleted {
		return ErrTeamNotFound
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "team.delete",
		Resource: fmt.Sprintf("team:%d", id),
		Result:   AuditSuccess,
	})
	return nil
}

// AddMember attaches userID to the team.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID uint) (*models.TeamMember, error) {
	ctx = ensureContext(ctx)

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	member, err := s.store.AddTeamMember(ctx, teamID, userID)
	switch {
	case errors.Is(err, permissions.ErrNotFound):
		return nil, ErrTeamNotFound
	case isUniqueConstraintError(err):
		return nil, ErrTeamMemberAlreadyExists
	case err != nil:
		return nil, fmt.Errorf("team service: add member: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "team.member.add",
		Resource: fmt.Sprintf("team:%d", teamID),
		Result:   AuditSuccess,
		Metadata: map[string]any{"user_id": userID},
	})
	return member, nil
}

// RemoveMember detaches userID from the team. Access inherited through the
// team ends immediately.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uint) error {
	ctx = ensureContext(ctx)

	removed, err := s.store.RemoveTeamMember(ctx, teamID, userID)
	if err != nil {
		return fmt.Errorf("team service: remove member: %w", err)
	}
	if !removed {
		return ErrTeamMemberNotFound
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "team.member.remove",
		Resource: fmt.Sprintf("team:%d", teamID),
		Result:   AuditSuccess,
		Metadata: map[string]any{"user_id": userID},
	})
	return nil
}
