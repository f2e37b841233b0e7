package permissions

import (
	"context"
	"errors"
	"fmt"
)

// Resolver answers ownership, assignment and team questions for entities,
// independent of the caller's role.
type Resolver struct {
	entities *EntityRegistry
	store    AccessStore
}

// NewResolver wires the entity registry and assignment/team tables.
func NewResolver(entities *EntityRegistry, store AccessStore) (*Resolver, error) {
	if entities == nil {
		return nil, errors.New("entity resolver: registry is required")
	}
	if store == nil {
		return nil, errors.New("entity resolver: store is required")
	}
	return &Resolver{entities: entities, store: store}, nil
}

// Entities exposes the registry used for lookups.
func (r *Resolver) Entities() *EntityRegistry {
	return r.entities
}

// CheckUserEntityAccess reports whether userID owns the entity or holds a
// direct user assignment on it. Ownership and assignment are independent:
// an assignment still grants access after the owner changes.
func (r *Resolver) CheckUserEntityAccess(ctx context.Context, userID uint, entityType string, entityID uint) (bool, error) {
	ctx = ensureContext(ctx)

	entity, err := r.entities.GetEntityByID(ctx, entityType, entityID)
	if err != nil {
		return false, err
	}
	if entity != nil && entity.OwnerID == userID {
		return true, nil
	}

	assigned, err := r.store.HasUserAssignment(ctx, userID, entityType, entityID)
	if err != nil {
		return false, fmt.Errorf("entity resolver: user assignment: %w", err)
	}
	return assigned, nil
}

// CheckTeamEntityAccess reports whether any team the user belongs to is
// assigned to the entity.
func (r *Resolver) CheckTeamEntityAccess(ctx context.Context, userID uint, entityType string, entityID uint) (bool, error) {
	ctx = ensureContext(ctx)

	teamIDs, err := r.store.ListUserTeamIDs(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("entity resolver: user teams: %w", err)
	}
	if len(teamIDs) == 0 {
		return false, nil
	}

	assigned, err := r.store.HasTeamAssignment(ctx, teamIDs, entityType, entityID)
	if err != nil {
		return false, fmt.Errorf("entity resolver: team assignment: %w", err)
	}
	return assigned, nil
}
