package permissions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Entity type tags understood by the access resolver.
const (
	EntityLead        = "lead"
	EntityContact     = "contact"
	EntityAccount     = "account"
	EntityOpportunity = "opportunity"
)

// EntityRef is the minimal projection of a record needed for access checks.
type EntityRef struct {
	Type    string
	ID      uint
	OwnerID uint
}

// EntityLookup loads the record with id. It returns nil, nil when the record
// does not exist.
type EntityLookup func(ctx context.Context, id uint) (*EntityRef, error)

var errEmptyEntityType = errors.New("entity registry: type is required")

// EntityRegistry dispatches entity lookups by type tag.
type EntityRegistry struct {
	mu      sync.RWMutex
	lookups map[string]EntityLookup
}

// NewEntityRegistry returns an empty registry.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{lookups: make(map[string]EntityLookup)}
}

// Register binds lookup to entityType, replacing any previous binding.
func (r *EntityRegistry) Register(entityType string, lookup EntityLookup) error {
	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return errEmptyEntityType
	}
	if lookup == nil {
		return fmt.Errorf("entity registry: nil lookup for %s", entityType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[entityType] = lookup
	return nil
}

// Types lists the registered entity type tags.
func (r *EntityRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.lookups))
	for t := range r.lookups {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Has reports whether entityType has a registered lookup.
func (r *EntityRegistry) Has(entityType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lookups[entityType]
	return ok
}

// GetEntityByID resolves a record. Unknown types and missing records both
// yield nil without error.
func (r *EntityRegistry) GetEntityByID(ctx context.Context, entityType string, id uint) (*EntityRef, error) {
	r.mu.RLock()
	lookup, ok := r.lookups[entityType]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	ref, err := lookup(ensureContext(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("entity registry: load %s %d: %w", entityType, id, err)
	}
	if ref == nil {
		return nil, nil
	}
	ref.Type = entityType
	ref.ID = id
	return ref, nil
}
