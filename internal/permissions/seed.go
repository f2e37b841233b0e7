package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/charlesng35/bizsuite/internal/models"
)

// Seed persists the module catalog and default role policies when the store
// is empty. It reports whether anything was written; a populated store is
// left untouched so administrator edits survive restarts.
func Seed(ctx context.Context, store PolicyStore) (bool, error) {
	if store == nil {
		return false, errors.New("permission seed: store is required")
	}
	ctx = ensureContext(ctx)

	count, err := store.CountModules(ctx)
	if err != nil {
		return false, fmt.Errorf("permission seed: probe modules: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	defs := Modules()
	modules := make([]models.Module, 0, len(defs))
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		modules = append(modules, models.Module{
			Name:        def.Name,
			DisplayName: def.DisplayName,
			Description: def.Description,
			OrderIndex:  def.Order,
			IsActive:    true,
		})
		names = append(names, def.Name)
	}

	err = store.SeedCatalog(ctx, modules, DefaultPolicySeeds(names))
	if errors.Is(err, ErrCatalogExists) {
		// Another process seeded between the probe and the write.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("permission seed: %w", err)
	}
	return true, nil
}
