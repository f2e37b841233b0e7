package permissions

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/pkg/metrics"
)

// DefaultModuleCacheSize comfortably holds the built-in catalog.
const DefaultModuleCacheSize = 64

// ModuleCache memoises module lookups. Modules are long-lived configuration,
// so only hits are cached; a miss always falls through to the store so that
// a module added later becomes visible without a restart.
type ModuleCache struct {
	source ModuleLookup
	cache  *lru.Cache[string, models.Module]
}

// NewModuleCache wraps source with an LRU of the given size.
func NewModuleCache(source ModuleLookup, size int) (*ModuleCache, error) {
	if source == nil {
		return nil, fmt.Errorf("module cache: source is required")
	}
	if size <= 0 {
		size = DefaultModuleCacheSize
	}
	cache, err := lru.New[string, models.Module](size)
	if err != nil {
		return nil, fmt.Errorf("module cache: %w", err)
	}
	return &ModuleCache{source: source, cache: cache}, nil
}

// GetModuleByName implements ModuleLookup.
func (c *ModuleCache) GetModuleByName(ctx context.Context, name string) (*models.Module, error) {
	if module, ok := c.cache.Get(name); ok {
		metrics.ModuleCacheLookups.WithLabelValues("hit").Inc()
		return &module, nil
	}
	metrics.ModuleCacheLookups.WithLabelValues("miss").Inc()

	module, err := c.source.GetModuleByName(ctx, name)
	if err != nil || module == nil {
		return module, err
	}
	c.cache.Add(name, *module)
	return module, nil
}

// Purge drops every cached module.
func (c *ModuleCache) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached modules.
func (c *ModuleCache) Len() int {
	return c.cache.Len()
}
