package permissions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ModuleDefinition describes a feature area registered in the static catalog.
type ModuleDefinition struct {
	Name        string
	DisplayName string
	Description string
	Order       int
}

type moduleRegistry struct {
	mu      sync.RWMutex
	modules map[string]*ModuleDefinition
}

var globalModules = &moduleRegistry{
	modules: make(map[string]*ModuleDefinition),
}

var (
	errNilModule       = errors.New("module: nil definition")
	errEmptyModuleName = errors.New("module: name is required")
	errDuplicateModule = errors.New("module: already registered")
)

// RegisterModule adds a module definition to the catalog.
func RegisterModule(def *ModuleDefinition) error {
	if def == nil {
		return errNilModule
	}

	name := strings.TrimSpace(def.Name)
	if name == "" {
		return errEmptyModuleName
	}

	cp := *def
	cp.Name = name
	if strings.TrimSpace(cp.DisplayName) == "" {
		cp.DisplayName = name
	}

	globalModules.mu.Lock()
	defer globalModules.mu.Unlock()

	if _, exists := globalModules.modules[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateModule, name)
	}
	globalModules.modules[name] = &cp
	return nil
}

// LookupModule returns a copy of the catalog entry for name. Matching is exact.
func LookupModule(name string) (ModuleDefinition, bool) {
	globalModules.mu.RLock()
	defer globalModules.mu.RUnlock()

	def, ok := globalModules.modules[name]
	if !ok {
		return ModuleDefinition{}, false
	}
	return *def, true
}

// Modules returns every registered module ordered by Order, then name.
func Modules() []ModuleDefinition {
	globalModules.mu.RLock()
	out := make([]ModuleDefinition, 0, len(globalModules.modules))
	for _, def := range globalModules.modules {
		out = append(out, *def)
	}
	globalModules.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func unregisterModule(name string) {
	globalModules.mu.Lock()
	defer globalModules.mu.Unlock()
	delete(globalModules.modules, name)
}
