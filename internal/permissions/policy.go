package permissions

// Modules where a Manager may not delete.
var managerNoDelete = map[string]struct{}{
	ModuleUsers:         {},
	ModuleSettings:      {},
	ModuleSubscriptions: {},
}

// Modules where a plain User may create and update records.
var userWritable = map[string]struct{}{
	ModuleContacts:       {},
	ModuleLeads:          {},
	ModuleOpportunities:  {},
	ModuleTasks:          {},
	ModuleEvents:         {},
	ModuleCommunications: {},
}

// Modules hidden from ReadOnly users entirely.
var readOnlyHidden = map[string]struct{}{
	ModuleSettings: {},
	ModuleUsers:    {},
}

// DefaultRoleAllows reports the seeded decision for role on module/action.
func DefaultRoleAllows(role Role, module string, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleManager:
		if action != ActionDelete {
			return true
		}
		_, denied := managerNoDelete[module]
		return !denied
	case RoleUser:
		if action == ActionView {
			return true
		}
		if action == ActionCreate || action == ActionUpdate {
			_, ok := userWritable[module]
			return ok
		}
		return false
	case RoleReadOnly:
		if action != ActionView {
			return false
		}
		_, hidden := readOnlyHidden[module]
		return !hidden
	default:
		return false
	}
}

// PolicySeed is one row of the default policy matrix, keyed by module name
// because module IDs are only known once the catalog has been stored.
type PolicySeed struct {
	Role      Role
	Module    string
	Action    Action
	IsAllowed bool
}

// DefaultPolicySeeds expands the matrix for every role, module and action.
func DefaultPolicySeeds(modules []string) []PolicySeed {
	seeds := make([]PolicySeed, 0, len(allRoles)*len(modules)*len(allActions))
	for _, role := range allRoles {
		for _, module := range modules {
			for _, action := range allActions {
				seeds = append(seeds, PolicySeed{
					Role:      role,
					Module:    module,
					Action:    action,
					IsAllowed: DefaultRoleAllows(role, module, action),
				})
			}
		}
	}
	return seeds
}
