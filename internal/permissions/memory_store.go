package permissions

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charlesng35/bizsuite/internal/models"
)

type roleKey struct {
	role     Role
	moduleID uint
	action   Action
}

type userKey struct {
	userID   uint
	moduleID uint
	action   Action
}

type memberKey struct {
	teamID uint
	userID uint
}

// MemoryStore is a non-persistent Store used by tests and local development.
// It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint
	now    func() time.Time

	modules       map[uint]models.Module
	moduleByName  map[string]uint
	roles         map[roleKey]models.RolePermission
	overrides     map[userKey]models.UserPermission
	teams         map[uint]models.Team
	members       map[memberKey]models.TeamMember
	assignments   map[uint]models.Assignment
	failWith      error
	failOnMethods map[string]struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:          time.Now,
		modules:      make(map[uint]models.Module),
		moduleByName: make(map[string]uint),
		roles:        make(map[roleKey]models.RolePermission),
		overrides:    make(map[userKey]models.UserPermission),
		teams:        make(map[uint]models.Team),
		members:      make(map[memberKey]models.TeamMember),
		assignments:  make(map[uint]models.Assignment),
	}
}

// FailWith makes the named methods (or every method when none are given)
// return err. Passing a nil error clears the failure. Used to simulate
// data-access failures.
func (s *MemoryStore) FailWith(err error, methods ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failWith = err
	s.failOnMethods = nil
	if len(methods) > 0 {
		s.failOnMethods = make(map[string]struct{}, len(methods))
		for _, m := range methods {
			s.failOnMethods[m] = struct{}{}
		}
	}
}

// failure must be called with s.mu held.
func (s *MemoryStore) failure(method string) error {
	if s.failWith == nil {
		return nil
	}
	if s.failOnMethods == nil {
		return s.failWith
	}
	if _, ok := s.failOnMethods[method]; ok {
		return s.failWith
	}
	return nil
}

func (s *MemoryStore) allocID() uint {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) stamp(base *models.BaseModel) {
	now := s.now()
	if base.ID == 0 {
		base.ID = s.allocID()
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func (s *MemoryStore) CountModules(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("CountModules"); err != nil {
		return 0, err
	}
	return int64(len(s.modules)), nil
}

func (s *MemoryStore) ListModules(ctx context.Context) ([]models.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("ListModules"); err != nil {
		return nil, err
	}

	out := make([]models.Module, 0, len(s.modules))
	for _, m := range s.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MemoryStore) GetModuleByName(ctx context.Context, name string) (*models.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetModuleByName"); err != nil {
		return nil, err
	}

	id, ok := s.moduleByName[name]
	if !ok {
		return nil, nil
	}
	m := s.modules[id]
	return &m, nil
}

func (s *MemoryStore) SeedCatalog(ctx context.Context, modules []models.Module, policies []PolicySeed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("SeedCatalog"); err != nil {
		return err
	}
	if len(s.modules) > 0 {
		return ErrCatalogExists
	}

	byName := make(map[string]uint, len(modules))
	for i := range modules {
		if _, dup := byName[modules[i].Name]; dup {
			return fmt.Errorf("%w: module %s", ErrDuplicate, modules[i].Name)
		}
		s.stamp(&modules[i].BaseModel)
		byName[modules[i].Name] = modules[i].ID
	}

	roles := make(map[roleKey]models.RolePermission, len(policies))
	for _, seed := range policies {
		moduleID, ok := byName[seed.Module]
		if !ok {
			return fmt.Errorf("permissions: policy references unknown module %q", seed.Module)
		}
		key := roleKey{role: seed.Role, moduleID: moduleID, action: seed.Action}
		if _, dup := roles[key]; dup {
			return fmt.Errorf("%w: policy %s/%s/%s", ErrDuplicate, seed.Role, seed.Module, seed.Action)
		}
		row := models.RolePermission{
			Role:      string(seed.Role),
			ModuleID:  moduleID,
			Action:    string(seed.Action),
			IsAllowed: seed.IsAllowed,
		}
		s.stamp(&row.BaseModel)
		roles[key] = row
	}

	for _, m := range modules {
		s.modules[m.ID] = m
		s.moduleByName[m.Name] = m.ID
	}
	for key, row := range roles {
		s.roles[key] = row
	}
	return nil
}

func (s *MemoryStore) GetRolePermission(ctx context.Context, role Role, moduleID uint, action Action) (*models.RolePermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetRolePermission"); err != nil {
		return nil, err
	}

	row, ok := s.roles[roleKey{role: role, moduleID: moduleID, action: action}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *MemoryStore) SetRolePermission(ctx context.Context, role Role, moduleID uint, action Action, allowed bool) (*models.RolePermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("SetRolePermission"); err != nil {
		return nil, err
	}
	if _, ok := s.modules[moduleID]; !ok {
		return nil, ErrNotFound
	}
	row := s.putRolePermission(role, RoleChange{ModuleID: moduleID, Action: action, Allowed: allowed})
	return &row, nil
}

func (s *MemoryStore) SetRolePermissions(ctx context.Context, role Role, changes []RoleChange) ([]models.RolePermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("SetRolePermissions"); err != nil {
		return nil, err
	}
	for _, change := range changes {
		if _, ok := s.modules[change.ModuleID]; !ok {
			return nil, ErrNotFound
		}
	}

	rows := make([]models.RolePermission, 0, len(changes))
	for _, change := range changes {
		rows = append(rows, s.putRolePermission(role, change))
	}
	return rows, nil
}

// putRolePermission must be called with s.mu held.
func (s *MemoryStore) putRolePermission(role Role, change RoleChange) models.RolePermission {
	key := roleKey{role: role, moduleID: change.ModuleID, action: change.Action}
	row, ok := s.roles[key]
	if !ok {
		row = models.RolePermission{Role: string(role), ModuleID: change.ModuleID, Action: string(change.Action)}
	}
	row.IsAllowed = change.Allowed
	s.stamp(&row.BaseModel)
	s.roles[key] = row
	return row
}

func (s *MemoryStore) ListRolePermissions(ctx context.Context, role Role) ([]models.RolePermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("ListRolePermissions"); err != nil {
		return nil, err
	}

	var out []models.RolePermission
	for key, row := range s.roles {
		if key.role == role {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetUserPermission(ctx context.Context, userID, moduleID uint, action Action) (*models.UserPermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetUserPermission"); err != nil {
		return nil, err
	}

	row, ok := s.overrides[userKey{userID: userID, moduleID: moduleID, action: action}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *MemoryStore) SetUserPermission(ctx context.Context, override models.UserPermission) (*models.UserPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("SetUserPermission"); err != nil {
		return nil, err
	}
	if _, ok := s.modules[override.ModuleID]; !ok {
		return nil, ErrNotFound
	}

	key := userKey{userID: override.UserID, moduleID: override.ModuleID, action: Action(override.Action)}
	if existing, ok := s.overrides[key]; ok {
		override.BaseModel = existing.BaseModel
	} else {
		override.BaseModel = models.BaseModel{}
	}
	override.Module = nil
	s.stamp(&override.BaseModel)
	s.overrides[key] = override
	return &override, nil
}

func (s *MemoryStore) DeleteUserPermission(ctx context.Context, userID, moduleID uint, action Action) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteUserPermission"); err != nil {
		return false, err
	}

	key := userKey{userID: userID, moduleID: moduleID, action: action}
	if _, ok := s.overrides[key]; !ok {
		return false, nil
	}
	delete(s.overrides, key)
	return true, nil
}

func (s *MemoryStore) ListUserPermissions(ctx context.Context, userID uint) ([]models.UserPermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("ListUserPermissions"); err != nil {
		return nil, err
	}

	var out []models.UserPermission
	for key, row := range s.overrides {
		if key.userID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateTeam(ctx context.Context, team *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateTeam"); err != nil {
		return err
	}
	for _, existing := range s.teams {
		if existing.Name == team.Name {
			return ErrDuplicate
		}
	}

	team.ID = 0
	s.stamp(&team.BaseModel)
	stored := *team
	stored.Members = nil
	s.teams[team.ID] = stored
	return nil
}

func (s *MemoryStore) GetTeam(ctx context.Context, id uint) (*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetTeam"); err != nil {
		return nil, err
	}

	team, ok := s.teams[id]
	if !ok {
		return nil, nil
	}
	return &team, nil
}

func (s *MemoryStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("ListTeams"); err != nil {
		return nil, err
	}

	out := make([]models.Team, 0, len(s.teams))
	for _, team := range s.teams {
		out = append(out, team)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) DeleteTeam(ctx context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteTeam"); err != nil {
		return false, err
	}
	if _, ok := s.teams[id]; !ok {
		return false, nil
	}

	delete(s.teams, id)
	for key := range s.members {
		if key.teamID == id {
			delete(s.members, key)
		}
	}
	for aid, a := range s.assignments {
		if a.AssignedToType == models.AssigneeTeam && a.AssignedToID == id {
			delete(s.assignments, aid)
		}
	}
	return true, nil
}

func (s *MemoryStore) AddTeamMember(ctx context.Context, teamID, userID uint) (*models.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("AddTeamMember"); err != nil {
		return nil, err
	}
	if _, ok := s.teams[teamID]; !ok {
		return nil, ErrNotFound
	}

	key := memberKey{teamID: teamID, userID: userID}
	if _, exists := s.members[key]; exists {
		return nil, ErrDuplicate
	}
	member := models.TeamMember{TeamID: teamID, UserID: userID}
	s.stamp(&member.BaseModel)
	s.members[key] = member
	return &member, nil
}

func (s *MemoryStore) RemoveTeamMember(ctx context.Context, teamID, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("RemoveTeamMember"); err != nil {
		return false, err
	}

	key := memberKey{teamID: teamID, userID: userID}
	if _, ok := s.members[key]; !ok {
		return false, nil
	}
	delete(s.members, key)
	return true, nil
}

func (s *MemoryStore) ListTeamMembers(ctx context.Context, teamID uint) ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("ListTeamMembers"); err != nil {
		return nil, err
	}

	var out []models.TeamMember
	for key, member := range s.members {
		if key.teamID == teamID {
			out = append(out, member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *MemoryStore) ListUserTeamIDs(ctx context.Context, userID uint) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("ListUserTeamIDs"); err != nil {
		return nil, err
	}

	var ids []uint
	for key := range s.members {
		if key.userID == userID {
			ids = append(ids, key.teamID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryStore) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateAssignment"); err != nil {
		return err
	}

	assignment.ID = 0
	s.stamp(&assignment.BaseModel)
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = assignment.CreatedAt
	}
	s.assignments[assignment.ID] = *assignment
	return nil
}

func (s *MemoryStore) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetAssignment"); err != nil {
		return nil, err
	}

	a, ok := s.assignments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *MemoryStore) DeleteAssignment(ctx context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteAssignment"); err != nil {
		return false, err
	}
	if _, ok := s.assignments[id]; !ok {
		return false, nil
	}
	delete(s.assignments, id)
	return true, nil
}

func (s *MemoryStore) ListAssignments(ctx context.Context, entityType string, entityID uint) ([]models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("ListAssignments"); err != nil {
		return nil, err
	}

	var out []models.Assignment
	for _, a := range s.assignments {
		if a.EntityType == entityType && a.EntityID == entityID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) HasUserAssignment(ctx context.Context, userID uint, entityType string, entityID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("HasUserAssignment"); err != nil {
		return false, err
	}

	for _, a := range s.assignments {
		if a.AssignedToType == models.AssigneeUser && a.AssignedToID == userID &&
			a.EntityType == entityType && a.EntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) HasTeamAssignment(ctx context.Context, teamIDs []uint, entityType string, entityID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("HasTeamAssignment"); err != nil {
		return false, err
	}
	if len(teamIDs) == 0 {
		return false, nil
	}

	wanted := make(map[uint]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = struct{}{}
	}
	for _, a := range s.assignments {
		if a.AssignedToType != models.AssigneeTeam || a.EntityType != entityType || a.EntityID != entityID {
			continue
		}
		if _, ok := wanted[a.AssignedToID]; ok {
			return true, nil
		}
	}
	return false, nil
}
