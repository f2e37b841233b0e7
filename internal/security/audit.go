package security

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	iauth "github.com/charlesng35/bizsuite/internal/auth"
	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

// CheckStatus captures the outcome of a posture check.
type CheckStatus string

const (
	StatusPass CheckStatus = "pass"
	StatusWarn CheckStatus = "warn"
	StatusFail CheckStatus = "fail"
)

const maxRecommendedTokenTTL = time.Hour

// Check contains the result of a single verification.
type Check struct {
	ID          string      `json:"id"`
	Status      CheckStatus `json:"status"`
	Message     string      `json:"message"`
	Remediation string      `json:"remediation,omitempty"`
	Details     any         `json:"details,omitempty"`
}

// Result aggregates all checks with a status summary.
type Result struct {
	CheckedAt time.Time      `json:"checked_at"`
	Checks    []Check        `json:"checks"`
	Summary   map[string]int `json:"summary"`
}

// Auditor evaluates the authorization posture of a running deployment:
// administrator coverage, signing secret strength, the manager blanket
// access switch, catalog completeness and privileged user overrides.
type Auditor struct {
	db                  *gorm.DB
	jwt                 *iauth.JWTService
	managerEntityAccess bool
	now                 func() time.Time
}

// NewAuditor constructs the auditor. A nil db or jwt degrades the
// dependent checks to warnings.
func NewAuditor(db *gorm.DB, jwt *iauth.JWTService, managerEntityAccess bool) *Auditor {
	return &Auditor{
		db:                  db,
		jwt:                 jwt,
		managerEntityAccess: managerEntityAccess,
		now:                 time.Now,
	}
}

// WithClock overrides the clock used in results.
func (a *Auditor) WithClock(clock func() time.Time) {
	if clock != nil {
		a.now = clock
	}
}

// Run executes all checks and returns their outcome.
func (a *Auditor) Run(ctx context.Context) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	checks := []Check{
		a.checkAdminPresent(ctx),
		a.checkJWTSecret(),
		a.checkTokenTTL(),
		a.checkManagerAccess(),
		a.checkPolicyCoverage(ctx),
		a.checkPrivilegedOverrides(ctx),
	}

	summary := map[string]int{
		string(StatusPass): 0,
		string(StatusWarn): 0,
		string(StatusFail): 0,
	}
	for _, check := range checks {
		summary[string(check.Status)]++
	}

	return Result{
		CheckedAt: a.now().UTC(),
		Checks:    checks,
		Summary:   summary,
	}
}

func dbUnavailable(id string) Check {
	return Check{
		ID:          id,
		Status:      StatusWarn,
		Message:     "Database unavailable; check skipped.",
		Remediation: "Ensure database connectivity before running the audit.",
	}
}

func queryFailed(id string, err error) Check {
	return Check{
		ID:          id,
		Status:      StatusWarn,
		Message:     fmt.Sprintf("Query failed: %v", err),
		Remediation: "Retry after resolving database errors.",
	}
}

func (a *Auditor) checkAdminPresent(ctx context.Context) Check {
	const id = "admin_present"
	if a.db == nil {
		return dbUnavailable(id)
	}

	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", string(permissions.RoleAdmin), true).
		Count(&count).Error; err != nil {
		return queryFailed(id, err)
	}

	if count == 0 {
		return Check{
			ID:          id,
			Status:      StatusFail,
			Message:     "No active Admin account exists.",
			Remediation: "Configure auth.bootstrap or promote a user to Admin.",
		}
	}
	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: "Active Admin account present.",
		Details: map[string]any{"count": count},
	}
}

func (a *Auditor) checkJWTSecret() Check {
	const id = "jwt_secret_strength"
	if a.jwt == nil {
		return Check{
			ID:      id,
			Status:  StatusWarn,
			Message: "JWT service not initialised; unable to assess signing secret.",
		}
	}

	length := a.jwt.SecretLength()
	switch {
	case length < 32:
		return Check{
			ID:          id,
			Status:      StatusFail,
			Message:     fmt.Sprintf("JWT signing secret is too short (%d bytes).", length),
			Remediation: "Use a randomly generated secret of at least 32 bytes.",
		}
	case length < 48:
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     fmt.Sprintf("JWT signing secret is %d bytes.", length),
			Remediation: "Increase BIZSUITE_AUTH_JWT_SECRET to at least 48 bytes.",
			Details:     map[string]any{"length": length},
		}
	default:
		return Check{
			ID:      id,
			Status:  StatusPass,
			Message: fmt.Sprintf("JWT signing secret length is %d bytes.", length),
			Details: map[string]any{"length": length},
		}
	}
}

func (a *Auditor) checkTokenTTL() Check {
	const id = "access_token_ttl"
	if a.jwt == nil {
		return Check{ID: id, Status: StatusWarn, Message: "JWT service not initialised."}
	}

	ttl := a.jwt.TTL()
	if ttl > maxRecommendedTokenTTL {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     fmt.Sprintf("Access token TTL (%s) exceeds %s; role changes apply on reload but leaked tokens live longer.", ttl, maxRecommendedTokenTTL),
			Remediation: "Lower auth.jwt.access_token_ttl.",
			Details:     map[string]any{"ttl": ttl.String()},
		}
	}
	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: fmt.Sprintf("Access token TTL is %s.", ttl),
		Details: map[string]any{"ttl": ttl.String()},
	}
}

func (a *Auditor) checkManagerAccess() Check {
	const id = "manager_entity_access"
	if a.managerEntityAccess {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     "Managers can access every lead, contact, account and opportunity.",
			Remediation: "Set authz.manager_entity_access=false to scope managers by ownership and assignment.",
		}
	}
	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: "Manager entity access is scoped by ownership and assignment.",
	}
}

func (a *Auditor) checkPolicyCoverage(ctx context.Context) Check {
	const id = "role_policy_coverage"
	if a.db == nil {
		return dbUnavailable(id)
	}

	var modules int64
	if err := a.db.WithContext(ctx).Model(&models.Module{}).Count(&modules).Error; err != nil {
		return queryFailed(id, err)
	}

	var policies int64
	if err := a.db.WithContext(ctx).Model(&models.RolePermission{}).Count(&policies).Error; err != nil {
		return queryFailed(id, err)
	}

	expected := modules * int64(len(permissions.AllRoles())*len(permissions.AllActions()))
	details := map[string]any{"modules": modules, "policies": policies, "expected": expected}

	switch {
	case modules == 0:
		return Check{
			ID:          id,
			Status:      StatusFail,
			Message:     "Module catalog is empty; every non-admin request is denied.",
			Remediation: "Restart the server to seed the catalog.",
		}
	case policies < expected:
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     fmt.Sprintf("%d role policy rows are missing; affected actions are denied.", expected-policies),
			Remediation: "Review role policies under /api/permissions/roles.",
			Details:     details,
		}
	}
	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: "Every role has a policy row for every module action.",
		Details: details,
	}
}

func (a *Auditor) checkPrivilegedOverrides(ctx context.Context) Check {
	const id = "privileged_overrides"
	if a.db == nil {
		return dbUnavailable(id)
	}

	var userIDs []uint
	if err := a.db.WithContext(ctx).
		Model(&models.UserPermission{}).
		Joins("JOIN modules ON modules.id = user_permissions.module_id").
		Joins("JOIN users ON users.id = user_permissions.user_id").
		Where("user_permissions.is_allowed = ?", true).
		Where("modules.name IN ?", []string{permissions.ModuleSettings, permissions.ModuleUsers}).
		Where("users.role <> ?", string(permissions.RoleAdmin)).
		Distinct().
		Pluck("user_permissions.user_id", &userIDs).Error; err != nil {
		return queryFailed(id, err)
	}

	if len(userIDs) > 0 {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     fmt.Sprintf("%d non-admin user(s) hold grants on settings or users.", len(userIDs)),
			Remediation: "Confirm these overrides are intended.",
			Details:     map[string]any{"user_ids": userIDs},
		}
	}
	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: "No non-admin overrides on settings or users.",
	}
}
