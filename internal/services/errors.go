package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/charlesng35/bizsuite/internal/permissions"
	apperrors "github.com/charlesng35/bizsuite/pkg/errors"
)

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	// ErrUserExists signals a username or email collision.
	ErrUserExists = apperrors.New("USER_EXISTS", "Username or email already in use", http.StatusConflict)
	// ErrModuleNotFound indicates the named module is not in the catalog.
	ErrModuleNotFound = apperrors.New("MODULE_NOT_FOUND", "Module not found", http.StatusNotFound)
	// ErrInvalidRole is returned for role names outside the fixed role set.
	ErrInvalidRole = apperrors.New("INVALID_ROLE", "Unknown role", http.StatusBadRequest)
	// ErrInvalidAction is returned for actions outside the action vocabulary.
	ErrInvalidAction = apperrors.New("INVALID_ACTION", "Unknown action", http.StatusBadRequest)
	// ErrOverrideNotFound indicates no override exists for the triple.
	ErrOverrideNotFound = apperrors.New("OVERRIDE_NOT_FOUND", "Permission override not found", http.StatusNotFound)
	// ErrTeamNotFound indicates the requested team does not exist.
	ErrTeamNotFound = apperrors.New("TEAM_NOT_FOUND", "Team not found", http.StatusNotFound)
	// ErrTeamExists signals a duplicate team name.
	ErrTeamExists = apperrors.New("TEAM_EXISTS", "Team name already exists", http.StatusConflict)
	// ErrTeamMemberAlreadyExists signals the user is already a member of the team.
	ErrTeamMemberAlreadyExists = apperrors.New("TEAM_MEMBER_EXISTS", "User already assigned to team", http.StatusConflict)
	// ErrTeamMemberNotFound indicates the requested membership does not exist.
	ErrTeamMemberNotFound = apperrors.New("TEAM_MEMBER_NOT_FOUND", "User is not a member of the team", http.StatusNotFound)
	// ErrEntityTypeUnknown is returned for entity tags without a registered lookup.
	ErrEntityTypeUnknown = apperrors.New("ENTITY_TYPE_UNKNOWN", "Unknown entity type", http.StatusBadRequest)
	// ErrEntityNotFound indicates the referenced record does not exist.
	ErrEntityNotFound = apperrors.New("ENTITY_NOT_FOUND", "Record not found", http.StatusNotFound)
	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = apperrors.New("ASSIGNMENT_NOT_FOUND", "Assignment not found", http.StatusNotFound)
)

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, permissions.ErrDuplicate) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
