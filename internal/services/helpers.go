package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/charlesng35/bizsuite/internal/permissions"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// recordAudit logs the supplied entry while tolerating audit failures.
func recordAudit(audit *AuditService, ctx context.Context, entry AuditEntry) {
	if audit == nil {
		return
	}
	if entry.UserID == nil {
		entry.UserID = actorID(ctx)
	}
	_ = audit.Log(ctx, entry)
}

// actorID returns the authenticated caller's ID, if any.
func actorID(ctx context.Context) *uint {
	principal, ok := permissions.PrincipalFromContext(ctx)
	if !ok {
		return nil
	}
	id := principal.UserID
	return &id
}

// truncate caps value at limit bytes without splitting a UTF-8 sequence.
// Invalid byte sequences are dropped.
func truncate(value string, limit int) string {
	value = strings.ToValidUTF8(value, "")
	if len(value) <= limit {
		return value
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
