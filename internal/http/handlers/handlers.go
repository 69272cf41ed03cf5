// Package handlers holds the chi subrouters for the public site and the
// staff admin API. Each handler owns its repos and exposes Routes().
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/repo/postgres"
	"github.com/floripafacil/backend/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// audit appends an entry for an administrative action. Audit failures are
// logged, never surfaced: the action itself already succeeded.
func audit(ctx context.Context, repo postgres.AuditRepo, p *domain.Principal, action, entity, details string) {
	if repo == nil || p == nil {
		return
	}
	if err := repo.Append(ctx, p.UserID, p.Name, action, entity, details); err != nil {
		logger.ErrorContext(ctx, "failed to append audit entry", "action", action, "error", err)
	}
}
