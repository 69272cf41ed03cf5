package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/internal/repo/postgres"
	"github.com/floripafacil/backend/internal/utils"
	"github.com/floripafacil/backend/pkg/events"
	"github.com/floripafacil/backend/pkg/logger"
)

type ReservationsHandler struct {
	Reservations postgres.ReservationsRepo
	Packages     postgres.PackagesRepo
	Audit        postgres.AuditRepo
	Bus          events.Publisher
}

func NewReservationsHandler(reservations postgres.ReservationsRepo, packages postgres.PackagesRepo, auditRepo postgres.AuditRepo, bus events.Publisher) *ReservationsHandler {
	return &ReservationsHandler{Reservations: reservations, Packages: packages, Audit: auditRepo, Bus: bus}
}

// PublicRoutes exposes lead capture. The caller supplies the rate limiting
// middleware so tests can run without a database-backed limiter.
func (h *ReservationsHandler) PublicRoutes(limiter func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if limiter != nil {
		r.Use(limiter)
	}
	r.Post("/", h.create)
	return r
}

func (h *ReservationsHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.With(middleware.RequirePermission(domain.PermReservationsView)).Get("/", h.list)
	r.With(middleware.RequirePermission(domain.PermReservationsView)).Get("/{id}", h.get)
	r.With(middleware.RequirePermission(domain.PermReservationsManage)).Patch("/{id}", h.update)
	return r
}

func (h *ReservationsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.ReservationCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	req.CustomerEmail = utils.NormalizeEmail(req.CustomerEmail)
	req.CustomerPhone = utils.NormalizePhone(req.CustomerPhone)
	switch {
	case req.CustomerName == "":
		response.BadRequest(w, "customer name is required")
		return
	case !utils.IsValidEmail(req.CustomerEmail):
		response.BadRequest(w, "invalid email address")
		return
	case !utils.IsValidPhone(req.CustomerPhone):
		response.BadRequest(w, "invalid phone number")
		return
	case req.Pax < 1:
		response.BadRequest(w, "pax must be at least 1")
		return
	}
	if req.TravelDate.Before(time.Now().Truncate(24 * time.Hour)) {
		response.WriteError(w, http.StatusBadRequest, "travel date cannot be in the past", response.CodePastDate)
		return
	}

	pkg, err := h.Packages.FindByID(r.Context(), req.PackageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.BadRequest(w, "unknown package")
			return
		}
		response.InternalError(w, "failed to create reservation")
		return
	}
	if !pkg.IsActive {
		response.BadRequest(w, "package is no longer available")
		return
	}

	res, err := h.Reservations.Create(r.Context(), &req, pkg.Title, pkg.PriceUSD*req.Pax)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create reservation", "error", err)
		response.InternalError(w, "failed to create reservation")
		return
	}

	if h.Bus != nil {
		err := h.Bus.Publish(r.Context(), events.ReservationCreated, events.ReservationCreatedEvent{
			ReservationID: res.ID,
			PackageID:     res.PackageID,
			PackageTitle:  res.PackageTitle,
			CustomerName:  res.CustomerName,
			CustomerEmail: res.CustomerEmail,
			TravelDate:    res.TravelDate,
			Pax:           res.Pax,
			CreatedAt:     res.CreatedAt,
		})
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to publish reservation.created", "error", err)
		}
	}

	response.WriteJSON(w, http.StatusCreated, res)
}

func (h *ReservationsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var statusPtr *domain.ReservationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := domain.ParseReservationStatus(raw)
		if !ok {
			response.BadRequest(w, "invalid status parameter")
			return
		}
		statusPtr = &st
	}

	p := middleware.Principal(r)
	var (
		items []domain.Reservation
		err   error
	)
	// Sellers without the global stats grant only see their own pipeline.
	if domain.Can(p, domain.PermStatsGlobalView) {
		items, err = h.Reservations.List(r.Context(), statusPtr, limit, offset)
	} else {
		items, err = h.Reservations.ListBySeller(r.Context(), p.UserID, limit, offset)
	}
	if err != nil {
		response.InternalError(w, "failed to list reservations")
		return
	}
	response.WriteJSON(w, http.StatusOK, items)
}

func (h *ReservationsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid reservation id")
		return
	}

	res, err := h.Reservations.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(w, "reservation not found")
			return
		}
		response.InternalError(w, "failed to load reservation")
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}

func (h *ReservationsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid reservation id")
		return
	}

	var patch domain.ReservationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if patch.Status != nil {
		if _, ok := domain.ParseReservationStatus(*patch.Status); !ok {
			response.BadRequest(w, "invalid status")
			return
		}
	}

	before, err := h.Reservations.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(w, "reservation not found")
			return
		}
		response.InternalError(w, "failed to load reservation")
		return
	}

	res, err := h.Reservations.Update(r.Context(), id, patch)
	if err != nil {
		response.InternalError(w, "failed to update reservation")
		return
	}

	p := middleware.Principal(r)
	if patch.Status != nil && res.Status != before.Status {
		if h.Bus != nil {
			err := h.Bus.Publish(r.Context(), events.ReservationStatusChanged, events.ReservationStatusChangedEvent{
				ReservationID: res.ID,
				CustomerEmail: res.CustomerEmail,
				OldStatus:     string(before.Status),
				NewStatus:     string(res.Status),
				ChangedBy:     p.UserID,
				ChangedAt:     time.Now(),
			})
			if err != nil {
				logger.ErrorContext(r.Context(), "failed to publish reservation.status_changed", "error", err)
			}
		}
		audit(r.Context(), h.Audit, p, "UPDATE_RESERVATION_STATUS", "reservation",
			fmt.Sprintf("#%d %s -> %s", res.ID, before.Status, res.Status))
	} else {
		audit(r.Context(), h.Audit, p, "UPDATE_RESERVATION", "reservation", fmt.Sprintf("#%d", res.ID))
	}

	response.WriteJSON(w, http.StatusOK, res)
}
