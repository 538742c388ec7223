package contact

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/followup/followup/internal/domain/identity"
	"github.com/followup/followup/internal/platform/auth"
	"github.com/followup/followup/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("recruiter", "supervisor"))
	g.GET("/call-log", h.ListEntries)
	g.GET("/call-log/:id", h.GetEntry)
	g.POST("/call-log", h.RecordCall)
	g.GET("/subjects/:study_identifier/call-log", h.ListEntriesBySubject)
	g.POST("/visit-attempts", h.RecordVisit)
	g.GET("/subjects/:study_identifier/visit-attempts", h.ListAttemptsBySubject)
	g.GET("/subjects/:study_identifier/home-visit-required", h.HomeVisitRequired)
	g.GET("/subjects/:study_identifier/eligibility", h.Eligibility)
}

func (h *Handler) RecordCall(c echo.Context) error {
	var e CallLogEntry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if e.CreatedBy == "" {
		e.CreatedBy = auth.UserIDFromContext(c.Request().Context())
	}
	if err := recordError(h.svc.RecordCall(c.Request().Context(), &e)); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

// recordError maps a recording failure onto a status code: bad input is the
// caller's fault, a missing role group is a provisioning fault, anything
// else is the store's.
func recordError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, identity.ErrGroupMissing) || errors.Is(err, identity.ErrUnknownWorker):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) RecordVisit(c echo.Context) error {
	var a InPersonContactAttempt
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if a.CreatedBy == "" {
		a.CreatedBy = auth.UserIDFromContext(c.Request().Context())
	}
	if err := recordError(h.svc.RecordVisit(c.Request().Context(), &a)); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.GetEntry(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "call log entry not found")
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListEntries(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListEntries(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListEntriesBySubject(c echo.Context) error {
	items, err := h.svc.ListEntriesBySubject(c.Request().Context(), c.Param("study_identifier"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListAttemptsBySubject(c echo.Context) error {
	items, err := h.svc.ListAttemptsBySubject(c.Request().Context(), c.Param("study_identifier"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) HomeVisitRequired(c echo.Context) error {
	required, err := h.svc.HomeVisitRequired(c.Request().Context(), c.Param("study_identifier"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"home_visit_required": required})
}

func (h *Handler) Eligibility(c echo.Context) error {
	status, err := h.svc.Eligibility(c.Request().Context(), c.Param("study_identifier"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]Eligibility{"eligibility": status})
}
