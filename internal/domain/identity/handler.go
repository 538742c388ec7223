package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

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
	g := api.Group("", auth.RequireRole("supervisor"))
	g.GET("/workers", h.ListWorkers)
	g.GET("/workers/:username", h.GetWorker)
	g.POST("/workers", h.CreateWorker)
	g.GET("/groups/:name/members", h.ListGroupMembers)
	g.POST("/groups/:name/members", h.AddGroupMember)
}

func (h *Handler) CreateWorker(c echo.Context) error {
	var w Worker
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateWorker(c.Request().Context(), &w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) GetWorker(c echo.Context) error {
	w, err := h.svc.GetWorker(c.Request().Context(), c.Param("username"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "worker not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) ListWorkers(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListWorkers(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListGroupMembers(c echo.Context) error {
	members, err := h.svc.ListGroupMembers(c.Request().Context(), c.Param("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, members)
}

type addMemberRequest struct {
	Username string `json:"username"`
}

func (h *Handler) AddGroupMember(c echo.Context) error {
	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.EnsureGroupMembership(c.Request().Context(), req.Username, c.Param("name"))
	if errors.Is(err, ErrGroupMissing) || errors.Is(err, ErrUnknownWorker) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
