package locator

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
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
	g := api.Group("", auth.RequireRole("recruiter", "supervisor"))
	g.GET("/locators", h.List)
	g.GET("/locators/:id", h.Get)
	g.POST("/locators", h.Create)
	g.GET("/subjects/:study_identifier/locator", h.LatestBySubject)
	g.GET("/subjects/:study_identifier/locators", h.ListBySubject)
	g.GET("/subjects/:study_identifier/channels", h.Channels)
}

func (h *Handler) Create(c echo.Context) error {
	var l LocatorInfo
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	l, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "locator not found")
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) LatestBySubject(c echo.Context) error {
	l, err := h.svc.LatestBySubject(c.Request().Context(), c.Param("study_identifier"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "no locator on file")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) ListBySubject(c echo.Context) error {
	items, err := h.svc.ListBySubject(c.Request().Context(), c.Param("study_identifier"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Channels(c echo.Context) error {
	channels, err := h.svc.ChannelsBySubject(c.Request().Context(), c.Param("study_identifier"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "no locator on file")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, channels)
}
