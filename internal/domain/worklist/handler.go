package worklist

import (
	"errors"
	"net/http"
	"strconv"

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
	read := api.Group("", auth.RequireRole("recruiter", "supervisor"))
	read.GET("/work-items", h.List)
	read.GET("/work-items/:id", h.Get)
	read.GET("/subjects/:study_identifier/work-item", h.GetBySubject)

	write := api.Group("", auth.RequireRole("supervisor"))
	write.POST("/work-items", h.Create)
	write.POST("/work-items/assign", h.Assign)
	write.POST("/work-items/reset-assignments", h.ResetAssignments)
	write.POST("/work-items/reassign", h.Reassign)
}

func (h *Handler) Create(c echo.Context) error {
	var w WorkItem
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	createdBy := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), &w, createdBy); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	w, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "work item not found")
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) GetBySubject(c echo.Context) error {
	w, err := h.svc.GetBySubject(c.Request().Context(), c.Param("study_identifier"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "work item not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := ListFilter{
		Assigned:  c.QueryParam("assigned"),
		PrevStudy: c.QueryParam("prev_study"),
	}
	for param, dst := range map[string]**bool{
		"is_called": &filter.IsCalled,
		"visited":   &filter.Visited,
		"consented": &filter.Consented,
	} {
		if v := c.QueryParam(param); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
			}
			*dst = &b
		}
	}
	items, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type assignRequest struct {
	Count     int     `json:"count"`
	Worker    string  `json:"worker"`
	Ratio     float64 `json:"ratio"`
	PrevStudy string  `json:"prev_study"`
}

func (h *Handler) Assign(c echo.Context) error {
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items, err := h.svc.Assign(c.Request().Context(), req.Count, req.Worker, req.Ratio, req.PrevStudy)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"assigned": len(items),
		"items":    items,
	})
}

type resetRequest struct {
	Worker string `json:"worker"`
}

func (h *Handler) ResetAssignments(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n, err := h.svc.ResetAssignments(c.Request().Context(), req.Worker)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int64{"cleared": n})
}

type reassignRequest struct {
	From            string `json:"from"`
	To              string `json:"to"`
	StudyIdentifier string `json:"study_identifier"`
}

func (h *Handler) Reassign(c echo.Context) error {
	var req reassignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.StudyIdentifier != "" {
		err := h.svc.ReassignOne(c.Request().Context(), req.From, req.To, req.StudyIdentifier)
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no matching assigned item")
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]int64{"moved": 1})
	}
	n, err := h.svc.Reassign(c.Request().Context(), req.From, req.To)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int64{"moved": n})
}
