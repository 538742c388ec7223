package export

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/followup/followup/internal/domain/contact"
	"github.com/followup/followup/internal/domain/locator"
	"github.com/followup/followup/internal/domain/worklist"
	"github.com/followup/followup/internal/platform/auth"
)

const pageSize = 500

// WorkItemSource pages through the work queue.
type WorkItemSource interface {
	List(ctx context.Context, filter worklist.ListFilter, limit, offset int) ([]*worklist.WorkItem, int, error)
}

// CallLogSource pages through the call log.
type CallLogSource interface {
	ListEntries(ctx context.Context, limit, offset int) ([]*contact.CallLogEntry, int, error)
}

// LocatorSource resolves the latest locator per subject.
type LocatorSource interface {
	LatestBySubject(ctx context.Context, studyIdentifier string) (*locator.LocatorInfo, error)
}

type Handler struct {
	items    WorkItemSource
	calls    CallLogSource
	locators LocatorSource
}

func NewHandler(items WorkItemSource, calls CallLogSource, locators LocatorSource) *Handler {
	return &Handler{items: items, calls: calls, locators: locators}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/export", auth.RequireRole("supervisor"))
	g.GET("/work-items", h.ExportWorkItems)
	g.GET("/call-log", h.ExportCallLog)
}

func (h *Handler) ExportWorkItems(c echo.Context) error {
	ctx := c.Request().Context()

	var all []*worklist.WorkItem
	for offset := 0; ; offset += pageSize {
		page, total, err := h.items.List(ctx, worklist.ListFilter{}, pageSize, offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		all = append(all, page...)
		if offset+pageSize >= total {
			break
		}
	}

	locators := make(map[string]*locator.LocatorInfo, len(all))
	for _, w := range all {
		loc, err := h.locators.LatestBySubject(ctx, w.StudyIdentifier)
		if errors.Is(err, locator.ErrNotFound) {
			continue
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		locators[w.StudyIdentifier] = loc
	}

	return h.respond(c, "work_items", WorkItemDataset(all, locators))
}

func (h *Handler) ExportCallLog(c echo.Context) error {
	ctx := c.Request().Context()

	var all []*contact.CallLogEntry
	for offset := 0; ; offset += pageSize {
		page, total, err := h.calls.ListEntries(ctx, pageSize, offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		all = append(all, page...)
		if offset+pageSize >= total {
			break
		}
	}

	return h.respond(c, "call_log", CallLogDataset(all))
}

func (h *Handler) respond(c echo.Context, base string, ds Dataset) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	var contentType string
	switch format {
	case "csv":
		contentType = "text/csv"
		if err := WriteCSV(&buf, ds); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		if err := WriteExcel(&buf, ds); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "format must be csv or xlsx")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+Filename(base, format)+`"`)
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
