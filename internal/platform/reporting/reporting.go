package reporting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/followup/followup/internal/platform/auth"
)

// MeasureDefinition defines a reporting measure with its SQL query.
type MeasureDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SQL         string   `json:"sql"`
	Parameters  []string `json:"parameters"`
}

// MeasureReport holds the results of evaluating a measure.
type MeasureReport struct {
	MeasureID   string                   `json:"measure_id"`
	MeasureName string                   `json:"measure_name"`
	GeneratedAt time.Time                `json:"generated_at"`
	Results     []map[string]interface{} `json:"results"`
	Parameters  map[string]string        `json:"parameters,omitempty"`
}

// Measures builds the list of available reporting measures. Each measure is
// independent and read-only; store failures surface as-is. The overdue
// window comes from configuration so sites with slower recruitment can widen
// it.
func Measures(overdueDays int) []MeasureDefinition {
	return []MeasureDefinition{
		{
			ID:          "contact-attempts",
			Name:        "Contact Attempts",
			Description: "Total phone attempts, successful contacts, and failures by reason",
			SQL: `SELECT outcome, COUNT(*) AS total
				FROM call_log_entry
				GROUP BY outcome ORDER BY total DESC`,
			Parameters: []string{},
		},
		{
			ID:          "appointment-scheduling",
			Name:        "Appointment Scheduling",
			Description: "Subjects willing, unwilling, and still thinking about an appointment, plus upcoming bookings",
			SQL: `SELECT
				COALESCE(SUM(CASE WHEN appt = 'yes' THEN 1 ELSE 0 END), 0) AS willing,
				COALESCE(SUM(CASE WHEN appt = 'no' THEN 1 ELSE 0 END), 0) AS unwilling,
				COALESCE(SUM(CASE WHEN appt = 'thinking' THEN 1 ELSE 0 END), 0) AS still_thinking,
				(SELECT COUNT(*) FROM booking WHERE booking_date >= CURRENT_DATE) AS upcoming_bookings
				FROM call_log_entry`,
			Parameters: []string{},
		},
		{
			ID:          "assignments-by-worker",
			Name:        "Assignments by Worker",
			Description: "Work items per worker with called, visited, and consented counts",
			SQL: `SELECT assigned AS worker, COUNT(*) AS total,
				COALESCE(SUM(CASE WHEN is_called THEN 1 ELSE 0 END), 0) AS called,
				COALESCE(SUM(CASE WHEN visited THEN 1 ELSE 0 END), 0) AS visited,
				COALESCE(SUM(CASE WHEN consented THEN 1 ELSE 0 END), 0) AS consented
				FROM work_item WHERE assigned IS NOT NULL
				GROUP BY assigned ORDER BY total DESC`,
			Parameters: []string{},
		},
		{
			ID:          "activity-over-time",
			Name:        "Activity Over Time",
			Description: "Phone attempts per day",
			SQL: `SELECT DATE(call_datetime) AS day, COUNT(*) AS attempts
				FROM call_log_entry
				GROUP BY DATE(call_datetime) ORDER BY day`,
			Parameters: []string{},
		},
		{
			ID:          "follow-up-status",
			Name:        "Follow-Up Status",
			Description: "Per-subject follow-up state across the queue",
			SQL: `SELECT study_identifier, prev_study, assigned, date_assigned,
				is_called, called_at, visited, consented
				FROM work_item ORDER BY study_identifier`,
			Parameters: []string{},
		},
		{
			ID:          "overdue-assignments",
			Name:        "Overdue Assignments",
			Description: fmt.Sprintf("Items assigned more than %d days ago and still not visited", overdueDays),
			SQL: fmt.Sprintf(`SELECT study_identifier, assigned, date_assigned,
				CURRENT_DATE - date_assigned AS days_outstanding
				FROM work_item
				WHERE assigned IS NOT NULL
				  AND date_assigned < CURRENT_DATE - INTERVAL '%d days'
				  AND visited = FALSE
				ORDER BY date_assigned`, overdueDays),
			Parameters: []string{},
		},
		{
			ID:          "worker-performance",
			Name:        "Worker Performance",
			Description: "Average days from assignment to first contact, per worker",
			SQL: `SELECT assigned AS worker,
				AVG(EXTRACT(EPOCH FROM (called_at - date_assigned)) / 86400.0) AS avg_days_to_contact,
				COUNT(*) AS contacted
				FROM work_item
				WHERE assigned IS NOT NULL AND called_at IS NOT NULL AND date_assigned IS NOT NULL
				GROUP BY assigned ORDER BY avg_days_to_contact`,
			Parameters: []string{},
		},
		{
			ID:          "eligibility-funnel",
			Name:        "Eligibility Funnel",
			Description: "Screening answers and appointment types across the call log",
			SQL: `SELECT
				COALESCE(SUM(CASE WHEN has_child = 'yes' THEN 1 ELSE 0 END), 0) AS has_child,
				COALESCE(SUM(CASE WHEN has_child = 'no' THEN 1 ELSE 0 END), 0) AS no_child,
				COALESCE(SUM(CASE WHEN willing_consent = 'yes' THEN 1 ELSE 0 END), 0) AS willing_consent,
				COALESCE(SUM(CASE WHEN willing_consent = 'no' THEN 1 ELSE 0 END), 0) AS unwilling_consent,
				COALESCE(SUM(CASE WHEN willing_consent = 'thinking' THEN 1 ELSE 0 END), 0) AS thinking_consent,
				COALESCE(SUM(CASE WHEN appt_type = 'screening' THEN 1 ELSE 0 END), 0) AS screening_appts,
				COALESCE(SUM(CASE WHEN appt_type = 're_call' THEN 1 ELSE 0 END), 0) AS re_call_appts,
				COALESCE(SUM(CASE WHEN appt_type = 'other' THEN 1 ELSE 0 END), 0) AS other_appts
				FROM call_log_entry`,
			Parameters: []string{},
		},
		{
			ID:          "final-contact",
			Name:        "Final Contact",
			Description: "Subjects whose latest entry closed the follow-up",
			SQL: `SELECT COUNT(DISTINCT study_identifier) AS closed
				FROM call_log_entry WHERE final_contact = TRUE`,
			Parameters: []string{},
		},
		{
			ID:          "bookings-by-type",
			Name:        "Bookings by Appointment Type",
			Description: "Current bookings grouped by appointment type",
			SQL: `SELECT appt_type, COUNT(*) AS total
				FROM booking GROUP BY appt_type ORDER BY total DESC`,
			Parameters: []string{},
		},
	}
}

// Handler provides HTTP handlers for the reporting API.
type Handler struct {
	pool     *pgxpool.Pool
	measures []MeasureDefinition
}

func NewHandler(pool *pgxpool.Pool, overdueDays int) *Handler {
	return &Handler{pool: pool, measures: Measures(overdueDays)}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	reportGroup := api.Group("/reports", auth.RequireRole("supervisor"))
	reportGroup.GET("/measures", h.ListMeasures)
	reportGroup.GET("/measures/:id/evaluate", h.EvaluateMeasure)
}

// ListMeasures returns all available measure definitions.
func (h *Handler) ListMeasures(c echo.Context) error {
	return c.JSON(http.StatusOK, h.measures)
}

// EvaluateMeasure executes a measure's SQL and returns the results.
func (h *Handler) EvaluateMeasure(c echo.Context) error {
	measure := FindMeasure(h.measures, c.Param("id"))
	if measure == nil {
		return echo.NewHTTPError(http.StatusNotFound, "measure not found")
	}

	params := map[string]string{}
	for _, p := range measure.Parameters {
		if v := c.QueryParam(p); v != "" {
			params[p] = v
		}
	}

	results, err := h.executeSQL(c.Request().Context(), measure.SQL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("query failed: %v", err))
	}

	return c.JSON(http.StatusOK, MeasureReport{
		MeasureID:   measure.ID,
		MeasureName: measure.Name,
		GeneratedAt: time.Now(),
		Results:     results,
		Parameters:  params,
	})
}

// executeSQL runs a SQL query and returns results as a slice of maps.
func (h *Handler) executeSQL(ctx context.Context, sql string) ([]map[string]interface{}, error) {
	rows, err := h.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	var results []map[string]interface{}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(fieldDescs))
		for i, fd := range fieldDescs {
			row[string(fd.Name)] = values[i]
		}
		results = append(results, row)
	}

	if results == nil {
		results = []map[string]interface{}{}
	}

	return results, nil
}

// FindMeasure looks up a measure by ID.
func FindMeasure(measures []MeasureDefinition, id string) *MeasureDefinition {
	for i := range measures {
		if measures[i].ID == id {
			return &measures[i]
		}
	}
	return nil
}
