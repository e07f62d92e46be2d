package scheduling

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinisys/clinisys/internal/platform/auth"
	"github.com/clinisys/clinisys/internal/platform/clinerr"
	"github.com/clinisys/clinisys/pkg/pagination"
)

type Handler struct {
	svc *Service
	loc *time.Location
}

func NewHandler(svc *Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	group := api.Group("", auth.RequireRole("student", "receptionist", "professor"))
	group.POST("/appointments", h.Schedule, auth.RequireRole("student", "receptionist"))
	group.GET("/appointments", h.ListByStudent)
	group.GET("/appointments/slots", h.ListSlots)
	group.GET("/appointments/:id", h.GetAppointment)
	group.POST("/appointments/:id/procedures", h.RegisterProcedures, auth.RequireRole("student", "receptionist"))
}

type scheduleRequest struct {
	StudentID   uuid.UUID `json:"student_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
}

func (h *Handler) Schedule(c echo.Context) error {
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.StudentID == uuid.Nil || req.PatientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "student_id and patient_id are required")
	}
	if req.ScheduledAt.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "scheduled_at is required")
	}

	summary, err := h.svc.Schedule(c.Request().Context(), ScheduleInput(req))
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, summary)
}

func (h *Handler) ListSlots(c echo.Context) error {
	day, err := h.parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be in DD/MM/YYYY or YYYY-MM-DD format")
	}

	var studentID *uuid.UUID
	if raw := c.QueryParam("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid student_id")
		}
		studentID = &id
	}

	slots, err := h.svc.ListAvailableSlots(c.Request().Context(), day, studentID)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"date":  day.Format("2006-01-02"),
		"slots": slots,
	})
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appt, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListByStudent(c echo.Context) error {
	studentID, err := uuid.Parse(c.QueryParam("student_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "student_id is required")
	}

	p := pagination.FromContext(c)
	summaries, total, err := h.svc.ListByStudent(c.Request().Context(), studentID, c.QueryParam("status"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(summaries, total, p.Limit, p.Offset))
}

type proceduresRequest struct {
	Procedures string `json:"procedures"`
	Notes      string `json:"notes"`
}

func (h *Handler) RegisterProcedures(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req proceduresRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.svc.RegisterProcedures(c.Request().Context(), id, req.Procedures, req.Notes)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, appt)
}

// parseDate accepts the desktop client's DD/MM/YYYY form and ISO dates.
func (h *Handler) parseDate(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation("02/01/2006", raw, h.loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, h.loc)
}
