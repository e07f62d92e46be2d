package triage

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinisys/clinisys/internal/platform/auth"
	"github.com/clinisys/clinisys/internal/platform/clinerr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	group := api.Group("/triage", auth.RequireRole("receptionist", "professor", "student"))
	group.POST("", h.RecordTriage, auth.RequireRole("receptionist"))
	group.GET("/pending", h.PendingQueue)
	group.GET("/ready", h.ReadyQueue)
	group.GET("/patient/:id", h.LatestForPatient)
}

func (h *Handler) RecordTriage(c echo.Context) error {
	var in RecordInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.PatientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}

	id, err := h.svc.RecordTriage(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) PendingQueue(c echo.Context) error {
	entries, err := h.svc.PendingQueue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	if entries == nil {
		entries = []*PendingEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) ReadyQueue(c echo.Context) error {
	entries, err := h.svc.ReadyQueue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	if entries == nil {
		entries = []*ReadyEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) LatestForPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.LatestForPatient(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}
