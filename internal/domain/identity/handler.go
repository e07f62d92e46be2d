package identity

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinisys/clinisys/internal/platform/auth"
	"github.com/clinisys/clinisys/internal/platform/clinerr"
	"github.com/clinisys/clinisys/pkg/pagination"
)

type Handler struct {
	svc    *Service
	issuer *auth.TokenIssuer
}

func NewHandler(svc *Service, issuer *auth.TokenIssuer) *Handler {
	return &Handler{svc: svc, issuer: issuer}
}

// RegisterRoutes wires the identity endpoints. Login goes on the public group;
// everything else requires authentication.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/login", h.Login)

	staff := api.Group("", auth.RequireRole("receptionist", "professor", "student"))
	staff.GET("/people/:id", h.GetPerson)
	staff.GET("/patients", h.ListPatients)
	staff.GET("/patients/:id", h.GetPatient)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/people", h.CreatePerson)
	admin.GET("/people", h.ListPeople)

	reception := api.Group("", auth.RequireRole("receptionist"))
	reception.POST("/patients", h.CreatePatient)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  *Person `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	person, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	token, err := h.issuer.Issue(person.ID, person.Name, string(person.Role))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: person})
}

type createPersonRequest struct {
	Person
	Password string `json:"password"`
}

func (h *Handler) CreatePerson(c echo.Context) error {
	var req createPersonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePerson(c.Request().Context(), &req.Person, req.Password); err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, req.Person)
}

func (h *Handler) GetPerson(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	person, err := h.svc.GetPerson(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, person)
}

func (h *Handler) ListPeople(c echo.Context) error {
	p := pagination.FromContext(c)
	role := Role(c.QueryParam("role"))

	people, total, err := h.svc.ListPeople(c.Request().Context(), role, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(people, total, p.Limit, p.Offset))
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var patient Patient
	if err := c.Bind(&patient); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePatient(c.Request().Context(), &patient); err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, patient)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	patient, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, patient)
}

func (h *Handler) ListPatients(c echo.Context) error {
	if cpf := c.QueryParam("cpf"); cpf != "" {
		patient, err := h.svc.GetPatientByCPF(c.Request().Context(), cpf)
		if err != nil {
			return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
		}
		return c.JSON(http.StatusOK, []*Patient{patient})
	}

	p := pagination.FromContext(c)
	patients, total, err := h.svc.ListPatients(c.Request().Context(), c.QueryParam("status"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(clinerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, p.Limit, p.Offset))
}
