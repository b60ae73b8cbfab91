package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"leadsmanager/internal/errors"
	"leadsmanager/internal/model"
	"leadsmanager/internal/service"
)

// currentUserKey is the echo context key under which the resolved user is
// stored by the router's auth middleware.
const currentUserKey = "currentUser"

// CurrentUser returns the authenticated user set by the auth middleware.
func CurrentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(currentUserKey).(*model.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.New("could not validate credentials", "UNAUTHORIZED"))
	}
	return user, nil
}

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(currentUserKey, user)
}

// LeadHandler handles the lead CRUD endpoints. All routes require a bearer
// token; every operation is scoped to the authenticated user.
type LeadHandler struct {
	svc service.LeadService
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(svc service.LeadService) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// LeadRequest represents a lead create or full-replace update. All five fields
// are required; there are no partial updates.
type LeadRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Company   string `json:"company" validate:"required"`
	Note      string `json:"note" validate:"required"`
}

func (r *LeadRequest) fields() service.LeadFields {
	return service.LeadFields{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Company:   r.Company,
		Note:      r.Note,
	}
}

// CreateLead godoc
// @Summary Create a lead
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LeadRequest true "Lead fields"
// @Success 200 {object} model.Lead
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} map[string]string
// @Router /leads [post]
func (h *LeadHandler) CreateLead(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req LeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("invalid request body", "BAD_REQUEST"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	lead, err := h.svc.Create(c.Request().Context(), user.ID, req.fields())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.New("failed to create lead", "CREATE_FAILED"))
	}
	return c.JSON(http.StatusOK, lead)
}

// ListLeads godoc
// @Summary List the current user's leads
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Lead
// @Failure 401 {object} errors.ErrorResponse
// @Router /leads [get]
func (h *LeadHandler) ListLeads(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	leads, err := h.svc.List(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.New("failed to list leads", "LIST_FAILED"))
	}
	return c.JSON(http.StatusOK, leads)
}

// GetLead godoc
// @Summary Get a lead by id
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} model.Lead
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id} [get]
func (h *LeadHandler) GetLead(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := leadID(c)
	if err != nil {
		return err
	}

	lead, err := h.svc.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return leadError(err)
	}
	return c.JSON(http.StatusOK, lead)
}

// UpdateLead godoc
// @Summary Replace all fields of a lead
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body LeadRequest true "Lead fields"
// @Success 200 {object} model.Lead
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} map[string]string
// @Router /leads/{id} [put]
func (h *LeadHandler) UpdateLead(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := leadID(c)
	if err != nil {
		return err
	}

	var req LeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("invalid request body", "BAD_REQUEST"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	lead, err := h.svc.Update(c.Request().Context(), user.ID, id, req.fields())
	if err != nil {
		return leadError(err)
	}
	return c.JSON(http.StatusOK, lead)
}

// DeleteLead godoc
// @Summary Delete a lead
// @Tags leads
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id} [delete]
func (h *LeadHandler) DeleteLead(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := leadID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), user.ID, id); err != nil {
		return leadError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func leadID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.New("invalid lead id", "BAD_REQUEST"))
	}
	return uint(id), nil
}

func leadError(err error) error {
	if err == service.ErrLeadNotFound {
		return echo.NewHTTPError(http.StatusNotFound, errors.New("A lead matching these details does not exist", "LEAD_NOT_FOUND"))
	}
	return echo.NewHTTPError(http.StatusInternalServerError, errors.New("internal server error", "INTERNAL_ERROR"))
}
