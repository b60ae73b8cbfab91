package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"leadsmanager/internal/model"
	"leadsmanager/internal/service"
)

// MockLeadService is a mock implementation of service.LeadService.
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) Create(ctx context.Context, ownerID uint, fields service.LeadFields) (*model.Lead, error) {
	args := m.Called(ctx, ownerID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) List(ctx context.Context, ownerID uint) ([]model.Lead, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *MockLeadService) Get(ctx context.Context, ownerID, leadID uint) (*model.Lead, error) {
	args := m.Called(ctx, ownerID, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) Update(ctx context.Context, ownerID, leadID uint, fields service.LeadFields) (*model.Lead, error) {
	args := m.Called(ctx, ownerID, leadID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) Delete(ctx context.Context, ownerID, leadID uint) error {
	args := m.Called(ctx, ownerID, leadID)
	return args.Error(0)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLeadHandler_GetLead_NotFound(t *testing.T) {
	mockSvc := new(MockLeadService)
	mockSvc.On("Get", mock.Anything, uint(1), uint(999)).Return(nil, service.ErrLeadNotFound)

	h := NewLeadHandler(mockSvc)
	c, _ := newTestContext(t, http.MethodGet, "/api/leads/999", "")
	c.SetParamNames("id")
	c.SetParamValues("999")
	SetCurrentUser(c, &model.User{ID: 1, Email: "a@x.com"})

	err := h.GetLead(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	mockSvc.AssertExpectations(t)
}

func TestLeadHandler_GetLead_Unauthenticated(t *testing.T) {
	h := NewLeadHandler(new(MockLeadService))
	c, _ := newTestContext(t, http.MethodGet, "/api/leads/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.GetLead(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestLeadHandler_CreateLead(t *testing.T) {
	mockSvc := new(MockLeadService)
	created := &model.Lead{ID: 1, OwnerID: 7, FirstName: "Jane"}
	mockSvc.On("Create", mock.Anything, uint(7), service.LeadFields{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		Company:   "Acme",
		Note:      "hot lead",
	}).Return(created, nil)

	h := NewLeadHandler(mockSvc)
	body := `{"first_name":"Jane","last_name":"Doe","email":"jane@x.com","company":"Acme","note":"hot lead"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/leads", body)
	SetCurrentUser(c, &model.User{ID: 7, Email: "a@x.com"})

	err := h.CreateLead(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint(7), got.OwnerID)
	mockSvc.AssertExpectations(t)
}

func TestLeadHandler_CreateLead_MissingField(t *testing.T) {
	mockSvc := new(MockLeadService)
	h := NewLeadHandler(mockSvc)

	body := `{"first_name":"Jane","last_name":"Doe","email":"jane@x.com","company":"Acme"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/leads", body)
	SetCurrentUser(c, &model.User{ID: 7, Email: "a@x.com"})

	err := h.CreateLead(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
	mockSvc.AssertNotCalled(t, "Create")
}

func TestLeadHandler_UpdateLead_NotOwned(t *testing.T) {
	mockSvc := new(MockLeadService)
	mockSvc.On("Update", mock.Anything, uint(2), uint(10), mock.Anything).Return(nil, service.ErrLeadNotFound)

	h := NewLeadHandler(mockSvc)
	body := `{"first_name":"Jane","last_name":"Doe","email":"jane@x.com","company":"Acme","note":"hot lead"}`
	c, _ := newTestContext(t, http.MethodPut, "/api/leads/10", body)
	c.SetParamNames("id")
	c.SetParamValues("10")
	SetCurrentUser(c, &model.User{ID: 2, Email: "b@x.com"})

	err := h.UpdateLead(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	mockSvc.AssertExpectations(t)
}

func TestLeadHandler_DeleteLead(t *testing.T) {
	mockSvc := new(MockLeadService)
	mockSvc.On("Delete", mock.Anything, uint(1), uint(10)).Return(nil)

	h := NewLeadHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodDelete, "/api/leads/10", "")
	c.SetParamNames("id")
	c.SetParamValues("10")
	SetCurrentUser(c, &model.User{ID: 1, Email: "a@x.com"})

	err := h.DeleteLead(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestLeadHandler_ListLeads(t *testing.T) {
	mockSvc := new(MockLeadService)
	owned := []model.Lead{{ID: 1, OwnerID: 3}, {ID: 2, OwnerID: 3}}
	mockSvc.On("List", mock.Anything, uint(3)).Return(owned, nil)

	h := NewLeadHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodGet, "/api/leads", "")
	SetCurrentUser(c, &model.User{ID: 3, Email: "a@x.com"})

	err := h.ListLeads(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	mockSvc.AssertExpectations(t)
}
