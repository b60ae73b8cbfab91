package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"leadsmanager/internal/auth"
	"leadsmanager/internal/config"
	"leadsmanager/internal/handler"
	"leadsmanager/internal/model"
	"leadsmanager/internal/service"
)

// stubAuthService issues real tokens but resolves users from a fixed map.
type stubAuthService struct {
	jwt   *auth.JWTService
	users map[uint]*model.User
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	return nil, service.ErrEmailTaken
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	return nil, service.ErrInvalidCredentials
}

func (s *stubAuthService) IssueToken(user *model.User) (string, error) {
	return s.jwt.GenerateToken(user)
}

func (s *stubAuthService) ResolveUser(ctx context.Context, userID uint) (*model.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return user, nil
}

// stubLeadService serves a fixed set of leads keyed by owner.
type stubLeadService struct {
	leads map[uint][]model.Lead
}

func (s *stubLeadService) Create(ctx context.Context, ownerID uint, fields service.LeadFields) (*model.Lead, error) {
	return nil, service.ErrLeadNotFound
}

func (s *stubLeadService) List(ctx context.Context, ownerID uint) ([]model.Lead, error) {
	return s.leads[ownerID], nil
}

func (s *stubLeadService) Get(ctx context.Context, ownerID, leadID uint) (*model.Lead, error) {
	for _, lead := range s.leads[ownerID] {
		if lead.ID == leadID {
			return &lead, nil
		}
	}
	return nil, service.ErrLeadNotFound
}

func (s *stubLeadService) Update(ctx context.Context, ownerID, leadID uint, fields service.LeadFields) (*model.Lead, error) {
	return nil, service.ErrLeadNotFound
}

func (s *stubLeadService) Delete(ctx context.Context, ownerID, leadID uint) error {
	return service.ErrLeadNotFound
}

func newTestServer(t *testing.T) (*echo.Echo, *stubAuthService) {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret"}
	authSvc := &stubAuthService{
		jwt: auth.NewJWTService(cfg.JWTSecret),
		users: map[uint]*model.User{
			1: {ID: 1, Email: "a@x.com"},
		},
	}
	leadSvc := &stubLeadService{
		leads: map[uint][]model.Lead{
			1: {{ID: 10, OwnerID: 1, FirstName: "Jane"}},
		},
	}

	e := echo.New()
	Register(e, cfg, authSvc, handler.NewAuthHandler(authSvc), handler.NewLeadHandler(leadSvc))
	return e, authSvc
}

func TestRouter_RootMessage(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Awesome Leads Manager", resp["message"])
}

func TestRouter_Healthz(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_SecuredRoutes_RequireToken(t *testing.T) {
	e, _ := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/leads"},
		{http.MethodGet, "/api/leads/10"},
		{http.MethodPost, "/api/leads"},
		{http.MethodPut, "/api/leads/10"},
		{http.MethodDelete, "/api/leads/10"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req := httptest.NewRequest(p.method, p.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "detail")
		})
	}
}

func TestRouter_MalformedToken(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "could not validate credentials", resp["detail"])
}

func TestRouter_BearerToken_ResolvesUser(t *testing.T) {
	e, authSvc := newTestServer(t)

	token, err := authSvc.IssueToken(authSvc.users[1])
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["id"])
	assert.Equal(t, "a@x.com", resp["email"])
}

func TestRouter_BearerToken_UserNoLongerExists(t *testing.T) {
	e, authSvc := newTestServer(t)

	// Token is validly signed but its user is not in the store.
	token, err := authSvc.jwt.GenerateToken(&model.User{ID: 99, Email: "ghost@x.com"})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_BearerToken_WrongSecret(t *testing.T) {
	e, _ := newTestServer(t)

	forged, err := auth.NewJWTService("other-secret").GenerateToken(&model.User{ID: 1, Email: "a@x.com"})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+forged)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
}

func TestRouter_OwnedLeads(t *testing.T) {
	e, authSvc := newTestServer(t)

	token, err := authSvc.IssueToken(authSvc.users[1])
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/10", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var lead model.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	assert.Equal(t, uint(10), lead.ID)
	assert.Equal(t, uint(1), lead.OwnerID)
}

func TestRouter_MissingLead(t *testing.T) {
	e, authSvc := newTestServer(t)

	token, err := authSvc.IssueToken(authSvc.users[1])
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/999", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")
}
