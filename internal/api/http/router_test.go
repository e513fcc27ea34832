package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-portal/internal/api/http/handlers"
	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/config"
	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/events"
	"github.com/spec-kit/complaint-portal/internal/observability"
	"github.com/spec-kit/complaint-portal/internal/persistence"
	"github.com/spec-kit/complaint-portal/internal/ratelimit"
	"github.com/spec-kit/complaint-portal/internal/repository/memory"
	"github.com/spec-kit/complaint-portal/internal/service"
)

type envelope struct {
	Data         json.RawMessage   `json:"data"`
	Dependencies map[string]string `json:"dependencies"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T, intakeLimit int) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	accounts := memory.NewAccountStore()
	history := memory.NewHistoryStore()
	catalog := service.NewCatalogService(memory.NewCategoryStore())
	tokens := auth.NewTokenManager("test-secret", 60)

	complaints := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: memory.NewComplaintStore(),
		HistoryRepo:   history,
		FeedbackRepo:  memory.NewFeedbackStore(),
		Catalog:       catalog,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		AccountRepo: accounts,
		Catalog:     catalog,
		Tokens:      tokens,
		BcryptCost:  4,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	service.NewHistoryRecorder(dispatcher, history).RegisterHandlers()
	require.NoError(t, accountService.EnsureBootstrapAdmin(context.Background(), config.BootstrapConfig{
		AdminHandle: "root", AdminPassword: "root-password",
	}))

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("complaint-portal", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Complaints:     handlers.NewComplaintsHandler(complaints),
		Accounts:       handlers.NewAccountsHandler(accountService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, accounts, logger),
		Metrics:        metrics,
		IntakeThrottle: IntakeThrottle(ratelimit.NewLocalLimiter(intakeLimit, time.Hour), logger, metrics),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func login(t *testing.T, app *fiber.App, identifier, password string) string {
	t.Helper()
	resp, env := call(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"identifier": identifier, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	return session.Auth.Token
}

func fileComplaint(t *testing.T, app *fiber.App, category string) map[string]any {
	t.Helper()
	resp, env := call(t, app, http.MethodPost, "/complaints", "", map[string]any{
		"title":         "Burst pipe",
		"description":   "Water everywhere",
		"category":      category,
		"citizen_name":  "Asha",
		"citizen_email": "asha@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestComplaintWorkflowOverHTTP(t *testing.T) {
	app := newTestApp(t, 10)

	complaint := fileComplaint(t, app, "Water Supply")
	reference := complaint["reference"].(string)
	assert.Equal(t, "Water Department", complaint["department"])
	assert.Equal(t, string(domain.StatusPending), complaint["status"])

	resp, env := call(t, app, http.MethodPatch, "/complaints/"+reference, "", map[string]string{"field": "status", "value": "resolved"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	resp, _ = call(t, app, http.MethodPost, "/auth/register-department", "", map[string]string{
		"handle": "water-desk", "email": "water@city.gov", "password": "water-password", "department": "water department",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = call(t, app, http.MethodPost, "/auth/register-department", "", map[string]string{
		"handle": "roads-desk", "email": "roads@city.gov", "password": "roads-password", "department": "Public Works Department",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	waterToken := login(t, app, "water-desk", "water-password")
	resp, env = call(t, app, http.MethodPatch, "/complaints/"+reference, waterToken, map[string]string{"field": "status", "value": "resolved"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	// Authorization is decided before the payload is inspected.
	resp, env = call(t, app, http.MethodPatch, "/complaints/"+reference, waterToken, map[string]string{"field": "", "value": ""})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	adminToken := login(t, app, "root", "root-password")
	for _, handle := range []string{"water-desk", "roads-desk"} {
		resp, env = call(t, app, http.MethodPatch, "/accounts/"+handle, adminToken, map[string]bool{"is_department_staff": true})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var account map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &account))
		assert.Equal(t, "department_staff", account["role"])
	}

	roadsToken := login(t, app, "roads@city.gov", "roads-password")
	resp, env = call(t, app, http.MethodPatch, "/complaints/"+reference, roadsToken, map[string]string{"field": "status", "value": "resolved"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
	resp, env = call(t, app, http.MethodPatch, "/complaints/"+reference, roadsToken, map[string]string{"value": "resolved"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	resp, env = call(t, app, http.MethodPatch, "/complaints/"+reference, waterToken, map[string]string{"value": "resolved"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "field", env.Error.Details["field"])

	resp, env = call(t, app, http.MethodPatch, "/complaints/"+reference, waterToken, map[string]string{"field": "status", "value": "archived"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "status", env.Error.Details["field"])

	resp, env = call(t, app, http.MethodPatch, "/complaints/"+reference, waterToken, map[string]string{"field": "status", "value": "resolved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "resolved", updated["status"])
	assert.NotNil(t, updated["resolved_at"])

	resp, env = call(t, app, http.MethodGet, "/complaints/"+reference+"/history", waterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "water-desk", history[0]["changed_by"])

	resp, _ = call(t, app, http.MethodPost, "/complaints/"+reference+"/feedback", "", map[string]any{"rating": 5})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, env = call(t, app, http.MethodPost, "/complaints/"+reference+"/feedback", "", map[string]any{"rating": 4})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestListingRedactsContactsForAnonymousCallers(t *testing.T) {
	app := newTestApp(t, 10)
	fileComplaint(t, app, "Water Supply")
	fileComplaint(t, app, "Electricity")

	resp, env := call(t, app, http.MethodGet, "/complaints?page_size=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.NotContains(t, items[0], "citizen_email")

	adminToken := login(t, app, "root", "root-password")
	resp, env = call(t, app, http.MethodGet, "/complaints?department=water%20department", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "asha@example.com", items[0]["citizen_email"])

	resp, env = call(t, app, http.MethodGet, "/complaints/statistics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"by_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByStatus["pending"])
}

func TestIntakeIsThrottled(t *testing.T) {
	app := newTestApp(t, 1)
	fileComplaint(t, app, "Other")

	resp, env := call(t, app, http.MethodPost, "/complaints", "", map[string]any{
		"title": "Again", "description": "Again", "category": "Other", "citizen_name": "Asha",
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestRequestValidation(t *testing.T) {
	app := newTestApp(t, 10)

	resp, env := call(t, app, http.MethodPost, "/complaints", "", map[string]any{
		"description": "No title", "category": "Other", "citizen_name": "Asha",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "title", env.Error.Details["field"])

	resp, env = call(t, app, http.MethodGet, "/complaints/nearby?lat=abc&lng=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "lat", env.Error.Details["field"])
}

func TestAccountsRequireAdministrator(t *testing.T) {
	app := newTestApp(t, 10)

	resp, _ := call(t, app, http.MethodGet, "/accounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env := call(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"handle": "asha", "email": "asha@example.com", "password": "asha-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))

	resp, env = call(t, app, http.MethodGet, "/accounts", session.Auth.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	resp, env = call(t, app, http.MethodGet, "/auth/me", session.Auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "citizen", me["role"])
}

func TestOperationalEndpoints(t *testing.T) {
	app := newTestApp(t, 10)

	resp, env := call(t, app, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "disabled", env.Dependencies["postgres"])
	assert.Equal(t, "disabled", env.Dependencies["redis"])

	resp, env = call(t, app, http.MethodGet, "/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, _ = call(t, app, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = call(t, app, http.MethodGet, "/departments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var departments []string
	require.NoError(t, json.Unmarshal(env.Data, &departments))
	assert.Contains(t, departments, domain.AdminStaffDepartment)
	assert.Contains(t, departments, "Water Department")
}
