package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/scheduler/repository"
	"github.com/AzielCF/az-sched/scheduler/trigger"
	"github.com/AzielCF/az-sched/scheduler/usecase"
	"github.com/AzielCF/az-sched/ui/rest/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGateway returns a fixed result for every send.
type stubGateway struct {
	result domain.SendResult
}

func (g *stubGateway) SendText(ctx context.Context, recipient, text string) domain.SendResult {
	return g.result
}

func (g *stubGateway) SendMedia(ctx context.Context, recipient, caption, mediaPath string, media domain.MediaType) domain.SendResult {
	return g.result
}

type restEnv struct {
	app       *fiber.App
	directory *repository.DirectoryGormRepository
	logs      *repository.LogGormRepository
}

func newRestEnv(t *testing.T, gw domain.MessageGateway) *restEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	schedules := repository.NewScheduleGormRepository(db)
	directory := repository.NewDirectoryGormRepository(db)
	logs := repository.NewLogGormRepository(db)
	for _, init := range []func(context.Context) error{
		directory.InitSchema, schedules.InitSchema, logs.InitSchema,
	} {
		require.NoError(t, init(ctx))
	}

	registry := trigger.NewCronRegistry(func(ctx context.Context, scheduleID string) {})
	dispatcher := usecase.NewDispatcher(schedules, logs, gw, registry)
	uc := usecase.NewScheduleUsecase(schedules, directory.Contacts(), directory.Groups(), directory.Templates(), logs, registry)

	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestSchedule(app, uc, dispatcher)

	return &restEnv{app: app, directory: directory, logs: logs}
}

func (e *restEnv) seed(t *testing.T) (contactID, templateID string) {
	t.Helper()
	ctx := context.Background()
	contact := &domain.Contact{Name: "Ana", PhoneNumber: "5511987654321", Enabled: true}
	require.NoError(t, e.directory.Contacts().Create(ctx, contact))
	tpl := &domain.MessageTemplate{Title: "digest", Content: "boa tarde", MediaType: domain.MediaText, Enabled: true}
	require.NoError(t, e.directory.Templates().Create(ctx, tpl))
	return contact.ID, tpl.ID
}

type envelope struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Results map[string]any `json:"results"`
}

func (e *restEnv) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func scheduleBody(contactID, templateID string) map[string]any {
	return map[string]any{
		"title":          "weekly digest",
		"template_id":    templateID,
		"recipient_type": "contact",
		"contact_id":     contactID,
		"frequency":      "weekly",
		"start_date":     "2024-01-01T09:00:00Z",
		"day_of_week":    2,
	}
}

func TestCreateScheduleEndpoint(t *testing.T) {
	env := newRestEnv(t, &stubGateway{})
	contactID, templateID := env.seed(t)

	status, resp := env.do(t, http.MethodPost, "/schedules", scheduleBody(contactID, templateID))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SUCCESS", resp.Code)
	assert.Equal(t, "active", resp.Results["status"])
	assert.Equal(t, "2024-01-01T09:00:00Z", resp.Results["next_execution"])
	assert.NotEmpty(t, resp.Results["next_run_in"])
}

func TestCreateScheduleEndpointValidationError(t *testing.T) {
	env := newRestEnv(t, &stubGateway{})
	contactID, templateID := env.seed(t)

	body := scheduleBody(contactID, templateID)
	delete(body, "day_of_week") // weekly without its calendar field

	status, resp := env.do(t, http.MethodPost, "/schedules", body)

	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Contains(t, resp.Message, "day_of_week")
}

func TestCreateScheduleEndpointUnknownTemplate(t *testing.T) {
	env := newRestEnv(t, &stubGateway{})
	contactID, _ := env.seed(t)

	status, resp := env.do(t, http.MethodPost, "/schedules", scheduleBody(contactID, "no-such-template"))

	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND_ERROR", resp.Code)
}

func TestGetScheduleEndpointNotFound(t *testing.T) {
	env := newRestEnv(t, &stubGateway{})

	status, resp := env.do(t, http.MethodGet, "/schedules/ghost", nil)

	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND_ERROR", resp.Code)
}

func TestPauseResumeEndpoints(t *testing.T) {
	env := newRestEnv(t, &stubGateway{})
	contactID, templateID := env.seed(t)

	_, created := env.do(t, http.MethodPost, "/schedules", scheduleBody(contactID, templateID))
	id := created.Results["id"].(string)

	status, resp := env.do(t, http.MethodPost, "/schedules/"+id+"/pause", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "paused", resp.Results["status"])

	// Pausing a paused schedule is an invalid transition.
	status, resp = env.do(t, http.MethodPost, "/schedules/"+id+"/pause", nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)

	status, resp = env.do(t, http.MethodPost, "/schedules/"+id+"/resume", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "active", resp.Results["status"])
	assert.NotEmpty(t, resp.Results["next_execution"])
}

func TestFireEndpoint(t *testing.T) {
	env := newRestEnv(t, &stubGateway{result: domain.SendResult{Success: true, MessageID: "EVO-rest"}})
	contactID, templateID := env.seed(t)

	_, created := env.do(t, http.MethodPost, "/schedules", scheduleBody(contactID, templateID))
	id := created.Results["id"].(string)

	status, resp := env.do(t, http.MethodPost, "/schedules/"+id+"/fire", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "active", resp.Results["status"])
	assert.NotEmpty(t, resp.Results["last_sent"])

	logs, err := env.logs.List(context.Background(), domain.LogFilter{ScheduleID: id})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.LogSent, logs[0].Status)
	assert.Equal(t, "EVO-rest", logs[0].GatewayMessageID)
}

func TestDashboardStatsEndpoint(t *testing.T) {
	env := newRestEnv(t, &stubGateway{})
	contactID, templateID := env.seed(t)

	_, _ = env.do(t, http.MethodPost, "/schedules", scheduleBody(contactID, templateID))

	status, resp := env.do(t, http.MethodGet, "/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), resp.Results["total_schedules"])
}
