package usecase

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/scheduler/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	schedules *repository.ScheduleGormRepository
	directory *repository.DirectoryGormRepository
	logs      *repository.LogGormRepository
	registry  *fakeRegistry
	uc        *ScheduleUsecase
}

func setupTestEnv(t *testing.T) *testEnv {
	return setupTestEnvWithDSN(t, ":memory:")
}

func setupTestEnvWithDSN(t *testing.T, dsn string) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	// Single pooled connection, same as the production sqlite setup. This
	// also keeps every query on one :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	ctx := context.Background()
	schedules := repository.NewScheduleGormRepository(db)
	directory := repository.NewDirectoryGormRepository(db)
	logs := repository.NewLogGormRepository(db)
	for _, init := range []func(context.Context) error{
		schedules.InitSchema, directory.InitSchema, logs.InitSchema,
	} {
		if err := init(ctx); err != nil {
			t.Fatalf("failed to init schema: %v", err)
		}
	}

	registry := &fakeRegistry{}
	uc := NewScheduleUsecase(schedules, directory.Contacts(), directory.Groups(), directory.Templates(), logs, registry)
	return &testEnv{schedules: schedules, directory: directory, logs: logs, registry: registry, uc: uc}
}

func (e *testEnv) seedContactAndTemplate(t *testing.T) (contactID, templateID string) {
	t.Helper()
	ctx := context.Background()
	contact := &domain.Contact{Name: "Maria", PhoneNumber: "11987654321", Enabled: true}
	require.NoError(t, e.directory.Contacts().Create(ctx, contact))
	tpl := &domain.MessageTemplate{Title: "greeting", Content: "bom dia", MediaType: domain.MediaText, Enabled: true}
	require.NoError(t, e.directory.Templates().Create(ctx, tpl))
	return contact.ID, tpl.ID
}

func weeklyInput(contactID, templateID string) CreateScheduleInput {
	dow := 2 // Wednesday, Monday=0 convention
	return CreateScheduleInput{
		Title:         "weekly greeting",
		TemplateID:    templateID,
		RecipientType: domain.RecipientContact,
		ContactID:     contactID,
		Frequency:     domain.FrequencyWeekly,
		StartDate:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		DayOfWeek:     &dow,
	}
}

func TestCreateScheduleSeedsNextExecution(t *testing.T) {
	env := setupTestEnv(t)
	contactID, templateID := env.seedContactAndTemplate(t)

	s, err := env.uc.Create(context.Background(), weeklyInput(contactID, templateID))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, s.Status)
	require.NotNil(t, s.NextExecution)
	assert.Equal(t, s.StartDate, *s.NextExecution)
	require.NotNil(t, s.Contact)
	assert.Equal(t, "11987654321", s.Contact.PhoneNumber)

	require.Len(t, env.registry.upserts, 1)
	entry := env.registry.upserts[0]
	assert.True(t, entry.Enabled)
	require.NotNil(t, entry.Cron)
	assert.Equal(t, 9, entry.Cron.Hour)
	require.NotNil(t, entry.Cron.DayOfWeek)
	assert.Equal(t, 3, *entry.Cron.DayOfWeek, "Monday=0 index 2 maps to cron Wednesday=3")
}

func TestCreateScheduleRejectsMismatchedRecipient(t *testing.T) {
	env := setupTestEnv(t)
	contactID, templateID := env.seedContactAndTemplate(t)

	input := weeklyInput(contactID, templateID)
	input.RecipientType = domain.RecipientGroup // group type, contact reference

	_, err := env.uc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrScheduleMisconfigured)
}

func TestCreateScheduleRejectsUnknownTemplate(t *testing.T) {
	env := setupTestEnv(t)
	contactID, _ := env.seedContactAndTemplate(t)

	input := weeklyInput(contactID, "no-such-template")
	_, err := env.uc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestPauseAndResume(t *testing.T) {
	env := setupTestEnv(t)
	contactID, templateID := env.seedContactAndTemplate(t)
	ctx := context.Background()

	s, err := env.uc.Create(ctx, weeklyInput(contactID, templateID))
	require.NoError(t, err)

	paused, err := env.uc.Pause(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaused, paused.Status)
	assert.Nil(t, paused.NextExecution)

	// Trigger entry disabled but not removed while paused.
	last := env.registry.upserts[len(env.registry.upserts)-1]
	assert.False(t, last.Enabled)
	assert.Empty(t, env.registry.removed)

	// Pausing twice is rejected.
	_, err = env.uc.Pause(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	resumed, err := env.uc.Resume(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, resumed.Status)
	require.NotNil(t, resumed.NextExecution)

	last = env.registry.upserts[len(env.registry.upserts)-1]
	assert.True(t, last.Enabled)
}

func TestDeleteRemovesTrigger(t *testing.T) {
	env := setupTestEnv(t)
	contactID, templateID := env.seedContactAndTemplate(t)
	ctx := context.Background()

	s, err := env.uc.Create(ctx, weeklyInput(contactID, templateID))
	require.NoError(t, err)

	require.NoError(t, env.uc.Delete(ctx, s.ID))
	require.Len(t, env.registry.removed, 1)
	assert.Equal(t, "whatsapp-schedule-"+s.ID, env.registry.removed[0])

	_, err = env.uc.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestDispatcherAgainstRealStore(t *testing.T) {
	env := setupTestEnv(t)
	contactID, templateID := env.seedContactAndTemplate(t)
	ctx := context.Background()

	s, err := env.uc.Create(ctx, weeklyInput(contactID, templateID))
	require.NoError(t, err)

	gw := &fakeGateway{result: domain.SendResult{Success: true, MessageID: "EVO-77"}}
	d := NewDispatcher(env.schedules, env.logs, gw, env.registry)
	d.retryDelay = time.Millisecond

	require.NoError(t, d.Fire(ctx, s.ID))

	stored, err := env.schedules.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, stored.Status)
	require.NotNil(t, stored.LastSent)
	require.NotNil(t, stored.NextExecution)
	assert.True(t, stored.NextExecution.After(*stored.LastSent))

	logs, err := env.logs.List(ctx, domain.LogFilter{ScheduleID: s.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.LogSent, logs[0].Status)
	assert.Equal(t, "EVO-77", logs[0].GatewayMessageID)
	assert.Equal(t, "5511987654321", logs[0].Recipient)
}

// A firing against a file-backed store with one pooled connection must not
// block: log writes happen with the schedule row lock released, so they never
// wait on the connection the claim/write-back transactions use.
func TestFireWithSingleConnectionFileStore(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "scheduler.db") + "?_journal_mode=WAL&_foreign_keys=on"
	env := setupTestEnvWithDSN(t, dsn)
	contactID, templateID := env.seedContactAndTemplate(t)
	ctx := context.Background()

	s, err := env.uc.Create(ctx, weeklyInput(contactID, templateID))
	require.NoError(t, err)

	gw := &fakeGateway{result: domain.SendResult{Success: true, MessageID: "EVO-11"}}
	d := NewDispatcher(env.schedules, env.logs, gw, env.registry)
	d.retryDelay = time.Millisecond

	done := make(chan error, 1)
	go func() { done <- d.Fire(ctx, s.ID) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("firing blocked on the single-connection store")
	}

	logs, err := env.logs.List(ctx, domain.LogFilter{ScheduleID: s.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.LogSent, logs[0].Status)

	stored, err := env.schedules.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastSent)
}

func TestDashboardStats(t *testing.T) {
	env := setupTestEnv(t)
	contactID, templateID := env.seedContactAndTemplate(t)
	ctx := context.Background()

	_, err := env.uc.Create(ctx, weeklyInput(contactID, templateID))
	require.NoError(t, err)

	stats, err := env.uc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalSchedules)
	assert.Equal(t, int64(1), stats.ScheduleSummary[domain.StatusActive])
}
