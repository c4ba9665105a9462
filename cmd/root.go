package cmd

import (
	"context"
	"os"
	"time"

	coreConfig "github.com/AzielCF/az-sched/core/config"
	coreDB "github.com/AzielCF/az-sched/core/database"
	"github.com/AzielCF/az-sched/infrastructure/evolution"
	"github.com/AzielCF/az-sched/pkg/utils"
	"github.com/AzielCF/az-sched/scheduler/repository"
	"github.com/AzielCF/az-sched/scheduler/trigger"
	"github.com/AzielCF/az-sched/scheduler/usecase"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	appConfig *coreConfig.Config

	// Repositories
	scheduleRepo  *repository.ScheduleGormRepository
	directoryRepo *repository.DirectoryGormRepository
	logRepo       *repository.LogGormRepository

	// Trigger substrate and firing pipeline
	triggerRegistry *trigger.CronRegistry
	dispatcher      *usecase.Dispatcher

	// Usecases
	scheduleUsecase *usecase.ScheduleUsecase

	// Gateway
	gatewayClient *evolution.Client
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "az-sched",
	Short: "Recurring WhatsApp message scheduler",
	Long: `Schedules recurring WhatsApp messages (once, daily, weekly, monthly,
yearly) and delivers them through an Evolution API instance.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

var (
	flagPort   string
	flagDebug  bool
	flagDriver string
	flagDBName string
)

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&flagPort,
		"port", "p",
		"",
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flagDebug,
		"debug", "d",
		false,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagDriver,
		"db-driver", "",
		"",
		`database driver --db-driver <string> | example: --db-driver="postgres" (default: sqlite)`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagDBName,
		"db-name", "",
		"",
		`sqlite file path or postgres database name --db-name <string> | example: --db-name="storages/scheduler.db"`,
	)
}

// initEnvConfig merges viper-sourced settings over the loaded defaults.
func initEnvConfig() {
	cfg, err := coreConfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	if envPort := viper.GetString("app_port"); envPort != "" {
		cfg.App.Port = envPort
	}
	if viper.GetBool("app_debug") {
		cfg.App.Debug = true
	}

	// Flags win over environment
	if flagPort != "" {
		cfg.App.Port = flagPort
	}
	if flagDebug {
		cfg.App.Debug = true
	}
	if flagDriver != "" {
		cfg.Database.Driver = flagDriver
	}
	if flagDBName != "" {
		cfg.Database.Name = flagDBName
	}

	appConfig = cfg
}

func initApp() {
	if appConfig.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// preparing folder if not exist
	if err := os.MkdirAll(appConfig.Paths.Storages, 0o755); err != nil {
		logrus.Errorln(err)
	}

	ctx := context.Background()

	db, err := coreDB.NewDatabase(appConfig)
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}
	coreDB.GlobalDB = db

	scheduleRepo = repository.NewScheduleGormRepository(db)
	directoryRepo = repository.NewDirectoryGormRepository(db)
	logRepo = repository.NewLogGormRepository(db)
	for _, init := range []func(context.Context) error{
		directoryRepo.InitSchema, scheduleRepo.InitSchema, logRepo.InitSchema,
	} {
		if err := init(ctx); err != nil {
			logrus.Fatalf("failed to migrate schema: %v", err)
		}
	}

	gatewayClient = evolution.NewClient(evolution.Config{
		BaseURL:      appConfig.Evolution.BaseURL,
		APIKey:       appConfig.Evolution.APIKey,
		InstanceName: appConfig.Evolution.InstanceName,
		Timeout:      appConfig.Evolution.Timeout,
	})

	// The registry fires into the dispatcher; the dispatcher writes its
	// post-firing state back into the registry. The closure resolves the
	// dispatcher at fire time, after both exist.
	triggerRegistry = trigger.NewCronRegistry(func(ctx context.Context, scheduleID string) {
		if err := dispatcher.Fire(ctx, scheduleID); err != nil {
			logrus.WithError(err).Errorf("[APP] firing of schedule %s failed", scheduleID)
		}
	})
	dispatcher = usecase.NewDispatcher(scheduleRepo, logRepo, gatewayClient, triggerRegistry).
		WithRetryPolicy(appConfig.Dispatch.LoadRetries, appConfig.Dispatch.RetryDelay)

	scheduleUsecase = usecase.NewScheduleUsecase(
		scheduleRepo,
		directoryRepo.Contacts(),
		directoryRepo.Groups(),
		directoryRepo.Templates(),
		logRepo,
		triggerRegistry,
	)

	// The in-process registry starts empty; rebuild it from persisted state.
	if err := scheduleUsecase.ResyncTriggers(ctx); err != nil {
		logrus.Fatalf("failed to resync triggers: %v", err)
	}
	triggerRegistry.Start()
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of the trigger substrate and database.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	if triggerRegistry != nil {
		triggerRegistry.Stop()
	}
	if coreDB.GlobalDB != nil {
		if sqlDB, err := coreDB.GlobalDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	logrus.Info("[APP] Application stopped cleanly.")
}
