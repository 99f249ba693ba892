package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cramhq/cram-api/internal/config"
	"github.com/cramhq/cram-api/internal/domain/srs"
	"github.com/cramhq/cram-api/internal/events"
	"github.com/cramhq/cram-api/internal/platform/postgres"
	"github.com/cramhq/cram-api/internal/service"
	"github.com/cramhq/cram-api/internal/service/auth"
	"github.com/cramhq/cram-api/internal/store"
	"github.com/cramhq/cram-api/internal/task"
)

// application holds all the shared application dependencies so wiring
// and shutdown live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore    store.UserStore
	deckStore    store.DeckStore
	cardStore    store.CardStore
	memoryStore  store.MemoryStateStore
	sessionStore store.SessionStore
	taskStore    task.Store

	// Services
	jwtService   auth.JWTService
	userService  service.UserService
	deckService  service.DeckService
	studyService service.StudyService
	quizService  service.QuizService

	// Event system and background tasks
	eventEmitter events.Emitter
	taskRunner   *task.Runner
}

// newApplication creates an application with all dependencies wired.
// The task runner is constructed but not started; Run starts it.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Stores
	app.userStore = postgres.NewUserStore(db)
	app.deckStore = postgres.NewDeckStore(db, logger)
	app.cardStore = postgres.NewCardStore(db, logger)
	app.memoryStore = postgres.NewMemoryStateStore(db, logger)
	app.sessionStore = postgres.NewSessionStore(db, logger)
	app.taskStore = postgres.NewTaskStore(db, logger)

	// Event emitter and task runner
	emitter := events.NewInMemoryEmitter(logger)
	app.eventEmitter = emitter
	app.taskRunner = task.NewRunner(app.taskStore, task.RunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)

	// Services
	hasher := auth.NewBcryptHasher()
	app.userService = service.NewUserService(app.userStore, hasher, hasher, logger)
	app.deckService = service.NewDeckService(
		db, app.deckStore, app.cardStore, app.memoryStore, app.eventEmitter, logger)
	app.studyService = service.NewStudyService(
		db, app.deckStore, app.cardStore, app.memoryStore, app.sessionStore,
		srs.NewDefaultScheduler(), logger)
	app.quizService = service.NewQuizService(
		app.deckStore, app.cardStore,
		rand.New(rand.NewSource(time.Now().UnixNano())), logger)

	// The deck service doubles as the import task's card appender; the
	// factory both creates fresh tasks and rebuilds persisted ones.
	appender, ok := app.deckService.(task.CardAppender)
	if !ok {
		return nil, fmt.Errorf("deck service does not implement the card appender")
	}
	importFactory := task.NewDeckImportTaskFactory(appender, logger)
	app.taskRunner.RegisterFactory(task.TypeDeckImport, importFactory)
	emitter.RegisterHandler(task.NewEventHandler(app.taskRunner, importFactory, logger))

	logger.Info("application initialized")
	return app, nil
}

// Run starts the background task runner and the HTTP server, and blocks
// until shutdown.
func (app *application) Run(ctx context.Context) error {
	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
