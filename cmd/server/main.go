package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workspace-chat/httpapi"
	"workspace-chat/internal"
	"workspace-chat/moderation"
	"workspace-chat/observability"
	"workspace-chat/repositories"
	"workspace-chat/search"
	"workspace-chat/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This keeps 'defer' statements (database
// cleanup) running before the process exits and decouples initialization
// from the entry point.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Stores (BadgerDB + Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	censor, err := moderation.NewCensor(config.CensoredWordList(), charReplacement)
	if err != nil {
		return exitConfig, fmt.Errorf("moderation setup failed: %w", err)
	}

	// 3. Repositories, services, router
	monitor := observability.NewMonitor(logger)
	index := search.NewIndex(blugeWriter, logger)

	messageRepository := repositories.NewMessageRepository(db, logger)
	notificationRepository := repositories.NewNotificationRepository(db, logger, config.NotificationRetention)
	memberRepository := repositories.NewMemberRepository(db)
	workspaceRepository := repositories.NewWorkspaceRepository(db)
	userRepository := repositories.NewUserRepository(db)
	sessionRepository := repositories.NewSessionRepository(db, logger, config.SessionTTL)

	notificationService := services.NewNotificationService(notificationRepository, memberRepository, monitor, logger)
	messageService := services.NewMessageService(
		messageRepository, memberRepository, notificationService,
		index, censor, monitor, config.MaxContentLength, logger,
	)
	sessionService := services.NewSessionService(sessionRepository, config.SessionTTL, logger)
	authService := services.NewAuthService(userRepository, workspaceRepository, memberRepository, sessionService, logger)

	router := httpapi.NewRouter(authService, sessionService, messageService, notificationService, monitor, logger)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", server.Addr, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 5. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 6. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return exitRuntime, fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
