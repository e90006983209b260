package main

import (
	"care-thread/api"
	"care-thread/auth"
	"care-thread/contract"
	"care-thread/domain"
	"care-thread/internal"
	"care-thread/repositories"
	"care-thread/runtime"
	"care-thread/runtime/workers"
	"care-thread/search"
	"care-thread/services"
	"care-thread/sink"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and owns their lifecycle, so deferred cleanups
// always execute before the process exits.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Search index (Bluge)
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = writer.Close()
	}()

	// 4. Repositories
	threadRepository := repositories.NewThreadRepository(db, log, config.PageSize)
	userRepository := repositories.NewUserRepository(db)
	auditRepository := repositories.NewAuditRepository(db, log, config.PageSize)
	if err := bootstrapAdmin(userRepository, config.BootstrapAdmin); err != nil {
		return err
	}

	// 5. Synchronization layer
	index := search.NewMessageIndex(writer, threadRepository, log)
	permanentSinks := []contract.EventSink{
		sink.NewAuditLogSink(log),
		sink.NewAuditStoreSink(auditRepository, log),
		index,
	}
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, sup, registry, config.BufferSize, config.SinkTimeout, permanentSinks...)

	// 6. Core service & transport
	service := services.NewThreadService(threadRepository, userRepository, orchestrator.AuditHook(), index, log,
		config.PageSize, services.WithMaxContentLength(config.MaxContentLength))
	verifier := auth.NewVerifier(config.JwtSecret, config.JwtIssuer)
	server := api.NewServer(service, userRepository, auditRepository, orchestrator, verifier, log, config.SessionBuffer)

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestratorDone := make(chan struct{})
	go func() {
		orchestrator.Start(ctx)
		close(orchestratorDone)
	}()

	if config.DebugPort > 0 {
		debug := internal.StartDebugServer(db, log, config.DebugPort, "/inspect", internal.DefaultMapper)
		defer func() {
			_ = debug.Close()
		}()
	}

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		orchestrator.Stop()
		<-orchestratorDone
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server did not stop cleanly", "error", err)
	}
	orchestrator.Stop()
	// Storage closes in the deferred calls, the fanout must be done with it
	<-orchestratorDone
	log.Info("Program stopped cleanly")
	return nil
}

// bootstrapAdmin seeds the directory with a first admin so that roles can
// then be managed through the API.
func bootstrapAdmin(users repositories.IUserRepository, id string) error {
	if id == "" {
		return nil
	}
	ctx := context.Background()
	if _, err := users.GetUser(ctx, domain.UserID(id)); err == nil {
		return nil
	}
	return users.UpsertUser(ctx, domain.User{ID: domain.UserID(id), Role: domain.RoleAdmin, DisplayName: "bootstrap"})
}
