package main

import (
	"care-thread/internal"
	"care-thread/repositories"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

type viewerConfig struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	DebugPort      int    `env:"DEBUG_PORT,default=6060"`
}

func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config viewerConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 2. Open Badger in Read-Only mode
	// BypassLockGuard allows opening while the server holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// 3. Serve the inspector only
	mux := http.NewServeMux()
	mux.Handle("/inspect", internal.NewDebugHandler(db, ThreadMapper))
	server := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", config.DebugPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger := logs.GetLoggerFromLevel(slog.LevelInfo)
	logger.Info("Viewer started", "url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Viewer stopped: %v", err)
	}
}

// ThreadMapper decodes admissions and messages to show something readable.
func ThreadMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)
	switch {
	case strings.HasPrefix(key, "adm:"):
		if a, err := repositories.DecodeAdmission(val); err == nil {
			row.Position = fmt.Sprintf("seq %d", a.LastSeq)
			row.Detail = fmt.Sprintf("%s | %s | members: %d", a.Patient.FullName(), a.Status, len(a.Members))
		}
	case strings.HasPrefix(key, "msg:"):
		if m, err := repositories.DecodeMessage(val); err == nil {
			content := m.Content
			if m.Deleted {
				content = "<deleted>"
			}
			row.Detail = fmt.Sprintf("[%s] %s: %s (read by %d)", m.Kind, m.SenderID, content, len(m.ReadBy))
		}
	}
	return row
}
