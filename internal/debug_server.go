package internal

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const inspectTemplate = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>care-thread inspector</title></head>
<body>
<form method="get"><input name="prefix" value="{{.Prefix}}"><button>Scan</button></form>
<p>{{len .Items}} keys</p>
<table border="1" cellpadding="4">
<tr><th>Key</th><th>Type</th><th>Thread</th><th>Position</th><th>Detail</th></tr>
{{range .Items}}<tr><td>{{.Key}}</td><td>{{.Type}}</td><td>{{.Thread}}</td><td>{{.Position}}</td><td>{{.Detail}}</td></tr>
{{end}}
</table>
</body>
</html>`

// InspectRow is one badger key as displayed by the debug inspector.
type InspectRow struct {
	Key      string
	Type     string
	Thread   string
	Position string
	Detail   string
}

type RowMapper func(key string, val []byte) InspectRow

type PageData struct {
	Prefix string
	Items  []InspectRow
}

// NewDebugHandler serves a read-only HTML view of the keys under ?prefix=.
func NewDebugHandler(db *badger.DB, mapper RowMapper) http.Handler {
	tmpl := template.Must(template.New("inspect").Parse(inspectTemplate))
	if mapper == nil {
		mapper = DefaultMapper
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "adm:"
		}
		data := PageData{Prefix: prefix}
		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})
}

// StartDebugServer exposes the inspector on its own port, away from the API.
// It returns the server so the caller can shut it down.
func StartDebugServer(db *badger.DB, log *slog.Logger, port int, endpoint string, mapper RowMapper) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(endpoint, NewDebugHandler(db, mapper))
	server := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Starting debug inspector", "address", server.Addr, "endpoint", endpoint)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("Debug inspector stopped", "error", err)
		}
	}()
	return server
}

// DefaultMapper understands the thread store layout:
// "adm:{thread}", "msg:{thread}:{seq}", "idx:msg:{id}", "audit:{thread}:{nanos}:{id}", "user:{id}".
func DefaultMapper(key string, val []byte) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:      key,
		Type:     "RAW",
		Thread:   "-",
		Position: "-",
		Detail:   "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
	switch parts[0] {
	case "adm":
		row.Type = "ADMISSION"
		if len(parts) > 1 {
			row.Thread = parts[1]
		}
	case "msg":
		row.Type = "MESSAGE"
		if len(parts) > 2 {
			row.Thread = parts[1]
			row.Position = strings.TrimLeft(parts[2], "0")
		}
	case "idx":
		row.Type = "INDEX"
		row.Detail = string(val)
	case "audit":
		row.Type = "AUDIT"
		if len(parts) > 3 {
			row.Thread = parts[1]
			if nanos, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
				row.Position = time.Unix(0, nanos).UTC().Format(time.RFC3339)
			}
		}
	case "user":
		row.Type = "USER"
	}
	return row
}
