package main

import (
	"care-thread/domain"
	"care-thread/repositories"
	"care-thread/services"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// inspect prints the roster stored in a badger directory as seen by one user.
// The database is opened read-only, a running server can keep its lock.
func main() {
	dbPath := flag.String("db", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	user := flag.String("user", "", "User id whose unread counts are computed")
	pageSize := flag.Int("page", 500, "Messages read per storage round trip")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("missing -db or BADGER_FILEPATH")
	}
	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	logger := logs.GetLoggerFromLevel(slog.LevelWarn)
	threads := repositories.NewThreadRepository(db, logger, *pageSize)
	users := repositories.NewUserRepository(db)
	// Listing never records anything, so no audit hook nor index is needed.
	service := services.NewThreadService(threads, users, nil, nil, logger, *pageSize)

	summaries, err := service.ListThreads(context.Background(), domain.UserID(*user))
	if err != nil {
		log.Fatal("Error while listing threads: ", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Thread", "Patient", "Ward", "Status", "Owner", "Members", "Last seq", "Unread"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, s := range summaries {
		a := s.Admission
		unread := "-"
		if s.IsMember {
			unread = strconv.Itoa(s.Unread)
		}
		table.Append([]string{
			shortID(string(a.ID)),
			a.Patient.FullName(),
			a.Patient.Ward,
			statusLabel(a.Status),
			string(a.MainCareOwnerID),
			strings.Join(toStrings(a.Members), ","),
			strconv.FormatUint(a.LastSeq, 10),
			unread,
		})
	}
	table.Render()
	fmt.Printf("\n%d admissions\n", len(summaries))
}

func statusLabel(status domain.AdmissionStatus) string {
	switch status {
	case domain.StatusActive:
		return color.Green.Sprint(string(status))
	case domain.StatusDischarged:
		return color.Gray.Sprint(string(status))
	default:
		return color.Red.Sprint(string(status))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func toStrings(ids []domain.UserID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

