package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aj9599/zaptec-sync/config"
	"github.com/aj9599/zaptec-sync/services/zaptec"
)

// Query knobs fixed to match the portal's own history export.
const (
	historyMaxEntries  = 100
	historyGroupBy     = 0
	historyDetailLevel = 0
)

// App wires the auth handler, API client and database handler for one
// fetch-and-store pass.
type App struct {
	cfg   *config.Config
	auth  *zaptec.AuthHandler
	api   *zaptec.APIClient
	store *zaptec.DatabaseHandler
	now   func() time.Time
}

func NewApp(cfg *config.Config, db *sql.DB) *App {
	client := &http.Client{Timeout: 30 * time.Second}

	return &App{
		cfg:   cfg,
		auth:  zaptec.NewAuthHandler(client, cfg.APIBaseURL),
		api:   zaptec.NewAPIClient(client, cfg.APIBaseURL),
		store: zaptec.NewDatabaseHandler(db),
		now:   time.Now,
	}
}

// Run performs one pass: authenticate, compute the billing window, fetch
// charge history, store each record. Only an authentication failure is
// fatal; a failed fetch is logged and treated as zero records, and each
// record's store failure is logged and skipped.
func (app *App) Run() error {
	token, err := app.auth.Authenticate(app.cfg.Username, app.cfg.Password)
	if err != nil {
		return fmt.Errorf("aborting run: %w", err)
	}
	if token == "" {
		return fmt.Errorf("aborting run: auth endpoint returned no access token")
	}
	log.Println("Zaptec: Authentication successful")

	previous := app.cfg.BillingPeriod == config.PeriodPrevious
	start, end := zaptec.MonthWindow(app.now(), previous, app.cfg.FullMonthWindow)
	log.Printf("Zaptec: Syncing %s billing period %s - %s",
		app.cfg.BillingPeriod,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))

	sessions, err := app.api.GetChargeHistory(token, zaptec.HistoryQuery{
		InstallationID: app.cfg.InstallationID,
		Start:          start,
		End:            end,
		MaxEntries:     historyMaxEntries,
		GroupBy:        historyGroupBy,
		DetailLevel:    historyDetailLevel,
	})
	if err != nil {
		// Not the same as an empty month: the fetch itself failed.
		log.Printf("WARNING: %v - continuing with no records", err)
		sessions = nil
	} else if len(sessions) == 0 {
		log.Println("Zaptec: No charge sessions in window")
	}

	inserted, duplicates, skipped, failed := 0, 0, 0, 0
	for i := range sessions {
		s := &sessions[i]
		err := app.store.InsertSession(s)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, zaptec.ErrDuplicateSession):
			duplicates++
			log.Printf("Zaptec: %v, skipping", err)
		case errors.Is(err, zaptec.ErrMalformedRecord):
			skipped++
			log.Printf("WARNING: %v, skipping", err)
		default:
			failed++
			log.Printf("ERROR: Could not store session %s: %v", s.ID, err)
		}
	}

	log.Printf("Zaptec: Sync complete: %d inserted, %d duplicates, %d malformed, %d failed",
		inserted, duplicates, skipped, failed)

	return nil
}
