package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aj9599/zaptec-sync/config"
	"github.com/aj9599/zaptec-sync/database"
	"github.com/aj9599/zaptec-sync/services/zaptec"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T, serverURL string) (*App, *zaptec.DatabaseHandler) {
	t.Helper()

	cfg := &config.Config{
		Username:       "alice",
		Password:       "s3cret",
		InstallationID: "inst-1",
		APIBaseURL:     serverURL,
		DatabasePath:   filepath.Join(t.TempDir(), "chargehistory.db"),
		BillingPeriod:  config.PeriodCurrent,
	}

	db, err := database.InitDB(cfg.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))

	app := NewApp(cfg, db)
	app.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	return app, zaptec.NewDatabaseHandler(db)
}

func TestRunStoresFetchedSessions(t *testing.T) {
	var historyRequests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			fmt.Fprint(w, `{"access_token":"tok123","expires_in":86400,"token_type":"Bearer"}`)
		case "/api/chargehistory":
			historyRequests++
			require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
			require.Equal(t, "2024-03-01T00:00:00", r.URL.Query().Get("StartDate"))
			require.Equal(t, "2024-03-31T00:00:00", r.URL.Query().Get("EndDate"))
			fmt.Fprint(w, `{"Pages":1,"Data":[
				{"UserUserName":"alice","Id":"s1","DeviceId":"d1",
				 "StartDateTime":"2024-03-01T00:00:00.000000",
				 "EndDateTime":"2024-03-01T01:00:00.000000",
				 "Energy":5.2,"UserFullName":"Alice A","ChargerId":"c1",
				 "DeviceName":"Charger1","UserEmail":"a@x.com","UserId":"u1"}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	app, dh := testApp(t, srv.URL)

	require.NoError(t, app.Run())
	require.Equal(t, 1, historyRequests)

	count, err := dh.CountSessions()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	wantStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix()
	stored, err := dh.GetSessionByStartTime(wantStart)
	require.NoError(t, err)
	require.Equal(t, 5.2, stored.Energy)
	require.Equal(t, "alice", stored.UserUserName)
	require.Equal(t, "d1", stored.DeviceID)

	// A second run over the same window must not double-insert
	require.NoError(t, app.Run())
	count, err = dh.CountSessions()
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRunAbortsWhenAuthRejected(t *testing.T) {
	var historyRequests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
		case "/api/chargehistory":
			historyRequests++
		}
	}))
	defer srv.Close()

	app, dh := testApp(t, srv.URL)

	err := app.Run()
	var authErr *zaptec.AuthError
	require.ErrorAs(t, err, &authErr)

	// No fetch and no store happened
	require.Zero(t, historyRequests)
	count, err := dh.CountSessions()
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRunContinuesWhenFetchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			fmt.Fprint(w, `{"access_token":"tok123"}`)
		case "/api/chargehistory":
			http.Error(w, `{"Message":"boom"}`, http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	app, dh := testApp(t, srv.URL)

	// A failed fetch is logged and treated as zero records, not fatal
	require.NoError(t, app.Run())

	count, err := dh.CountSessions()
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRunSkipsMalformedRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			fmt.Fprint(w, `{"access_token":"tok123"}`)
		case "/api/chargehistory":
			fmt.Fprint(w, `{"Pages":1,"Data":[
				{"UserUserName":"alice","Id":"s1","DeviceId":"d1",
				 "StartDateTime":"2024-03-01T00:00:00.000000",
				 "EndDateTime":"2024-03-01T01:00:00.000000","Energy":5.2},
				{"UserUserName":"bob","Id":"s2","DeviceId":"d1",
				 "StartDateTime":"2024-03-02T00:00:00.000000",
				 "EndDateTime":"2024-03-02T01:00:00.000000"},
				{"UserUserName":"carol","Id":"s3","DeviceId":"d1",
				 "StartDateTime":"2024-03-03T00:00:00.000000",
				 "EndDateTime":"2024-03-03T01:00:00.000000","Energy":7.1}
			]}`)
		}
	}))
	defer srv.Close()

	app, dh := testApp(t, srv.URL)

	// s2 has no Energy field; the other two must still be stored
	require.NoError(t, app.Run())

	count, err := dh.CountSessions()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	_, err = dh.GetSessionByStartTime(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC).Unix())
	require.Error(t, err)
}
