package zaptec

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateSession is returned when a session with the same start time
// is already stored. The start-time primary key is the sole deduplication
// mechanism: overlapping sync windows hit this error instead of inserting
// twice.
var ErrDuplicateSession = errors.New("session with this start time already stored")

// ErrMalformedRecord is returned when a history record is missing required
// fields or its timestamps do not parse.
var ErrMalformedRecord = errors.New("malformed charge history record")

// StoredSession is one row of the sessions table, timestamps in epoch
// seconds.
type StoredSession struct {
	UserUserName string
	SessionID    string
	DeviceID     string
	StartTime    int64
	EndTime      int64
	Energy       float64
	UserFullName string
	ChargerID    string
	DeviceName   string
	UserEmail    string
	UserID       string
}

// DatabaseHandler manages all database operations for Zaptec session data
type DatabaseHandler struct {
	db *sql.DB
}

// NewDatabaseHandler creates a new database handler
func NewDatabaseHandler(db *sql.DB) *DatabaseHandler {
	return &DatabaseHandler{db: db}
}

// InsertSession writes one charge session to the sessions table. Each
// insert runs in its own transaction, so one bad record never rolls back
// its neighbours. Timestamps are converted from the API's ISO-8601 form to
// epoch seconds before storage.
func (dh *DatabaseHandler) InsertSession(session *ChargeHistory) error {
	if session.UserUserName == "" || session.ID == "" {
		return fmt.Errorf("%w: session %q missing required identity fields", ErrMalformedRecord, session.ID)
	}
	if session.Energy == nil || *session.Energy < 0 {
		return fmt.Errorf("%w: session %s has no usable energy value", ErrMalformedRecord, session.ID)
	}

	startTime, err := ParseSessionTime(session.StartDateTime)
	if err != nil {
		return fmt.Errorf("%w: session %s start time: %v", ErrMalformedRecord, session.ID, err)
	}
	endTime, err := ParseSessionTime(session.EndDateTime)
	if err != nil {
		return fmt.Errorf("%w: session %s end time: %v", ErrMalformedRecord, session.ID, err)
	}

	tx, err := dh.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (
			user_user_name, session_id, device_id, start_time, end_time,
			energy, user_full_name, charger_id, device_name, user_email, user_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		session.UserUserName,
		session.ID,
		session.DeviceID,
		startTime.Unix(),
		endTime.Unix(),
		*session.Energy,
		session.UserFullName,
		session.ChargerID,
		session.DeviceName,
		session.UserEmail,
		session.UserID,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: session %s (start %d)", ErrDuplicateSession, session.ID, startTime.Unix())
		}
		return fmt.Errorf("failed to insert session %s: %v", session.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session %s: %v", session.ID, err)
	}

	return nil
}

// GetSessionByStartTime reads back one stored session by its epoch start
// time, or sql.ErrNoRows if absent.
func (dh *DatabaseHandler) GetSessionByStartTime(startTime int64) (*StoredSession, error) {
	var s StoredSession
	err := dh.db.QueryRow(`
		SELECT user_user_name, session_id, device_id, start_time, end_time,
		       energy, user_full_name, charger_id, device_name, user_email, user_id
		FROM sessions WHERE start_time = ?
	`, startTime).Scan(
		&s.UserUserName, &s.SessionID, &s.DeviceID, &s.StartTime, &s.EndTime,
		&s.Energy, &s.UserFullName, &s.ChargerID, &s.DeviceName, &s.UserEmail, &s.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountSessions returns the number of stored sessions.
func (dh *DatabaseHandler) CountSessions() (int, error) {
	var count int
	if err := dh.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
