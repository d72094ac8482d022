package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/soaringjerry/Mindtrack/internal/logging"
	"github.com/soaringjerry/Mindtrack/internal/models"
)

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

// SQLStore persists records through sqlx. Queries are written with '?'
// placeholders and rebound for the driver, so the same store serves SQLite
// and PostgreSQL.
type SQLStore struct {
	db  *sqlx.DB
	log logging.Logger
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sqlx.DB, log logging.Logger) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if db.DriverName() == "sqlite3" {
		pragmas := []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		}
		for _, stmt := range pragmas {
			if _, err := db.Exec(stmt); err != nil {
				return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
			}
		}
	}
	return &SQLStore{db: db, log: log}, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) logErr(prefix string, err error) {
	if err != nil {
		s.log.Errorf("%s store: %s: %v", s.db.DriverName(), prefix, err)
	}
}

// windowClause appends inclusive bounds on column for the non-zero sides of w.
func windowClause(column string, w models.TimeRange, conds []string, args []any) ([]string, []any) {
	if !w.From.IsZero() {
		conds = append(conds, column+" >= ?")
		args = append(args, formatTime(w.From))
	}
	if !w.To.IsZero() {
		conds = append(conds, column+" <= ?")
		args = append(args, formatTime(w.To))
	}
	return conds, args
}

func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// --- assessments ---

type assessmentRow struct {
	ID            string `db:"id"`
	TypeCode      string `db:"type_code"`
	Responses     string `db:"responses"`
	TotalScore    int    `db:"total_score"`
	SeverityLabel string `db:"severity_label"`
	CompletedAt   string `db:"completed_at"`
	Note          string `db:"note"`
}

func (r assessmentRow) record() (models.AssessmentRecord, error) {
	rec := models.AssessmentRecord{
		ID:            r.ID,
		TypeCode:      r.TypeCode,
		TotalScore:    r.TotalScore,
		SeverityLabel: r.SeverityLabel,
		Note:          r.Note,
	}
	if err := json.Unmarshal([]byte(r.Responses), &rec.Responses); err != nil {
		return rec, fmt.Errorf("decode responses of %s: %w", r.ID, err)
	}
	at, err := parseTime(r.CompletedAt)
	if err != nil {
		return rec, fmt.Errorf("decode completed_at of %s: %w", r.ID, err)
	}
	rec.CompletedAt = at
	return rec, nil
}

func (s *SQLStore) InsertAssessment(ctx context.Context, rec *models.AssessmentRecord) error {
	responses, err := json.Marshal(rec.Responses)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO assessment_records (id, type_code, responses, total_score, severity_label, completed_at, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.TypeCode, string(responses), rec.TotalScore, rec.SeverityLabel, formatTime(rec.CompletedAt), rec.Note)
	return err
}

func (s *SQLStore) ListAssessments(ctx context.Context, typeCode string, window models.TimeRange) ([]models.AssessmentRecord, error) {
	conds, args := windowClause("completed_at", window, []string{"type_code = ?"}, []any{typeCode})
	var rows []assessmentRow
	query := `SELECT id, type_code, responses, total_score, severity_label, completed_at, note
		FROM assessment_records` + where(conds) + ` ORDER BY completed_at, id`
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	out := make([]models.AssessmentRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// --- activities ---

type activityRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Color     string         `db:"color"`
	Icon      string         `db:"icon"`
	CreatedAt string         `db:"created_at"`
	DeletedAt sql.NullString `db:"deleted_at"`
}

func (r activityRow) ref() (models.ActivityRef, error) {
	a := models.ActivityRef{ID: r.ID, Name: r.Name, Color: r.Color, Icon: r.Icon}
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return a, fmt.Errorf("decode created_at of activity %s: %w", r.ID, err)
	}
	a.CreatedAt = created
	if r.DeletedAt.Valid {
		deleted, err := parseTime(r.DeletedAt.String)
		if err != nil {
			return a, fmt.Errorf("decode deleted_at of activity %s: %w", r.ID, err)
		}
		a.DeletedAt = &deleted
	}
	return a, nil
}

func activityRefs(rows []activityRow) ([]models.ActivityRef, error) {
	out := make([]models.ActivityRef, 0, len(rows))
	for _, r := range rows {
		a, err := r.ref()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *SQLStore) InsertActivity(ctx context.Context, a *models.ActivityRef) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO activities (id, name, color, icon, created_at) VALUES (?, ?, ?, ?, ?)`),
		a.ID, a.Name, a.Color, a.Icon, formatTime(a.CreatedAt))
	return err
}

func (s *SQLStore) ListActivities(ctx context.Context, includeDeleted bool) ([]models.ActivityRef, error) {
	query := `SELECT id, name, color, icon, created_at, deleted_at FROM activities`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY created_at, id`
	var rows []activityRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return activityRefs(rows)
}

// GetActivities returns the activities with the given ids, deleted ones included.
func (s *SQLStore) GetActivities(ctx context.Context, ids []string) ([]models.ActivityRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, name, color, icon, created_at, deleted_at FROM activities WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []activityRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return activityRefs(rows)
}

func (s *SQLStore) SoftDeleteActivity(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE activities SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`), formatTime(at), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// --- moods ---

type moodRow struct {
	ID         string `db:"id"`
	Rating     int    `db:"rating"`
	RecordedAt string `db:"recorded_at"`
	Note       string `db:"note"`
}

type moodLinkRow struct {
	MoodID string `db:"mood_id"`
	activityRow
}

// InsertMood stores the record and its activity links in one transaction.
func (s *SQLStore) InsertMood(ctx context.Context, rec *models.MoodRecord) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			s.logErr("rollback mood insert", tx.Rollback())
		}
	}()
	if _, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO mood_records (id, rating, recorded_at, note) VALUES (?, ?, ?, ?)`),
		rec.ID, rec.Rating, formatTime(rec.RecordedAt), rec.Note); err != nil {
		return err
	}
	link := tx.Rebind(`INSERT INTO mood_activities (mood_id, activity_id, position) VALUES (?, ?, ?)`)
	for i, a := range rec.Activities {
		if _, err = tx.ExecContext(ctx, link, rec.ID, a.ID, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListMoods returns records inside window, oldest first, with their
// activities in the order they were attached.
func (s *SQLStore) ListMoods(ctx context.Context, window models.TimeRange) ([]models.MoodRecord, error) {
	conds, args := windowClause("recorded_at", window, nil, nil)
	var rows []moodRow
	query := `SELECT id, rating, recorded_at, note FROM mood_records` + where(conds) + ` ORDER BY recorded_at, id`
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	conds, args = windowClause("m.recorded_at", window, nil, nil)
	var links []moodLinkRow
	query = `SELECT ma.mood_id, a.id, a.name, a.color, a.icon, a.created_at, a.deleted_at
		FROM mood_activities ma
		JOIN activities a ON a.id = ma.activity_id
		JOIN mood_records m ON m.id = ma.mood_id` + where(conds) + ` ORDER BY ma.mood_id, ma.position`
	if err := s.db.SelectContext(ctx, &links, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byMood := map[string][]models.ActivityRef{}
	for _, l := range links {
		a, err := l.ref()
		if err != nil {
			return nil, err
		}
		byMood[l.MoodID] = append(byMood[l.MoodID], a)
	}

	out := make([]models.MoodRecord, 0, len(rows))
	for _, r := range rows {
		at, err := parseTime(r.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("decode recorded_at of %s: %w", r.ID, err)
		}
		out = append(out, models.MoodRecord{
			ID:         r.ID,
			Rating:     r.Rating,
			Activities: byMood[r.ID],
			RecordedAt: at,
			Note:       r.Note,
		})
	}
	return out, nil
}

// --- schedules ---

type scheduleRow struct {
	ID                 string         `db:"id"`
	AssessmentTypeCode string         `db:"assessment_type_code"`
	Frequency          string         `db:"frequency"`
	Hour               int            `db:"hour"`
	Minute             int            `db:"minute"`
	Weekday            sql.NullInt64  `db:"weekday"`
	DayOfMonth         sql.NullInt64  `db:"day_of_month"`
	Enabled            int            `db:"enabled"`
	LastTriggeredOn    sql.NullString `db:"last_triggered_on"`
	CreatedAt          string         `db:"created_at"`
}

const scheduleColumns = `id, assessment_type_code, frequency, hour, minute, weekday, day_of_month,
	enabled, last_triggered_on, created_at`

func (r scheduleRow) entry() (models.ScheduleEntry, error) {
	e := models.ScheduleEntry{
		ID:                 r.ID,
		AssessmentTypeCode: r.AssessmentTypeCode,
		Frequency:          models.Frequency(r.Frequency),
		Hour:               r.Hour,
		Minute:             r.Minute,
		Weekday:            intPtr(r.Weekday),
		DayOfMonth:         intPtr(r.DayOfMonth),
		Enabled:            r.Enabled != 0,
		LastTriggeredOn:    r.LastTriggeredOn.String,
	}
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return e, fmt.Errorf("decode created_at of schedule %s: %w", r.ID, err)
	}
	e.CreatedAt = created
	return e, nil
}

func (s *SQLStore) InsertSchedule(ctx context.Context, e *models.ScheduleEntry) error {
	var last any
	if e.LastTriggeredOn != "" {
		last = e.LastTriggeredOn
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO schedule_entries (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		e.ID, e.AssessmentTypeCode, string(e.Frequency), e.Hour, e.Minute,
		nullableInt(e.Weekday), nullableInt(e.DayOfMonth), boolToInt(e.Enabled), last, formatTime(e.CreatedAt))
	return err
}

// UpdateSchedule rewrites the editable columns; last_triggered_on is owned
// by MarkScheduleTriggered.
func (s *SQLStore) UpdateSchedule(ctx context.Context, e *models.ScheduleEntry) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE schedule_entries
		SET assessment_type_code = ?, frequency = ?, hour = ?, minute = ?, weekday = ?, day_of_month = ?, enabled = ?
		WHERE id = ?`),
		e.AssessmentTypeCode, string(e.Frequency), e.Hour, e.Minute,
		nullableInt(e.Weekday), nullableInt(e.DayOfMonth), boolToInt(e.Enabled), e.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQLStore) GetSchedule(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	var row scheduleRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT `+scheduleColumns+` FROM schedule_entries WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e, err := row.entry()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLStore) ListSchedules(ctx context.Context, enabledOnly bool) ([]models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_entries`
	if enabledOnly {
		query += ` WHERE enabled = 1`
	}
	query += ` ORDER BY created_at, id`
	var rows []scheduleRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	out := make([]models.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		e, err := r.entry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// MarkScheduleTriggered sets last_triggered_on to day only when it is unset
// or earlier, so two sweeps racing on the same schedule write once.
func (s *SQLStore) MarkScheduleTriggered(ctx context.Context, id, day string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE schedule_entries SET last_triggered_on = ?
		WHERE id = ? AND (last_triggered_on IS NULL OR last_triggered_on < ?)`), day, id, day)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
