package models

import "time"

// AnswerScale is the closed range of values a single question accepts.
type AnswerScale struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Threshold closes a severity bucket: totals up to and including UpperBound
// (and above the previous threshold) map to Label.
type Threshold struct {
	UpperBound int    `json:"upper_bound"`
	Label      string `json:"label"`
}

// AssessmentTypeDefinition describes one questionnaire (e.g., PHQ-9).
// Definitions are seeded once and never edited by the user.
type AssessmentTypeDefinition struct {
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	QuestionCount int           `json:"question_count"`
	Scales        []AnswerScale `json:"scales"`
	MinScore      int           `json:"min_score"`
	MaxScore      int           `json:"max_score"`
	Thresholds    []Threshold   `json:"thresholds"`
}

// AssessmentRecord is an immutable, scored questionnaire submission.
type AssessmentRecord struct {
	ID            string    `json:"id"`
	TypeCode      string    `json:"type_code"`
	Responses     []int     `json:"responses"`
	TotalScore    int       `json:"total_score"`
	SeverityLabel string    `json:"severity_label"`
	CompletedAt   time.Time `json:"completed_at"`
	Note          string    `json:"note,omitempty"`
}

// ActivityRef is a user-defined tag attached to mood records.
// Soft-deleted activities keep their history.
type ActivityRef struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the activity was soft-deleted.
func (a ActivityRef) Deleted() bool { return a.DeletedAt != nil }

// MoodRecord is an immutable daily mood rating with optional activity tags.
type MoodRecord struct {
	ID         string        `json:"id"`
	Rating     int           `json:"rating"`
	Activities []ActivityRef `json:"activities,omitempty"`
	RecordedAt time.Time     `json:"recorded_at"`
	Note       string        `json:"note,omitempty"`
}

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// ScheduleEntry is a recurring reminder to complete an assessment.
// Weekday (0=Sunday) is set for weekly/biweekly, DayOfMonth for monthly.
// LastTriggeredOn is a local calendar date (YYYY-MM-DD), empty when never fired.
type ScheduleEntry struct {
	ID                 string    `json:"id"`
	AssessmentTypeCode string    `json:"assessment_type_code"`
	Frequency          Frequency `json:"frequency"`
	Hour               int       `json:"hour"`
	Minute             int       `json:"minute"`
	Weekday            *int      `json:"weekday,omitempty"`
	DayOfMonth         *int      `json:"day_of_month,omitempty"`
	Enabled            bool      `json:"enabled"`
	LastTriggeredOn    string    `json:"last_triggered_on,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// TimeRange bounds a record window; a zero From or To leaves that side open.
// Both ends are inclusive.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}
