package services

import (
	"context"
	"testing"
	"time"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

func newAssessmentFixture() (*AssessmentService, *stubStore) {
	store := newStubStore()
	svc := NewAssessmentService(store, DefaultCatalog())
	svc.now = fixedClock(time.Date(2024, 6, 5, 8, 0, 0, 0, time.UTC))
	svc.idGenerator = sequentialIDs("A")
	return svc, store
}

func TestAssessmentSubmitScoresAndStores(t *testing.T) {
	svc, store := newAssessmentFixture()
	rec, err := svc.Submit(context.Background(), "phq9", []int{1, 1, 1, 1, 1, 1, 1, 1, 2}, "  after work ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.ID != "A1" || rec.TypeCode != "PHQ9" {
		t.Fatalf("unexpected identity: %+v", rec)
	}
	if rec.TotalScore != 10 || rec.SeverityLabel != "moderate" {
		t.Fatalf("unexpected score: %d %s", rec.TotalScore, rec.SeverityLabel)
	}
	if rec.Note != "after work" {
		t.Fatalf("note not trimmed: %q", rec.Note)
	}
	if len(store.assessments) != 1 {
		t.Fatalf("expected one stored record, got %d", len(store.assessments))
	}
}

func TestAssessmentSubmitRejectsBadInput(t *testing.T) {
	svc, store := newAssessmentFixture()
	if _, err := svc.Submit(context.Background(), "NOPE", []int{1}, ""); err == nil {
		t.Fatal("expected unknown type error")
	} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), "GAD7", []int{0, 0, 0}, ""); !IsValidationError(err) {
		t.Fatalf("expected validation error for short vector, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), "GAD7", []int{0, 0, 0, 0, 0, 0, 4}, ""); !IsValidationError(err) {
		t.Fatalf("expected validation error for out of range answer, got %v", err)
	}
	if len(store.assessments) != 0 {
		t.Fatalf("rejected submissions must not be stored")
	}
}

func TestAssessmentStatsTrendAndReliability(t *testing.T) {
	svc, store := newAssessmentFixture()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	totals := [][]int{
		{3, 3, 3, 2, 2, 2, 2},
		{3, 3, 2, 2, 2, 2, 2},
		{1, 1, 1, 1, 0, 0, 0},
		{1, 0, 1, 0, 0, 0, 0},
	}
	for i, answers := range totals {
		result, err := Score(mustDef(t, svc, "GAD7"), answers)
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		store.assessments = append(store.assessments, models.AssessmentRecord{
			ID:          string(rune('a' + i)),
			TypeCode:    "GAD7",
			Responses:   answers,
			TotalScore:  result.TotalScore,
			CompletedAt: base.AddDate(0, 0, i),
		})
	}
	stats, err := svc.Stats(context.Background(), "gad7", models.TimeRange{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TypeCode != "GAD7" || !stats.Series.Sufficient() || stats.Series.Count != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Series.Trend != TrendImproving {
		t.Fatalf("falling scores should improve, got %s", stats.Series.Trend)
	}
	if stats.AlphaN != 4 || stats.Alpha <= 0 {
		t.Fatalf("expected positive alpha over 4 records, got %v (n=%d)", stats.Alpha, stats.AlphaN)
	}

	window := models.TimeRange{From: base.AddDate(0, 0, 3)}
	stats, err = svc.Stats(context.Background(), "GAD7", window)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Series.Sufficient() || stats.Series.Count != 1 {
		t.Fatalf("one record in window should be insufficient: %+v", stats.Series)
	}
}

func TestAssessmentRecordsUnknownType(t *testing.T) {
	svc, _ := newAssessmentFixture()
	if _, err := svc.Records(context.Background(), "XYZ", models.TimeRange{}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func mustDef(t *testing.T, svc *AssessmentService, code string) models.AssessmentTypeDefinition {
	t.Helper()
	def, ok := svc.Catalog().Get(code)
	if !ok {
		t.Fatalf("missing %s", code)
	}
	return def
}
