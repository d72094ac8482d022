package services

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

func readCSV(b []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(b)))
	return r.ReadAll()
}

func TestExportAssessmentsCSV(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	records := []models.AssessmentRecord{
		{ID: "A1", TypeCode: "GAD7", Responses: []int{1, 1, 1, 1, 1, 0, 0}, TotalScore: 5, SeverityLabel: "mild", CompletedAt: at},
		{ID: "A2", TypeCode: "GAD7", Responses: []int{0, 0, 0, 0, 0, 0, 0}, TotalScore: 0, SeverityLabel: "minimal", CompletedAt: at.Add(time.Hour), Note: "slept, well"},
	}
	b, err := ExportAssessmentsCSV(records)
	if err != nil {
		t.Fatalf("export assessments: %v", err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 1+len(records) {
		t.Fatalf("want %d rows, got %d", 1+len(records), len(recs))
	}
	if got := strings.Join(recs[0], ","); got != "id,type_code,completed_at,total_score,severity_label,responses,note" {
		t.Fatalf("bad header: %s", got)
	}
	if recs[1][5] != "1;1;1;1;1;0;0" {
		t.Fatalf("responses column: %q", recs[1][5])
	}
	if recs[2][6] != "slept, well" {
		t.Fatalf("note column: %q", recs[2][6])
	}
}

func TestExportMoodsCSV(t *testing.T) {
	scale, err := NewMoodScale(5)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	deleted := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	records := []models.MoodRecord{
		{ID: "M1", Rating: 4, RecordedAt: time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC), Activities: []models.ActivityRef{
			{ID: "a", Name: "Reading"},
			{ID: "b", Name: "Running", DeletedAt: &deleted},
		}},
	}
	b, err := ExportMoodsCSV(records, scale)
	if err != nil {
		t.Fatalf("export moods: %v", err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("rows mismatch: %d", len(recs))
	}
	if recs[1][3] != "good" || recs[1][4] != "Reading | Running" {
		t.Fatalf("unexpected row: %v", recs[1])
	}
}
