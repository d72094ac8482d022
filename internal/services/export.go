package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// ExportAssessmentsCSV renders one row per record. Responses are joined
// with ';' in question order.
func ExportAssessmentsCSV(records []models.AssessmentRecord) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "type_code", "completed_at", "total_score", "severity_label", "responses", "note"})
	for _, r := range records {
		answers := make([]string, len(r.Responses))
		for i, v := range r.Responses {
			answers[i] = strconv.Itoa(v)
		}
		rec := []string{
			r.ID,
			r.TypeCode,
			r.CompletedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(r.TotalScore),
			r.SeverityLabel,
			strings.Join(answers, ";"),
			r.Note,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportMoodsCSV renders one row per mood record; activity names are joined
// with " | " and keep their names after soft deletion.
func ExportMoodsCSV(records []models.MoodRecord, scale MoodScale) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "recorded_at", "rating", "rating_label", "activities", "note"})
	for _, r := range records {
		names := make([]string, 0, len(r.Activities))
		for _, a := range r.Activities {
			names = append(names, a.Name)
		}
		rec := []string{
			r.ID,
			r.RecordedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(r.Rating),
			scale.Label(r.Rating),
			strings.Join(names, " | "),
			r.Note,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
