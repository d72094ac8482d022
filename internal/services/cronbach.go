package services

import (
	"github.com/montanaflynn/stats"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// CronbachAlpha computes Cronbach's alpha for a matrix shaped as
// [nRecords][nItems]. Population variance is used throughout, which yields
// alpha=1.0 for perfectly correlated items. Degenerate input returns 0.
func CronbachAlpha(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	k := len(matrix[0])
	if k < 2 {
		return 0
	}
	columns := make([]stats.Float64Data, k)
	totals := make(stats.Float64Data, n)
	for i, row := range matrix {
		if len(row) != k {
			return 0
		}
		for j, v := range row {
			columns[j] = append(columns[j], v)
			totals[i] += v
		}
	}
	totalVar, err := stats.PopulationVariance(totals)
	if err != nil || totalVar == 0 {
		return 0
	}
	var sumItemVars float64
	for _, col := range columns {
		v, err := stats.PopulationVariance(col)
		if err != nil {
			return 0
		}
		sumItemVars += v
	}
	kf := float64(k)
	alpha := (kf / (kf - 1.0)) * (1.0 - sumItemVars/totalVar)
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}

// ItemReliability estimates the internal consistency of one questionnaire
// across stored records. Records whose response vector length differs from
// the first record are skipped. It returns alpha and the number of records used.
func ItemReliability(records []models.AssessmentRecord) (float64, int) {
	if len(records) == 0 {
		return 0, 0
	}
	width := len(records[0].Responses)
	matrix := make([][]float64, 0, len(records))
	for _, r := range records {
		if len(r.Responses) != width {
			continue
		}
		row := make([]float64, width)
		for j, v := range r.Responses {
			row[j] = float64(v)
		}
		matrix = append(matrix, row)
	}
	return CronbachAlpha(matrix), len(matrix)
}
