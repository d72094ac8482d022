package services

import (
	"fmt"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// ScoreResult is the outcome of scoring one response vector.
// SeverityLevel is the zero-based index of the matched threshold, so a
// higher level always means a more severe bucket.
type ScoreResult struct {
	TotalScore    int    `json:"total_score"`
	SeverityLabel string `json:"severity_label"`
	SeverityLevel int    `json:"severity_level"`
}

// Score validates responses against def and maps their sum onto def's
// severity thresholds. It is pure and safe for concurrent use.
func Score(def models.AssessmentTypeDefinition, responses []int) (ScoreResult, error) {
	if len(responses) != def.QuestionCount {
		return ScoreResult{}, NewValidationError(fmt.Sprintf("%s expects %d responses, got %d", def.Code, def.QuestionCount, len(responses)))
	}
	if len(def.Scales) != def.QuestionCount {
		return ScoreResult{}, NewConfigurationError(fmt.Sprintf("%s has %d scales for %d questions", def.Code, len(def.Scales), def.QuestionCount))
	}
	total := 0
	for i, v := range responses {
		sc := def.Scales[i]
		if v < sc.Min || v > sc.Max {
			return ScoreResult{}, NewValidationError(fmt.Sprintf("%s question %d: answer %d outside %d..%d", def.Code, i+1, v, sc.Min, sc.Max))
		}
		total += v
	}
	for level, th := range def.Thresholds {
		if total <= th.UpperBound {
			return ScoreResult{TotalScore: total, SeverityLabel: th.Label, SeverityLevel: level}, nil
		}
	}
	// Unreachable for definitions that passed ValidateDefinition.
	return ScoreResult{}, NewConfigurationError(fmt.Sprintf("%s: no threshold covers total %d", def.Code, total))
}
