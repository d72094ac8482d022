package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// Polarity tells the trend classifier which direction is good for a series.
type Polarity int

const (
	LowerIsBetter Polarity = iota + 1
	HigherIsBetter
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
)

// MinActivitySamples is the smallest number of mood records an activity
// needs before its average is reported.
const MinActivitySamples = 3

// SeriesDefinition describes how a numeric series is summarized.
// Differences between half-window means up to Epsilon are reported as stable.
type SeriesDefinition struct {
	Name         string
	Polarity     Polarity
	Epsilon      float64
	Distribution bool // also report median and mode
}

var (
	// AssessmentSeries covers questionnaire totals, where a lower score is better.
	AssessmentSeries = SeriesDefinition{Name: "assessment", Polarity: LowerIsBetter, Epsilon: 1.0}
	// MoodSeries covers mood ratings, where a higher rating is better.
	MoodSeries = SeriesDefinition{Name: "mood", Polarity: HigherIsBetter, Epsilon: 0.5, Distribution: true}
)

// Point is one observation of a series.
type Point struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// SeriesStats summarizes a series. When Status is StatusInsufficientData only
// Count is meaningful.
type SeriesStats struct {
	Status  string   `json:"status"`
	Count   int      `json:"count"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Average float64  `json:"average"`
	Median  *float64 `json:"median,omitempty"`
	Mode    *float64 `json:"mode,omitempty"`
	Trend   Trend    `json:"trend,omitempty"`
}

// Sufficient reports whether the series had enough points to be summarized.
func (s SeriesStats) Sufficient() bool { return s.Status == StatusOK }

// ActivityCorrelation is the average mood observed with one activity.
type ActivityCorrelation struct {
	Activity    models.ActivityRef `json:"activity"`
	AverageMood float64            `json:"average_mood"`
	Count       int                `json:"count"`
}

// Summarize computes descriptive statistics and a trend over time-ordered
// points. Fewer than two points yield an insufficient-data result, not an
// error; errors are reserved for a misconfigured definition.
func Summarize(def SeriesDefinition, points []Point) (SeriesStats, error) {
	if def.Polarity != LowerIsBetter && def.Polarity != HigherIsBetter {
		return SeriesStats{}, NewConfigurationError(fmt.Sprintf("series %q has no polarity", def.Name))
	}
	if def.Epsilon < 0 {
		return SeriesStats{}, NewConfigurationError(fmt.Sprintf("series %q has a negative epsilon", def.Name))
	}
	if len(points) < 2 {
		return SeriesStats{Status: StatusInsufficientData, Count: len(points)}, nil
	}
	values := make(stats.Float64Data, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	out := SeriesStats{Status: StatusOK, Count: len(values)}
	var err error
	if out.Min, err = stats.Min(values); err != nil {
		return SeriesStats{}, err
	}
	if out.Max, err = stats.Max(values); err != nil {
		return SeriesStats{}, err
	}
	if out.Average, err = stats.Mean(values); err != nil {
		return SeriesStats{}, err
	}
	if def.Distribution {
		median, err := stats.Median(values)
		if err != nil {
			return SeriesStats{}, err
		}
		mode := lowestMode(values)
		out.Median = &median
		out.Mode = &mode
	}
	if out.Trend, err = classifyTrend(def, values); err != nil {
		return SeriesStats{}, err
	}
	return out, nil
}

// classifyTrend compares the mean of the earlier half with the later half.
// Odd-length windows put the middle point in the later half.
func classifyTrend(def SeriesDefinition, values stats.Float64Data) (Trend, error) {
	mid := len(values) / 2
	earlier, err := stats.Mean(values[:mid])
	if err != nil {
		return "", err
	}
	later, err := stats.Mean(values[mid:])
	if err != nil {
		return "", err
	}
	diff := later - earlier
	if math.Abs(diff) <= def.Epsilon {
		return TrendStable, nil
	}
	wentDown := diff < 0
	if wentDown == (def.Polarity == LowerIsBetter) {
		return TrendImproving, nil
	}
	return TrendDeclining, nil
}

// lowestMode returns the most frequent value, preferring the lowest on ties.
// stats.Mode returns no value at all when every value is equally frequent,
// which is not what a rating summary wants.
func lowestMode(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := 0.0, 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

// CorrelateActivities averages mood ratings per activity. A record tagged with
// several activities counts once for each of them. Activities seen fewer than
// MinActivitySamples times are dropped; the rest are sorted by average mood,
// highest first, then by activity id.
func CorrelateActivities(records []models.MoodRecord) []ActivityCorrelation {
	type group struct {
		ref   models.ActivityRef
		sum   int
		count int
	}
	groups := map[string]*group{}
	for _, rec := range records {
		seen := make(map[string]struct{}, len(rec.Activities))
		for _, act := range rec.Activities {
			if _, dup := seen[act.ID]; dup {
				continue
			}
			seen[act.ID] = struct{}{}
			g := groups[act.ID]
			if g == nil {
				g = &group{ref: act}
				groups[act.ID] = g
			}
			g.sum += rec.Rating
			g.count++
		}
	}
	out := make([]ActivityCorrelation, 0, len(groups))
	for _, g := range groups {
		if g.count < MinActivitySamples {
			continue
		}
		out = append(out, ActivityCorrelation{
			Activity:    g.ref,
			AverageMood: float64(g.sum) / float64(g.count),
			Count:       g.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageMood != out[j].AverageMood {
			return out[i].AverageMood > out[j].AverageMood
		}
		return out[i].Activity.ID < out[j].Activity.ID
	})
	return out
}

// AssessmentPoints converts records into a series of total scores.
func AssessmentPoints(records []models.AssessmentRecord) []Point {
	out := make([]Point, 0, len(records))
	for _, r := range records {
		out = append(out, Point{At: r.CompletedAt, Value: float64(r.TotalScore)})
	}
	return out
}

// MoodPoints converts records into a series of ratings.
func MoodPoints(records []models.MoodRecord) []Point {
	out := make([]Point, 0, len(records))
	for _, r := range records {
		out = append(out, Point{At: r.RecordedAt, Value: float64(r.Rating)})
	}
	return out
}
