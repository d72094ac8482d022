package services

import "fmt"

// MoodScale is the closed rating range for mood records. One scale is used
// per deployment; Labels are dictionary keys, lowest rating first.
type MoodScale struct {
	Min    int      `json:"min"`
	Max    int      `json:"max"`
	Labels []string `json:"labels"`
}

var moodLabels = map[int][]string{
	5: {"very_bad", "bad", "okay", "good", "very_good"},
	7: {"awful", "very_bad", "bad", "okay", "good", "very_good", "excellent"},
}

// NewMoodScale returns the 1..points scale. Only 5 and 7 points are shipped.
func NewMoodScale(points int) (MoodScale, error) {
	labels, ok := moodLabels[points]
	if !ok {
		return MoodScale{}, NewConfigurationError(fmt.Sprintf("unsupported mood scale of %d points", points))
	}
	return MoodScale{Min: 1, Max: points, Labels: append([]string(nil), labels...)}, nil
}

func (m MoodScale) Validate(rating int) error {
	if rating < m.Min || rating > m.Max {
		return NewValidationError(fmt.Sprintf("mood rating %d outside %d..%d", rating, m.Min, m.Max))
	}
	return nil
}

// Label returns the dictionary key for rating, or "" when out of range.
func (m MoodScale) Label(rating int) string {
	if rating < m.Min || rating > m.Max {
		return ""
	}
	return m.Labels[rating-m.Min]
}
