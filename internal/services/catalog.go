package services

import (
	"fmt"
	"strings"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// Catalog is the read-only lookup table of assessment types, keyed by code.
// Every definition is validated when the catalog is built, so scoring never
// has to handle a gap in the severity table.
type Catalog struct {
	defs  map[string]models.AssessmentTypeDefinition
	order []string
}

// NewCatalog validates defs and returns a catalog listing them in the given order.
func NewCatalog(defs ...models.AssessmentTypeDefinition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]models.AssessmentTypeDefinition, len(defs))}
	for _, def := range defs {
		if err := ValidateDefinition(def); err != nil {
			return nil, err
		}
		if _, dup := c.defs[def.Code]; dup {
			return nil, NewConfigurationError(fmt.Sprintf("assessment %s: duplicate code", def.Code))
		}
		c.defs[def.Code] = cloneDefinition(def)
		c.order = append(c.order, def.Code)
	}
	return c, nil
}

// DefaultCatalog returns the shipped questionnaires. It panics if the built-in
// table is inconsistent, which can only happen through a code change.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(builtinDefinitions()...)
	if err != nil {
		panic("built-in assessment catalog: " + err.Error())
	}
	return c
}

// Get returns a copy of the definition for code.
func (c *Catalog) Get(code string) (models.AssessmentTypeDefinition, bool) {
	def, ok := c.defs[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return models.AssessmentTypeDefinition{}, false
	}
	return cloneDefinition(def), true
}

func (c *Catalog) List() []models.AssessmentTypeDefinition {
	out := make([]models.AssessmentTypeDefinition, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, cloneDefinition(c.defs[code]))
	}
	return out
}

// ValidateDefinition checks that a definition's scales and thresholds are
// consistent: the declared score range equals the sum of the per-question
// scales, and the thresholds ascend strictly and end exactly at MaxScore.
func ValidateDefinition(def models.AssessmentTypeDefinition) error {
	fail := func(format string, args ...any) error {
		return NewConfigurationError(fmt.Sprintf("assessment %s: ", def.Code) + fmt.Sprintf(format, args...))
	}
	if strings.TrimSpace(def.Code) == "" || def.Code != strings.ToUpper(def.Code) {
		return fail("code must be non-empty upper case")
	}
	if def.QuestionCount <= 0 {
		return fail("question count must be positive")
	}
	if len(def.Scales) != def.QuestionCount {
		return fail("%d scales for %d questions", len(def.Scales), def.QuestionCount)
	}
	minSum, maxSum := 0, 0
	for i, sc := range def.Scales {
		if sc.Min > sc.Max {
			return fail("question %d scale %d..%d is empty", i+1, sc.Min, sc.Max)
		}
		minSum += sc.Min
		maxSum += sc.Max
	}
	if def.MinScore != minSum || def.MaxScore != maxSum {
		return fail("score range %d..%d does not match scales %d..%d", def.MinScore, def.MaxScore, minSum, maxSum)
	}
	if len(def.Thresholds) == 0 {
		return fail("no severity thresholds")
	}
	prev := def.MinScore - 1
	for i, th := range def.Thresholds {
		if strings.TrimSpace(th.Label) == "" {
			return fail("threshold %d has no label", i)
		}
		if th.UpperBound <= prev {
			return fail("threshold %q (%d) overlaps or leaves an empty bucket after %d", th.Label, th.UpperBound, prev)
		}
		prev = th.UpperBound
	}
	if prev != def.MaxScore {
		return fail("thresholds end at %d, want %d", prev, def.MaxScore)
	}
	return nil
}

func cloneDefinition(def models.AssessmentTypeDefinition) models.AssessmentTypeDefinition {
	def.Scales = append([]models.AnswerScale(nil), def.Scales...)
	def.Thresholds = append([]models.Threshold(nil), def.Thresholds...)
	return def
}

func uniformScales(n, lo, hi int) []models.AnswerScale {
	out := make([]models.AnswerScale, n)
	for i := range out {
		out[i] = models.AnswerScale{Min: lo, Max: hi}
	}
	return out
}

func builtinDefinitions() []models.AssessmentTypeDefinition {
	return []models.AssessmentTypeDefinition{
		{
			Code:          "PHQ9",
			Name:          "Patient Health Questionnaire (PHQ-9)",
			QuestionCount: 9,
			Scales:        uniformScales(9, 0, 3),
			MinScore:      0,
			MaxScore:      27,
			Thresholds: []models.Threshold{
				{UpperBound: 4, Label: "minimal"},
				{UpperBound: 9, Label: "mild"},
				{UpperBound: 14, Label: "moderate"},
				{UpperBound: 19, Label: "moderately-severe"},
				{UpperBound: 27, Label: "severe"},
			},
		},
		{
			Code:          "GAD7",
			Name:          "Generalized Anxiety Disorder (GAD-7)",
			QuestionCount: 7,
			Scales:        uniformScales(7, 0, 3),
			MinScore:      0,
			MaxScore:      21,
			Thresholds: []models.Threshold{
				{UpperBound: 4, Label: "minimal"},
				{UpperBound: 9, Label: "mild"},
				{UpperBound: 14, Label: "moderate"},
				{UpperBound: 21, Label: "severe"},
			},
		},
		{
			Code:          "CESD",
			Name:          "Center for Epidemiologic Studies Depression Scale (CES-D)",
			QuestionCount: 20,
			Scales:        uniformScales(20, 0, 3),
			MinScore:      0,
			MaxScore:      60,
			Thresholds: []models.Threshold{
				{UpperBound: 15, Label: "minimal"},
				{UpperBound: 20, Label: "mild"},
				{UpperBound: 25, Label: "moderate"},
				{UpperBound: 60, Label: "severe"},
			},
		},
		{
			Code:          "STRESS5",
			Name:          "Brief Stress Check",
			QuestionCount: 5,
			Scales:        uniformScales(5, 0, 4),
			MinScore:      0,
			MaxScore:      20,
			Thresholds: []models.Threshold{
				{UpperBound: 6, Label: "low"},
				{UpperBound: 13, Label: "moderate"},
				{UpperBound: 20, Label: "high"},
			},
		},
	}
}
