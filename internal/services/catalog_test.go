package services

import (
	"testing"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

func TestDefaultCatalogShape(t *testing.T) {
	c := DefaultCatalog()
	want := map[string]struct{ questions, max, buckets int }{
		"PHQ9":    {9, 27, 5},
		"GAD7":    {7, 21, 4},
		"CESD":    {20, 60, 4},
		"STRESS5": {5, 20, 3},
	}
	if got := len(c.List()); got != len(want) {
		t.Fatalf("expected %d definitions, got %d", len(want), got)
	}
	for code, w := range want {
		def, ok := c.Get(code)
		if !ok {
			t.Fatalf("missing %s", code)
		}
		if def.QuestionCount != w.questions || def.MaxScore != w.max || len(def.Thresholds) != w.buckets {
			t.Fatalf("%s: got questions=%d max=%d buckets=%d", code, def.QuestionCount, def.MaxScore, len(def.Thresholds))
		}
	}
}

func TestCatalogGetNormalizesAndCopies(t *testing.T) {
	c := DefaultCatalog()
	def, ok := c.Get(" phq9 ")
	if !ok {
		t.Fatalf("lookup should ignore case and spaces")
	}
	def.Thresholds[0].Label = "changed"
	again, _ := c.Get("PHQ9")
	if again.Thresholds[0].Label != "minimal" {
		t.Fatalf("catalog entry was mutated through a returned copy")
	}
}

func validDef() models.AssessmentTypeDefinition {
	return models.AssessmentTypeDefinition{
		Code:          "TEST3",
		QuestionCount: 3,
		Scales:        uniformScales(3, 0, 3),
		MinScore:      0,
		MaxScore:      9,
		Thresholds: []models.Threshold{
			{UpperBound: 2, Label: "low"},
			{UpperBound: 9, Label: "high"},
		},
	}
}

func TestValidateDefinitionRejectsBrokenTables(t *testing.T) {
	cases := map[string]func(d *models.AssessmentTypeDefinition){
		"uncovered top": func(d *models.AssessmentTypeDefinition) { d.Thresholds[1].UpperBound = 8 },
		"beyond range":  func(d *models.AssessmentTypeDefinition) { d.Thresholds[1].UpperBound = 10 },
		"overlap": func(d *models.AssessmentTypeDefinition) {
			d.Thresholds = []models.Threshold{{UpperBound: 5, Label: "a"}, {UpperBound: 5, Label: "b"}, {UpperBound: 9, Label: "c"}}
		},
		"descending": func(d *models.AssessmentTypeDefinition) {
			d.Thresholds = []models.Threshold{{UpperBound: 6, Label: "a"}, {UpperBound: 3, Label: "b"}, {UpperBound: 9, Label: "c"}}
		},
		"below min":     func(d *models.AssessmentTypeDefinition) { d.Thresholds[0].UpperBound = -1 },
		"no thresholds": func(d *models.AssessmentTypeDefinition) { d.Thresholds = nil },
		"empty label":   func(d *models.AssessmentTypeDefinition) { d.Thresholds[0].Label = " " },
		"range":         func(d *models.AssessmentTypeDefinition) { d.MaxScore = 12 },
		"scale count":   func(d *models.AssessmentTypeDefinition) { d.Scales = d.Scales[:2] },
		"lower code":    func(d *models.AssessmentTypeDefinition) { d.Code = "test3" },
	}
	for name, mutate := range cases {
		d := validDef()
		mutate(&d)
		err := ValidateDefinition(d)
		if !IsConfigurationError(err) {
			t.Fatalf("%s: expected configuration error, got %v", name, err)
		}
	}
	if err := ValidateDefinition(validDef()); err != nil {
		t.Fatalf("valid definition rejected: %v", err)
	}
}

func TestNewCatalogRejectsDuplicateCodes(t *testing.T) {
	if _, err := NewCatalog(validDef(), validDef()); !IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAdditionalTypeNeedsOnlyARow(t *testing.T) {
	c, err := NewCatalog(validDef())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	def, _ := c.Get("TEST3")
	res, err := Score(def, []int{1, 1, 1})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if res.SeverityLabel != "high" {
		t.Fatalf("want high, got %s", res.SeverityLabel)
	}
}
