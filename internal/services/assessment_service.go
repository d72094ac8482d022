package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Mindtrack/internal/models"
)

// AssessmentStore abstracts persistence needed by AssessmentService.
type AssessmentStore interface {
	InsertAssessment(ctx context.Context, rec *models.AssessmentRecord) error
	ListAssessments(ctx context.Context, typeCode string, window models.TimeRange) ([]models.AssessmentRecord, error)
}

// AssessmentStats is the trend summary of one questionnaire plus its
// internal consistency across the same window.
type AssessmentStats struct {
	TypeCode string      `json:"type_code"`
	Series   SeriesStats `json:"series"`
	Alpha    float64     `json:"alpha"`
	AlphaN   int         `json:"alpha_n"`
}

type AssessmentService struct {
	store       AssessmentStore
	catalog     *Catalog
	now         func() time.Time
	idGenerator func() string
}

func NewAssessmentService(store AssessmentStore, catalog *Catalog) *AssessmentService {
	return &AssessmentService{
		store:       store,
		catalog:     catalog,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

func (s *AssessmentService) definition(code string) (models.AssessmentTypeDefinition, error) {
	def, ok := s.catalog.Get(code)
	if !ok {
		return def, NewNotFoundError(fmt.Sprintf("assessment type %q not found", code))
	}
	return def, nil
}

// Submit scores responses for the given type and persists the record.
// Nothing is stored when validation fails.
func (s *AssessmentService) Submit(ctx context.Context, code string, responses []int, note string) (*models.AssessmentRecord, error) {
	if s.store == nil {
		return nil, errors.New("assessment service store is nil")
	}
	def, err := s.definition(code)
	if err != nil {
		return nil, err
	}
	result, err := Score(def, responses)
	if err != nil {
		return nil, err
	}
	rec := &models.AssessmentRecord{
		ID:            s.idGenerator(),
		TypeCode:      def.Code,
		Responses:     append([]int(nil), responses...),
		TotalScore:    result.TotalScore,
		SeverityLabel: result.SeverityLabel,
		CompletedAt:   s.now(),
		Note:          strings.TrimSpace(note),
	}
	if err := s.store.InsertAssessment(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Records lists stored records of one type inside window, oldest first.
func (s *AssessmentService) Records(ctx context.Context, code string, window models.TimeRange) ([]models.AssessmentRecord, error) {
	def, err := s.definition(code)
	if err != nil {
		return nil, err
	}
	return s.store.ListAssessments(ctx, def.Code, window)
}

func (s *AssessmentService) Stats(ctx context.Context, code string, window models.TimeRange) (*AssessmentStats, error) {
	def, err := s.definition(code)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListAssessments(ctx, def.Code, window)
	if err != nil {
		return nil, err
	}
	series, err := Summarize(AssessmentSeries, AssessmentPoints(records))
	if err != nil {
		return nil, err
	}
	alpha, n := ItemReliability(records)
	return &AssessmentStats{TypeCode: def.Code, Series: series, Alpha: alpha, AlphaN: n}, nil
}

func (s *AssessmentService) Catalog() *Catalog { return s.catalog }
