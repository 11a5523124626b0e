package service

import (
	"context"
	"errors"
	"time"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TestInput carries the admin-editable fields of a test.
type TestInput struct {
	InstituteID      uuid.UUID            `json:"institute_id" binding:"required"`
	PaperID          uuid.UUID            `json:"paper_id" binding:"required"`
	Title            string               `json:"title" validate:"required,min=3,max=200"`
	Description      string               `json:"description" validate:"max=2000"`
	TargetClass      string               `json:"target_class" validate:"max=50"`
	TargetSet        string               `json:"target_set" validate:"max=50"`
	Status           model.TestStatus     `json:"status" validate:"omitempty,oneof=draft scheduled active completed archived"`
	StartAt          time.Time            `json:"start_at" binding:"required"`
	EndAt            time.Time            `json:"end_at" binding:"required"`
	DurationMinutes  int                  `json:"duration_minutes" validate:"required,min=1,max=600"`
	MarkingScheme    *model.MarkingScheme `json:"marking_scheme"`
	ViolationRules   model.ViolationRules `json:"violation_rules"`
	ShuffleQuestions bool                 `json:"shuffle_questions"`
	ShowResultsTo    model.ShowResultsTo  `json:"show_results_to" validate:"omitempty,oneof=none all passed"`
	TotalMarks       float64              `json:"total_marks" validate:"min=0"`
	PassingMarks     float64              `json:"passing_marks" validate:"min=0"`
	Proctoring       model.ProctoringConfig `json:"proctoring"`
}

// TestService is the admin CRUD surface for tests.
type TestService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	log          zerolog.Logger
}

func NewTestService(testRepo repository.TestRepository, questionRepo repository.QuestionRepository, log zerolog.Logger) *TestService {
	return &TestService{testRepo: testRepo, questionRepo: questionRepo, log: log}
}

func (s *TestService) Create(ctx context.Context, in TestInput) (*model.Test, error) {
	if _, err := s.questionRepo.GetPaper(ctx, in.PaperID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	t := &model.Test{
		ID:               uuid.New(),
		InstituteID:      in.InstituteID,
		PaperID:          in.PaperID,
		Title:            in.Title,
		Description:      in.Description,
		TargetClass:      in.TargetClass,
		TargetSet:        in.TargetSet,
		Status:           in.Status,
		StartAt:          in.StartAt,
		EndAt:            in.EndAt,
		DurationMinutes:  in.DurationMinutes,
		MarkingScheme:    model.DefaultMarkingScheme(),
		ViolationRules:   in.ViolationRules,
		ShuffleQuestions: in.ShuffleQuestions,
		ShowResultsTo:    in.ShowResultsTo,
		TotalMarks:       in.TotalMarks,
		PassingMarks:     in.PassingMarks,
		Proctoring:       in.Proctoring,
	}
	if t.Status == "" {
		t.Status = model.TestStatusDraft
	}
	if t.ShowResultsTo == "" {
		t.ShowResultsTo = model.ShowResultsToNone
	}
	if in.MarkingScheme != nil {
		t.MarkingScheme = *in.MarkingScheme
	}
	if t.ViolationRules == nil {
		t.ViolationRules = model.ViolationRules{}
	}

	if err := s.testRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info().Str("test_id", t.ID.String()).Str("title", t.Title).Msg("test created")
	return t, nil
}

// Update edits a test in place. Scheme and rule changes only affect
// sessions started afterwards; running attempts keep their frozen copy.
func (s *TestService) Update(ctx context.Context, id uuid.UUID, in TestInput) (*model.Test, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Title = in.Title
	t.Description = in.Description
	t.TargetClass = in.TargetClass
	t.TargetSet = in.TargetSet
	if in.Status != "" {
		t.Status = in.Status
	}
	t.StartAt = in.StartAt
	t.EndAt = in.EndAt
	t.DurationMinutes = in.DurationMinutes
	if in.MarkingScheme != nil {
		t.MarkingScheme = *in.MarkingScheme
	}
	if in.ViolationRules != nil {
		t.ViolationRules = in.ViolationRules
	}
	t.ShuffleQuestions = in.ShuffleQuestions
	if in.ShowResultsTo != "" {
		t.ShowResultsTo = in.ShowResultsTo
	}
	t.TotalMarks = in.TotalMarks
	t.PassingMarks = in.PassingMarks
	t.Proctoring = in.Proctoring

	if err := s.testRepo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TestService) Get(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TestService) List(ctx context.Context, instituteID uuid.UUID, page, perPage int) ([]model.Test, int64, error) {
	return s.testRepo.ListByInstitute(ctx, instituteID, page, perPage)
}

func (s *TestService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.testRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
