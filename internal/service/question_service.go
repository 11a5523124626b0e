package service

import (
	"context"
	"errors"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuestionInput carries the editable fields of a question.
type QuestionInput struct {
	Sr            int                 `json:"sr" validate:"min=0"`
	Level         model.QuestionLevel `json:"level" validate:"required,oneof=easy medium hard"`
	Text          string              `json:"text" validate:"required"`
	Image         string              `json:"image" validate:"omitempty,url"`
	Options       []model.Option      `json:"options" validate:"required,min=2,dive"`
	CorrectAnswer string              `json:"correct_answer"`
	IsEvaluatable *bool               `json:"is_evaluatable"`
}

// PaperInput carries the editable fields of a question paper.
type PaperInput struct {
	InstituteID uuid.UUID `json:"institute_id" binding:"required"`
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Class       string    `json:"class" validate:"max=50"`
	Set         string    `json:"set" validate:"max=50"`
}

// QuestionService manages question papers and their pools. Any paper
// referenced by an in-progress attempt with saved answers is frozen.
type QuestionService struct {
	questionRepo repository.QuestionRepository
	log          zerolog.Logger
}

func NewQuestionService(questionRepo repository.QuestionRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, log: log}
}

func (s *QuestionService) CreatePaper(ctx context.Context, in PaperInput) (*model.QuestionPaper, error) {
	p := &model.QuestionPaper{
		ID:          uuid.New(),
		InstituteID: in.InstituteID,
		Title:       in.Title,
		Class:       in.Class,
		Set:         in.Set,
	}
	if err := s.questionRepo.CreatePaper(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *QuestionService) GetPaper(ctx context.Context, id uuid.UUID) (*model.QuestionPaper, error) {
	p, err := s.questionRepo.GetPaper(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *QuestionService) ListPapers(ctx context.Context, instituteID uuid.UUID) ([]model.QuestionPaper, error) {
	return s.questionRepo.ListPapersByInstitute(ctx, instituteID)
}

// PaperLocked reports whether the pool may currently be edited.
func (s *QuestionService) PaperLocked(ctx context.Context, paperID uuid.UUID) (bool, error) {
	return s.questionRepo.PaperLocked(ctx, paperID)
}

func (s *QuestionService) AddQuestion(ctx context.Context, paperID uuid.UUID, in QuestionInput) (*model.Question, error) {
	if err := s.ensureUnlocked(ctx, paperID); err != nil {
		return nil, err
	}

	q := &model.Question{
		ID:            uuid.New(),
		PaperID:       paperID,
		Sr:            in.Sr,
		Level:         in.Level,
		Text:          in.Text,
		Image:         in.Image,
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		IsEvaluatable: true,
	}
	if in.IsEvaluatable != nil {
		q.IsEvaluatable = *in.IsEvaluatable
	}
	if q.IsEvaluatable && !hasOption(q.Options, q.CorrectAnswer) {
		return nil, ErrInvalidOption
	}

	if err := s.questionRepo.Create(ctx, q); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateSr
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id uuid.UUID, in QuestionInput) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.ensureUnlocked(ctx, q.PaperID); err != nil {
		return nil, err
	}

	q.Sr = in.Sr
	q.Level = in.Level
	q.Text = in.Text
	q.Image = in.Image
	q.Options = in.Options
	q.CorrectAnswer = in.CorrectAnswer
	if in.IsEvaluatable != nil {
		q.IsEvaluatable = *in.IsEvaluatable
	}
	if q.IsEvaluatable && !hasOption(q.Options, q.CorrectAnswer) {
		return nil, ErrInvalidOption
	}

	if err := s.questionRepo.Update(ctx, q); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateSr
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.ensureUnlocked(ctx, q.PaperID); err != nil {
		return err
	}
	return s.questionRepo.Delete(ctx, id)
}

func (s *QuestionService) ListQuestions(ctx context.Context, paperID uuid.UUID) ([]model.Question, error) {
	return s.questionRepo.ListByPaper(ctx, paperID)
}

func (s *QuestionService) ensureUnlocked(ctx context.Context, paperID uuid.UUID) error {
	locked, err := s.questionRepo.PaperLocked(ctx, paperID)
	if err != nil {
		return err
	}
	if locked {
		return ErrPaperLocked
	}
	return nil
}
