package service

import (
	"context"
	"errors"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/notify"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StudentInput carries the admin-supplied fields of a student record.
type StudentInput struct {
	ExternalID string `json:"student_id" validate:"required,min=1,max=100"`
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Email      string `json:"email" validate:"required,email"`
	RollNumber string `json:"roll_number" validate:"max=50"`
	Mobile     string `json:"mobile" validate:"max=20"`
}

// StudentService manages test assignments. Assigning a student sends
// them their sign-in instructions.
type StudentService struct {
	studentRepo repository.StudentRepository
	testRepo    repository.TestRepository
	mailer      *notify.Enqueuer
	log         zerolog.Logger
}

func NewStudentService(
	studentRepo repository.StudentRepository,
	testRepo repository.TestRepository,
	mailer *notify.Enqueuer,
	log zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		testRepo:    testRepo,
		mailer:      mailer,
		log:         log,
	}
}

// Assign creates the student bound to the test. Re-assigning an
// existing student ID returns the current record unchanged.
func (s *StudentService) Assign(ctx context.Context, testID uuid.UUID, in StudentInput) (*model.TestStudent, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	assigned := testID
	student := &model.TestStudent{
		ID:             uuid.New(),
		InstituteID:    test.InstituteID,
		ExternalID:     in.ExternalID,
		Name:           in.Name,
		Email:          in.Email,
		RollNumber:     in.RollNumber,
		Mobile:         in.Mobile,
		AssignedTestID: &assigned,
		AssignedClass:  test.TargetClass,
		AssignedSet:    test.TargetSet,
		Active:         true,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.studentRepo.GetByExternalID(ctx, in.ExternalID)
		}
		return nil, err
	}

	s.mailer.Enqueue(ctx, notify.StudentCredentials(in.Email, in.Name, test.Title, in.ExternalID))
	return student, nil
}

func (s *StudentService) List(ctx context.Context, testID uuid.UUID) ([]model.TestStudent, error) {
	return s.studentRepo.ListByTest(ctx, testID)
}

func (s *StudentService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
