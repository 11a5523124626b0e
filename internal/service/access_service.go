package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/examind/proctor-backend/internal/config"
	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/notify"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Credential is the JWT payload binding a verified student to one test.
type Credential struct {
	TestID        uuid.UUID `json:"test_id"`
	TestStudentID uuid.UUID `json:"test_student_id"`
	ExternalID    string    `json:"external_id"`
	jwt.RegisteredClaims
}

// AccessService hands out one-time access codes and exchanges them for
// signed exam credentials.
type AccessService struct {
	cfg         *config.Config
	rdb         *redis.Client
	testRepo    repository.TestRepository
	studentRepo repository.StudentRepository
	mailer      *notify.Enqueuer
	log         zerolog.Logger
}

func NewAccessService(
	cfg *config.Config,
	rdb *redis.Client,
	testRepo repository.TestRepository,
	studentRepo repository.StudentRepository,
	mailer *notify.Enqueuer,
	log zerolog.Logger,
) *AccessService {
	return &AccessService{
		cfg:         cfg,
		rdb:         rdb,
		testRepo:    testRepo,
		studentRepo: studentRepo,
		mailer:      mailer,
		log:         log,
	}
}

// storedCode is the Redis value behind an issued access code. It pins
// the code to the test it was requested for, so verification needs only
// the student's ID and the code itself.
type storedCode struct {
	Code   string    `json:"code"`
	TestID uuid.UUID `json:"test_id"`
}

// RequestCode issues a fresh 6-digit code for the student and emails it.
// Re-requesting replaces the previous code.
func (s *AccessService) RequestCode(ctx context.Context, testID uuid.UUID, externalID string) error {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	student, err := s.studentRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !student.Active {
		return ErrForbidden
	}

	if err := s.ensureAssigned(ctx, student, test); err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate access code: %w", err)
	}

	payload, err := json.Marshal(storedCode{Code: code, TestID: testID})
	if err != nil {
		return fmt.Errorf("marshal access code: %w", err)
	}

	key := config.CacheKey.AccessCodeKey(externalID)
	if err := s.rdb.Set(ctx, key, payload, s.cfg.OTPTTL).Err(); err != nil {
		return fmt.Errorf("store access code: %w", err)
	}

	// The contract is "code sent": a dead queue means no mail, so the
	// student gets an error instead of a silent 200.
	if err := s.mailer.Push(ctx, notify.AccessCode(student.Email, student.Name, code, s.cfg.OTPTTL)); err != nil {
		return fmt.Errorf("queue access code mail: %w", err)
	}

	s.log.Info().
		Str("test_id", testID.String()).
		Str("external_id", externalID).
		Msg("access code issued")
	return nil
}

// VerifyCode consumes the code and returns a signed credential bound to
// the test the code was requested for. A code verifies at most once;
// concurrent attempts race on the Redis delete.
func (s *AccessService) VerifyCode(ctx context.Context, externalID, code string) (string, *model.TestStudent, *model.Test, error) {
	student, err := s.studentRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, nil, ErrInvalidCode
		}
		return "", nil, nil, err
	}

	key := config.CacheKey.AccessCodeKey(externalID)
	raw, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, nil, ErrInvalidCode
	}
	if err != nil {
		return "", nil, nil, fmt.Errorf("read access code: %w", err)
	}

	var stored storedCode
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return "", nil, nil, ErrInvalidCode
	}
	if stored.Code != code {
		return "", nil, nil, ErrInvalidCode
	}

	deleted, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return "", nil, nil, fmt.Errorf("consume access code: %w", err)
	}
	if deleted == 0 {
		// Another verification consumed it first.
		return "", nil, nil, ErrInvalidCode
	}

	test, err := s.testRepo.GetByID(ctx, stored.TestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, nil, ErrInvalidCode
		}
		return "", nil, nil, err
	}

	token, err := s.issueCredential(student, test.ID)
	if err != nil {
		return "", nil, nil, err
	}
	return token, student, test, nil
}

// ensureAssigned checks the student may sit this test. An explicit
// binding wins; otherwise a class and set match binds the student on
// first request.
func (s *AccessService) ensureAssigned(ctx context.Context, student *model.TestStudent, test *model.Test) error {
	if student.AssignedTo(test.ID) {
		return nil
	}
	if student.AssignedTestID == nil && test.Targets(student.AssignedClass, student.AssignedSet) {
		bound, err := s.studentRepo.BindTest(ctx, student.ID, test.ID)
		if err != nil {
			return err
		}
		if bound {
			id := test.ID
			student.AssignedTestID = &id
			return nil
		}
	}
	return ErrForbidden
}

func (s *AccessService) issueCredential(student *model.TestStudent, testID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Credential{
		TestID:        testID,
		TestStudentID: student.ID,
		ExternalID:    student.ExternalID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   student.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.CredentialTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

// ParseCredential validates a token string and returns its claims.
func ParseCredential(tokenStr, secret string) (*Credential, error) {
	var claims Credential
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}
	return &claims, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
