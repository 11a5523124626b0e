package main

import (
	"context"
	"fmt"
	"time"

	"github.com/examind/proctor-backend/internal/config"
	"github.com/examind/proctor-backend/internal/database"
	"github.com/examind/proctor-backend/internal/logger"
	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/notify"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/google/uuid"
)

// Seeds a demo paper, an active test and ten assigned students for local
// development.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	mailer := notify.NewEnqueuer(rdb, config.WorkerKey.NotifyQueue, log)

	testSvc := service.NewTestService(testRepo, questionRepo, log)
	questionSvc := service.NewQuestionService(questionRepo, log)
	studentSvc := service.NewStudentService(studentRepo, testRepo, mailer, log)

	instituteID := uuid.New()
	fmt.Printf("=== Seeding demo data for institute %s ===\n", instituteID)

	paper, err := questionSvc.CreatePaper(ctx, service.PaperInput{
		InstituteID: instituteID,
		Title:       "General Knowledge Demo",
		Class:       "10",
		Set:         "A",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create paper")
	}
	fmt.Printf("Created paper %s\n", paper.ID)

	levels := []model.QuestionLevel{
		model.LevelEasy, model.LevelEasy, model.LevelEasy, model.LevelEasy,
		model.LevelMedium, model.LevelMedium, model.LevelMedium,
		model.LevelHard, model.LevelHard, model.LevelHard,
	}
	for i, level := range levels {
		_, err := questionSvc.AddQuestion(ctx, paper.ID, service.QuestionInput{
			Sr:    i + 1,
			Level: level,
			Text:  fmt.Sprintf("Demo question %d", i+1),
			Options: []model.Option{
				{ID: "a", Text: "Option A"},
				{ID: "b", Text: "Option B"},
				{ID: "c", Text: "Option C"},
				{ID: "d", Text: "Option D"},
			},
			CorrectAnswer: "a",
		})
		if err != nil {
			log.Fatal().Err(err).Int("sr", i+1).Msg("create question")
		}
	}
	fmt.Printf("Created %d questions\n", len(levels))

	now := time.Now().UTC()
	test, err := testSvc.Create(ctx, service.TestInput{
		InstituteID:      instituteID,
		PaperID:          paper.ID,
		Title:            "Demo Midterm",
		Description:      "Seeded test for local development",
		TargetClass:      "10",
		TargetSet:        "A",
		Status:           model.TestStatusActive,
		StartAt:          now,
		EndAt:            now.Add(24 * time.Hour),
		DurationMinutes:  30,
		ViolationRules:   model.ViolationRules{model.ViolationAudioNoise: 3, model.ViolationWindowBlur: 2},
		ShuffleQuestions: true,
		ShowResultsTo:    model.ShowResultsToAll,
		TotalMarks:       40,
		PassingMarks:     16,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create test")
	}
	fmt.Printf("Created test %s\n", test.ID)

	names := []string{
		"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
		"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
	}

	successCount := 0
	for i, name := range names {
		in := service.StudentInput{
			ExternalID: fmt.Sprintf("STU-%03d", i+1),
			Name:       name,
			Email:      fmt.Sprintf("student%d@example.com", i+1),
			RollNumber: fmt.Sprintf("%02d", i+1),
		}
		if _, err := studentSvc.Assign(ctx, test.ID, in); err != nil {
			fmt.Printf("Error assigning student %s (%s): %v\n", name, in.ExternalID, err)
		} else {
			successCount++
		}
	}

	fmt.Printf("\nSeed completed! Assigned %d/%d students to test %s.\n", successCount, len(names), test.ID)
}
