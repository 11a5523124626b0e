//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Runs against an already-started server plus its Redis instance. The
// access code is read out of Redis the way the mail worker would see it.
const (
	defaultBaseURL  = "http://localhost:8080/api/v1"
	defaultRedisURL = "redis://localhost:6379/0"
	studentID       = "E2E-STU-001"
	studentName     = "E2E Student"
	studentEmail    = "e2e_student@example.com"
)

var (
	baseURL  string
	adminKey string
	rdb      *redis.Client

	paperID     string
	testID      string
	questionIDs []string
	examToken   string
	sessionID   string
)

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	adminKey = os.Getenv("ADMIN_API_KEY")
	if adminKey == "" {
		fmt.Println("ADMIN_API_KEY must be set for e2e tests")
		os.Exit(1)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = defaultRedisURL
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		fmt.Printf("parse redis URL: %v\n", err)
		os.Exit(1)
	}
	rdb = redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		fmt.Printf("ping redis: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = rdb.Close()
	os.Exit(code)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, method, path string, body any, headers map[string]string) (int, *envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, &env
}

func adminCall(t *testing.T, method, path string, body any) (int, *envelope) {
	t.Helper()
	return call(t, method, path, body, map[string]string{"X-Admin-Key": adminKey})
}

func studentCall(t *testing.T, method, path string, body any) (int, *envelope) {
	t.Helper()
	return call(t, method, path, body, map[string]string{"Authorization": "Bearer " + examToken})
}

func mustData(t *testing.T, env *envelope, out any) {
	t.Helper()
	if env.Error != nil {
		t.Fatalf("unexpected error response: %s %s", env.Error.Code, env.Error.Message)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func Test01AdminCreatesPaperAndQuestions(t *testing.T) {
	status, env := adminCall(t, http.MethodPost, "/admin/papers", map[string]any{
		"institute_id": "a6f1c9d2-0000-4000-8000-e2e000000001",
		"title":        "E2E Paper",
	})
	if status != http.StatusCreated {
		t.Fatalf("create paper: status %d", status)
	}
	var paper struct {
		ID string `json:"id"`
	}
	mustData(t, env, &paper)
	paperID = paper.ID

	levels := []string{"easy", "easy", "medium", "hard"}
	for i, level := range levels {
		status, env := adminCall(t, http.MethodPost, "/admin/papers/"+paperID+"/questions", map[string]any{
			"sr":    i + 1,
			"level": level,
			"text":  fmt.Sprintf("E2E question %d", i+1),
			"options": []map[string]string{
				{"id": "a", "text": "Right"},
				{"id": "b", "text": "Wrong"},
			},
			"correct_answer": "a",
		})
		if status != http.StatusCreated {
			t.Fatalf("create question %d: status %d", i+1, status)
		}
		var q struct {
			ID string `json:"id"`
		}
		mustData(t, env, &q)
		questionIDs = append(questionIDs, q.ID)
	}
}

func Test02AdminCreatesTestAndAssignsStudent(t *testing.T) {
	if paperID == "" {
		t.Skip("paper setup failed")
	}

	now := time.Now().UTC()
	status, env := adminCall(t, http.MethodPost, "/admin/tests", map[string]any{
		"institute_id":     "a6f1c9d2-0000-4000-8000-e2e000000001",
		"paper_id":         paperID,
		"title":            "E2E Test",
		"status":           "active",
		"start_at":         now.Format(time.RFC3339),
		"end_at":           now.Add(time.Hour).Format(time.RFC3339),
		"duration_minutes": 10,
		"show_results_to":  "all",
		"total_marks":      16,
		"passing_marks":    6,
	})
	if status != http.StatusCreated {
		t.Fatalf("create test: status %d", status)
	}
	var created struct {
		ID string `json:"id"`
	}
	mustData(t, env, &created)
	testID = created.ID

	status, env = adminCall(t, http.MethodPost, "/admin/tests/"+testID+"/students", map[string]any{
		"student_id": studentID,
		"name":       studentName,
		"email":      studentEmail,
	})
	if status != http.StatusCreated {
		t.Fatalf("assign student: status %d", status)
	}
}

func Test03AccessCodeFlow(t *testing.T) {
	if testID == "" {
		t.Skip("test setup failed")
	}

	status, _ := call(t, http.MethodPost, "/exam/access/request", map[string]any{
		"test_id":    testID,
		"student_id": studentID,
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("request code: status %d", status)
	}

	raw, err := rdb.Get(context.Background(), "access:otp:"+studentID).Result()
	if err != nil {
		t.Fatalf("read access code from redis: %v", err)
	}
	var stored struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("decode stored code: %v", err)
	}

	status, env := call(t, http.MethodPost, "/exam/access/verify", map[string]any{
		"student_id": studentID,
		"code":       stored.Code,
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("verify code: status %d", status)
	}
	var verified struct {
		Token string `json:"token"`
		Test  struct {
			ID string `json:"id"`
		} `json:"test"`
	}
	mustData(t, env, &verified)
	if verified.Token == "" {
		t.Fatal("expected a credential token")
	}
	if verified.Test.ID != testID {
		t.Fatalf("verify returned test %s, want %s", verified.Test.ID, testID)
	}
	examToken = verified.Token

	// The code is one-time.
	status, _ = call(t, http.MethodPost, "/exam/access/verify", map[string]any{
		"student_id": studentID,
		"code":       stored.Code,
	}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("reused code: status %d, want 401", status)
	}
}

func Test04ExamAttempt(t *testing.T) {
	if examToken == "" {
		t.Skip("access flow failed")
	}

	status, env := studentCall(t, http.MethodPost, "/exam/start", nil)
	if status != http.StatusOK {
		t.Fatalf("start: status %d", status)
	}
	var started struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
		Questions []struct {
			ID string `json:"id"`
		} `json:"questions"`
		RemainingSeconds int `json:"remaining_seconds"`
	}
	mustData(t, env, &started)
	sessionID = started.Session.ID
	if len(started.Questions) != len(questionIDs) {
		t.Fatalf("question count: got %d, want %d", len(started.Questions), len(questionIDs))
	}
	if started.RemainingSeconds <= 0 {
		t.Fatal("expected a positive remaining time")
	}

	// Two correct, one wrong, one left blank.
	answers := []struct {
		question string
		option   string
	}{
		{started.Questions[0].ID, "a"},
		{started.Questions[1].ID, "a"},
		{started.Questions[2].ID, "b"},
	}
	for _, a := range answers {
		status, _ := studentCall(t, http.MethodPost, "/exam/sessions/"+sessionID+"/answers", map[string]any{
			"question_id": a.question,
			"option_id":   a.option,
			"time_spent":  15,
		})
		if status != http.StatusOK {
			t.Fatalf("save answer: status %d", status)
		}
	}

	status, env = studentCall(t, http.MethodPost, "/exam/sessions/"+sessionID+"/submit", nil)
	if status != http.StatusOK {
		t.Fatalf("submit: status %d", status)
	}
	var submitted struct {
		Status string `json:"status"`
		Score  *struct {
			Attempted int `json:"attempted"`
			Correct   int `json:"correct"`
		} `json:"score"`
	}
	mustData(t, env, &submitted)
	if submitted.Status != "submitted" {
		t.Fatalf("session status: %s", submitted.Status)
	}
	if submitted.Score == nil || submitted.Score.Correct != 2 || submitted.Score.Attempted != 3 {
		t.Fatalf("unexpected score: %+v", submitted.Score)
	}

	status, _ = studentCall(t, http.MethodPost, "/exam/sessions/"+sessionID+"/submit", nil)
	if status != http.StatusConflict {
		t.Fatalf("second submit: status %d, want 409", status)
	}
}

func Test05PublishAndStudentResult(t *testing.T) {
	if sessionID == "" {
		t.Skip("attempt failed")
	}

	// Hidden until the admin publishes.
	status, _ := studentCall(t, http.MethodGet, "/exam/result", nil)
	if status != http.StatusForbidden {
		t.Fatalf("unpublished result: status %d, want 403", status)
	}

	status, _ = adminCall(t, http.MethodPost, "/admin/results/"+sessionID+"/publish", nil)
	if status != http.StatusOK {
		t.Fatalf("publish: status %d", status)
	}

	status, _ = adminCall(t, http.MethodPost, "/admin/results/"+sessionID+"/publish", nil)
	if status != http.StatusConflict {
		t.Fatalf("second publish: status %d, want 409", status)
	}

	status, env := studentCall(t, http.MethodGet, "/exam/result", nil)
	if status != http.StatusOK {
		t.Fatalf("student result: status %d", status)
	}
	var my struct {
		TestTitle string `json:"test_title"`
		Passed    bool   `json:"passed"`
	}
	mustData(t, env, &my)
	if my.TestTitle != "E2E Test" {
		t.Fatalf("test title: %s", my.TestTitle)
	}
}
