package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"worldstage/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestSendSuccessMergesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	SendSuccess(c, http.StatusCreated, "Game created successfully", gin.H{"game": gin.H{"id": 7}})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true || body["message"] != "Game created successfully" {
		t.Fatalf("body = %v", body)
	}
	if game, ok := body["game"].(map[string]any); !ok || game["id"] != float64(7) {
		t.Fatalf("game = %v", body["game"])
	}

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	SendSuccess(c, http.StatusOK, "", gin.H{"games": []int{}})
	if _, ok := decode(t, rec)["message"]; ok {
		t.Fatalf("empty message should be omitted")
	}
}

func TestSendAppError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperror.Validation("Game is full"), http.StatusBadRequest, "Game is full"},
		{"not found", apperror.NotFound("Game not found"), http.StatusNotFound, "Game not found"},
		{"forbidden", apperror.Forbidden("Access denied"), http.StatusForbidden, "Access denied"},
		{"insufficient", apperror.Insufficient("Insufficient resources"), http.StatusBadRequest, "Insufficient resources"},
		{"wrapped", errors.Join(errors.New("ctx"), apperror.InvalidState("Game is not in a pending state")), http.StatusBadRequest, "Game is not in a pending state"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "Failed to fetch games"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/games", nil)
			SendAppError(c, zap.NewNop(), tc.err, "Failed to fetch games")

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			body := decode(t, rec)
			if body["success"] != false || body["message"] != tc.message {
				t.Fatalf("body = %v", body)
			}
		})
	}
}

func TestParseValidationError(t *testing.T) {
	type request struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Count int    `json:"count" binding:"min=1"`
	}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			SendBindingError(c, err, "Invalid request")
			return
		}
		c.Status(http.StatusOK)
	})

	cases := []struct {
		body   string
		fields map[string]string
	}{
		{`{"email":"bad","count":0}`, map[string]string{
			"Name":  "Name is required",
			"Email": "Email must be a valid email address",
			"Count": "Count must be at least 1",
		}},
		{`{"name":`, map[string]string{"body": "Request body is not valid JSON"}},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", tc.body, rec.Code)
		}
		body := decode(t, rec)
		errs, _ := body["errors"].(map[string]any)
		if len(errs) != len(tc.fields) {
			t.Fatalf("%s: errors = %v", tc.body, errs)
		}
		for field, msg := range tc.fields {
			if errs[field] != msg {
				t.Fatalf("%s: errors[%s] = %v, want %q", tc.body, field, errs[field], msg)
			}
		}
	}
}

func TestStartCronJobs(t *testing.T) {
	if _, err := StartCronJobs(zap.NewNop(), CronJob{Name: "broken", Spec: "every minute", Run: func(context.Context) error { return nil }}); err == nil {
		t.Fatalf("invalid schedule accepted")
	}

	ran := make(chan struct{}, 1)
	c, err := StartCronJobs(zap.NewNop(), CronJob{
		Name: "tick",
		Spec: "@every 1s",
		Run: func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("job context has no deadline")
			}
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not run")
	}
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(8)
	if err != nil {
		t.Fatalf("RandomToken: %v", err)
	}
	b, _ := RandomToken(8)
	if len(a) != 16 || a == b {
		t.Fatalf("tokens %q %q", a, b)
	}
}
