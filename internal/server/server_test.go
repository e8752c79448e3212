package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goalraiders/goalraiders/internal/game"
	"github.com/goalraiders/goalraiders/internal/ident"
	"github.com/goalraiders/goalraiders/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSecret = []byte("test-secret")

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Boss{}, &models.Task{}, &models.TaskCompletion{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	router, err := NewRouter(StartOpts{
		DB:     db,
		Tables: game.Default(),
		Secret: testSecret,
	})
	if err != nil {
		t.Fatalf("NewRouter() error: %v", err)
	}
	return router
}

func mintToken(t *testing.T, uid string) string {
	t.Helper()
	token, err := ident.Mint(testSecret, uid, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

// do issues a request with an optional bearer token and decodes the JSON
// response into out (when out is non-nil).
func do(t *testing.T, router *gin.Engine, method, path, token string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code
}

func TestHealthNoAuth(t *testing.T) {
	router := newTestRouter(t)
	var resp map[string]string
	if code := do(t, router, http.MethodGet, "/api/health", "", nil, &resp); code != http.StatusOK {
		t.Fatalf("GET /api/health status = %d, want 200", code)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
}

func TestAuthRejections(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if code := do(t, router, http.MethodGet, "/api/tasks", tc.token, nil, nil); code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", code)
			}
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := ident.Mint([]byte("other-secret"), "user-1", time.Hour)
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		if code := do(t, router, http.MethodGet, "/api/tasks", token, nil, nil); code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", code)
		}
	})
}

func TestBossCRUD(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, "user-1")

	var created models.Boss
	code := do(t, router, http.MethodPost, "/api/bosses", token,
		map[string]any{"title": "Learn Go", "difficulty": "Hard"}, &created)
	if code != http.StatusCreated {
		t.Fatalf("POST /api/bosses status = %d, want 201", code)
	}
	if created.MaxHP != 300 || created.CurrentHP != 300 {
		t.Errorf("boss HP = %d/%d, want 300/300", created.CurrentHP, created.MaxHP)
	}

	var fetched models.Boss
	if code := do(t, router, http.MethodGet, "/api/bosses/"+created.ID, token, nil, &fetched); code != http.StatusOK {
		t.Fatalf("GET boss status = %d, want 200", code)
	}
	if fetched.Title != "Learn Go" {
		t.Errorf("Title = %q, want Learn Go", fetched.Title)
	}

	var updated models.Boss
	code = do(t, router, http.MethodPut, "/api/bosses/"+created.ID, token,
		map[string]any{"title": "Master Go"}, &updated)
	if code != http.StatusOK {
		t.Fatalf("PUT boss status = %d, want 200", code)
	}
	if updated.Title != "Master Go" {
		t.Errorf("Title = %q, want Master Go", updated.Title)
	}

	var list struct {
		Bosses []models.Boss `json:"bosses"`
	}
	if code := do(t, router, http.MethodGet, "/api/bosses", token, nil, &list); code != http.StatusOK {
		t.Fatalf("GET /api/bosses status = %d, want 200", code)
	}
	if len(list.Bosses) != 1 {
		t.Errorf("boss count = %d, want 1", len(list.Bosses))
	}

	if code := do(t, router, http.MethodDelete, "/api/bosses/"+created.ID, token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("DELETE boss status = %d, want 204", code)
	}
	if code := do(t, router, http.MethodGet, "/api/bosses/"+created.ID, token, nil, nil); code != http.StatusNotFound {
		t.Errorf("GET deleted boss status = %d, want 404", code)
	}
}

func TestBossCreateValidation(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, "user-1")

	if code := do(t, router, http.MethodPost, "/api/bosses", token,
		map[string]any{"difficulty": "Easy"}, nil); code != http.StatusBadRequest {
		t.Errorf("missing title status = %d, want 400", code)
	}
	if code := do(t, router, http.MethodPost, "/api/bosses", token,
		map[string]any{"title": "X", "difficulty": "Nightmare"}, nil); code != http.StatusBadRequest {
		t.Errorf("bad difficulty status = %d, want 400", code)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	router := newTestRouter(t)
	owner := mintToken(t, "owner")
	intruder := mintToken(t, "intruder")

	var b models.Boss
	if code := do(t, router, http.MethodPost, "/api/bosses", owner,
		map[string]any{"title": "Private", "difficulty": "Easy"}, &b); code != http.StatusCreated {
		t.Fatalf("create boss status = %d", code)
	}

	if code := do(t, router, http.MethodGet, "/api/bosses/"+b.ID, intruder, nil, nil); code != http.StatusForbidden {
		t.Errorf("intruder GET status = %d, want 403", code)
	}
	if code := do(t, router, http.MethodDelete, "/api/bosses/"+b.ID, intruder, nil, nil); code != http.StatusForbidden {
		t.Errorf("intruder DELETE status = %d, want 403", code)
	}

	var list struct {
		Bosses []models.Boss `json:"bosses"`
	}
	if code := do(t, router, http.MethodGet, "/api/bosses", intruder, nil, &list); code != http.StatusOK {
		t.Fatalf("intruder list status = %d", code)
	}
	if len(list.Bosses) != 0 {
		t.Errorf("intruder sees %d bosses, want 0", len(list.Bosses))
	}
}

func TestTaskCompleteFlow(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, "user-1")

	var b models.Boss
	if code := do(t, router, http.MethodPost, "/api/bosses", token,
		map[string]any{"title": "Ship Feature", "difficulty": "Easy"}, &b); code != http.StatusCreated {
		t.Fatalf("create boss status = %d", code)
	}

	var tk models.Task
	if code := do(t, router, http.MethodPost, "/api/tasks", token,
		map[string]any{"title": "Write docs", "difficulty": "Medium", "bossId": b.ID}, &tk); code != http.StatusCreated {
		t.Fatalf("create task status = %d", code)
	}

	var res struct {
		Status    string `json:"status"`
		TaskID    string `json:"taskId"`
		BossID    string `json:"bossId"`
		NewBossHP int    `json:"newBossHp"`
		Damage    int    `json:"damage"`
	}
	path := fmt.Sprintf("/api/tasks/%s/complete", tk.ID)
	if code := do(t, router, http.MethodPost, path, token, nil, &res); code != http.StatusOK {
		t.Fatalf("complete status = %d, want 200", code)
	}
	if res.Status != "success" {
		t.Errorf("status = %q, want success", res.Status)
	}
	if res.Damage != 20 || res.NewBossHP != 80 {
		t.Errorf("damage/hp = %d/%d, want 20/80", res.Damage, res.NewBossHP)
	}
	if res.BossID != b.ID || res.TaskID != tk.ID {
		t.Errorf("ids = %s/%s, want %s/%s", res.BossID, res.TaskID, b.ID, tk.ID)
	}

	// A second completion of a one-shot task is a conflict.
	if code := do(t, router, http.MethodPost, path, token, nil, nil); code != http.StatusConflict {
		t.Errorf("re-complete status = %d, want 409", code)
	}
}

func TestTaskCompleteUnknownTask(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, "user-1")
	if code := do(t, router, http.MethodPost, "/api/tasks/task-nope/complete", token, nil, nil); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestConfigEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, "user-1")

	var cfg struct {
		DifficultyDamage map[string]int `json:"difficultyDamage"`
		BossHP           map[string]int `json:"bossHp"`
		BossXPReward     map[string]int `json:"bossXpReward"`
	}
	if code := do(t, router, http.MethodGet, "/api/config", token, nil, &cfg); code != http.StatusOK {
		t.Fatalf("GET /api/config status = %d, want 200", code)
	}
	if cfg.DifficultyDamage["Very Hard"] != 50 {
		t.Errorf("Very Hard damage = %d, want 50", cfg.DifficultyDamage["Very Hard"])
	}
	if cfg.BossHP["Easy"] != 100 {
		t.Errorf("Easy boss HP = %d, want 100", cfg.BossHP["Easy"])
	}
}

func TestMeCreatesPlayer(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, "user-abcdef123456")

	var me struct {
		UID      string `json:"uid"`
		Username string `json:"username"`
		Level    int    `json:"level"`
	}
	if code := do(t, router, http.MethodGet, "/api/users/me", token, nil, &me); code != http.StatusOK {
		t.Fatalf("GET /api/users/me status = %d, want 200", code)
	}
	if me.UID != "user-abcdef123456" {
		t.Errorf("uid = %q", me.UID)
	}
	if me.Username != "Raider_user-abc" {
		t.Errorf("username = %q, want Raider_user-abc", me.Username)
	}
	if me.Level != 1 {
		t.Errorf("level = %d, want 1", me.Level)
	}
}
