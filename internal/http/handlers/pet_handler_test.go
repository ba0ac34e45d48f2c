package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/services"
)

func petRouter(t *testing.T) (*gin.Engine, *Handlers) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	r := gin.New()
	r.POST("/users", h.RegisterUser)
	r.GET("/users/:id/pet", h.GetPet)
	r.PATCH("/users/:id/pet", h.RenamePet)
	r.POST("/users/:id/exercise", h.LogExercise)
	r.GET("/users/:id/exercise", h.ListExercise)
	r.POST("/users/:id/daily-check", h.DailyCheck)
	return r, h
}

func TestGetPet_ETagAnd304(t *testing.T) {
	r, _ := petRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u1/pet", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get pet -> %d body=%s", w.Code, w.Body.String())
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	// Same state + If-None-Match -> 304
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/users/u1/pet", nil)
	req.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w.Code)
	}

	// Unknown user -> 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/users/ghost/pet", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown user -> %d", w.Code)
	}
}

func TestRenamePet(t *testing.T) {
	r, _ := petRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	// Empty name -> 400
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/users/u1/pet", bytes.NewBufferString(`{"name":"   "}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank name -> %d", w.Code)
	}

	// Success -> 200 with new name persisted
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/users/u1/pet", bytes.NewBufferString(`{"name":"Champ"}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("rename -> %d body=%s", w.Code, w.Body.String())
	}
	var p domain.Pet
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("json: %v", err)
	}
	if p.Name != "Champ" {
		t.Fatalf("rename name = %q", p.Name)
	}
}

func TestLogExercise_Validation_Success(t *testing.T) {
	r, _ := petRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	// Bad JSON -> 400
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/u1/exercise", bytes.NewBufferString("{bad"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json -> %d", w.Code)
	}

	// Negative duration -> 400 from the service
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/exercise", bytes.NewBufferString(`{"duration_seconds":-5}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative duration -> %d", w.Code)
	}

	// 1200s = one full level of strength
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/exercise",
		bytes.NewBufferString(`{"exercise_type":"running","duration_seconds":1200,"steps":2400}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("log exercise -> %d body=%s", w.Code, w.Body.String())
	}
	var res services.ExerciseResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	if res.StrengthGained != 120 || !res.LeveledUp || res.Pet == nil || res.Pet.Level != 2 {
		t.Fatalf("unexpected result: %+v pet=%+v", res, res.Pet)
	}
	if res.Log == nil || res.Log.DurationSeconds != 1200 {
		t.Fatalf("expected audit log row, got %+v", res.Log)
	}
}

func TestListExercise(t *testing.T) {
	r, _ := petRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	for _, d := range []int{60, 120, 180} {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{"exercise_type": "walking", "duration_seconds": d})
		req := httptest.NewRequest(http.MethodPost, "/users/u1/exercise", bytes.NewBuffer(body))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed session %d -> %d", d, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u1/exercise?limit=2", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d body=%s", w.Code, w.Body.String())
	}
	var logs []domain.ExerciseLog
	if err := json.Unmarshal(w.Body.Bytes(), &logs); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("limit=2 returned %d rows", len(logs))
	}

	// Unknown user -> 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/users/ghost/exercise", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown user -> %d", w.Code)
	}
}

func TestDailyCheck_SameDayIsNoop(t *testing.T) {
	r, _ := petRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/u1/daily-check", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("daily check -> %d body=%s", w.Code, w.Body.String())
	}
	var res services.DailyCheckResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	// Registration already counted as today's check, so nothing ran.
	if !res.AlreadyChecked {
		t.Fatalf("same-day check should be a no-op: %+v", res)
	}
}

func TestLogExercise_RetrySameKeyIsReplayed(t *testing.T) {
	r, h := petRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	body := `{"exercise_type":"running","duration_seconds":600}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/u1/exercise", bytes.NewBufferString(body))
	req.Header.Set("Idempotency-Key", "session-abc")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first post -> %d body=%s", w.Code, w.Body.String())
	}
	var first services.ExerciseResult
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("json: %v", err)
	}
	if first.StrengthGained != 60 || first.Pet.Strength != 60 {
		t.Fatalf("first post: gained=%d strength=%d, want 60/60", first.StrengthGained, first.Pet.Strength)
	}

	// Same key again: served from the store, no second credit.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/exercise", bytes.NewBufferString(body))
	req.Header.Set("Idempotency-Key", "session-abc")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("retry -> %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("retry missing replay header, got %q", w.Header().Get("Idempotency-Replayed"))
	}
	var replay services.ExerciseResult
	if err := json.Unmarshal(w.Body.Bytes(), &replay); err != nil {
		t.Fatalf("json: %v", err)
	}
	if replay.Log == nil || replay.Log.ID != first.Log.ID {
		t.Fatalf("replay log = %+v, want the stored session %s", replay.Log, first.Log.ID)
	}
	if replay.Pet.Strength != 60 {
		t.Fatalf("retry double-applied strength: %d", replay.Pet.Strength)
	}

	// A fresh key is a new session.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/exercise", bytes.NewBufferString(body))
	req.Header.Set("Idempotency-Key", "session-def")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("fresh key -> %d body=%s", w.Code, w.Body.String())
	}

	// Exactly two audit rows persisted for three POSTs.
	db := h.idemDB()
	var count int64
	if err := db.Model(&domain.ExerciseLog{}).Where("user_id = ?", "u1").Count(&count).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 log rows, got %d", count)
	}
}
