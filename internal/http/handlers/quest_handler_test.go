package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
	"github.com/tbourn/go-pet-fitness-backend/internal/services"
)

func questRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := newTestHandlers(db)
	r := gin.New()
	r.POST("/users", h.RegisterUser)
	r.POST("/users/:id/exercise", h.LogExercise)
	r.GET("/users/:id/quests", h.ListQuests)
	r.POST("/users/:id/quests/:questID/claim", h.ClaimQuest)
	return r
}

func listQuests(t *testing.T, r *gin.Engine, userID string) []domain.UserQuest {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+userID+"/quests", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list quests -> %d body=%s", w.Code, w.Body.String())
	}
	var rows []domain.UserQuest
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("json: %v", err)
	}
	return rows
}

func TestListQuests(t *testing.T) {
	r := questRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	rows := listQuests(t, r, "u1")
	if len(rows) != pet.QuestSlotCount {
		t.Fatalf("expected %d quest rows, got %d", pet.QuestSlotCount, len(rows))
	}
	// Check-in is claimable from the start of the day; the others are not met.
	if rows[0].Quest.Slot != pet.QuestSlotCheckin || rows[0].State != pet.QuestClaimable {
		t.Fatalf("check-in row wrong: %+v", rows[0])
	}
	if rows[1].State != pet.QuestNotMet || rows[2].State != pet.QuestNotMet {
		t.Fatalf("exercise/endurance should start NOT_MET: %+v %+v", rows[1], rows[2])
	}

	// Unknown user -> 404
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/ghost/quests", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown user -> %d", w.Code)
	}
}

func TestClaimQuest_FlowAndRejections(t *testing.T) {
	r := questRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	rows := listQuests(t, r, "u1")
	checkin := rows[0]
	exercise := rows[1]

	// Claiming an unmet quest -> 409 quest_not_met
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/u1/quests/"+exercise.ID+"/claim", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("unmet claim -> %d", w.Code)
	}
	if e := decodeErr(t, w); e.Code != ErrCodeQuestNotMet {
		t.Fatalf("unmet claim code = %q", e.Code)
	}

	// Claiming the check-in quest pays its reward
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/quests/"+checkin.ID+"/claim", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("checkin claim -> %d body=%s", w.Code, w.Body.String())
	}
	var res services.ClaimResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	if res.Quest == nil || res.Quest.State != pet.QuestClaimed {
		t.Fatalf("claimed row not updated: %+v", res.Quest)
	}
	if res.Pet == nil || res.Pet.Strength != checkin.Quest.RewardStrength {
		t.Fatalf("reward not applied: %+v", res.Pet)
	}

	// Claiming again -> 409 quest_claimed
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/quests/"+checkin.ID+"/claim", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("double claim -> %d", w.Code)
	}
	if e := decodeErr(t, w); e.Code != ErrCodeQuestClaimed {
		t.Fatalf("double claim code = %q", e.Code)
	}

	// Unknown quest ID -> 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/quests/nope/claim", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown quest -> %d", w.Code)
	}
}

func TestClaimQuest_ExerciseBecomesClaimable(t *testing.T) {
	r := questRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	// One session flips the exercise quest to claimable.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/u1/exercise",
		bytes.NewBufferString(`{"exercise_type":"walking","duration_seconds":120}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("log exercise -> %d body=%s", w.Code, w.Body.String())
	}

	rows := listQuests(t, r, "u1")
	exercise := rows[1]
	if exercise.State != pet.QuestClaimable {
		t.Fatalf("exercise quest should be claimable after a session: %+v", exercise)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/quests/"+exercise.ID+"/claim", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("exercise claim -> %d body=%s", w.Code, w.Body.String())
	}
}

func TestClaimQuest_RetrySameKeyIsReplayed(t *testing.T) {
	r := questRouter(t)
	registerThroughAPI(t, r, "u1", "rocky")

	rows := listQuests(t, r, "u1")
	checkin := rows[0]

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/u1/quests/"+checkin.ID+"/claim", nil)
	req.Header.Set("Idempotency-Key", "claim-1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("claim -> %d body=%s", w.Code, w.Body.String())
	}
	var first services.ClaimResult
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("json: %v", err)
	}

	// Retried key: the stored claim is served instead of quest_claimed,
	// and the reward is not paid twice.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/quests/"+checkin.ID+"/claim", nil)
	req.Header.Set("Idempotency-Key", "claim-1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("retry -> %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("retry missing replay header")
	}
	var replay services.ClaimResult
	if err := json.Unmarshal(w.Body.Bytes(), &replay); err != nil {
		t.Fatalf("json: %v", err)
	}
	if replay.Quest == nil || replay.Quest.ID != first.Quest.ID || replay.Quest.State != pet.QuestClaimed {
		t.Fatalf("replay quest = %+v, want stored claim %s", replay.Quest, first.Quest.ID)
	}
	if replay.Pet.Strength != checkin.Quest.RewardStrength {
		t.Fatalf("retry double-paid the reward: %+v", replay.Pet)
	}

	// A fresh key on the claimed quest still reports the conflict.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/u1/quests/"+checkin.ID+"/claim", nil)
	req.Header.Set("Idempotency-Key", "claim-2")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("fresh key on claimed quest -> %d", w.Code)
	}
	if e := decodeErr(t, w); e.Code != ErrCodeQuestClaimed {
		t.Fatalf("fresh key code = %q", e.Code)
	}
}
