package pet

import (
	"errors"
	"testing"
)

func TestClaimSlot_Transitions(t *testing.T) {
	s := NewState(0)
	s.Quests = dayStartQuests()

	// Check-in quest starts claimable.
	s, err := ClaimSlot(s, QuestSlotCheckin)
	if err != nil {
		t.Fatalf("claim check-in: %v", err)
	}
	if s.Quests[QuestSlotCheckin] != QuestClaimed {
		t.Fatalf("state = %v, want CLAIMED", s.Quests[QuestSlotCheckin])
	}

	// Claiming twice is rejected without mutation.
	if _, err := ClaimSlot(s, QuestSlotCheckin); !errors.Is(err, ErrQuestClaimed) {
		t.Fatalf("got %v, want ErrQuestClaimed", err)
	}

	// Unmet quests cannot be claimed.
	if _, err := ClaimSlot(s, QuestSlotExercise); !errors.Is(err, ErrQuestNotMet) {
		t.Fatalf("got %v, want ErrQuestNotMet", err)
	}

	// Out-of-range slots.
	if _, err := ClaimSlot(s, -1); !errors.Is(err, ErrQuestSlot) {
		t.Fatalf("got %v, want ErrQuestSlot", err)
	}
	if _, err := ClaimSlot(s, QuestSlotCount); !errors.Is(err, ErrQuestSlot) {
		t.Fatalf("got %v, want ErrQuestSlot", err)
	}
}

func TestQuestStateString(t *testing.T) {
	if QuestNotMet.String() != "NOT_MET" ||
		QuestClaimable.String() != "CLAIMABLE" ||
		QuestClaimed.String() != "CLAIMED" {
		t.Fatal("unexpected quest state names")
	}
	if QuestState(42).String() != "UNKNOWN" {
		t.Fatal("out-of-range state should stringify as UNKNOWN")
	}
}
