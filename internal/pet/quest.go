package pet

import "errors"

// QuestState tracks a daily quest slot through its day lifecycle. The
// original system overloaded a single boolean for "not yet met" and
// "claimed"; the explicit three-state machine removes that ambiguity.
type QuestState int

const (
	// QuestNotMet: the quest's condition has not been satisfied today.
	QuestNotMet QuestState = iota
	// QuestClaimable: the condition is met and the reward is unclaimed.
	QuestClaimable
	// QuestClaimed: the reward has been paid out; terminal for the day.
	QuestClaimed
)

// String returns the wire-stable name of the quest state.
func (q QuestState) String() string {
	switch q {
	case QuestNotMet:
		return "NOT_MET"
	case QuestClaimable:
		return "CLAIMABLE"
	case QuestClaimed:
		return "CLAIMED"
	default:
		return "UNKNOWN"
	}
}

// Daily quest slots. Slot order matches the seeded quest catalog.
const (
	// QuestSlotCheckin: open the app today. Claimable from day start.
	QuestSlotCheckin = 0
	// QuestSlotExercise: complete any exercise session.
	QuestSlotExercise = 1
	// QuestSlotEndurance: accumulate EnduranceQuestSeconds of exercise.
	QuestSlotEndurance = 2

	QuestSlotCount = 3
)

// EnduranceQuestSeconds is the daily accumulation target for the endurance
// quest slot (10 minutes).
const EnduranceQuestSeconds = 600

var (
	// ErrQuestNotMet is returned when claiming a slot whose condition has
	// not been satisfied yet today.
	ErrQuestNotMet = errors.New("quest requirement not met")

	// ErrQuestClaimed is returned when claiming an already-claimed slot.
	ErrQuestClaimed = errors.New("quest already claimed")

	// ErrQuestSlot is returned for a slot index outside [0, QuestSlotCount).
	ErrQuestSlot = errors.New("invalid quest slot")
)

// dayStartQuests returns the slot states at the start of a calendar day:
// the check-in quest is immediately claimable, the rest start unmet.
func dayStartQuests() [QuestSlotCount]QuestState {
	return [QuestSlotCount]QuestState{
		QuestSlotCheckin:   QuestClaimable,
		QuestSlotExercise:  QuestNotMet,
		QuestSlotEndurance: QuestNotMet,
	}
}

// ClaimSlot transitions a quest slot from Claimable to Claimed. The reward
// payout itself goes through ApplyDelta in the caller; this only validates
// and advances the state machine.
func ClaimSlot(s State, slot int) (State, error) {
	if slot < 0 || slot >= QuestSlotCount {
		return s, ErrQuestSlot
	}
	switch s.Quests[slot] {
	case QuestClaimed:
		return s, ErrQuestClaimed
	case QuestNotMet:
		return s, ErrQuestNotMet
	}
	s.Quests[slot] = QuestClaimed
	return s, nil
}
