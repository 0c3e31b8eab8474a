package game

import "github.com/google/uuid"

// EventType classifies a history entry.
type EventType string

const (
	EventNarrative EventType = "narrative"
	EventChoice    EventType = "choice"
	EventAlert     EventType = "alert"
	EventSuccess   EventType = "success"
	EventFailure   EventType = "failure"
)

// GameEvent is one immutable narrative beat. History is append-only; the
// most recent event's Choices are the ones currently offered to the player.
type GameEvent struct {
	ID        string    `yaml:"id"`
	Turn      int       `yaml:"turn"`
	Type      EventType `yaml:"type"`
	Narrative string    `yaml:"narrative"`
	Choices   []string  `yaml:"choices,omitempty"`
}

// NewEvent builds an event with a fresh id.
func NewEvent(turn int, typ EventType, narrative string, choices []string) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Turn:      turn,
		Type:      typ,
		Narrative: narrative,
		Choices:   choices,
	}
}
