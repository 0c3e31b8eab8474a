package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Crazy-Trade/Crypto-Game-AI/internal/game"
)

// EventType tags the oracle's classification of a turn.
type EventType string

const (
	EventNormal      EventType = "normal"
	EventCrisis      EventType = "crisis"
	EventOpportunity EventType = "opportunity"
	EventGameOver    EventType = "game_over"
	EventVictory     EventType = "victory"
)

const maxChoices = 4

// TurnResult is the canonical parsed form of one oracle reply. Fallback is
// set when the reply was synthesized locally after a transport or parse
// failure; such a turn costs nothing and invites a retry.
type TurnResult struct {
	Narrative   string
	Choices     []string
	StatsUpdate game.Delta
	EventType   EventType
	Fallback    bool
}

// wireResult mirrors the JSON contract the oracle is instructed (and
// schema-constrained) to produce.
type wireResult struct {
	Narrative   string     `json:"narrative"`
	Choices     []string   `json:"choices"`
	StatsUpdate game.Delta `json:"stats_update"`
	EventType   string     `json:"event_type"`
}

// parseTurnResult validates an untrusted oracle reply against the contract.
// Markdown code fences are tolerated; anything else non-conforming is a
// parse failure.
func parseTurnResult(raw string) (TurnResult, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var wire wireResult
	if err := json.Unmarshal([]byte(clean), &wire); err != nil {
		return TurnResult{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	switch EventType(wire.EventType) {
	case EventNormal, EventCrisis, EventOpportunity, EventGameOver, EventVictory:
	default:
		return TurnResult{}, fmt.Errorf("%w: unknown event_type %q", ErrParse, wire.EventType)
	}
	if len(wire.Choices) > maxChoices {
		return TurnResult{}, fmt.Errorf("%w: %d choices exceeds limit of %d", ErrParse, len(wire.Choices), maxChoices)
	}

	return TurnResult{
		Narrative:   wire.Narrative,
		Choices:     wire.Choices,
		StatsUpdate: wire.StatsUpdate,
		EventType:   EventType(wire.EventType),
	}, nil
}

// fallbackResult keeps the game playable when a single round-trip fails:
// no stat movement beyond passives, a retry choice, and no terminal signal.
func fallbackResult() TurnResult {
	return TurnResult{
		Narrative: "Connection to the network lost. The market holds its breath while your terminal reconnects.",
		Choices:   []string{"Retry"},
		EventType: EventNormal,
		Fallback:  true,
	}
}
