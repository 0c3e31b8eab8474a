package oracle

import (
	"errors"
	"testing"

	"github.com/Crazy-Trade/Crypto-Game-AI/internal/game"
)

func TestParseTurnResult(t *testing.T) {
	raw := `{
		"narrative": "The exchange lists your token.",
		"choices": ["Celebrate", "Stay humble"],
		"stats_update": {"funds_change": 5000, "hype_change": 10},
		"event_type": "opportunity"
	}`

	got, err := parseTurnResult(raw)
	if err != nil {
		t.Fatalf("parseTurnResult: %v", err)
	}
	if got.Narrative != "The exchange lists your token." {
		t.Errorf("narrative = %q", got.Narrative)
	}
	if len(got.Choices) != 2 {
		t.Errorf("choices = %v", got.Choices)
	}
	want := game.Delta{Funds: 5000, Hype: 10}
	if got.StatsUpdate != want {
		t.Errorf("stats update = %+v, want %+v", got.StatsUpdate, want)
	}
	if got.EventType != EventOpportunity {
		t.Errorf("event type = %q", got.EventType)
	}
	if got.Fallback {
		t.Error("parsed result should not be marked fallback")
	}
}

func TestParseTurnResultStripsFences(t *testing.T) {
	raw := "```json\n{\"narrative\": \"ok\", \"event_type\": \"normal\"}\n```"
	got, err := parseTurnResult(raw)
	if err != nil {
		t.Fatalf("parseTurnResult: %v", err)
	}
	if got.Narrative != "ok" || got.EventType != EventNormal {
		t.Errorf("got %+v", got)
	}
}

func TestParseTurnResultRejectsDeviations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"narrative": "x",`},
		{"not json at all", "The server is on fire."},
		{"unknown event_type", `{"narrative": "x", "event_type": "rapture"}`},
		{"missing event_type", `{"narrative": "x"}`},
		{"too many choices", `{"narrative": "x", "event_type": "normal", "choices": ["a","b","c","d","e"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTurnResult(tt.raw)
			if !errors.Is(err, ErrParse) {
				t.Errorf("err = %v, want ErrParse", err)
			}
		})
	}
}

func TestFallbackResult(t *testing.T) {
	res := fallbackResult()
	if !res.Fallback {
		t.Error("fallback must be flagged")
	}
	if !res.StatsUpdate.IsZero() {
		t.Errorf("fallback must not move stats, got %+v", res.StatsUpdate)
	}
	if len(res.Choices) != 1 || res.Choices[0] != "Retry" {
		t.Errorf("choices = %v, want [Retry]", res.Choices)
	}
	if res.EventType != EventNormal {
		t.Errorf("event type = %q, want normal", res.EventType)
	}
}
