// Command simulate_game drives a full scripted run of the turn engine
// against a canned oracle, with no API key or network required.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Crazy-Trade/Crypto-Game-AI/internal/engine"
	"github.com/Crazy-Trade/Crypto-Game-AI/internal/game"
	"github.com/Crazy-Trade/Crypto-Game-AI/internal/oracle"
	"github.com/Crazy-Trade/Crypto-Game-AI/internal/store"
)

// scriptedOracle replays a fixed sequence of turn results.
type scriptedOracle struct {
	results []oracle.TurnResult
	next    int
}

func (o *scriptedOracle) Initialize(_ context.Context, settings game.Settings, era int) (oracle.TurnResult, error) {
	return oracle.TurnResult{
		Narrative: fmt.Sprintf("%s launches %s into era %d.", settings.FounderName, settings.ProjectName, era),
		Choices:   []string{"Ship the whitepaper", "Shill on social media"},
		EventType: oracle.EventNormal,
	}, nil
}

func (o *scriptedOracle) Restore(context.Context, game.Settings, game.StatVector, string, []string) error {
	return nil
}

func (o *scriptedOracle) ResolveTurn(_ context.Context, action string, _ game.StatVector, _ string) (oracle.TurnResult, error) {
	if o.next >= len(o.results) {
		return oracle.TurnResult{Narrative: "The market shrugs at: " + action, EventType: oracle.EventNormal}, nil
	}
	res := o.results[o.next]
	o.next++
	return res, nil
}

func main() {
	script := &scriptedOracle{results: []oracle.TurnResult{
		{Narrative: "The whitepaper goes viral.", StatsUpdate: game.Delta{Hype: 15, Users: 500}, EventType: oracle.EventOpportunity},
		{Narrative: "An exchange lists the token.", StatsUpdate: game.Delta{Funds: 5000, Users: 20000}, EventType: oracle.EventNormal},
		{Narrative: "A botnet probes your RPC endpoints.", StatsUpdate: game.Delta{Security: -10}, EventType: oracle.EventCrisis},
		{Narrative: "Your chain becomes the global settlement layer.", StatsUpdate: game.Delta{Users: 1000000}, EventType: oracle.EventVictory},
	}}

	dir, err := os.MkdirTemp("", "crypto-game-sim")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	eng := engine.New(script, store.New(dir))
	ctx := context.Background()

	ev, err := eng.StartNewGame(ctx, game.Settings{
		ProjectName: "SimCoin", Ticker: "SIM", FounderName: "Sim Founder", Language: "English",
	})
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	fmt.Printf("[turn 0] %s\n", ev.Narrative)

	if _, err := eng.Purchase(0, game.ModuleMiner); err != nil {
		log.Fatalf("purchase: %v", err)
	}

	actions := []string{"Ship the whitepaper", "Court an exchange", "Harden the validators", "Push for mass adoption"}
	for _, action := range actions {
		ev, err := eng.ResolveTurn(ctx, action)
		if err != nil {
			log.Fatalf("turn %q: %v", action, err)
		}
		snap := eng.Snapshot()
		fmt.Printf("[turn %d] %s\n  funds=%d users=%d security=%d hype=%d\n",
			snap.TurnCount, ev.Narrative, snap.Stats.Funds, snap.Stats.Users, snap.Stats.Security, snap.Stats.Hype)
	}

	if eng.Phase() == engine.PhaseVictory {
		ev, err := eng.Fork(ctx)
		if err != nil {
			log.Fatalf("fork: %v", err)
		}
		snap := eng.Snapshot()
		fmt.Printf("[era %d] %s\n  carried: funds=%d users=%d\n", snap.Stats.Era, ev.Narrative, snap.Stats.Funds, snap.Stats.Users)
	}
}
