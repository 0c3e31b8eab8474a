package game

import (
	"errors"
	"testing"
)

func TestPurchaseInsufficientFunds(t *testing.T) {
	s := NewState(Settings{ProjectName: "TestCoin"})
	s.Stats.Funds = 1000

	_, err := s.Purchase(0, ModuleMiner) // miner costs 1500
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if s.Stats.Funds != 1000 {
		t.Errorf("funds = %d, want 1000 (no state change on rejection)", s.Stats.Funds)
	}
	if s.Grid.OccupancyCount() != 0 {
		t.Errorf("occupancy = %d, want 0", s.Grid.OccupancyCount())
	}
}

func TestPurchaseAppliesOnlyCost(t *testing.T) {
	s := NewState(Settings{})
	s.Stats.Funds = 10000
	before := s.Stats

	m, err := s.Purchase(3, ModuleFirewall)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if m.ID == "" {
		t.Error("installed module has no id")
	}
	// The catalog's one-time statsEffect is informational: only cost moves.
	want := before
	want.Funds -= Catalog[ModuleFirewall].Cost
	if s.Stats != want {
		t.Errorf("stats = %+v, want %+v", s.Stats, want)
	}
}

func TestPurchaseSlotErrors(t *testing.T) {
	s := NewState(Settings{})
	s.Stats.Funds = 100000

	if _, err := s.Purchase(-1, ModuleMiner); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("slot -1: err = %v, want ErrInvalidSlot", err)
	}
	if _, err := s.Purchase(GridSize, ModuleMiner); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("slot 12: err = %v, want ErrInvalidSlot", err)
	}
	if _, err := s.Purchase(0, ModuleType("quantum")); !errors.Is(err, ErrUnknownModuleType) {
		t.Errorf("bad type: err = %v, want ErrUnknownModuleType", err)
	}

	if _, err := s.Purchase(5, ModuleMiner); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if _, err := s.Purchase(5, ModuleValidator); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("occupied slot: err = %v, want ErrSlotOccupied", err)
	}
}

func TestRemove(t *testing.T) {
	s := NewState(Settings{})
	s.Stats.Funds = 10000
	if _, err := s.Purchase(2, ModuleMiner); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	fundsAfterBuy := s.Stats.Funds

	if err := s.Grid.Remove(2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Stats.Funds != fundsAfterBuy {
		t.Errorf("funds = %d, want %d (no refund)", s.Stats.Funds, fundsAfterBuy)
	}
	if err := s.Grid.Remove(2); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("empty slot: err = %v, want ErrSlotEmpty", err)
	}
	if err := s.Grid.Remove(99); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("bad slot: err = %v, want ErrInvalidSlot", err)
	}
}

func TestOccupancyCount(t *testing.T) {
	s := NewState(Settings{})
	s.Stats.Funds = 1000000

	for i := 0; i < GridSize; i++ {
		if _, err := s.Purchase(i, ModuleMiner); err != nil {
			t.Fatalf("Purchase slot %d: %v", i, err)
		}
		if got := s.Grid.OccupancyCount(); got != i+1 {
			t.Errorf("occupancy = %d, want %d", got, i+1)
		}
	}
	if err := s.Grid.Remove(7); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := s.Grid.OccupancyCount(); got != GridSize-1 {
		t.Errorf("occupancy = %d, want %d", got, GridSize-1)
	}
}

func TestPassiveEffectsOrderIndependent(t *testing.T) {
	want := Delta{Funds: 300, Security: 1}

	layouts := [][]struct {
		slot int
		typ  ModuleType
	}{
		{{0, ModuleMiner}, {1, ModuleMiner}, {2, ModuleValidator}},
		{{11, ModuleMiner}, {4, ModuleValidator}, {0, ModuleMiner}},
	}

	for i, layout := range layouts {
		s := NewState(Settings{})
		s.Stats.Funds = 100000
		for _, p := range layout {
			if _, err := s.Purchase(p.slot, p.typ); err != nil {
				t.Fatalf("layout %d purchase: %v", i, err)
			}
		}
		if got := s.Grid.PassiveEffects(); got != want {
			t.Errorf("layout %d: PassiveEffects() = %+v, want %+v", i, got, want)
		}
	}
}

func TestPassiveEffectsFirewallIsInert(t *testing.T) {
	s := NewState(Settings{})
	s.Stats.Funds = 100000
	if _, err := s.Purchase(0, ModuleFirewall); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if got := s.Grid.PassiveEffects(); !got.IsZero() {
		t.Errorf("PassiveEffects() = %+v, want zero", got)
	}
}

func TestGridSummary(t *testing.T) {
	s := NewState(Settings{})
	s.Stats.Funds = 100000

	if got := s.Grid.Summary(); got != "no infrastructure installed" {
		t.Errorf("empty summary = %q", got)
	}

	for _, p := range []struct {
		slot int
		typ  ModuleType
	}{{0, ModuleMiner}, {1, ModuleMiner}, {2, ModuleFirewall}} {
		if _, err := s.Purchase(p.slot, p.typ); err != nil {
			t.Fatalf("Purchase: %v", err)
		}
	}
	got := s.Grid.Summary()
	want := "2x ASIC Mining Rig, 1x DDoS Firewall"
	if got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
