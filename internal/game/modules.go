package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GridSize is the fixed number of addressable infrastructure slots.
const GridSize = 12

// ModuleType identifies one of the purchasable hardware kinds.
type ModuleType string

const (
	ModuleMiner     ModuleType = "miner"
	ModuleValidator ModuleType = "validator"
	ModuleRPC       ModuleType = "rpc"
	ModuleFirewall  ModuleType = "firewall"
)

// ModuleDef is a static catalog entry. StatsEffect and Maintenance are
// informational: they are shown in the shop and described to the oracle,
// but only Cost ever touches the stat vector.
type ModuleDef struct {
	Type        ModuleType
	Name        string
	Cost        int64
	Maintenance int64
	Description string
	StatsEffect Delta
}

// Catalog is the fixed set of purchasable modules, keyed by type.
var Catalog = map[ModuleType]ModuleDef{
	ModuleMiner: {
		Type:        ModuleMiner,
		Name:        "ASIC Mining Rig",
		Cost:        1500,
		Maintenance: 100,
		Description: "Hashes around the clock. Generates steady income every turn.",
		StatsEffect: Delta{Funds: 150},
	},
	ModuleValidator: {
		Type:        ModuleValidator,
		Name:        "Validator Node",
		Cost:        2000,
		Maintenance: 50,
		Description: "Secures consensus and slowly hardens the network.",
		StatsEffect: Delta{Security: 1},
	},
	ModuleRPC: {
		Type:        ModuleRPC,
		Name:        "RPC Cluster",
		Cost:        3000,
		Maintenance: 200,
		Description: "Public endpoints for dapps. Keeps the ecosystem buzzing.",
		StatsEffect: Delta{Hype: 1},
	},
	ModuleFirewall: {
		Type:        ModuleFirewall,
		Name:        "DDoS Firewall",
		Cost:        5000,
		Maintenance: 300,
		Description: "Absorbs attacks before they reach the chain. No direct yield.",
	},
}

// passivePerTurn is the recurring per-type contribution applied each turn,
// distinct from the catalog's one-time StatsEffect.
var passivePerTurn = map[ModuleType]Delta{
	ModuleMiner:     {Funds: 150},
	ModuleValidator: {Security: 1},
	ModuleRPC:       {Hype: 1},
	ModuleFirewall:  {},
}

// Module is one installed piece of hardware. Immutable once installed.
type Module struct {
	ID          string     `yaml:"id"`
	Type        ModuleType `yaml:"type"`
	Name        string     `yaml:"name"`
	Cost        int64      `yaml:"cost"`
	Maintenance int64      `yaml:"maintenance"`
	Description string     `yaml:"description"`
}

func newModule(def ModuleDef) *Module {
	return &Module{
		ID:          uuid.NewString(),
		Type:        def.Type,
		Name:        def.Name,
		Cost:        def.Cost,
		Maintenance: def.Maintenance,
		Description: def.Description,
	}
}

// Grid is the fixed-capacity slot collection. Slot occupancy carries no
// spatial meaning: adjacency never matters.
type Grid struct {
	Slots [GridSize]*Module `yaml:"slots"`
}

func (g *Grid) validSlot(slot int) bool {
	return slot >= 0 && slot < GridSize
}

// install places a fresh module instance into an empty slot. Fund checks
// belong to the caller; see GameState.Purchase.
func (g *Grid) install(slot int, def ModuleDef) (*Module, error) {
	if !g.validSlot(slot) {
		return nil, ErrInvalidSlot
	}
	if g.Slots[slot] != nil {
		return nil, ErrSlotOccupied
	}
	m := newModule(def)
	g.Slots[slot] = m
	return m, nil
}

// Remove frees a slot. The module is destroyed; cost is not refunded.
func (g *Grid) Remove(slot int) error {
	if !g.validSlot(slot) {
		return ErrInvalidSlot
	}
	if g.Slots[slot] == nil {
		return ErrSlotEmpty
	}
	g.Slots[slot] = nil
	return nil
}

// PassiveEffects sums the per-turn contribution of every installed module.
// Pure given current grid contents; additive, so slot order is irrelevant.
func (g *Grid) PassiveEffects() Delta {
	var total Delta
	for _, m := range g.Slots {
		if m == nil {
			continue
		}
		total = total.Add(passivePerTurn[m.Type])
	}
	return total
}

// OccupancyCount returns the number of non-empty slots, in [0,GridSize].
func (g *Grid) OccupancyCount() int {
	n := 0
	for _, m := range g.Slots {
		if m != nil {
			n++
		}
	}
	return n
}

// Summary renders the installed hardware as prompt context for the oracle,
// including the pieces with no stat yield (the firewall earns its keep in
// the narrative, not the arithmetic).
func (g *Grid) Summary() string {
	counts := map[ModuleType]int{}
	for _, m := range g.Slots {
		if m != nil {
			counts[m.Type]++
		}
	}
	if len(counts) == 0 {
		return "no infrastructure installed"
	}
	var parts []string
	for _, t := range []ModuleType{ModuleMiner, ModuleValidator, ModuleRPC, ModuleFirewall} {
		if n := counts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%dx %s", n, Catalog[t].Name))
		}
	}
	return strings.Join(parts, ", ")
}
