package game

import "time"

// Settings carry the project identity chosen at setup. Immutable for the
// lifetime of an era run; only a full reset replaces them.
type Settings struct {
	ProjectName string `yaml:"project_name"`
	Ticker      string `yaml:"ticker"`
	FounderName string `yaml:"founder_name"`
	Language    string `yaml:"language"`
}

// GameState is the aggregate root owned by the turn engine. The store only
// ever reads or writes its serialized form.
type GameState struct {
	Settings  Settings    `yaml:"settings"`
	TurnCount int         `yaml:"turn_count"`
	Stats     StatVector  `yaml:"stats"`
	History   []GameEvent `yaml:"history"`
	Grid      Grid        `yaml:"infrastructure"`
	GameOver  bool        `yaml:"game_over"`
	GameWon   bool        `yaml:"game_won"`
	LastSaved time.Time   `yaml:"last_saved"`
}

// Baseline stats for a fresh era-1 start.
func baselineStats() StatVector {
	return StatVector{
		Funds:            10000,
		Users:            1,
		Security:         50,
		Hype:             10,
		TechLevel:        10,
		Decentralization: 0,
		Era:              1,
	}
}

// NewState seeds a fresh game at era 1 with empty history and an empty grid.
func NewState(settings Settings) *GameState {
	return &GameState{
		Settings: settings,
		Stats:    baselineStats(),
	}
}

// ForkState carries a victorious run into the next era: funds survive
// intact, the user base resets to a tenth, and the softer stats snap back
// to the renewal baseline. History and infrastructure are preserved.
func ForkState(prev *GameState) *GameState {
	next := &GameState{
		Settings:  prev.Settings,
		TurnCount: prev.TurnCount,
		History:   append([]GameEvent(nil), prev.History...),
		Grid:      prev.Grid,
		Stats: StatVector{
			Funds:            prev.Stats.Funds,
			Users:            prev.Stats.Users / 10,
			Security:         50,
			Hype:             50,
			TechLevel:        20,
			Decentralization: prev.Stats.Decentralization,
			Era:              prev.Stats.Era + 1,
		},
	}
	return next
}

// Purchase buys a module of the given type into the given slot, deducting
// its cost. The funds check, deduction, and install are atomic: any error
// leaves state untouched.
func (s *GameState) Purchase(slot int, typ ModuleType) (*Module, error) {
	def, ok := Catalog[typ]
	if !ok {
		return nil, ErrUnknownModuleType
	}
	if !s.Grid.validSlot(slot) {
		return nil, ErrInvalidSlot
	}
	if s.Grid.Slots[slot] != nil {
		return nil, ErrSlotOccupied
	}
	if s.Stats.Funds < def.Cost {
		return nil, ErrInsufficientFunds
	}
	m, err := s.Grid.install(slot, def)
	if err != nil {
		return nil, err
	}
	s.Stats.Funds -= def.Cost
	return m, nil
}

// AppendEvent records a new history entry and returns it.
func (s *GameState) AppendEvent(typ EventType, narrative string, choices []string) GameEvent {
	ev := NewEvent(s.TurnCount, typ, narrative, choices)
	s.History = append(s.History, ev)
	return ev
}

// LatestChoices returns the choices offered by the most recent event, or
// nil when none are pending.
func (s *GameState) LatestChoices() []string {
	if len(s.History) == 0 {
		return nil
	}
	return s.History[len(s.History)-1].Choices
}

// RecentNarratives returns up to n trailing narrative texts, oldest first.
// Used as the bounded context window when re-establishing an oracle session.
func (s *GameState) RecentNarratives(n int) []string {
	var out []string
	for i := len(s.History) - 1; i >= 0 && len(out) < n; i-- {
		if s.History[i].Narrative != "" {
			out = append(out, s.History[i].Narrative)
		}
	}
	// reverse back to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
