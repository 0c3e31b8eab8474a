package game

// StatVector holds the project's numeric stats. Funds and Users are
// unbounded above but never negative; the remaining four are kept in
// [0,100]. Era only ever grows within a lineage.
type StatVector struct {
	Funds            int64 `yaml:"funds"`
	Users            int64 `yaml:"users"`
	Security         int   `yaml:"security"`
	Hype             int   `yaml:"hype"`
	TechLevel        int   `yaml:"tech_level"`
	Decentralization int   `yaml:"decentralization"`
	Era              int   `yaml:"era"`
}

// Delta is a compact change-set against a StatVector. It is intentionally
// smaller and stricter than the full vector: no era, no absolute values.
// The json tags match the oracle wire format (stats_update object).
type Delta struct {
	Funds            int64 `json:"funds_change,omitempty" yaml:"funds,omitempty"`
	Users            int64 `json:"users_change,omitempty" yaml:"users,omitempty"`
	Security         int   `json:"security_change,omitempty" yaml:"security,omitempty"`
	Hype             int   `json:"hype_change,omitempty" yaml:"hype,omitempty"`
	TechLevel        int   `json:"tech_level_change,omitempty" yaml:"tech_level,omitempty"`
	Decentralization int   `json:"decentralization_change,omitempty" yaml:"decentralization,omitempty"`
}

// Add combines two deltas field-wise. Deltas from every source feeding a
// turn must be summed with Add before ApplyDelta so each field is clamped
// exactly once.
func (d Delta) Add(o Delta) Delta {
	return Delta{
		Funds:            d.Funds + o.Funds,
		Users:            d.Users + o.Users,
		Security:         d.Security + o.Security,
		Hype:             d.Hype + o.Hype,
		TechLevel:        d.TechLevel + o.TechLevel,
		Decentralization: d.Decentralization + o.Decentralization,
	}
}

// IsZero reports whether the delta changes nothing.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// ApplyDelta returns a new vector with the delta folded in and every field
// clamped to its bounds. Pure: neither argument is mutated.
func ApplyDelta(cur StatVector, d Delta) StatVector {
	return StatVector{
		Funds:            maxInt64(0, cur.Funds+d.Funds),
		Users:            maxInt64(0, cur.Users+d.Users),
		Security:         clampStat(cur.Security + d.Security),
		Hype:             clampStat(cur.Hype + d.Hype),
		TechLevel:        clampStat(cur.TechLevel + d.TechLevel),
		Decentralization: clampStat(cur.Decentralization + d.Decentralization),
		Era:              cur.Era,
	}
}

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
