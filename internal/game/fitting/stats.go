package fitting

import (
	"math"

	"github.com/markwingerd/dft-old/internal/game/catalog"
)

// Stat names aggregated by the summary queries.
const (
	StatShieldHP                    = "shield_hp"
	StatShieldRecharge              = "shield_recharge"
	StatShieldRechargeDelay         = "shield_recharge_delay"
	StatShieldDepletedRechargeDelay = "shield_depleted_recharge_delay"
	StatArmorHP                     = "armor_hp"
	StatArmorRepairRate             = "armor_repair_rate"
	StatMovementSpeed               = "movement_speed"
	StatSprintSpeed                 = "sprint_speed"
	StatScanProfile                 = "scan_profile"
	StatStamina                     = "stamina"
)

func (f *Fitting) base(stat string) float64 {
	v, _ := f.dropsuit.Stat(stat)
	return v
}

// each calls fn with every value of stat declared by a fitted item, in slot
// order then insertion order.
func (f *Fitting) each(stat string, fn func(v float64)) {
	for _, slot := range catalog.SlotOrder {
		for _, it := range f.slots[slot] {
			if v, ok := it.Get(stat); ok {
				fn(v)
			}
		}
	}
}

// AdditiveStat returns the dropsuit's stat plus every fitted item's stat.
func (f *Fitting) AdditiveStat(stat string) float64 {
	out := f.base(stat)
	f.each(stat, func(v float64) {
		out += v
	})
	return out
}

// MultiplicativeStat compounds every fitted item's stat onto the dropsuit's
// value: out += out * v.
func (f *Fitting) MultiplicativeStat(stat string) float64 {
	out := f.base(stat)
	f.each(stat, func(v float64) {
		out += out * v
	})
	return out
}

// StackingStat applies every non-zero fitted modifier of stat to the dropsuit's
// value through the stacking penalty, using the fitting's ordering policy.
func (f *Fitting) StackingStat(stat string) float64 {
	var mods []float64
	f.each(stat, func(v float64) {
		if v != 0 {
			mods = append(mods, v)
		}
	})
	return f.order.Apply(f.base(stat), mods)
}

// ShieldHP returns the additive shield hit points.
func (f *Fitting) ShieldHP() float64 { return round2(f.AdditiveStat(StatShieldHP)) }

// ArmorHP returns the additive armor hit points.
func (f *Fitting) ArmorHP() float64 { return round2(f.AdditiveStat(StatArmorHP)) }

// ArmorRepairRate returns the additive armor repair rate.
func (f *Fitting) ArmorRepairRate() float64 { return round2(f.AdditiveStat(StatArmorRepairRate)) }

// ShieldRecharge returns the stacking-penalised shield recharge rate.
func (f *Fitting) ShieldRecharge() float64 { return round2(f.StackingStat(StatShieldRecharge)) }

// ShieldRechargeDelay returns the stacking-penalised shield recharge delay.
func (f *Fitting) ShieldRechargeDelay() float64 {
	return round2(f.StackingStat(StatShieldRechargeDelay))
}

// ShieldDepletedRechargeDelay returns the stacking-penalised depleted recharge delay.
func (f *Fitting) ShieldDepletedRechargeDelay() float64 {
	return round2(f.StackingStat(StatShieldDepletedRechargeDelay))
}

// MovementSpeed returns the multiplicative movement speed.
func (f *Fitting) MovementSpeed() float64 { return round2(f.MultiplicativeStat(StatMovementSpeed)) }

// SprintSpeed returns the stacking-penalised sprint speed.
func (f *Fitting) SprintSpeed() float64 { return round2(f.StackingStat(StatSprintSpeed)) }

// ScanProfile returns the stacking-penalised scan profile.
func (f *Fitting) ScanProfile() float64 { return round2(f.StackingStat(StatScanProfile)) }

// Stamina returns the stacking-penalised stamina pool.
func (f *Fitting) Stamina() float64 { return round2(f.StackingStat(StatStamina)) }

// Summary is a snapshot of every derived statistic of a Fitting.
type Summary struct {
	Dropsuit string
	State    State

	CPU    float64
	MaxCPU float64
	PG     float64
	MaxPG  float64
	// CPUOver and PGOver are empty when within budget.
	CPUOver string
	PGOver  string

	ShieldHP                    float64
	ShieldRecharge              float64
	ShieldRechargeDelay         float64
	ShieldDepletedRechargeDelay float64
	ArmorHP                     float64
	ArmorRepairRate             float64
	MovementSpeed               float64
	SprintSpeed                 float64
	ScanProfile                 float64
	Stamina                     float64
}

// Summary computes every derived statistic.
func (f *Fitting) Summary() Summary {
	s := Summary{
		Dropsuit:                    f.dropsuit.Name,
		State:                       f.State(),
		CPU:                         round2(f.CurrentCPU()),
		MaxCPU:                      round2(f.MaxCPU()),
		PG:                          round2(f.CurrentPG()),
		MaxPG:                       round2(f.MaxPG()),
		ShieldHP:                    f.ShieldHP(),
		ShieldRecharge:              f.ShieldRecharge(),
		ShieldRechargeDelay:         f.ShieldRechargeDelay(),
		ShieldDepletedRechargeDelay: f.ShieldDepletedRechargeDelay(),
		ArmorHP:                     f.ArmorHP(),
		ArmorRepairRate:             f.ArmorRepairRate(),
		MovementSpeed:               f.MovementSpeed(),
		SprintSpeed:                 f.SprintSpeed(),
		ScanProfile:                 f.ScanProfile(),
		Stamina:                     f.Stamina(),
	}
	if o, over := f.CPUOver(); over {
		s.CPUOver = o.String()
	}
	if o, over := f.PGOver(); over {
		s.PGOver = o.String()
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
