// Package perdiem holds the federal M&IE rate tiers and the per meal
// deduction amounts the reimbursement form applies when the institution
// provided a meal.
package perdiem

// Tier is one of the five GSA per diem base rates the form accepts.
type Tier int

const (
	Tier68 Tier = 68
	Tier74 Tier = 74
	Tier80 Tier = 80
	Tier86 Tier = 86
	Tier92 Tier = 92
)

// DefaultTier backs any rate the form does not recognize.
const DefaultTier = Tier80

// Deductions lists the dollar amounts removed from a day's allowance
// per provided meal. FirstLast is the printed 75 percent day rate; the
// base rate already includes the incidental allowance.
type Deductions struct {
	Breakfast  float64
	Lunch      float64
	Dinner     float64
	Incidental float64
	FirstLast  float64
}

var deductionTable = map[Tier]Deductions{
	Tier68: {Breakfast: 16, Lunch: 19, Dinner: 28, Incidental: 5, FirstLast: 51.00},
	Tier74: {Breakfast: 18, Lunch: 20, Dinner: 31, Incidental: 5, FirstLast: 55.50},
	Tier80: {Breakfast: 20, Lunch: 22, Dinner: 33, Incidental: 5, FirstLast: 60.00},
	Tier86: {Breakfast: 22, Lunch: 23, Dinner: 36, Incidental: 5, FirstLast: 64.50},
	Tier92: {Breakfast: 23, Lunch: 26, Dinner: 38, Incidental: 5, FirstLast: 69.00},
}

// Tiers returns the allowed rates in ascending order, for form options
// and validation messages.
func Tiers() []Tier {
	return []Tier{Tier68, Tier74, Tier80, Tier86, Tier92}
}

// ParseTier maps a submitted rate to a known tier. Unrecognized rates
// fall back to the default tier rather than failing.
func ParseTier(rate int) Tier {
	switch t := Tier(rate); t {
	case Tier68, Tier74, Tier80, Tier86, Tier92:
		return t
	default:
		return DefaultTier
	}
}

// Valid reports whether t is one of the five known tiers.
func (t Tier) Valid() bool {
	_, ok := deductionTable[t]
	return ok
}

// Base returns the full daily allowance in dollars.
func (t Tier) Base() float64 {
	if !t.Valid() {
		t = DefaultTier
	}
	return float64(t)
}

// Deductions returns the meal deduction set for the tier.
func (t Tier) Deductions() Deductions {
	d, ok := deductionTable[t]
	if !ok {
		return deductionTable[DefaultTier]
	}
	return d
}
