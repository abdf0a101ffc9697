package perdiem

import "testing"

func TestParseTierKnownRates(t *testing.T) {
	for _, rate := range []int{68, 74, 80, 86, 92} {
		if got := ParseTier(rate); int(got) != rate {
			t.Errorf("ParseTier(%d) = %d, want %d", rate, got, rate)
		}
	}
}

func TestParseTierFallback(t *testing.T) {
	for _, rate := range []int{0, -5, 70, 100, 79} {
		if got := ParseTier(rate); got != DefaultTier {
			t.Errorf("ParseTier(%d) = %d, want default %d", rate, got, DefaultTier)
		}
	}
}

func TestDeductionTable(t *testing.T) {
	cases := []struct {
		tier      Tier
		breakfast float64
		lunch     float64
		dinner    float64
		firstLast float64
	}{
		{Tier68, 16, 19, 28, 51.00},
		{Tier74, 18, 20, 31, 55.50},
		{Tier80, 20, 22, 33, 60.00},
		{Tier86, 22, 23, 36, 64.50},
		{Tier92, 23, 26, 38, 69.00},
	}
	for _, c := range cases {
		d := c.tier.Deductions()
		if d.Breakfast != c.breakfast || d.Lunch != c.lunch || d.Dinner != c.dinner {
			t.Errorf("tier %d deductions = %+v", c.tier, d)
		}
		if d.Incidental != 5 {
			t.Errorf("tier %d incidental = %v, want 5", c.tier, d.Incidental)
		}
		if d.FirstLast != c.firstLast {
			t.Errorf("tier %d first/last rate = %v, want %v", c.tier, d.FirstLast, c.firstLast)
		}
	}
}

func TestFirstLastMatchesBase(t *testing.T) {
	for _, tier := range Tiers() {
		want := tier.Base() * 0.75
		if got := tier.Deductions().FirstLast; got != want {
			t.Errorf("tier %d FirstLast = %v, want 0.75*base = %v", tier, got, want)
		}
	}
}

func TestUnknownTierUsesDefaultTable(t *testing.T) {
	bad := Tier(71)
	if bad.Valid() {
		t.Fatal("Tier(71) should not be valid")
	}
	if got := bad.Base(); got != DefaultTier.Base() {
		t.Errorf("unknown tier base = %v, want %v", got, DefaultTier.Base())
	}
	if got := bad.Deductions(); got != deductionTable[DefaultTier] {
		t.Errorf("unknown tier deductions = %+v", got)
	}
}
