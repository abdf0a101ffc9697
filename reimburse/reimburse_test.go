package reimburse

import (
	"testing"

	"travauth/models"
)

func day(date string, rate int, b, l, d bool) models.PerDiemDay {
	return models.PerDiemDay{Date: date, Rate: rate, Breakfast: b, Lunch: l, Dinner: d}
}

func TestInteriorDayDeduction(t *testing.T) {
	days := []models.PerDiemDay{
		day("01/06/25", 80, false, false, false),
		day("01/07/25", 80, true, true, false),
		day("01/08/25", 80, false, false, false),
	}
	totals := Calculate(nil, days)
	if totals.DailyReduction[1] != 42.00 {
		t.Errorf("interior reduction = %v, want 42.00", totals.DailyReduction[1])
	}
	if totals.DailyMealTotal[1] != 38.00 {
		t.Errorf("interior meal total = %v, want 38.00", totals.DailyMealTotal[1])
	}
	if totals.DailyPerDiem[1] != 38.00 {
		t.Errorf("interior per diem = %v, want 38.00 (no proration)", totals.DailyPerDiem[1])
	}
}

func TestLastDayProration(t *testing.T) {
	days := []models.PerDiemDay{
		day("01/06/25", 80, false, false, false),
		day("01/07/25", 80, true, true, false),
	}
	totals := Calculate(nil, days)
	if totals.DailyPerDiem[1] != 28.50 {
		t.Errorf("last day per diem = %v, want 38*0.75 = 28.50", totals.DailyPerDiem[1])
	}
	if totals.DailyMealTotal[1] != 38.00 {
		t.Errorf("meal total should stay unprorated, got %v", totals.DailyMealTotal[1])
	}
}

func TestThreeDayTripNoMeals(t *testing.T) {
	days := []models.PerDiemDay{
		day("03/02/25", 68, false, false, false),
		day("03/03/25", 68, false, false, false),
		day("03/04/25", 68, false, false, false),
	}
	totals := Calculate(nil, days)
	want := []float64{51.00, 68.00, 51.00}
	for i, w := range want {
		if totals.DailyPerDiem[i] != w {
			t.Errorf("day %d per diem = %v, want %v", i, totals.DailyPerDiem[i], w)
		}
	}
	if totals.PerDiem != 170.00 {
		t.Errorf("per diem total = %v, want 170.00", totals.PerDiem)
	}
}

func TestSingleActiveDayProratedOnce(t *testing.T) {
	days := []models.PerDiemDay{day("05/01/25", 68, false, false, false)}
	totals := Calculate(nil, days)
	if totals.DailyPerDiem[0] != 51.00 {
		t.Errorf("single day per diem = %v, want 51.00", totals.DailyPerDiem[0])
	}
}

func TestBlankDatesContributeNothing(t *testing.T) {
	days := []models.PerDiemDay{
		day("01/06/25", 80, false, false, false),
		day("01/07/25", 80, false, false, false),
		day("01/08/25", 80, false, false, false),
		day("", 80, true, true, true),
		day("  ", 80, false, false, false),
		day("", 80, false, false, false),
		day("", 80, false, false, false),
	}
	totals := Calculate(nil, days)
	// Last active row is index 2, so proration lands there, not on
	// the padded tail.
	if totals.DailyPerDiem[2] != 60.00 {
		t.Errorf("last active day = %v, want 60.00", totals.DailyPerDiem[2])
	}
	for i := 3; i < len(days); i++ {
		if totals.DailyPerDiem[i] != 0 || totals.DailyReduction[i] != 0 {
			t.Errorf("padded row %d contributed %v / %v", i, totals.DailyPerDiem[i], totals.DailyReduction[i])
		}
	}
	if totals.PerDiem != 200.00 {
		t.Errorf("per diem total = %v, want 60+80+60 = 200.00", totals.PerDiem)
	}
}

func TestDeductionNeverNegative(t *testing.T) {
	rates := []int{68, 74, 80, 86, 92, 0}
	for _, rate := range rates {
		for mask := 0; mask < 8; mask++ {
			days := []models.PerDiemDay{
				day("01/01/25", rate, mask&1 != 0, mask&2 != 0, mask&4 != 0),
				day("01/02/25", rate, mask&1 != 0, mask&2 != 0, mask&4 != 0),
				day("01/03/25", rate, mask&1 != 0, mask&2 != 0, mask&4 != 0),
			}
			totals := Calculate(nil, days)
			for i := range days {
				if totals.DailyPerDiem[i] < 0 {
					t.Errorf("rate %d mask %d day %d went negative: %v", rate, mask, i, totals.DailyPerDiem[i])
				}
			}
			// The deduction depends only on tier and flags, never on
			// the row's position in the trip.
			if totals.DailyReduction[0] != totals.DailyReduction[1] {
				t.Errorf("rate %d mask %d: edge reduction %v != interior %v",
					rate, mask, totals.DailyReduction[0], totals.DailyReduction[1])
			}
		}
	}
}

func TestMileageRoundsOnceOnTotal(t *testing.T) {
	expenses := []models.ExpenseDay{
		{Date: "01/06/25", Miles: 10.4},
		{Date: "01/07/25", Miles: 10.4},
	}
	totals := Calculate(expenses, nil)
	// 20.8 miles * 0.70 = 14.56 rounds to 15. Per day rounding would
	// have produced 7 + 7 = 14.
	if totals.Mileage != 15 {
		t.Errorf("mileage = %v, want 15", totals.Mileage)
	}
}

func TestCategorySums(t *testing.T) {
	expenses := []models.ExpenseDay{
		{Date: "01/06/25", Airfare: 350.25, Ground: 20, Parking: 12.5, Lodging: 189.99, Baggage: 35, MiscOne: 10, MiscTwo: 2.5},
		{Date: "01/07/25", Airfare: 100.10, Ground: 18.4, Lodging: 189.99, MiscOne: 5},
	}
	totals := Calculate(expenses, nil)
	if totals.Airfare != 450.35 {
		t.Errorf("airfare = %v, want 450.35", totals.Airfare)
	}
	if totals.Ground != 38.40 {
		t.Errorf("ground = %v, want 38.40", totals.Ground)
	}
	if totals.Parking != 12.50 {
		t.Errorf("parking = %v, want 12.50", totals.Parking)
	}
	if totals.Lodging != 379.98 {
		t.Errorf("lodging = %v, want 379.98", totals.Lodging)
	}
	if totals.Baggage != 35.00 {
		t.Errorf("baggage = %v, want 35.00", totals.Baggage)
	}
	if totals.Misc != 17.50 {
		t.Errorf("misc = %v, want 10+2.5+5 = 17.50", totals.Misc)
	}
	if totals.AmountDue != 933.73 {
		t.Errorf("amount due = %v, want 933.73", totals.AmountDue)
	}
}

func TestEmptyFormIsZero(t *testing.T) {
	totals := Calculate(nil, nil)
	if totals.AmountDue != 0 || totals.PerDiem != 0 || totals.Mileage != 0 {
		t.Errorf("empty form produced %+v", totals)
	}
}

func TestTwoDayTripWithDinner(t *testing.T) {
	days := []models.PerDiemDay{
		day("02/10/25", 80, false, false, false),
		day("02/11/25", 80, false, false, true),
	}
	totals := Calculate(nil, days)
	if totals.DailyPerDiem[0] != 60.00 {
		t.Errorf("first day = %v, want 60.00", totals.DailyPerDiem[0])
	}
	if totals.DailyPerDiem[1] != 35.25 {
		t.Errorf("last day = %v, want (80-33)*0.75 = 35.25", totals.DailyPerDiem[1])
	}
	if totals.PerDiem != 95.25 {
		t.Errorf("per diem total = %v, want 95.25", totals.PerDiem)
	}
	if totals.AmountDue != 95.25 {
		t.Errorf("amount due = %v, want 95.25", totals.AmountDue)
	}
}
