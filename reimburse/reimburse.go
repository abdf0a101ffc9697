// Package reimburse computes the payable totals for a travel form:
// mileage at the flat federal rate, summed expense categories, and the
// meals and incidentals per diem with first and last day proration.
package reimburse

import (
	"math"
	"strings"

	"travauth/models"
	"travauth/perdiem"
	"travauth/utils"
)

// MileageRate is the 2025 federal reimbursement rate per mile.
const MileageRate = 0.70

// Calculate produces the totals for a normalized form. Expense rows
// and per diem rows are independent day lists; both may carry padded
// trailing rows with blank dates that contribute nothing.
func Calculate(expenses []models.ExpenseDay, days []models.PerDiemDay) models.Totals {
	var t models.Totals

	var miles float64
	for _, e := range expenses {
		miles += e.Miles
		t.Airfare += e.Airfare
		t.Ground += e.Ground
		t.Parking += e.Parking
		t.Lodging += e.Lodging
		t.Baggage += e.Baggage
		t.Misc += e.MiscOne + e.MiscTwo
	}
	// Mileage rounds once on the total, not per day, so split trips
	// cannot accumulate rounding in the traveler's favor.
	t.Mileage = math.Round(miles * MileageRate)
	t.Airfare = utils.Round2(t.Airfare)
	t.Ground = utils.Round2(t.Ground)
	t.Parking = utils.Round2(t.Parking)
	t.Lodging = utils.Round2(t.Lodging)
	t.Baggage = utils.Round2(t.Baggage)
	t.Misc = utils.Round2(t.Misc)

	t.DailyPerDiem = make([]float64, len(days))
	t.DailyReduction = make([]float64, len(days))
	t.DailyMealTotal = make([]float64, len(days))

	first, last, ok := activeBounds(days)
	var perDiemSum float64
	for i, d := range days {
		if strings.TrimSpace(d.Date) == "" {
			continue
		}
		tier := perdiem.ParseTier(d.Rate)
		ded := tier.Deductions()

		var reduction float64
		if d.Breakfast {
			reduction += ded.Breakfast
		}
		if d.Lunch {
			reduction += ded.Lunch
		}
		if d.Dinner {
			reduction += ded.Dinner
		}

		amount := tier.Base() - reduction
		if amount < 0 {
			amount = 0
		}
		meal := amount
		if ok && (i == first || i == last) {
			amount *= 0.75
		}

		t.DailyReduction[i] = utils.Round2(reduction)
		t.DailyMealTotal[i] = utils.Round2(meal)
		t.DailyPerDiem[i] = utils.Round2(amount)
		perDiemSum += t.DailyPerDiem[i]
	}
	t.PerDiem = utils.Round2(perDiemSum)

	due := t.Mileage + t.Airfare + t.Ground + t.Parking + t.Lodging + t.Baggage + t.Misc + t.PerDiem
	if due < 0 {
		due = 0
	}
	t.AmountDue = utils.Round2(due)
	return t
}

// activeBounds finds the first and last rows with a non-blank date.
// A single active row is both first and last, so the 75 percent
// proration applies to it exactly once.
func activeBounds(days []models.PerDiemDay) (first, last int, ok bool) {
	first, last = -1, -1
	for i, d := range days {
		if strings.TrimSpace(d.Date) == "" {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
	}
	return first, last, first != -1
}
