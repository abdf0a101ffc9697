// Package travelform takes in travel authorization submissions,
// validates and normalizes them onto the trip's day grid and manages
// the form lifecycle from submission through approval.
package travelform

import (
	"fmt"
	"strings"
	"time"

	"travauth/models"
	"travauth/utils"
)

// MaxTripDays caps the day grid for a single authorization.
const MaxTripDays = 60

const tripDateLayout = "01/02/2006"
const gridDateLayout = "01/02/06"

// dayInput carries one expense row as typed. Amounts arrive as free
// text and are parsed leniently on intake.
type dayInput struct {
	Date    string `json:"date"`
	Miles   string `json:"miles"`
	Airfare string `json:"airfare"`
	Ground  string `json:"ground"`
	Parking string `json:"parking"`
	Lodging string `json:"lodging"`
	Baggage string `json:"baggage"`
	MiscOne string `json:"misc1"`
	MiscTwo string `json:"misc2"`
}

type perDiemInput struct {
	Date      string `json:"date"`
	Rate      int    `json:"rate"`
	Breakfast bool   `json:"breakfast"`
	Lunch     bool   `json:"lunch"`
	Dinner    bool   `json:"dinner"`
}

type formInput struct {
	Traveler     models.Traveler `json:"traveler"`
	Trip         models.Trip     `json:"trip"`
	Rate         int             `json:"rate"`
	Expenses     []dayInput      `json:"expenses"`
	PerDiem      []perDiemInput  `json:"per_diem"`
	MiscOneLabel string          `json:"misc1_desc"`
	MiscTwoLabel string          `json:"misc2_desc"`
}

// validateForm returns the display labels of every required field the
// submission left blank.
func validateForm(in *formInput) []string {
	checks := []struct {
		label string
		value string
	}{
		{"Name", in.Traveler.Name},
		{"Address Line 1", in.Traveler.AddressLine1},
		{"City", in.Traveler.City},
		{"State", in.Traveler.State},
		{"Zip", in.Traveler.Zip},
		{"Destination", in.Trip.Destination},
		{"Email Address", in.Traveler.Email},
	}
	var missing []string
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			missing = append(missing, c.label)
		}
	}
	return missing
}

func parseTripDates(in *formInput) (time.Time, time.Time, error) {
	dep, err := time.Parse(tripDateLayout, strings.TrimSpace(in.Trip.DepartureDate))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid departure date, expected MM/DD/YYYY")
	}
	ret, err := time.Parse(tripDateLayout, strings.TrimSpace(in.Trip.ReturnDate))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid return date, expected MM/DD/YYYY")
	}
	if ret.Before(dep) {
		return time.Time{}, time.Time{}, fmt.Errorf("return date must be on or after departure date")
	}
	return dep, ret, nil
}

func dayCount(dep, ret time.Time) int {
	n := int(ret.Sub(dep).Hours()/24) + 1
	if n > MaxTripDays {
		n = MaxTripDays
	}
	if n < 1 {
		n = 1
	}
	return n
}

// dateRange lists the grid dates for the trip in short form, one per
// travel day starting at departure.
func dateRange(dep time.Time, days int) []string {
	out := make([]string, days)
	for i := range out {
		out[i] = dep.AddDate(0, 0, i).Format(gridDateLayout)
	}
	return out
}

// normalizeExpenses sizes the expense rows to the day grid. Rows the
// client sent keep their dates as typed, a cleared date marks the day
// inactive. Rows the client never sent are padded with the grid date
// and zero amounts.
func normalizeExpenses(rows []dayInput, grid []string) []models.ExpenseDay {
	out := make([]models.ExpenseDay, len(grid))
	for i := range out {
		if i < len(rows) {
			r := rows[i]
			out[i] = models.ExpenseDay{
				Date:    strings.TrimSpace(r.Date),
				Miles:   utils.ParseAmount(r.Miles),
				Airfare: utils.ParseAmount(r.Airfare),
				Ground:  utils.ParseAmount(r.Ground),
				Parking: utils.ParseAmount(r.Parking),
				Lodging: utils.ParseAmount(r.Lodging),
				Baggage: utils.ParseAmount(r.Baggage),
				MiscOne: utils.ParseAmount(r.MiscOne),
				MiscTwo: utils.ParseAmount(r.MiscTwo),
			}
			continue
		}
		out[i] = models.ExpenseDay{Date: grid[i]}
	}
	return out
}

// normalizePerDiem does the same for per diem rows. Padded rows keep
// the full allowance at the form's rate, matching how the entry grid
// is prefilled.
func normalizePerDiem(rows []perDiemInput, grid []string, defaultRate int) []models.PerDiemDay {
	out := make([]models.PerDiemDay, len(grid))
	for i := range out {
		if i < len(rows) {
			r := rows[i]
			rate := r.Rate
			if rate == 0 {
				rate = defaultRate
			}
			out[i] = models.PerDiemDay{
				Date:      strings.TrimSpace(r.Date),
				Rate:      rate,
				Breakfast: r.Breakfast,
				Lunch:     r.Lunch,
				Dinner:    r.Dinner,
			}
			continue
		}
		out[i] = models.PerDiemDay{Date: grid[i], Rate: defaultRate}
	}
	return out
}

// rowsAsEntered converts rows without a grid, used by previews when
// the trip dates are not parseable yet.
func rowsAsEntered(in *formInput) ([]models.ExpenseDay, []models.PerDiemDay) {
	expenses := make([]models.ExpenseDay, len(in.Expenses))
	for i, r := range in.Expenses {
		expenses[i] = models.ExpenseDay{
			Date:    strings.TrimSpace(r.Date),
			Miles:   utils.ParseAmount(r.Miles),
			Airfare: utils.ParseAmount(r.Airfare),
			Ground:  utils.ParseAmount(r.Ground),
			Parking: utils.ParseAmount(r.Parking),
			Lodging: utils.ParseAmount(r.Lodging),
			Baggage: utils.ParseAmount(r.Baggage),
			MiscOne: utils.ParseAmount(r.MiscOne),
			MiscTwo: utils.ParseAmount(r.MiscTwo),
		}
	}
	perDiem := make([]models.PerDiemDay, len(in.PerDiem))
	for i, r := range in.PerDiem {
		rate := r.Rate
		if rate == 0 {
			rate = in.Rate
		}
		perDiem[i] = models.PerDiemDay{
			Date:      strings.TrimSpace(r.Date),
			Rate:      rate,
			Breakfast: r.Breakfast,
			Lunch:     r.Lunch,
			Dinner:    r.Dinner,
		}
	}
	return expenses, perDiem
}
