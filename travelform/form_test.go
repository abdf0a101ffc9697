package travelform

import (
	"reflect"
	"testing"
	"time"

	"travauth/models"
)

func fullInput() formInput {
	return formInput{
		Traveler: models.Traveler{
			Name:         "Jane Traveler",
			AddressLine1: "123 Main St",
			City:         "Washington",
			State:        "DC",
			Zip:          "20001",
			Email:        "jane@example.edu",
		},
		Trip: models.Trip{
			Destination:   "Richmond, VA",
			DepartureDate: "01/06/2025",
			ReturnDate:    "01/08/2025",
		},
		Rate: 80,
	}
}

func TestValidateFormComplete(t *testing.T) {
	in := fullInput()
	if missing := validateForm(&in); len(missing) != 0 {
		t.Errorf("complete form reported missing fields: %v", missing)
	}
}

func TestValidateFormMissingFields(t *testing.T) {
	in := fullInput()
	in.Traveler.Name = ""
	in.Traveler.Zip = "   "
	in.Trip.Destination = ""
	in.Traveler.Email = ""

	got := validateForm(&in)
	want := []string{"Name", "Zip", "Destination", "Email Address"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("missing = %v, want %v", got, want)
	}
}

func TestParseTripDates(t *testing.T) {
	in := fullInput()
	dep, ret, err := parseTripDates(&in)
	if err != nil {
		t.Fatalf("parseTripDates: %v", err)
	}
	if dep.Format(tripDateLayout) != "01/06/2025" || ret.Format(tripDateLayout) != "01/08/2025" {
		t.Errorf("parsed %v / %v", dep, ret)
	}

	in.Trip.ReturnDate = "01/06/2025"
	if _, _, err := parseTripDates(&in); err != nil {
		t.Errorf("same-day trip rejected: %v", err)
	}

	in.Trip.ReturnDate = "01/05/2025"
	if _, _, err := parseTripDates(&in); err == nil {
		t.Error("return before departure accepted")
	}

	in.Trip.ReturnDate = "2025-01-08"
	if _, _, err := parseTripDates(&in); err == nil {
		t.Error("ISO date accepted")
	}

	in.Trip.DepartureDate = "not a date"
	if _, _, err := parseTripDates(&in); err == nil {
		t.Error("garbage departure accepted")
	}
}

func TestDayCount(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse(tripDateLayout, s)
		if err != nil {
			t.Fatalf("bad test date %q", s)
		}
		return d
	}
	cases := []struct {
		dep, ret string
		want     int
	}{
		{"01/06/2025", "01/06/2025", 1},
		{"01/06/2025", "01/08/2025", 3},
		{"01/01/2025", "03/01/2025", MaxTripDays},
		{"01/01/2025", "06/01/2025", MaxTripDays},
	}
	for _, c := range cases {
		if got := dayCount(day(c.dep), day(c.ret)); got != c.want {
			t.Errorf("dayCount(%s, %s) = %d, want %d", c.dep, c.ret, got, c.want)
		}
	}
}

func TestDateRange(t *testing.T) {
	dep, _ := time.Parse(tripDateLayout, "01/30/2025")
	got := dateRange(dep, 3)
	want := []string{"01/30/25", "01/31/25", "02/01/25"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dateRange = %v, want %v", got, want)
	}
}

func TestNormalizeExpensesPadsToGrid(t *testing.T) {
	grid := []string{"01/06/25", "01/07/25", "01/08/25"}
	rows := []dayInput{
		{Date: "01/06/25", Miles: "120", Lodging: "$189.99"},
	}

	got := normalizeExpenses(rows, grid)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Miles != 120 || got[0].Lodging != 189.99 {
		t.Errorf("row 0 = %+v", got[0])
	}
	if got[1].Date != "01/07/25" || got[2].Date != "01/08/25" {
		t.Errorf("padded dates = %q, %q", got[1].Date, got[2].Date)
	}
	if got[1].Miles != 0 || got[2].Lodging != 0 {
		t.Error("padded rows carry amounts")
	}
}

func TestNormalizeExpensesKeepsClearedDates(t *testing.T) {
	grid := []string{"01/06/25", "01/07/25"}
	rows := []dayInput{
		{Date: "01/06/25", Airfare: "350"},
		{Date: "  ", Airfare: "100"},
	}

	got := normalizeExpenses(rows, grid)
	if got[1].Date != "" {
		t.Errorf("cleared date became %q", got[1].Date)
	}
	if got[1].Airfare != 100 {
		t.Errorf("amounts on cleared rows should survive, got %v", got[1].Airfare)
	}
}

func TestNormalizeExpensesTruncatesExtraRows(t *testing.T) {
	grid := []string{"01/06/25"}
	rows := []dayInput{
		{Date: "01/06/25"},
		{Date: "01/07/25", Airfare: "999"},
	}
	got := normalizeExpenses(rows, grid)
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestNormalizeExpensesParsesLeniently(t *testing.T) {
	grid := []string{"01/06/25"}
	rows := []dayInput{
		{Date: "01/06/25", Airfare: "$1,200.00", Parking: "abc", Ground: "-40", Baggage: ""},
	}
	got := normalizeExpenses(rows, grid)
	if got[0].Airfare != 1200 {
		t.Errorf("airfare = %v, want 1200", got[0].Airfare)
	}
	if got[0].Parking != 0 || got[0].Ground != 0 || got[0].Baggage != 0 {
		t.Errorf("lenient parse failed: %+v", got[0])
	}
}

func TestNormalizePerDiemDefaults(t *testing.T) {
	grid := []string{"01/06/25", "01/07/25", "01/08/25"}
	rows := []perDiemInput{
		{Date: "01/06/25", Rate: 92, Dinner: true},
		{Date: "01/07/25"},
	}

	got := normalizePerDiem(rows, grid, 86)
	if got[0].Rate != 92 || !got[0].Dinner {
		t.Errorf("row 0 = %+v", got[0])
	}
	if got[1].Rate != 86 {
		t.Errorf("zero rate should fall back to the form rate, got %d", got[1].Rate)
	}
	if got[2].Date != "01/08/25" || got[2].Rate != 86 {
		t.Errorf("padded row = %+v", got[2])
	}
	if got[2].Breakfast || got[2].Lunch || got[2].Dinner {
		t.Error("padded row should carry no provided meals")
	}
}
