package models

import "time"

// Form lifecycle statuses.
const (
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRendered  = "rendered"
)

// TravelForm is a submitted domestic travel authorization request with
// its computed reimbursement totals.
type TravelForm struct {
	FormID       string        `json:"formid" bson:"formid"`
	Status       string        `json:"status" bson:"status"` // submitted/approved/rendered
	Traveler     Traveler      `json:"traveler" bson:"traveler"`
	Trip         Trip          `json:"trip" bson:"trip"`
	Expenses     []ExpenseDay  `json:"expenses" bson:"expenses"`
	PerDiem      []PerDiemDay  `json:"per_diem" bson:"per_diem"`
	MiscOneLabel string        `json:"misc1_desc,omitempty" bson:"misc1_desc,omitempty"`
	MiscTwoLabel string        `json:"misc2_desc,omitempty" bson:"misc2_desc,omitempty"`
	Totals       Totals        `json:"totals" bson:"totals"`
	Endorsements []Endorsement `json:"endorsements,omitempty" bson:"endorsements,omitempty"`
	Deleted      bool          `json:"-" bson:"deleted,omitempty"` // Internal use only
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
}

type Traveler struct {
	Name          string `json:"name" bson:"name"`
	Organization  string `json:"organization" bson:"organization"`
	AddressLine1  string `json:"address1" bson:"address1"`
	AddressLine2  string `json:"address2,omitempty" bson:"address2,omitempty"`
	City          string `json:"city" bson:"city"`
	State         string `json:"state" bson:"state"`
	Zip           string `json:"zip" bson:"zip"`
	Email         string `json:"email" bson:"email"`
	SignatureName string `json:"signature,omitempty" bson:"signature,omitempty"`
	SignatureDate string `json:"signature_date,omitempty" bson:"signature_date,omitempty"` // MM/DD/YYYY
}

type Trip struct {
	Destination   string `json:"destination" bson:"destination"`
	Purpose       string `json:"purpose,omitempty" bson:"purpose,omitempty"`
	DepartureDate string `json:"departure_date" bson:"departure_date"` // MM/DD/YYYY
	ReturnDate    string `json:"return_date" bson:"return_date"`       // MM/DD/YYYY
}

// ExpenseDay holds one calendar day of traveler paid expenses.
// A blank date means the slot is unused.
type ExpenseDay struct {
	Date    string  `json:"date" bson:"date"` // MM/DD/YY
	Miles   float64 `json:"miles" bson:"miles"`
	Airfare float64 `json:"airfare" bson:"airfare"`
	Ground  float64 `json:"ground" bson:"ground"`
	Parking float64 `json:"parking" bson:"parking"`
	Lodging float64 `json:"lodging" bson:"lodging"`
	Baggage float64 `json:"baggage" bson:"baggage"`
	MiscOne float64 `json:"misc1" bson:"misc1"`
	MiscTwo float64 `json:"misc2" bson:"misc2"`
}

// PerDiemDay carries the selected GSA rate for a day plus the meals the
// institution provided that day.
type PerDiemDay struct {
	Date      string `json:"date" bson:"date"` // MM/DD/YY
	Rate      int    `json:"rate" bson:"rate"` // one of 68/74/80/86/92
	Breakfast bool   `json:"breakfast" bson:"breakfast"`
	Lunch     bool   `json:"lunch" bson:"lunch"`
	Dinner    bool   `json:"dinner" bson:"dinner"`
}

// Totals is recomputed from the day entries on every submission; the
// daily rows feed the printed per diem tables.
type Totals struct {
	Mileage        float64   `json:"mileage" bson:"mileage"` // whole dollars
	Airfare        float64   `json:"airfare" bson:"airfare"`
	Ground         float64   `json:"ground" bson:"ground"`
	Parking        float64   `json:"parking" bson:"parking"`
	Lodging        float64   `json:"lodging" bson:"lodging"`
	Baggage        float64   `json:"baggage" bson:"baggage"`
	Misc           float64   `json:"misc" bson:"misc"`
	PerDiem        float64   `json:"per_diem" bson:"per_diem"`
	AmountDue      float64   `json:"amount_due" bson:"amount_due"`
	DailyPerDiem   []float64 `json:"daily_per_diem" bson:"daily_per_diem"`
	DailyReduction []float64 `json:"daily_reduction" bson:"daily_reduction"`
	DailyMealTotal []float64 `json:"daily_meal_total" bson:"daily_meal_total"`
}

// Endorsement records a staff signature line on the approval block.
type Endorsement struct {
	Role     string    `json:"role" bson:"role"` // assistant or lead
	UserID   string    `json:"userid" bson:"userid"`
	Name     string    `json:"name" bson:"name"`
	Date     string    `json:"date" bson:"date"` // MM/DD/YYYY
	SignedAt time.Time `json:"signed_at" bson:"signed_at"`
}

// FormEvent is published on the form-events channel so watchers see
// status transitions live.
type FormEvent struct {
	FormID string `json:"formid"`
	Status string `json:"status"`
	Actor  string `json:"actor,omitempty"`
	At     int64  `json:"at"` // unix seconds
}
