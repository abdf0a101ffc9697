package formpdf

import (
	"bytes"
	"strings"
	"testing"

	"travauth/models"
	"travauth/reimburse"

	"github.com/phpdave11/gofpdf"
)

func sampleForm() *models.TravelForm {
	form := &models.TravelForm{
		FormID: "form_test1",
		Status: models.StatusApproved,
		Traveler: models.Traveler{
			Name:          "Jane Traveler",
			Organization:  "Georgetown University",
			AddressLine1:  "123 Main St",
			City:          "Washington",
			State:         "DC",
			Zip:           "20001",
			Email:         "jane@example.edu",
			SignatureName: "Jane Traveler",
			SignatureDate: "01/05/2025",
		},
		Trip: models.Trip{
			Destination:   "Richmond, VA",
			Purpose:       "Site visit and technical assistance.",
			DepartureDate: "01/06/2025",
			ReturnDate:    "01/08/2025",
		},
		Expenses: []models.ExpenseDay{
			{Date: "01/06/25", Miles: 120, Parking: 12.50, Lodging: 189.99},
			{Date: "01/07/25", Lodging: 189.99, MiscOne: 15},
			{Date: "01/08/25", Miles: 120},
		},
		PerDiem: []models.PerDiemDay{
			{Date: "01/06/25", Rate: 80},
			{Date: "01/07/25", Rate: 80, Lunch: true},
			{Date: "01/08/25", Rate: 80, Breakfast: true},
		},
		MiscOneLabel: "Conference materials",
	}
	form.Totals = reimburse.Calculate(form.Expenses, form.PerDiem)
	return form
}

func TestBuildTravelDocument(t *testing.T) {
	// point the logo fetcher somewhere unreachable so the build runs
	// offline and simply skips the images
	t.Setenv("LOGO_LEFT_URL", "http://127.0.0.1:9/left.png")
	t.Setenv("LOGO_RIGHT_URL", "http://127.0.0.1:9/right.png")

	buf, err := BuildTravelDocument(sampleForm())
	if err != nil {
		t.Fatalf("BuildTravelDocument: %v", err)
	}
	out := buf.Bytes()
	if len(out) == 0 {
		t.Fatal("empty document")
	}
	if !strings.HasPrefix(string(out[:5]), "%PDF-") {
		t.Errorf("output does not start with a PDF header: %q", out[:5])
	}
}

func TestBuildLongTripChunks(t *testing.T) {
	t.Setenv("LOGO_LEFT_URL", "http://127.0.0.1:9/left.png")
	t.Setenv("LOGO_RIGHT_URL", "http://127.0.0.1:9/right.png")

	form := sampleForm()
	form.Expenses = nil
	form.PerDiem = nil
	for i := 0; i < 17; i++ {
		date := ""
		if i < 12 {
			date = "02/01/25"
		}
		form.Expenses = append(form.Expenses, models.ExpenseDay{Date: date, Miles: 10})
		form.PerDiem = append(form.PerDiem, models.PerDiemDay{Date: date, Rate: 74})
	}
	form.Totals = reimburse.Calculate(form.Expenses, form.PerDiem)

	buf, err := BuildTravelDocument(form)
	if err != nil {
		t.Fatalf("BuildTravelDocument: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty document")
	}
}

func TestSignatureFallsBackToTypedName(t *testing.T) {
	form := sampleForm()

	// no signature image available; the typed name is printed instead
	// and the block still renders
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	drawSignatures(pdf, form, nil)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("signature block without an image failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty document")
	}
}

func TestDocumentFilename(t *testing.T) {
	form := sampleForm()
	got := DocumentFilename(form)
	want := "Travel_Authorization_Form_Jane_Traveler_01-06-2025_01-08-2025.pdf"
	if got != want {
		t.Errorf("filename = %q, want %q", got, want)
	}
}

func TestDocumentFilenameStripsUnsafe(t *testing.T) {
	form := sampleForm()
	form.Traveler.Name = "../../etc/passwd"
	got := DocumentFilename(form)
	if strings.Contains(got, "/") || strings.Contains(got, "..") {
		t.Errorf("unsafe filename: %q", got)
	}
}
