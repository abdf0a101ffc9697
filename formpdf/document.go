// Package formpdf lays out the travel authorization document: header
// with institutional logos, traveler details, the week-by-week expense
// and per diem tables, sub totals and the approval signature block.
package formpdf

import (
	"bytes"
	"fmt"
	"image/png"
	"log"
	"strconv"
	"strings"
	"time"

	"travauth/logos"
	"travauth/models"
	"travauth/perdiem"
	"travauth/reimburse"
	"travauth/signature"
	"travauth/utils"
	"travauth/verify"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const (
	pageMargin = 10.0
	contentW   = 190.0

	labelW = 33.0
	dayW   = 19.0
	totalW = 24.0
	rowH   = 6.0

	// columns per table chunk, one travel week
	daysPerChunk = 7
)

// BuildTravelDocument renders the form into a PDF buffer. Logos and
// the signature are embedded when available; a missing logo or blank
// signature leaves its slot empty rather than failing the document.
func BuildTravelDocument(form *models.TravelForm) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	drawHeader(pdf)
	drawTravelerInfo(pdf, form)
	drawPurpose(pdf, form)
	drawMileage(pdf, form)
	drawExpenses(pdf, form)
	drawPerDiem(pdf, form)
	drawSubTotals(pdf, form)

	// a failed signature image falls back to the typed name; the
	// document still goes out
	sigPNG, err := signature.Render(form.Traveler.SignatureName)
	if err != nil {
		log.Println("signature render:", err)
		sigPNG = nil
	}
	drawSignatures(pdf, form, sigPNG)
	drawVerification(pdf, form)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// DocumentFilename builds the download name from the traveler and the
// trip dates, with everything unsafe squeezed out.
func DocumentFilename(form *models.TravelForm) string {
	name := strings.ReplaceAll(strings.TrimSpace(form.Traveler.Name), " ", "_")
	dep := strings.ReplaceAll(form.Trip.DepartureDate, "/", "-")
	ret := strings.ReplaceAll(form.Trip.ReturnDate, "/", "-")
	return utils.SanitizeFilename(fmt.Sprintf("Travel_Authorization_Form_%s_%s_%s.pdf", name, dep, ret))
}

func drawHeader(pdf *gofpdf.Fpdf) {
	imgOpts := gofpdf.ImageOptions{ImageType: "png"}

	if left := logos.Left(); left != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, left); err == nil {
			pdf.RegisterImageOptionsReader("logo-left", imgOpts, &buf)
			pdf.ImageOptions("logo-left", pageMargin, 10, 0, 20.3, false, imgOpts, 0, "")
		}
	}
	if right := logos.Right(); right != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, right); err == nil {
			pdf.RegisterImageOptionsReader("logo-right", imgOpts, &buf)
			pdf.ImageOptions("logo-right", 150, 14, 50, 0, false, imgOpts, 0, "")
		}
	}

	pdf.SetY(16)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Domestic Travel Authorization Form", "", 1, "C", false, 0, "")
	pdf.SetY(34)
}

func drawTravelerInfo(pdf *gofpdf.Fpdf, form *models.TravelForm) {
	t := form.Traveler

	rows := [][4]string{
		{"Name", t.Name, "Organization", t.Organization},
		{"Address Line 1", t.AddressLine1, "Destination", form.Trip.Destination},
		{"Address Line 2", t.AddressLine2, "Departure Date", form.Trip.DepartureDate},
		{"City", t.City, "Return Date", form.Trip.ReturnDate},
		{"State", t.State, "Email Address", t.Email},
		{"Zip", t.Zip, "", ""},
	}

	pdf.SetFillColor(224, 224, 224)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(35, rowH, row[0], "1", 0, "L", true, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(60, rowH, row[1], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(35, rowH, row[2], "1", 0, "L", true, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(60, rowH, row[3], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func drawPurpose(pdf *gofpdf.Fpdf, form *models.TravelForm) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Purpose of Travel", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(contentW, 5.5, form.Trip.Purpose, "1", "L", false)
	pdf.Ln(4)
}

func drawMileage(pdf *gofpdf.Fpdf, form *models.TravelForm) {
	ensureRoom(pdf, 40)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Traveler Paid Expenses", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Mileage for 2025 is $%.2f per mile.", reimburse.MileageRate), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	days := form.Expenses
	for start := 0; start < len(days); start += daysPerChunk {
		end := start + daysPerChunk
		if end > len(days) {
			end = len(days)
		}
		lastChunk := end == len(days)
		chunk := days[start:end]

		ensureRoom(pdf, 4*rowH+4)

		dates := make([]string, len(chunk))
		miles := make([]string, len(chunk))
		dollars := make([]string, len(chunk))
		for i, d := range chunk {
			if strings.TrimSpace(d.Date) == "" {
				continue
			}
			dates[i] = d.Date
			if d.Miles > 0 {
				miles[i] = strconv.FormatFloat(d.Miles, 'f', -1, 64)
				dollars[i] = utils.FormatUSD(d.Miles * reimburse.MileageRate)
			}
		}

		dayRow(pdf, "Date", dates, headerTotal(lastChunk), lastChunk, true)
		dayRow(pdf, "MILEAGE (Per Day)", miles, "", lastChunk, false)
		total := ""
		if lastChunk {
			total = utils.FormatWholeUSD(form.Totals.Mileage)
		}
		dayRow(pdf, "Mileage Rate", dollars, total, lastChunk, false)
		pdf.Ln(3)
	}
}

func drawExpenses(pdf *gofpdf.Fpdf, form *models.TravelForm) {
	ensureRoom(pdf, 70)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Airfare, Transportation, Parking, Lodging, Miscellaneous.", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 4.5, "Ground Transportation Includes: Taxi, Uber, etc.", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 4.5, "Miscellaneous/Other: Pre-approved travel expenses not listed in this form", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	var misc1Sum, misc2Sum float64
	for _, e := range form.Expenses {
		misc1Sum += e.MiscOne
		misc2Sum += e.MiscTwo
	}
	showMisc1 := form.MiscOneLabel != "" || misc1Sum > 0
	showMisc2 := form.MiscTwoLabel != "" || misc2Sum > 0

	days := form.Expenses
	for start := 0; start < len(days); start += daysPerChunk {
		end := start + daysPerChunk
		if end > len(days) {
			end = len(days)
		}
		lastChunk := end == len(days)
		chunk := days[start:end]

		ensureRoom(pdf, 9*rowH+5)

		dates := make([]string, len(chunk))
		for i, d := range chunk {
			if strings.TrimSpace(d.Date) != "" {
				dates[i] = d.Date
			}
		}
		dayRow(pdf, "Date", dates, headerTotal(lastChunk), lastChunk, true)

		categories := []struct {
			label string
			pick  func(models.ExpenseDay) float64
			total float64
			show  bool
		}{
			{"Airfare", func(e models.ExpenseDay) float64 { return e.Airfare }, form.Totals.Airfare, true},
			{"Ground Transportation", func(e models.ExpenseDay) float64 { return e.Ground }, form.Totals.Ground, true},
			{"Parking", func(e models.ExpenseDay) float64 { return e.Parking }, form.Totals.Parking, true},
			{"Lodging", func(e models.ExpenseDay) float64 { return e.Lodging }, form.Totals.Lodging, true},
			{"Baggage Fees", func(e models.ExpenseDay) float64 { return e.Baggage }, form.Totals.Baggage, true},
		}
		for _, cat := range categories {
			cells := make([]string, len(chunk))
			for i, e := range chunk {
				if strings.TrimSpace(e.Date) != "" && cat.pick(e) > 0 {
					cells[i] = utils.FormatUSD(cat.pick(e))
				}
			}
			total := ""
			if lastChunk {
				total = utils.FormatUSD(cat.total)
			}
			dayRow(pdf, cat.label, cells, total, lastChunk, false)
		}

		if showMisc1 || showMisc2 {
			spanRow(pdf, "Miscellaneous/Other (Provide Description)", lastChunk)
			if showMisc1 {
				miscRow(pdf, form.MiscOneLabel, chunk, func(e models.ExpenseDay) float64 { return e.MiscOne }, misc1Sum, lastChunk)
			}
			if showMisc2 {
				miscRow(pdf, form.MiscTwoLabel, chunk, func(e models.ExpenseDay) float64 { return e.MiscTwo }, misc2Sum, lastChunk)
			}
		}
		pdf.Ln(3)
	}
}

func miscRow(pdf *gofpdf.Fpdf, label string, chunk []models.ExpenseDay, pick func(models.ExpenseDay) float64, sum float64, lastChunk bool) {
	if label == "" {
		label = "Miscellaneous/Other"
	}
	cells := make([]string, len(chunk))
	for i, e := range chunk {
		if strings.TrimSpace(e.Date) != "" && pick(e) > 0 {
			cells[i] = utils.FormatUSD(pick(e))
		}
	}
	total := ""
	if lastChunk {
		total = utils.FormatUSD(utils.Round2(sum))
	}
	dayRow(pdf, label, cells, total, lastChunk, false)
}

func drawPerDiem(pdf *gofpdf.Fpdf, form *models.TravelForm) {
	ensureRoom(pdf, 80)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Meals and Incidentals Per Diem", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 4.5, "Per federal travel regulation, the first and last day of travel are reimbursed at 75% of the daily rate.", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	days := form.PerDiem
	for start := 0; start < len(days); start += daysPerChunk {
		end := start + daysPerChunk
		if end > len(days) {
			end = len(days)
		}
		lastChunk := end == len(days)
		chunk := days[start:end]

		ensureRoom(pdf, 9*rowH+5)

		tier := chunkTier(chunk)
		ded := tier.Deductions()

		dates := make([]string, len(chunk))
		allowance := make([]string, len(chunk))
		breakfast := make([]string, len(chunk))
		lunch := make([]string, len(chunk))
		dinner := make([]string, len(chunk))
		reduction := make([]string, len(chunk))
		mealTotal := make([]string, len(chunk))
		daily := make([]string, len(chunk))

		for i, d := range chunk {
			if strings.TrimSpace(d.Date) == "" {
				continue
			}
			idx := start + i
			dates[i] = d.Date
			allowance[i] = utils.FormatWholeUSD(perdiem.ParseTier(d.Rate).Base())
			if d.Breakfast {
				breakfast[i] = "x"
			}
			if d.Lunch {
				lunch[i] = "x"
			}
			if d.Dinner {
				dinner[i] = "x"
			}
			if idx < len(form.Totals.DailyReduction) {
				reduction[i] = utils.FormatUSD(form.Totals.DailyReduction[idx])
			}
			if idx < len(form.Totals.DailyMealTotal) {
				mealTotal[i] = utils.FormatUSD(form.Totals.DailyMealTotal[idx])
			}
			if idx < len(form.Totals.DailyPerDiem) {
				daily[i] = utils.FormatUSD(form.Totals.DailyPerDiem[idx])
			}
		}

		dayRow(pdf, "Date", dates, headerTotal(lastChunk), lastChunk, true)
		dayRow(pdf, "Per Diem Allowance", allowance, "", lastChunk, false)
		spanRow(pdf, `ADJUSTED PER DIEM: If meals were provided by Georgetown University (Place "x" in box)`, lastChunk)
		dayRow(pdf, fmt.Sprintf("Breakfast -$%.0f", ded.Breakfast), breakfast, "", lastChunk, false)
		dayRow(pdf, fmt.Sprintf("Lunch -$%.0f", ded.Lunch), lunch, "", lastChunk, false)
		dayRow(pdf, fmt.Sprintf("Dinner -$%.0f", ded.Dinner), dinner, "", lastChunk, false)
		dayRow(pdf, "Total Reduction ($)", reduction, "", lastChunk, false)
		dayRow(pdf, "Daily Meal Total", mealTotal, "", lastChunk, false)
		total := ""
		if lastChunk {
			total = utils.FormatUSD(form.Totals.PerDiem)
		}
		dayRow(pdf, "Total Per Diem", daily, total, lastChunk, false)
		pdf.Ln(3)
	}
}

// chunkTier picks the tier shown on the meal deduction labels, taken
// from the first day of the chunk that has a date.
func chunkTier(chunk []models.PerDiemDay) perdiem.Tier {
	for _, d := range chunk {
		if strings.TrimSpace(d.Date) != "" {
			return perdiem.ParseTier(d.Rate)
		}
	}
	return perdiem.DefaultTier
}

func drawSubTotals(pdf *gofpdf.Fpdf, form *models.TravelForm) {
	ensureRoom(pdf, 70)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Sub-Totals", "", 1, "L", false, 0, "")

	rows := []struct {
		label string
		value string
	}{
		{"Mileage", utils.FormatWholeUSD(form.Totals.Mileage)},
		{"Airfare", utils.FormatUSD(form.Totals.Airfare)},
		{"Ground Transportation", utils.FormatUSD(form.Totals.Ground)},
		{"Parking", utils.FormatUSD(form.Totals.Parking)},
		{"Lodging", utils.FormatUSD(form.Totals.Lodging)},
		{"Baggage Fees", utils.FormatUSD(form.Totals.Baggage)},
		{"Miscellaneous/Other", utils.FormatUSD(form.Totals.Misc)},
		{"Meals and Incidentals Per Diem", utils.FormatUSD(form.Totals.PerDiem)},
	}

	pdf.SetFillColor(224, 224, 224)
	for _, row := range rows {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(80, rowH, row.label, "1", 0, "L", true, 0, "")
		pdf.CellFormat(40, rowH, row.value, "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, rowH+1, "Total Amount Due", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, rowH+1, utils.FormatUSD(form.Totals.AmountDue), "1", 1, "R", false, 0, "")
	pdf.Ln(5)
}

func drawSignatures(pdf *gofpdf.Fpdf, form *models.TravelForm, sigPNG []byte) {
	ensureRoom(pdf, 50)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Approval Signatures", "", 1, "L", false, 0, "")

	sigText := ""
	if sigPNG == nil {
		sigText = strings.TrimSpace(form.Traveler.SignatureName)
	}

	assistantName, assistantDate := endorsementFor(form, "assistant")
	leadName, leadDate := endorsementFor(form, "lead")

	type sigRow struct {
		label string
		value string
		date  string
	}
	rows := []sigRow{
		{"Traveler Signature", sigText, form.Traveler.SignatureDate},
		{"Program Assistant", assistantName, assistantDate},
		{"Lead Technical Assistance Provider", leadName, leadDate},
		{"AWD", "AWD-7776588", "GR426936"},
	}

	const sigRowH = 10.0
	pdf.SetFillColor(224, 224, 224)
	for i, row := range rows {
		dateLabel := "DATE"
		if i == len(rows)-1 {
			dateLabel = "GR"
		}

		x, y := pdf.GetX(), pdf.GetY()
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(55, sigRowH, row.label, "1", 0, "L", true, 0, "")
		if i == 0 && sigText != "" {
			pdf.SetFont("Arial", "I", 11)
		} else {
			pdf.SetFont("Arial", "", 9)
		}
		pdf.CellFormat(60, sigRowH, row.value, "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(20, sigRowH, dateLabel, "1", 0, "C", true, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(55, sigRowH, row.date, "1", 1, "L", false, 0, "")

		if i == 0 && sigPNG != nil {
			imgOpts := gofpdf.ImageOptions{ImageType: "png"}
			pdf.RegisterImageOptionsReader("sig", imgOpts, bytes.NewReader(sigPNG))
			pdf.ImageOptions("sig", x+56, y+1, 0, sigRowH-2, false, imgOpts, 0, "")
		}
	}
	pdf.Ln(4)
}

func endorsementFor(form *models.TravelForm, role string) (name, date string) {
	for _, e := range form.Endorsements {
		if e.Role == role {
			return e.Name, e.Date
		}
	}
	return "", ""
}

func drawVerification(pdf *gofpdf.Fpdf, form *models.TravelForm) {
	payload := verify.GenerateQRPayload(form.FormID, form.Traveler.Name, form.Totals.AmountDue)
	qrPNG, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return
	}

	ensureRoom(pdf, 35)
	y := pdf.GetY()

	imgOpts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 172, y, 28, 28, false, imgOpts, 0, "")

	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(160, 5, fmt.Sprintf("Form ID: %s", form.FormID), "", 1, "L", false, 0, "")
	pdf.CellFormat(160, 5, "Scan the code to verify this document against the system of record.", "", 1, "L", false, 0, "")

	pdf.SetY(-22)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s", time.Now().Format("Jan 2, 2006 3:04 PM")), "T", 0, "C", false, 0, "")
}

// dayRow draws one chunk row: a shaded label, a cell per travel day
// and, on the final chunk, the totals column.
func dayRow(pdf *gofpdf.Fpdf, label string, cells []string, total string, withTotal, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFillColor(224, 224, 224)
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(labelW, rowH, label, "1", 0, "L", true, 0, "")

	pdf.SetFont("Arial", style, 8)
	for i := 0; i < daysPerChunk; i++ {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pdf.CellFormat(dayW, rowH, cell, "1", 0, "C", false, 0, "")
	}

	if withTotal {
		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(totalW, rowH, total, "1", 1, "C", header, 0, "")
	} else {
		pdf.Ln(rowH)
	}
}

// spanRow draws a full width note row inside a chunk table.
func spanRow(pdf *gofpdf.Fpdf, text string, withTotal bool) {
	w := labelW + daysPerChunk*dayW
	if withTotal {
		w += totalW
	}
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "BI", 7)
	pdf.CellFormat(w, 5, text, "1", 1, "L", true, 0, "")
	pdf.SetFillColor(224, 224, 224)
}

func headerTotal(lastChunk bool) string {
	if lastChunk {
		return "Total"
	}
	return ""
}

func ensureRoom(pdf *gofpdf.Fpdf, needed float64) {
	if pdf.GetY()+needed > 275 {
		pdf.AddPage()
	}
}
