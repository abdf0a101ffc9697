// Package signature renders a traveler's typed name as a handwriting
// style PNG that the generated document embeds in the signature block.
package signature

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log"
	"net/http"
	"strings"
	"time"

	"travauth/db"
	"travauth/models"
	"travauth/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Rendering happens at triple resolution and downscales at the end so
// the strokes stay smooth at print size.
const (
	scale      = 3
	canvasW    = 800 * scale
	canvasH    = 150 * scale
	startSize  = 60 * scale
	minSize    = 30 * scale
	sizeStep   = 3 * scale
	marginX    = 20 * scale
	underlineT = 3 * scale
)

var sigFont *opentype.Font

func init() {
	var err error
	sigFont, err = opentype.Parse(goitalic.TTF)
	if err != nil {
		log.Fatalf("Failed to parse signature font: %v", err)
	}
}

// Render draws name in an italic face on a white canvas, underlines
// it, crops to content and returns the encoded PNG. A blank name
// yields nil bytes and no error.
func Render(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	face, textW, err := fitFace(name)
	if err != nil {
		return nil, err
	}

	img := imaging.New(canvasW, canvasH, color.White)

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	x := marginX
	baseline := (canvasH-ascent-descent)/2 + ascent

	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(name)

	lineY := baseline + descent + 8*scale
	lineStart := x - 5*scale
	lineEnd := x + textW + 5*scale
	if lineStart < 0 {
		lineStart = 0
	}
	if lineEnd > canvasW {
		lineEnd = canvasW
	}
	for yy := lineY; yy < lineY+underlineT && yy < canvasH; yy++ {
		for xx := lineStart; xx < lineEnd; xx++ {
			img.Set(xx, yy, color.Black)
		}
	}

	right := x + textW + 30*scale
	if right > canvasW {
		right = canvasW
	}
	bottom := lineY + underlineT + 5*scale
	if bottom > canvasH {
		bottom = canvasH
	}
	cropped := imaging.Crop(img, image.Rect(0, 0, right, bottom))
	final := imaging.Resize(cropped, cropped.Bounds().Dx()/scale, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, final); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitFace shrinks the face until the name fits the canvas width,
// bottoming out at the minimum size for very long names.
func fitFace(name string) (font.Face, int, error) {
	size := startSize
	for {
		face, err := opentype.NewFace(sigFont, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, 0, err
		}
		textW := font.MeasureString(face, name).Ceil()
		if textW <= canvasW-40*scale || size <= minSize {
			return face, textW, nil
		}
		size -= sizeStep
	}
}

// GetTravelFormSignature serves the stored signature image for a form.
func GetTravelFormSignature(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	formID := ps.ByName("formid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var form models.TravelForm
	err := db.TravelFormsCollection.FindOne(ctx, bson.M{
		"formid":  formID,
		"deleted": bson.M{"$ne": true},
	}).Decode(&form)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Travel form not found")
		return
	}

	data, err := Render(form.Traveler.SignatureName)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render signature")
		return
	}
	if data == nil {
		utils.RespondWithError(w, http.StatusNotFound, "No signature on file")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// PreviewSignature renders a signature for an arbitrary name so the
// form UI can show the traveler what will be embedded.
func PreviewSignature(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing name")
		return
	}

	data, err := Render(name)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render signature")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}
