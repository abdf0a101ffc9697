// Package verify signs the QR payload stamped onto generated travel
// documents and checks scanned payloads against the stored form.
package verify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"travauth/db"
	"travauth/models"
	"travauth/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func hmacSecret() []byte {
	if s := os.Getenv("VERIFY_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("your-very-secret-key") // keep secure
}

// GenerateQRPayload returns a signed payload string:
// formID|traveler|amountDue|timestamp|signature
func GenerateQRPayload(formID, traveler string, amountDue float64) string {
	// the separator must not appear inside a field or the payload can
	// never pass its own parse
	traveler = strings.ReplaceAll(traveler, "|", "/")
	timestamp := time.Now().Unix()
	data := fmt.Sprintf("%s|%s|%.2f|%d", formID, traveler, amountDue, timestamp)

	h := hmac.New(sha256.New, hmacSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// ParsePayload checks the signature on a scanned payload and returns
// the form ID it names.
func ParsePayload(payload string) (string, error) {
	idx := strings.LastIndex(payload, "|")
	if idx < 0 {
		return "", fmt.Errorf("malformed payload")
	}
	data, sig := payload[:idx], payload[idx+1:]
	if strings.Count(data, "|") != 3 {
		return "", fmt.Errorf("malformed payload")
	}

	wantSig, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return "", fmt.Errorf("malformed signature")
	}

	h := hmac.New(sha256.New, hmacSecret())
	h.Write([]byte(data))
	if !hmac.Equal(h.Sum(nil), wantSig) {
		return "", fmt.Errorf("signature mismatch")
	}

	return data[:strings.Index(data, "|")], nil
}

// VerifyTravelDocument resolves a scanned QR payload to the canonical
// stored form so a reviewer can compare the paper against the record.
func VerifyTravelDocument(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Payload string `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Payload == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing payload")
		return
	}

	formID, err := ParsePayload(req.Payload)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Payload verification failed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var form models.TravelForm
	err = db.TravelFormsCollection.FindOne(ctx, bson.M{
		"formid":  formID,
		"deleted": bson.M{"$ne": true},
	}).Decode(&form)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Travel form not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"ok":         true,
		"formid":     form.FormID,
		"status":     form.Status,
		"traveler":   form.Traveler.Name,
		"amount_due": form.Totals.AmountDue,
		"totals":     form.Totals,
	})
}
