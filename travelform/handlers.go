package travelform

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"time"

	"travauth/db"
	"travauth/middleware"
	"travauth/models"
	"travauth/mq"
	"travauth/rdx"
	"travauth/reimburse"
	"travauth/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reviewKeyPrefix = "travelreview:"
const reviewTTL = 45 * time.Minute

func notDeleted(formID string) bson.M {
	return bson.M{"formid": formID, "deleted": bson.M{"$ne": true}}
}

// SubmitTravelForm validates a submission, lays it onto the trip's
// day grid, computes the totals and stores the form for review.
func SubmitTravelForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in formInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if missing := validateForm(&in); len(missing) > 0 {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"error":  "Missing required fields",
			"fields": missing,
		})
		return
	}

	dep, ret, err := parseTripDates(&in)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	grid := dateRange(dep, dayCount(dep, ret))
	expenses := normalizeExpenses(in.Expenses, grid)
	perDiem := normalizePerDiem(in.PerDiem, grid, in.Rate)

	now := time.Now()
	form := models.TravelForm{
		FormID:       utils.GenerateRandomString(13),
		Status:       models.StatusSubmitted,
		Traveler:     in.Traveler,
		Trip:         in.Trip,
		Expenses:     expenses,
		PerDiem:      perDiem,
		MiscOneLabel: in.MiscOneLabel,
		MiscTwoLabel: in.MiscTwoLabel,
		Totals:       reimburse.Calculate(expenses, perDiem),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.TravelFormsCollection.InsertOne(ctx, form); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save travel form")
		return
	}

	cacheReview(&form)
	mq.Emit(ctx, "form-submitted", models.FormEvent{
		FormID: form.FormID,
		Status: form.Status,
		At:     now.Unix(),
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"ok":     true,
		"formid": form.FormID,
		"status": form.Status,
		"totals": form.Totals,
	})
}

// PreviewTravelForm computes totals for whatever the client has typed
// so far without storing anything. Unparseable trip dates just mean
// the rows are used exactly as entered.
func PreviewTravelForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in formInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var expenses []models.ExpenseDay
	var perDiem []models.PerDiemDay
	if dep, ret, err := parseTripDates(&in); err == nil {
		grid := dateRange(dep, dayCount(dep, ret))
		expenses = normalizeExpenses(in.Expenses, grid)
		perDiem = normalizePerDiem(in.PerDiem, grid, in.Rate)
	} else {
		expenses, perDiem = rowsAsEntered(&in)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"ok":       true,
		"totals":   reimburse.Calculate(expenses, perDiem),
		"expenses": expenses,
		"per_diem": perDiem,
	})
}

func GetTravelForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var form models.TravelForm
	err := db.TravelFormsCollection.FindOne(ctx, notDeleted(ps.ByName("formid"))).Decode(&form)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Travel form not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, form)
}

// ReviewTravelForm serves the review snapshot, from Redis while the
// cached copy lives, falling back to Mongo and recaching.
func ReviewTravelForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	formID := ps.ByName("formid")

	if cached, err := rdx.RdxGet(reviewKeyPrefix + formID); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var form models.TravelForm
	err := db.TravelFormsCollection.FindOne(ctx, notDeleted(formID)).Decode(&form)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Travel form not found")
		return
	}

	cacheReview(&form)
	utils.RespondWithJSON(w, http.StatusOK, form)
}

// ApproveTravelForm moves a submitted form to approved. Approving an
// already approved or rendered form is a no-op that reports the
// current status.
func ApproveTravelForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	formID := ps.ByName("formid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var form models.TravelForm
	err := db.TravelFormsCollection.FindOne(ctx, notDeleted(formID)).Decode(&form)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Travel form not found")
		return
	}

	if form.Status != models.StatusSubmitted {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "formid": formID, "status": form.Status})
		return
	}

	now := time.Now()
	_, err = db.TravelFormsCollection.UpdateOne(ctx,
		bson.M{"formid": formID},
		bson.M{"$set": bson.M{"status": models.StatusApproved, "updated_at": now}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to approve travel form")
		return
	}

	if err := rdx.RdxDel(reviewKeyPrefix + formID); err != nil {
		log.Println("review cache delete:", err)
	}
	mq.Emit(ctx, "form-approved", models.FormEvent{
		FormID: formID,
		Status: models.StatusApproved,
		Actor:  utils.GetUserIDFromRequest(r),
		At:     now.Unix(),
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "formid": formID, "status": models.StatusApproved})
}

// EndorseTravelForm records a staff signature on the form. Each role
// signs once; a second endorsement for the same role is refused.
func EndorseTravelForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	formID := ps.ByName("formid")

	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	// body is optional when the user holds a single role
	_ = json.NewDecoder(r.Body).Decode(&body)

	role := body.Role
	if role == "" {
		staffRoles := 0
		for _, candidate := range []string{"assistant", "lead"} {
			if slices.Contains(claims.Role, candidate) {
				role = candidate
				staffRoles++
			}
		}
		if staffRoles != 1 {
			utils.RespondWithError(w, http.StatusBadRequest, "Specify which role to endorse as")
			return
		}
	}
	if !slices.Contains(claims.Role, role) {
		utils.RespondWithError(w, http.StatusForbidden, "Role not held")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var form models.TravelForm
	err = db.TravelFormsCollection.FindOne(ctx, notDeleted(formID)).Decode(&form)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Travel form not found")
		return
	}

	for _, e := range form.Endorsements {
		if e.Role == role {
			utils.RespondWithError(w, http.StatusConflict, "Form already endorsed for this role")
			return
		}
	}

	now := time.Now()
	endorsement := models.Endorsement{
		Role:     role,
		UserID:   claims.UserID,
		Name:     claims.Username,
		Date:     now.Format(tripDateLayout),
		SignedAt: now,
	}
	_, err = db.TravelFormsCollection.UpdateOne(ctx,
		bson.M{"formid": formID},
		bson.M{
			"$push": bson.M{"endorsements": endorsement},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to endorse travel form")
		return
	}

	mq.Emit(ctx, "form-endorsed", models.FormEvent{
		FormID: formID,
		Status: form.Status,
		Actor:  claims.UserID,
		At:     now.Unix(),
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "formid": formID, "endorsement": endorsement})
}

// ListTravelForms pages through forms for the staff dashboard, newest
// first, optionally narrowed by status or a traveler search.
func ListTravelForms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)

	filter := bson.M{"deleted": bson.M{"$ne": true}}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}
	if opts.Search != "" {
		regex := bson.M{"$regex": opts.Search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"traveler.name": regex},
			{"trip.destination": regex},
		}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.TravelFormsCollection.Find(ctx, filter, findOpts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list travel forms")
		return
	}
	defer cursor.Close(ctx)

	forms := []models.TravelForm{}
	if err := cursor.All(ctx, &forms); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode travel forms")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "forms": forms, "page": opts.Page})
}

// DeleteTravelForm soft deletes so the record stays for audit.
func DeleteTravelForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	formID := ps.ByName("formid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.TravelFormsCollection.UpdateOne(ctx,
		notDeleted(formID),
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete travel form")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Travel form not found")
		return
	}

	if err := rdx.RdxDel(reviewKeyPrefix + formID); err != nil {
		log.Println("review cache delete:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "formid": formID})
}

// cacheReview parks the review snapshot in Redis; reviewers hitting
// the link inside the TTL never touch Mongo.
func cacheReview(form *models.TravelForm) {
	data, err := json.Marshal(form)
	if err != nil {
		log.Println("review cache marshal:", err)
		return
	}
	if err := rdx.SetWithExpiry(reviewKeyPrefix+form.FormID, string(data), reviewTTL); err != nil {
		log.Println("review cache set:", err)
	}
}
