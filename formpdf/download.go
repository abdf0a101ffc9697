package formpdf

import (
	"context"
	"net/http"
	"time"

	"travauth/db"
	"travauth/models"
	"travauth/mq"
	"travauth/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// DownloadTravelDocument serves the rendered PDF for an approved form.
// The first successful render moves the form to rendered status; a
// form still waiting on approval is refused.
func DownloadTravelDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	if form.Status != models.StatusApproved && form.Status != models.StatusRendered {
		utils.RespondWithError(w, http.StatusConflict, "Travel form has not been approved")
		return
	}

	buf, err := BuildTravelDocument(&form)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate document")
		return
	}

	if form.Status == models.StatusApproved {
		_, err = db.TravelFormsCollection.UpdateOne(ctx,
			bson.M{"formid": formID},
			bson.M{"$set": bson.M{"status": models.StatusRendered, "updated_at": time.Now()}},
		)
		if err == nil {
			mq.Emit(ctx, "form-rendered", models.FormEvent{
				FormID: formID,
				Status: models.StatusRendered,
				Actor:  utils.GetUserIDFromRequest(r),
				At:     time.Now().Unix(),
			})
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+DocumentFilename(&form))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
