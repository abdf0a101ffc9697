// Package receipts stores uploaded expense receipt images alongside a
// travel form, with a thumbnail for the review screen.
package receipts

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"travauth/db"
	"travauth/models"
	"travauth/mq"
	"travauth/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	_ "golang.org/x/image/webp"
)

const receiptUploadDir = "./static/receiptpic"

// extensions imaging can encode; anything else is re-encoded as jpg
var savableExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".tif": true, ".tiff": true, ".bmp": true,
}

// UploadReceipt attaches a receipt image to an existing travel form.
func UploadReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	formID := ps.ByName("formid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := db.TravelFormsCollection.CountDocuments(ctx, bson.M{
		"formid":  formID,
		"deleted": bson.M{"$ne": true},
	})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Travel form not found")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing receipt file")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	// sniff the real content, the declared type is client controlled
	head := make([]byte, 512)
	n, _ := file.Read(head)
	if !utils.SupportedImageTypes[http.DetectContentType(head[:n])] {
		utils.RespondWithError(w, http.StatusBadRequest, "File content is not a supported image")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to decode image")
		return
	}

	receiptID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !savableExt[ext] {
		ext = ".jpg"
	}

	dir := filepath.Join(receiptUploadDir, formID)
	if err := utils.EnsureDir(dir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create upload directory")
		return
	}

	path := filepath.Join(dir, receiptID+ext)
	if err := imaging.Save(img, path); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save receipt")
		return
	}

	thumbPath := filepath.Join(dir, receiptID+"_thumb"+ext)
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save thumbnail")
		return
	}

	receipt := models.Receipt{
		ReceiptID: receiptID,
		FormID:    formID,
		Filename:  header.Filename,
		Path:      path,
		ThumbPath: thumbPath,
		Category:  r.FormValue("category"),
		Uploaded:  time.Now(),
	}
	if _, err := db.ReceiptsCollection.InsertOne(ctx, receipt); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save receipt record")
		return
	}

	mq.Notify("receipt-uploaded", formID)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "receipt": receipt})
}

// ListReceipts returns the receipts attached to a form.
func ListReceipts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	formID := ps.ByName("formid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.ReceiptsCollection.Find(ctx, bson.M{"formid": formID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list receipts")
		return
	}
	defer cursor.Close(ctx)

	receipts := []models.Receipt{}
	if err := cursor.All(ctx, &receipts); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode receipts")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "receipts": receipts})
}

// DeleteReceipt removes a receipt record and its files.
func DeleteReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	formID := ps.ByName("formid")
	receiptID := ps.ByName("receiptid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var receipt models.Receipt
	err := db.ReceiptsCollection.FindOne(ctx, bson.M{
		"receiptid": receiptID,
		"formid":    formID,
	}).Decode(&receipt)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Receipt not found")
		return
	}

	for _, p := range []string{receipt.Path, receipt.ThumbPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Println("receipt file remove:", err)
		}
	}

	if _, err := db.ReceiptsCollection.DeleteOne(ctx, bson.M{"receiptid": receiptID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete receipt")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "receiptid": receiptID})
}
