package models

import "time"

// Receipt is an uploaded expense receipt image attached to a form.
type Receipt struct {
	ReceiptID string    `json:"receiptid" bson:"receiptid"`
	FormID    string    `json:"formid" bson:"formid"`
	Filename  string    `json:"filename" bson:"filename"` // original upload name
	Path      string    `json:"path" bson:"path"`
	ThumbPath string    `json:"thumb_path,omitempty" bson:"thumb_path,omitempty"`
	Category  string    `json:"category,omitempty" bson:"category,omitempty"` // airfare, lodging, parking...
	Uploaded  time.Time `json:"uploaded" bson:"uploaded"`
}
