package model

import "time"

// File is the metadata record of an uploaded blob.
// StoragePath is an opaque key into the blob store and is not exposed to clients.
type File struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"userId"`
	Name        string    `json:"name"`
	Extension   string    `json:"extension"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	UploadDate  time.Time `json:"uploadDate"`
	StoragePath string    `json:"-"`
}
