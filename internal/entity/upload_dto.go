package entity

import "mime/multipart"

type UploadFilesRequest struct {
	Files []*multipart.FileHeader
}

type UploadedFile struct {
	Name    string `json:"name"`
	BlobKey string `json:"blob_key"`
	Size    int64  `json:"size"`
}

type UploadFilesResponse struct {
	Files []UploadedFile `json:"files"`
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
