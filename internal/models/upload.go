package models

// UploadedFile describes a resource accepted by the upload endpoint.
type UploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
	URL          string `json:"url"`
}
