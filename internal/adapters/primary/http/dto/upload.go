package dto

type UploadedFileResponse struct {
	OriginalName string   `json:"originalName"`
	FileName     string   `json:"fileName"`
	Src          string   `json:"src"`
	URL          string   `json:"url"`
	Type         string   `json:"type"`
	Size         int64    `json:"size"`
	MimeType     string   `json:"mimeType"`
	Width        *int     `json:"width"`
	Height       *int     `json:"height"`
	Duration     *float64 `json:"duration"`
	PublicID     string   `json:"publicId,omitempty"`
	Thumbnail    string   `json:"thumbnail"`
	StorageType  string   `json:"storage_type"`
}

type FailedFileResponse struct {
	OriginalName string `json:"originalName"`
	Error        string `json:"error"`
}

type UploadResponse struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	Files       []UploadedFileResponse `json:"files"`
	Count       int                    `json:"count"`
	StorageType string                 `json:"storage_type"`
	Warnings    []string               `json:"warnings,omitempty"`
}

type UploadErrorResponse struct {
	Success     bool                 `json:"success"`
	Error       string               `json:"error"`
	Details     []string             `json:"details"`
	FailedFiles []FailedFileResponse `json:"failed_files"`
}
