package dto

import "time"

// DocumentFileRef is one file listed under a document status
type DocumentFileRef struct {
	FileURL  string `json:"file_url"`
	Filename string `json:"filename"`
}

// DocumentStatus is the completion of one document category
type DocumentStatus struct {
	DocumentType  string            `json:"document_type"`
	UploadedCount int               `json:"uploaded_count"`
	RequiredCount int               `json:"required_count"`
	Completed     bool              `json:"completed"`
	Files         []DocumentFileRef `json:"files"`
}

// DocumentStatusResponse lists the status of every required category
type DocumentStatusResponse struct {
	ApplicationID string           `json:"application_id"`
	AllCompleted  bool             `json:"all_completed"`
	Summary       []DocumentStatus `json:"summary"`
}

// UploadedFileResponse describes a stored file
type UploadedFileResponse struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	ContentType      string    `json:"content_type"`
	DocumentType     string    `json:"document_type"`
	DownloadURL      string    `json:"download_url"`
	CreatedAt        time.Time `json:"created_at"`
}

// FileUploadResponse is returned after a successful upload
type FileUploadResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	File    UploadedFileResponse `json:"file"`
}

// UploadedFilesResponse lists the files of an application
type UploadedFilesResponse struct {
	Files []UploadedFileResponse `json:"files"`
}

// CompleteUploadRequest marks the document step of an application as done
type CompleteUploadRequest struct {
	ApplicationID string `json:"application_id" validate:"required"`
}

// UploadFile is the transport-neutral form of a multipart upload
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
