package models

import (
	"sort"
	"time"
)

// DocumentType is the category of an uploaded document
type DocumentType string

const (
	DocProofOfAddress  DocumentType = "proof_of_address"
	DocIDDocument      DocumentType = "id_document"
	DocPayslip         DocumentType = "payslip"
	DocBankStatement   DocumentType = "bank_statement"
	DocAcademicHistory DocumentType = "academic_history"
	DocTranscript      DocumentType = "transcript"
)

var documentBuckets = map[DocumentType]string{
	DocProofOfAddress:  "proof_of_address",
	DocIDDocument:      "id_documents",
	DocPayslip:         "payslips",
	DocBankStatement:   "bank_statements",
	DocAcademicHistory: "academic_history",
	DocTranscript:      "id_documents",
}

// Bucket returns the storage bucket for uploads of this type.
func (d DocumentType) Bucket() (string, bool) {
	b, ok := documentBuckets[d]
	return b, ok
}

// RequiredDocuments maps each gated category to the number of files it needs.
var RequiredDocuments = map[DocumentType]int{
	DocProofOfAddress: 1,
	DocIDDocument:     1,
	DocPayslip:        1,
	DocBankStatement:  1,
}

// RequiredDocumentTypes returns the gated categories in display order.
func RequiredDocumentTypes() []DocumentType {
	return []DocumentType{DocProofOfAddress, DocIDDocument, DocPayslip, DocBankStatement}
}

// UploadStatusCompleted marks a progress entry whose file is stored.
const UploadStatusCompleted = "completed"

// UploadedFile is the storage bookkeeping row of one file
type UploadedFile struct {
	ID               string       `json:"id" db:"id"`
	ApplicationID    string       `json:"application_id" db:"application_id"`
	UploadedBy       string       `json:"uploaded_by" db:"uploaded_by"`
	Filename         string       `json:"filename" db:"filename"`
	OriginalFilename string       `json:"original_filename" db:"original_filename"`
	DocumentType     DocumentType `json:"document_type" db:"document_type"`
	BucketName       string       `json:"bucket_name" db:"bucket_name"`
	FilePath         string       `json:"file_path" db:"file_path"`
	DownloadURL      string       `json:"download_url" db:"download_url"`
	FileSize         int64        `json:"file_size" db:"file_size"`
	ContentType      string       `json:"content_type" db:"content_type"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
}

// DocumentProgressEntry gates completion for one uploaded file
type DocumentProgressEntry struct {
	ID            string       `json:"id" db:"id"`
	ApplicationID string       `json:"application_id" db:"application_id"`
	UserID        string       `json:"user_id" db:"user_id"`
	FileID        string       `json:"file_id" db:"file_id"`
	DocumentType  DocumentType `json:"document_type" db:"document_type"`
	FileURL       string       `json:"file_url" db:"file_url"`
	UploadStatus  string       `json:"upload_status" db:"upload_status"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}

// UploadSummary is the per-application completion rollup
type UploadSummary struct {
	CompletedCategories int      `json:"completed_categories"`
	UploadedTypes       []string `json:"uploaded_types"`
}

// SummaryFromEntries derives the rollup from completed progress entries.
func SummaryFromEntries(entries []DocumentProgressEntry) UploadSummary {
	seen := make(map[string]struct{})
	types := []string{}
	for _, e := range entries {
		if e.UploadStatus != UploadStatusCompleted {
			continue
		}
		t := string(e.DocumentType)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	sort.Strings(types)
	return UploadSummary{CompletedCategories: len(types), UploadedTypes: types}
}
