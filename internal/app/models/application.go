package models

import "time"

// ApplicationStatus is the lifecycle state of an application
type ApplicationStatus string

const (
	StatusInProgress ApplicationStatus = "in_progress"
	StatusSubmitted  ApplicationStatus = "submitted"
	StatusApproved   ApplicationStatus = "approved"
	StatusRejected   ApplicationStatus = "rejected"
	StatusCompleted  ApplicationStatus = "completed"
)

// IsFinal reports whether the application has been decided and can no longer be resubmitted.
func (s ApplicationStatus) IsFinal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCompleted
}

// Application is the aggregate root of one enrollment attempt
type Application struct {
	ID                 string            `json:"id" db:"id"`
	UserID             *string           `json:"user_id" db:"user_id"`
	Status             ApplicationStatus `json:"status" db:"status"`
	DocumentsCompleted bool              `json:"documents_completed" db:"documents_completed"`
	CreatedAt          time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at" db:"updated_at"`
	SubmittedAt        *time.Time        `json:"submitted_at,omitempty" db:"submitted_at"`
}

// Section names an application sub-record
type Section string

const (
	SectionStudent     Section = "student"
	SectionMedical     Section = "medical"
	SectionFamily      Section = "family"
	SectionFee         Section = "fee"
	SectionAcademic    Section = "academic_history"
	SectionDeclaration Section = "declaration"
)

// AutoSaveSections is the fixed write order of an auto-save.
var AutoSaveSections = []Section{SectionStudent, SectionMedical, SectionFamily, SectionFee}

// SubmissionSections is the fixed write order of a full submission.
var SubmissionSections = []Section{
	SectionStudent, SectionMedical, SectionFamily, SectionFee, SectionAcademic, SectionDeclaration,
}
