package models

import "time"

// AcademicHistory is the previous-school record of an application
type AcademicHistory struct {
	ID                    string    `json:"id" db:"id"`
	ApplicationID         string    `json:"application_id" db:"application_id"`
	SchoolName            string    `json:"school_name" db:"school_name"`
	SchoolType            string    `json:"school_type" db:"school_type"`
	LastGradeCompleted    string    `json:"last_grade_completed" db:"last_grade_completed"`
	AcademicYearCompleted string    `json:"academic_year_completed" db:"academic_year_completed"`
	ReasonForLeaving      *string   `json:"reason_for_leaving" db:"reason_for_leaving"`
	PrincipalName         *string   `json:"principal_name" db:"principal_name"`
	SchoolPhoneNumber     *string   `json:"school_phone_number" db:"school_phone_number"`
	SchoolEmail           *string   `json:"school_email" db:"school_email"`
	SchoolAddress         *string   `json:"school_address" db:"school_address"`
	AdditionalNotes       *string   `json:"additional_notes" db:"additional_notes"`
	ReportCardURL         *string   `json:"report_card_url" db:"report_card_url"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

// Declaration is the signed consent record of an application
type Declaration struct {
	ID                           string    `json:"id" db:"id"`
	ApplicationID                string    `json:"application_id" db:"application_id"`
	AgreeTruth                   bool      `json:"agree_truth" db:"agree_truth"`
	AgreePolicies                bool      `json:"agree_policies" db:"agree_policies"`
	AgreeFinancial               bool      `json:"agree_financial" db:"agree_financial"`
	AgreeVerification            bool      `json:"agree_verification" db:"agree_verification"`
	AgreeDataProcessing          bool      `json:"agree_data_processing" db:"agree_data_processing"`
	AgreeAuditStorage            bool      `json:"agree_audit_storage" db:"agree_audit_storage"`
	AgreeAffordabilityProcessing bool      `json:"agree_affordability_processing" db:"agree_affordability_processing"`
	FullName                     string    `json:"full_name" db:"full_name"`
	City                         *string   `json:"city" db:"city"`
	DateSigned                   string    `json:"date_signed" db:"date_signed"`
	Status                       string    `json:"status" db:"status"`
	CreatedAt                    time.Time `json:"created_at" db:"created_at"`
}

// DeclarationStatusCompleted is the default status of a standalone declaration.
const DeclarationStatusCompleted = "completed"
