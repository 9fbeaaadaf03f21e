package dto

// AcademicHistoryInfo is the previous-school section
type AcademicHistoryInfo struct {
	SchoolName            string  `json:"school_name" validate:"required,min=1,max=200"`
	SchoolType            string  `json:"school_type" validate:"required,min=1,max=50"`
	LastGradeCompleted    string  `json:"last_grade_completed" validate:"required,min=1,max=20"`
	AcademicYearCompleted string  `json:"academic_year_completed" validate:"required,len=4"`
	ReasonForLeaving      *string `json:"reason_for_leaving"`
	PrincipalName         *string `json:"principal_name" validate:"omitempty,max=100"`
	SchoolPhoneNumber     *string `json:"school_phone_number" validate:"omitempty,max=20"`
	SchoolEmail           *string `json:"school_email"`
	SchoolAddress         *string `json:"school_address"`
	AdditionalNotes       *string `json:"additional_notes"`
	ReportCardURL         *string `json:"report_card_url"`
}

// AcademicHistoryCreateRequest creates or replaces the academic history of an application
type AcademicHistoryCreateRequest struct {
	ApplicationID string `json:"application_id" validate:"required,min=1"`
	AcademicHistoryInfo
}

// AcademicHistoryUpdateRequest changes only the supplied fields
type AcademicHistoryUpdateRequest struct {
	SchoolName            *string `json:"school_name" validate:"omitempty,min=1,max=200"`
	SchoolType            *string `json:"school_type" validate:"omitempty,min=1,max=50"`
	LastGradeCompleted    *string `json:"last_grade_completed" validate:"omitempty,min=1,max=20"`
	AcademicYearCompleted *string `json:"academic_year_completed" validate:"omitempty,len=4"`
	ReasonForLeaving      *string `json:"reason_for_leaving"`
	PrincipalName         *string `json:"principal_name" validate:"omitempty,max=100"`
	SchoolPhoneNumber     *string `json:"school_phone_number" validate:"omitempty,max=20"`
	SchoolEmail           *string `json:"school_email"`
	SchoolAddress         *string `json:"school_address"`
	AdditionalNotes       *string `json:"additional_notes"`
	ReportCardURL         *string `json:"report_card_url"`
}
