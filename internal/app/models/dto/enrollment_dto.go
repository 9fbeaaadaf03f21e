package dto

import "time"

// StudentInfo is the full student section
type StudentInfo struct {
	Surname         string  `json:"surname" validate:"required,min=1,max=100"`
	FirstName       string  `json:"first_name" validate:"required,min=1,max=100"`
	MiddleName      *string `json:"middle_name" validate:"omitempty,max=100"`
	PreferredName   *string `json:"preferred_name" validate:"omitempty,max=100"`
	DateOfBirth     string  `json:"date_of_birth" validate:"required,isodate"`
	Gender          string  `json:"gender" validate:"required,oneof=male female other"`
	HomeLanguage    string  `json:"home_language" validate:"required,min=1,max=50"`
	IDNumber        string  `json:"id_number" validate:"required,sa_id"`
	PreviousGrade   string  `json:"previous_grade" validate:"required,min=1,max=20"`
	GradeAppliedFor string  `json:"grade_applied_for" validate:"required,min=1,max=20"`
	PreviousSchool  string  `json:"previous_school" validate:"required,min=1,max=100"`
}

// StudentInfoPartial is the auto-save variant of StudentInfo; nil fields are unset
type StudentInfoPartial struct {
	Surname         *string `json:"surname" validate:"omitempty,min=1,max=100"`
	FirstName       *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	MiddleName      *string `json:"middle_name" validate:"omitempty,max=100"`
	PreferredName   *string `json:"preferred_name" validate:"omitempty,max=100"`
	DateOfBirth     *string `json:"date_of_birth" validate:"omitempty,isodate"`
	Gender          *string `json:"gender" validate:"omitempty,oneof=male female other"`
	HomeLanguage    *string `json:"home_language" validate:"omitempty,min=1,max=50"`
	IDNumber        *string `json:"id_number" validate:"omitempty,sa_id"`
	PreviousGrade   *string `json:"previous_grade" validate:"omitempty,min=1,max=20"`
	GradeAppliedFor *string `json:"grade_applied_for" validate:"omitempty,min=1,max=20"`
	PreviousSchool  *string `json:"previous_school" validate:"omitempty,min=1,max=100"`
}

// MedicalInfo has no required fields, so one shape serves both save modes
type MedicalInfo struct {
	MedicalAidName *string  `json:"medical_aid_name" validate:"omitempty,max=100"`
	MemberNumber   *string  `json:"member_number" validate:"omitempty,max=50"`
	Conditions     []string `json:"conditions"`
	Allergies      *string  `json:"allergies" validate:"omitempty,max=500"`
}

// FamilyInfo has no required fields, so one shape serves both save modes
type FamilyInfo struct {
	FatherSurname   *string `json:"father_surname" validate:"omitempty,max=100"`
	FatherFirstName *string `json:"father_first_name" validate:"omitempty,max=100"`
	FatherIDNumber  *string `json:"father_id_number" validate:"omitempty,sa_id"`
	FatherMobile    *string `json:"father_mobile" validate:"omitempty,phone"`
	FatherEmail     *string `json:"father_email"`

	MotherSurname   *string `json:"mother_surname" validate:"omitempty,max=100"`
	MotherFirstName *string `json:"mother_first_name" validate:"omitempty,max=100"`
	MotherIDNumber  *string `json:"mother_id_number" validate:"omitempty,sa_id"`
	MotherMobile    *string `json:"mother_mobile" validate:"omitempty,phone"`
	MotherEmail     *string `json:"mother_email"`

	NextOfKinSurname      *string `json:"next_of_kin_surname" validate:"omitempty,max=100"`
	NextOfKinFirstName    *string `json:"next_of_kin_first_name" validate:"omitempty,max=100"`
	NextOfKinRelationship *string `json:"next_of_kin_relationship" validate:"omitempty,max=50"`
	NextOfKinMobile       *string `json:"next_of_kin_mobile" validate:"omitempty,phone"`
	NextOfKinEmail        *string `json:"next_of_kin_email"`
}

// FeeInfo is the full fee-responsibility section
type FeeInfo struct {
	FeePerson        string  `json:"fee_person" validate:"required,min=1,max=200"`
	Relationship     string  `json:"relationship" validate:"required,min=1,max=50"`
	FeeTermsAccepted bool    `json:"fee_terms_accepted"`
	SelectedPlan     *string `json:"selected_plan" validate:"omitempty,max=100"`
}

// FeeInfoPartial is the auto-save variant of FeeInfo
type FeeInfoPartial struct {
	FeePerson        *string `json:"fee_person" validate:"omitempty,min=1,max=200"`
	Relationship     *string `json:"relationship" validate:"omitempty,min=1,max=50"`
	FeeTermsAccepted *bool   `json:"fee_terms_accepted"`
	SelectedPlan     *string `json:"selected_plan" validate:"omitempty,max=100"`
}

// DeclarationInfo is the consent and signature section
type DeclarationInfo struct {
	AgreeTruth                   bool    `json:"agree_truth"`
	AgreePolicies                bool    `json:"agree_policies"`
	AgreeFinancial               bool    `json:"agree_financial"`
	AgreeVerification            bool    `json:"agree_verification"`
	AgreeDataProcessing          bool    `json:"agree_data_processing"`
	AgreeAuditStorage            bool    `json:"agree_audit_storage"`
	AgreeAffordabilityProcessing bool    `json:"agree_affordability_processing"`
	FullName                     string  `json:"full_name" validate:"required,min=1,max=150"`
	City                         *string `json:"city" validate:"omitempty,max=100"`
	DateSigned                   *string `json:"date_signed"`
	Status                       *string `json:"status" validate:"omitempty,max=20"`
}

// AutoSaveRequest carries any subset of the four core sections
type AutoSaveRequest struct {
	ApplicationID *string             `json:"application_id"`
	Student       *StudentInfoPartial `json:"student"`
	Medical       *MedicalInfo        `json:"medical"`
	Family        *FamilyInfo         `json:"family"`
	Fee           *FeeInfoPartial     `json:"fee"`
}

// AutoSaveResponse always accompanies a 200
type AutoSaveResponse struct {
	Message        string   `json:"message"`
	ApplicationID  string   `json:"application_id"`
	SavedSections  []string `json:"saved_sections"`
	FailedSections []string `json:"failed_sections"`
}

// SubmitEnrollmentRequest requires all four core sections
type SubmitEnrollmentRequest struct {
	Student *StudentInfo `json:"student"`
	Medical *MedicalInfo `json:"medical"`
	Family  *FamilyInfo  `json:"family"`
	Fee     *FeeInfo     `json:"fee"`
}

// SubmitApplicationRequest submits any present sections of an existing application
type SubmitApplicationRequest struct {
	ApplicationID   string               `json:"application_id" validate:"required,min=1"`
	Student         *StudentInfo         `json:"student"`
	Medical         *MedicalInfo         `json:"medical"`
	Family          *FamilyInfo          `json:"family"`
	Fee             *FeeInfo             `json:"fee"`
	AcademicHistory *AcademicHistoryInfo `json:"academic_history"`
	Declaration     *DeclarationInfo     `json:"declaration"`
	// Accepted for compatibility with older clients and not persisted.
	Subjects  map[string]interface{} `json:"subjects,omitempty" swaggerignore:"true"`
	Financing map[string]interface{} `json:"financing,omitempty" swaggerignore:"true"`
}

// SubmitResponse is returned by both submit endpoints
type SubmitResponse struct {
	Message       string     `json:"message"`
	ApplicationID string     `json:"application_id"`
	Status        string     `json:"status"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
}

// DeclarationRequest is a standalone declaration submission
type DeclarationRequest struct {
	ApplicationID *string `json:"application_id"`
	DeclarationInfo
}

// ApplicationResponse is the full application with its core sections
type ApplicationResponse struct {
	ID        string                 `json:"id"`
	Status    string                 `json:"status"`
	CreatedAt *time.Time             `json:"created_at"`
	Student   map[string]interface{} `json:"student"`
	Medical   map[string]interface{} `json:"medical"`
	Family    map[string]interface{} `json:"family"`
	Fee       map[string]interface{} `json:"fee"`
}

// DeclarationResponse confirms a saved declaration
type DeclarationResponse struct {
	Message       string `json:"message"`
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

// UploadSummaryResponse is the document rollup of an application
type UploadSummaryResponse struct {
	ApplicationID       string   `json:"application_id"`
	CompletedCategories int      `json:"completed_categories"`
	UploadedTypes       []string `json:"uploaded_types"`
}
