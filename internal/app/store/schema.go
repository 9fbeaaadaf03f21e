package store

// Collection names.
const (
	Applications        = "applications"
	Students            = "students"
	MedicalInfo         = "medical_info"
	FamilyInfo          = "family_info"
	FeeResponsibility   = "fee_responsibility"
	AcademicHistory     = "academic_history"
	Declarations        = "declarations"
	FinancingSelections = "financing_selections"
	Documents           = "documents"
	ApplicationDocs     = "application_documents"
	UploadSummaryView   = "application_upload_summary"
	RiskReports         = "risk_reports"
	Payments            = "payments"
)

// ProcMarkUploadComplete flags one document type of an application as complete.
const ProcMarkUploadComplete = "mark_upload_complete"

// Schema describes the columns a collection accepts.
type Schema struct {
	Columns  []string
	ReadOnly bool
	// Updated is false for collections without an updated_at column.
	Updated bool

	set map[string]struct{}
}

// Has reports whether column is part of the allow-list.
func (s *Schema) Has(column string) bool {
	_, ok := s.set[column]
	return ok
}

var sectionAudit = []string{"id", "application_id", "created_at", "updated_at"}

func withAudit(cols ...string) []string {
	return append(append([]string{}, sectionAudit...), cols...)
}

var schemas = map[string]*Schema{
	Applications: {
		Columns: []string{"id", "user_id", "status", "documents_completed", "created_at", "updated_at", "submitted_at"},
		Updated: true,
	},
	Students: {
		Columns: withAudit("surname", "first_name", "middle_name", "preferred_name", "date_of_birth", "gender",
			"home_language", "id_number", "previous_grade", "grade_applied_for", "previous_school"),
		Updated: true,
	},
	MedicalInfo: {
		Columns: withAudit("medical_aid_name", "member_number", "conditions", "allergies"),
		Updated: true,
	},
	FamilyInfo: {
		Columns: withAudit(
			"father_surname", "father_first_name", "father_id_number", "father_mobile", "father_email",
			"mother_surname", "mother_first_name", "mother_id_number", "mother_mobile", "mother_email",
			"next_of_kin_surname", "next_of_kin_first_name", "next_of_kin_relationship",
			"next_of_kin_mobile", "next_of_kin_email"),
		Updated: true,
	},
	FeeResponsibility: {
		Columns: withAudit("fee_person", "relationship", "fee_terms_accepted", "selected_plan"),
		Updated: true,
	},
	AcademicHistory: {
		Columns: withAudit("school_name", "school_type", "last_grade_completed", "academic_year_completed",
			"reason_for_leaving", "principal_name", "school_phone_number", "school_email",
			"school_address", "additional_notes", "report_card_url"),
		Updated: true,
	},
	Declarations: {
		Columns: withAudit("agree_truth", "agree_policies", "agree_financial", "agree_verification",
			"agree_data_processing", "agree_audit_storage", "agree_affordability_processing",
			"full_name", "city", "date_signed", "status"),
		Updated: true,
	},
	FinancingSelections: {
		Columns: withAudit("plan_type", "discount_rate", "cost_of_credit", "repayment_term"),
		Updated: true,
	},
	Documents: {
		Columns: []string{"id", "application_id", "uploaded_by", "filename", "original_filename", "file_size",
			"content_type", "document_type", "bucket_name", "file_path", "download_url", "created_at"},
	},
	ApplicationDocs: {
		Columns: withAudit("user_id", "file_id", "document_type", "file_url", "upload_status"),
		Updated: true,
	},
	UploadSummaryView: {
		Columns:  []string{"application_id", "completed_categories", "uploaded_types"},
		ReadOnly: true,
	},
	RiskReports: {
		Columns: []string{"id", "application_id", "reference", "guardian_email", "guardian_name",
			"guardian_id_number", "branch_code", "account_number", "risk_score", "flags", "status",
			"raw_response", "timestamp", "created_at"},
	},
	Payments: {
		Columns: withAudit("user_id", "reference", "status", "amount", "currency", "plan_type",
			"description", "redirect_url", "completed_at"),
		Updated: true,
	},
}

func init() {
	for _, s := range schemas {
		s.set = make(map[string]struct{}, len(s.Columns))
		for _, c := range s.Columns {
			s.set[c] = struct{}{}
		}
	}
}

// SchemaFor returns the schema of a collection.
func SchemaFor(collection string) (*Schema, error) {
	s, ok := schemas[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}
	return s, nil
}

// Sanitize drops every field of rec that is not a column of collection.
// Dropped field names are returned for logging.
func Sanitize(collection string, rec Record) (Record, []string, error) {
	s, err := SchemaFor(collection)
	if err != nil {
		return nil, nil, err
	}
	out := make(Record, len(rec))
	var dropped []string
	for k, v := range rec {
		if s.Has(k) {
			out[k] = v
			continue
		}
		dropped = append(dropped, k)
	}
	return out, dropped, nil
}
