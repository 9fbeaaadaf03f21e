package dto

import "time"

// GuardianDetails identifies the guardian whose bank account is checked
type GuardianDetails struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	IDNumber      string `json:"id_number"`
	BranchCode    string `json:"branch_code"`
	AccountNumber string `json:"account_number"`
}

// RiskCheckRequest runs a banking risk check
type RiskCheckRequest struct {
	Reference     string          `json:"reference" validate:"required"`
	ApplicationID *string         `json:"application_id"`
	Guardian      GuardianDetails `json:"guardian"`
}

// RiskReportResponse is the outcome of a risk check
type RiskReportResponse struct {
	Reference string    `json:"reference"`
	RiskScore float64   `json:"risk_score"`
	Status    string    `json:"status"`
	Flags     []string  `json:"flags"`
	Timestamp time.Time `json:"timestamp"`
}
