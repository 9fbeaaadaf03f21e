package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a payment record
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

var gatewayStatuses = map[string]PaymentStatus{
	"COMPLETE":  PaymentCompleted,
	"SUCCESS":   PaymentCompleted,
	"FAILED":    PaymentFailed,
	"ERROR":     PaymentFailed,
	"CANCELLED": PaymentCancelled,
}

// PaymentStatusFromGateway maps a gateway transaction status. Unknown values return false.
func PaymentStatusFromGateway(status string) (PaymentStatus, bool) {
	s, ok := gatewayStatuses[status]
	return s, ok
}

// Payment is a payment initiated through the gateway
type Payment struct {
	ID            string          `json:"id" db:"id"`
	ApplicationID *string         `json:"application_id,omitempty" db:"application_id"`
	UserID        string          `json:"user_id" db:"user_id"`
	Reference     string          `json:"reference" db:"reference"`
	Status        PaymentStatus   `json:"status" db:"status"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Currency      string          `json:"currency" db:"currency"`
	PlanType      *string         `json:"plan_type" db:"plan_type"`
	Description   *string         `json:"description,omitempty" db:"description"`
	RedirectURL   *string         `json:"redirect_url,omitempty" db:"redirect_url"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at" db:"completed_at"`
}

// RiskStatus is the banded outcome of a risk check
type RiskStatus string

const (
	RiskLow    RiskStatus = "low"
	RiskMedium RiskStatus = "medium"
	RiskHigh   RiskStatus = "high"
)

// RiskStatusForScore bands a score: below 30 is low, below 70 medium, otherwise high.
func RiskStatusForScore(score float64) RiskStatus {
	switch {
	case score < 30:
		return RiskLow
	case score < 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskReport is the persisted outcome of one risk check
type RiskReport struct {
	ID               string                 `json:"id" db:"id"`
	ApplicationID    *string                `json:"application_id" db:"application_id"`
	Reference        string                 `json:"reference" db:"reference"`
	GuardianEmail    string                 `json:"guardian_email" db:"guardian_email"`
	GuardianName     string                 `json:"guardian_name" db:"guardian_name"`
	GuardianIDNumber string                 `json:"guardian_id_number" db:"guardian_id_number"`
	BranchCode       string                 `json:"branch_code" db:"branch_code"`
	AccountNumber    string                 `json:"account_number" db:"account_number"`
	RiskScore        float64                `json:"risk_score" db:"risk_score"`
	Flags            []string               `json:"flags" db:"flags"`
	Status           RiskStatus             `json:"status" db:"status"`
	RawResponse      map[string]interface{} `json:"raw_response" db:"raw_response"`
	Timestamp        time.Time              `json:"timestamp" db:"timestamp"`
}
