package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest starts a gateway payment
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" swaggertype:"number"`
	Reference     string          `json:"reference" validate:"required,max=100"`
	Description   string          `json:"description" validate:"max=255"`
	ApplicationID *string         `json:"application_id"`
	PlanType      *string         `json:"plan_type"`
}

// PaymentResponse carries the gateway redirect
type PaymentResponse struct {
	PaymentID   string `json:"payment_id"`
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
	Status      string `json:"status"`
}

// WebhookPayload is the gateway callback body
type WebhookPayload struct {
	Reference         string   `json:"reference"`
	TransactionStatus string   `json:"transaction_status"`
	TransactionID     *string  `json:"transaction_id"`
	Amount            *float64 `json:"amount"`
	Currency          *string  `json:"currency"`
	Timestamp         *string  `json:"timestamp"`
}

// PaymentStatusResponse reports the current state of a payment
type PaymentStatusResponse struct {
	Reference   string          `json:"reference"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	PlanType    *string         `json:"plan_type"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at"`
}
