package dto

import "github.com/shopspring/decimal"

// SelectPlanRequest saves the financing plan of an application
type SelectPlanRequest struct {
	ApplicationID string           `json:"application_id" validate:"required"`
	PlanType      string           `json:"plan_type" validate:"required"`
	DiscountRate  *decimal.Decimal `json:"discount_rate" swaggertype:"number"`
	CostOfCredit  *decimal.Decimal `json:"cost_of_credit" swaggertype:"number"`
	RepaymentTerm *string          `json:"repayment_term" validate:"omitempty,max=50"`
}
