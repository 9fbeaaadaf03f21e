package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanType identifies a financing plan
type PlanType string

const (
	PlanMonthlyFlat     PlanType = "monthly_flat"
	PlanTermlyDiscount  PlanType = "termly_discount"
	PlanAnnualDiscount  PlanType = "annual_discount"
	PlanSiblingDiscount PlanType = "sibling_discount"
	PlanBNPL            PlanType = "bnpl"
	PlanForwardFunding  PlanType = "forward_funding"
	PlanArrearsBNPL     PlanType = "arrears-bnpl"
)

var planLabels = map[PlanType]string{
	PlanMonthlyFlat:     "Pay Monthly Debit",
	PlanTermlyDiscount:  "Pay Per Term",
	PlanAnnualDiscount:  "Pay Once Per Year",
	PlanSiblingDiscount: "Sibling Benefit",
	PlanBNPL:            "Buy Now, Pay Later",
	PlanForwardFunding:  "Forward Funding",
	PlanArrearsBNPL:     "Buy Now, Pay Later",
}

// Label returns the display name written to fee_responsibility.selected_plan.
func (p PlanType) Label() (string, bool) {
	label, ok := planLabels[p]
	return label, ok
}

// Valid reports whether p is one of the known plans.
func (p PlanType) Valid() bool {
	_, ok := planLabels[p]
	return ok
}

// PlanTypes lists the accepted plans in a stable order
func PlanTypes() []PlanType {
	return []PlanType{
		PlanMonthlyFlat, PlanTermlyDiscount, PlanAnnualDiscount, PlanSiblingDiscount,
		PlanBNPL, PlanForwardFunding, PlanArrearsBNPL,
	}
}

// FinancingSelection is the active payment plan of an application
type FinancingSelection struct {
	ID            string           `json:"id" db:"id"`
	ApplicationID string           `json:"application_id" db:"application_id"`
	PlanType      PlanType         `json:"plan_type" db:"plan_type"`
	DiscountRate  *decimal.Decimal `json:"discount_rate" db:"discount_rate"`
	CostOfCredit  *decimal.Decimal `json:"cost_of_credit" db:"cost_of_credit"`
	RepaymentTerm *string          `json:"repayment_term" db:"repayment_term"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}
