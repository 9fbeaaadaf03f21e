package netcash

import (
	"context"
	"time"

	"github.com/tidwall/gjson"
)

// BankAccount identifies the account under review
type BankAccount struct {
	BranchCode    string `json:"BranchCode"`
	AccountNumber string `json:"AccountNumber"`
}

// Customer is the account holder
type Customer struct {
	Name        string      `json:"Name"`
	Email       string      `json:"Email"`
	IDNumber    string      `json:"IdNumber"`
	BankAccount BankAccount `json:"BankAccount"`
}

// RiskRequest is the GetRiskReport body
type RiskRequest struct {
	Reference string   `json:"Reference"`
	Customer  Customer `json:"Customer"`
}

// RiskResult is the parsed GetRiskReport reply
type RiskResult struct {
	// RiskScore is DefaultRiskScore when the reply carries none.
	RiskScore float64
	Flags     []string
	Raw       map[string]interface{}
}

// DefaultRiskScore is assumed when the provider omits a score
const DefaultRiskScore = 50.0

// RiskClient calls the risk-report service
type RiskClient struct {
	http       httpClient
	serviceKey string
}

// NewRiskClient creates a client. A zero timeout defaults to 30 seconds.
func NewRiskClient(baseURL, serviceKey string, timeout time.Duration) *RiskClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RiskClient{
		http:       newHTTPClient(baseURL, timeout),
		serviceKey: serviceKey,
	}
}

// GetRiskReport requests a report for the customer's bank account
func (c *RiskClient) GetRiskReport(ctx context.Context, req RiskRequest) (*RiskResult, error) {
	reply, err := c.http.postJSON(ctx, "/GetRiskReport", map[string]string{"ServiceKey": c.serviceKey}, req)
	if err != nil {
		return nil, err
	}

	result := &RiskResult{RiskScore: DefaultRiskScore, Flags: []string{}}
	if score := reply.Get("RiskScore"); score.Exists() && score.Type != gjson.Null {
		result.RiskScore = score.Float()
	}
	for _, flag := range reply.Get("Flags").Array() {
		result.Flags = append(result.Flags, flag.String())
	}
	if raw, ok := reply.Value().(map[string]interface{}); ok {
		result.Raw = raw
	}
	return result, nil
}
