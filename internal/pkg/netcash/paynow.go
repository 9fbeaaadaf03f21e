package netcash

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMissingRedirect is returned when PayNow accepts a payment without a redirect
var ErrMissingRedirect = errors.New("missing redirect URL from Netcash")

// PaymentRequest is a PayNow create request
type PaymentRequest struct {
	Reference   string
	Amount      decimal.Decimal
	Description string
}

// PayNowClient creates hosted payments
type PayNowClient struct {
	http       httpClient
	serviceKey string
	currency   string
	returnURL  string
	notifyURL  string
}

// PayNowConfig configures a PayNowClient
type PayNowConfig struct {
	BaseURL    string
	ServiceKey string
	Currency   string
	ReturnURL  string
	NotifyURL  string
	Timeout    time.Duration
}

// NewPayNowClient creates a client. A zero timeout defaults to 10 seconds.
func NewPayNowClient(cfg PayNowConfig) *PayNowClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "ZAR"
	}
	return &PayNowClient{
		http:       newHTTPClient(cfg.BaseURL, cfg.Timeout),
		serviceKey: cfg.ServiceKey,
		currency:   cfg.Currency,
		returnURL:  cfg.ReturnURL,
		notifyURL:  cfg.NotifyURL,
	}
}

// Currency returns the currency payments are created in
func (c *PayNowClient) Currency() string {
	return c.currency
}

// CreatePayment registers the payment and returns the hosted-page redirect URL
func (c *PayNowClient) CreatePayment(ctx context.Context, req PaymentRequest) (string, error) {
	body := map[string]string{
		"service_key": c.serviceKey,
		"reference":   req.Reference,
		"amount":      req.Amount.StringFixed(2),
		"currency":    c.currency,
		"return_url":  c.returnURL,
		"notify_url":  c.notifyURL,
		"description": req.Description,
	}

	reply, err := c.http.postJSON(ctx, "/create", nil, body)
	if err != nil {
		return "", err
	}
	redirect := reply.Get("redirect_url").String()
	if redirect == "" {
		return "", ErrMissingRedirect
	}
	return redirect, nil
}
