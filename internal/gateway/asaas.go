package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/studahub/backend/pkg/logger"
)

var ErrMissingAPIKey = errors.New("missing gateway api key")

// GatewayError carries the upstream error message; handlers surface it to the
// client with a 400 and no retry, so a failed charge leaves the order PENDING.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway: %s (http %d)", e.Message, e.StatusCode)
}

// Charge statuses the gateway reports. CONFIRMED and RECEIVED both mean the
// money is settled for our purposes.
const (
	ChargeConfirmed = "CONFIRMED"
	ChargeReceived  = "RECEIVED"
	ChargePending   = "PENDING"
)

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	CPFCnpj string `json:"cpfCnpj,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type ChargeRequest struct {
	CustomerID        string  `json:"customer"`
	BillingType       string  `json:"billingType"` // PIX, BOLETO, CREDIT_CARD, DEBIT_CARD
	ValueCents        int64   `json:"-"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate,omitempty"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`

	CardToken string `json:"creditCardToken,omitempty"`
}

type Charge struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	BankSlipURL       string `json:"bankSlipUrl,omitempty"`
	InvoiceURL        string `json:"invoiceUrl,omitempty"`
	ExternalReference string `json:"externalReference,omitempty"`
}

type PixQRCode struct {
	Payload string `json:"payload"`
	Image   string `json:"encodedImage,omitempty"`
}

// Client is the payment gateway surface checkout depends on; the REST
// implementation below talks to an Asaas-compatible API.
type Client interface {
	CreateCustomer(ctx context.Context, c Customer) (string, error)
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
	GetPixQRCode(ctx context.Context, chargeID string) (*PixQRCode, error)
}

type restClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) (Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &restClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *restClient) CreateCustomer(ctx context.Context, cust Customer) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v3/customers", cust, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *restClient) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	// The API takes decimal reais; orders store integer cents.
	if req.ValueCents > 0 {
		req.Value = float64(req.ValueCents) / 100
	}
	var out Charge
	if err := c.do(ctx, http.MethodPost, "/v3/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) GetPixQRCode(ctx context.Context, chargeID string) (*PixQRCode, error) {
	var out PixQRCode
	if err := c.do(ctx, http.MethodGet, "/v3/payments/"+chargeID+"/pixQrCode", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		logger.Warn("gateway request failed",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return &GatewayError{StatusCode: resp.StatusCode, Message: extractErrorMessage(raw)}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// extractErrorMessage decodes the provider's error envelope:
// {"errors":[{"code":"...","description":"..."}]}
func extractErrorMessage(raw []byte) string {
	var envelope struct {
		Errors []struct {
			Description string `json:"description"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Errors) > 0 {
		return envelope.Errors[0].Description
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = "request rejected"
	}
	return msg
}
