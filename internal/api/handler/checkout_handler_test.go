package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/service"
)

type stubCheckoutService struct {
	service.CheckoutService
	calls int
}

func (s *stubCheckoutService) Checkout(_ context.Context, in service.CheckoutInput) (*service.CheckoutResult, error) {
	s.calls++
	return &service.CheckoutResult{
		Order:  &model.Order{ID: "ord-1", PaymentMethod: in.PaymentMethod},
		Status: model.PaymentPending,
	}, nil
}

func checkoutRouter(svc service.CheckoutService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
	h := New(nil, nil, svc, nil, nil, nil, nil, nil, nil, nil, nil)
	r := gin.New()
	r.POST("/api/v1/checkout", h.Checkout)
	return r
}

func postCheckout(t *testing.T, r *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutRejectsUnknownPaymentMethodAtBinding(t *testing.T) {
	svc := &stubCheckoutService{}
	w := postCheckout(t, checkoutRouter(svc), map[string]any{
		"payment_method": "PAYPAL",
		"items":          []map[string]any{{"kind": "COURSE", "product_id": "c1"}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls, "invalid methods never reach the service")
}

func TestCheckoutAcceptsKnownPaymentMethods(t *testing.T) {
	svc := &stubCheckoutService{}
	r := checkoutRouter(svc)

	for _, m := range []string{"PIX", "BOLETO", "CREDIT_CARD"} {
		w := postCheckout(t, r, map[string]any{
			"payment_method": m,
			"items":          []map[string]any{{"kind": "COURSE", "product_id": "c1"}},
		})
		assert.Equal(t, http.StatusCreated, w.Code, "method %s", m)
	}
	assert.Equal(t, 3, svc.calls)
}
