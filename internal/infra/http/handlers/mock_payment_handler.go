package handlers

import (
	"net/http"
)

const mockPaymentPage = `<!DOCTYPE html>
<html>
<head><title>Mock Payment</title></head>
<body>
  <h2>Mock Payment Helper</h2>
  <p>Simulate a successful payment webhook:</p>
  <pre>
curl -X POST http://localhost:8080/payments/webhook/mockpay \
  -H "Content-Type: application/json" \
  -d '{"status":"success","email":"student@example.com","name":"Test Student","amount":4999,"order_id":"MOCK_001"}'
  </pre>
  <p>Send the same body twice to verify the conversion is idempotent.</p>
</body>
</html>`

// MockPaymentHandler serves a development page describing how to simulate a
// provider webhook. Not mounted in production.
type MockPaymentHandler struct{}

func NewMockPaymentHandler() *MockPaymentHandler {
	return &MockPaymentHandler{}
}

func (h *MockPaymentHandler) Handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(mockPaymentPage))
}
