package paymentsrepo

import (
	"context"
	"encoding/json"
	"time"
)

// Log types written to payment_logs.
const (
	LogRequest  = "request"
	LogResponse = "response"
	LogWebhook  = "webhook"
	LogError    = "error"
)

type PaymentLog struct {
	ID        int64           `json:"id"`
	PaymentID int64           `json:"payment_id"`
	LogType   string          `json:"log_type"`
	Payload   json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
	CreatedAt time.Time       `json:"created_at"`
}

type LogsStore interface {
	InsertPaymentLog(ctx context.Context, paymentID int64, logType string, payload any) error
	ListPaymentLogs(ctx context.Context, paymentID int64) ([]PaymentLog, error)
}

// EncodePayload keeps raw JSON as is and marshals everything else. Payloads
// that cannot be encoded are stored as NULL; the row itself still matters.
func EncodePayload(payload any) []byte {
	switch v := payload.(type) {
	case nil:
		return nil
	case json.RawMessage:
		if json.Valid(v) {
			return v
		}
		return nil
	case []byte:
		if json.Valid(v) {
			return v
		}
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return b
}
