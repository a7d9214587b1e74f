package payments

import (
	"context"
	"encoding/json"
	"time"
)

// Gateway is the outbound side of a payment provider: open an intent, get
// back the provider's id and what the customer needs to pay it.
type Gateway interface {
	Name() string
	CreateVirtualAccount(ctx context.Context, req VirtualAccountRequest) (VirtualAccount, error)
	CreateQRCharge(ctx context.Context, req QRRequest) (QRCharge, error)
}

type VirtualAccountRequest struct {
	ExternalID string
	BankCode   string
	Name       string
	Amount     int64
	ExpiresAt  time.Time
}

type VirtualAccount struct {
	ID            string
	AccountNumber string
	ExpiresAt     time.Time
	Raw           json.RawMessage
}

type QRRequest struct {
	ExternalID  string
	Amount      int64
	CallbackURL string
	ExpiresAt   time.Time
}

type QRCharge struct {
	ID        string
	QRString  string
	ExpiresAt time.Time
	Status    string
	Raw       json.RawMessage
}
