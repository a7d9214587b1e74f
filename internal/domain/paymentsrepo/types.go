package paymentsrepo

import (
	"context"
	"encoding/json"
	"time"
)

type Method string

const (
	MethodVA   Method = "VA"
	MethodQRIS Method = "QRIS"
)

func (m Method) Valid() bool { return m == MethodVA || m == MethodQRIS }

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusExpired Status = "EXPIRED"
	StatusFailed  Status = "FAILED"
)

// Terminal statuses are absorbing: nothing moves a payment out of them.
func (s Status) Terminal() bool { return s != StatusPending }

// OwnerKind says which table OwnerID points at.
type OwnerKind string

const (
	OwnerBooking     OwnerKind = "booking"
	OwnerTransaction OwnerKind = "transaction"
)

func (k OwnerKind) Valid() bool { return k == OwnerBooking || k == OwnerTransaction }

// Payment is one gateway charge. ExternalID is our reference, sent to the
// gateway and echoed back in webhooks.
type Payment struct {
	ID          int64           `json:"id"`
	ExternalID  string          `json:"external_id"`
	GatewayID   *string         `json:"gateway_id,omitempty" swaggertype:"string"`
	OwnerKind   OwnerKind       `json:"owner_kind"`
	OwnerID     int64           `json:"owner_id"`
	Method      Method          `json:"method"`
	Channel     *string         `json:"channel,omitempty" swaggertype:"string"`
	Amount      int64           `json:"amount"`
	PaidAmount  *int64          `json:"paid_amount,omitempty" swaggertype:"integer"`
	Status      Status          `json:"status"`
	DisplayData string          `json:"display_data"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Settled is what the owner should be credited with once the payment is PAID.
func (p *Payment) Settled() int64 {
	if p.PaidAmount != nil {
		return *p.PaidAmount
	}
	return p.Amount
}

type Filter struct {
	Status Status
	Limit  int
	Offset int
}

// Store returns nil, nil from the Get methods for unknown payments.
type Store interface {
	// Create fails with apperr.ErrConflict on a duplicate external id.
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	GetByExternalID(ctx context.Context, externalID string) (*Payment, error)
	GetByExternalIDForUpdate(ctx context.Context, externalID string) (*Payment, error)
	// Transition moves the payment from one status to another only if it is
	// still in from. It is the compare-and-set every status change goes through.
	Transition(ctx context.Context, id int64, from, to Status, paidAmount *int64, metadata []byte) (bool, error)
	List(ctx context.Context, f Filter) ([]*Payment, int, error)
	// ListUnsettled returns PAID payments whose owner never received the credit.
	ListUnsettled(ctx context.Context, limit int) ([]*Payment, error)
}
