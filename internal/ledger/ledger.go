// Package ledger owns Payment records and their status machine:
// PENDING -> PAID | EXPIRED | FAILED, where every terminal state is absorbing.
// MarkPaid is the only way into PAID and it carries the cascade to the
// owning booking or transaction in the same database transaction.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"arena/internal/apperr"
	"arena/internal/booking"
	"arena/internal/domain/bookings"
	"arena/internal/domain/paymentsrepo"
	"arena/internal/domain/storage"
	"arena/internal/domain/transactions"
	"arena/internal/events"
	"arena/internal/payments"

	"go.uber.org/zap"
)

const (
	DefaultVAExpiry = 24 * time.Hour
	DefaultQRExpiry = 30 * time.Minute
)

// Outcome tells the caller what a status event did.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
)

type Options struct {
	VAExpiry    time.Duration
	QRExpiry    time.Duration
	CallbackURL string
	Events      events.Publisher
	Now         func() time.Time
}

type Ledger struct {
	store       storage.Store
	gateway     payments.Gateway
	bookings    *booking.Service
	refs        *References
	events      events.Publisher
	logger      *zap.SugaredLogger
	now         func() time.Time
	vaExpiry    time.Duration
	qrExpiry    time.Duration
	callbackURL string
}

func New(store storage.Store, gateway payments.Gateway, bookingSvc *booking.Service, refs *References, logger *zap.SugaredLogger, opts Options) *Ledger {
	l := &Ledger{
		store:       store,
		gateway:     gateway,
		bookings:    bookingSvc,
		refs:        refs,
		events:      opts.Events,
		logger:      logger,
		now:         opts.Now,
		vaExpiry:    opts.VAExpiry,
		qrExpiry:    opts.QRExpiry,
		callbackURL: opts.CallbackURL,
	}
	if l.events == nil {
		l.events = events.Noop{}
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.vaExpiry <= 0 {
		l.vaExpiry = DefaultVAExpiry
	}
	if l.qrExpiry <= 0 {
		l.qrExpiry = DefaultQRExpiry
	}
	return l
}

type OpenInput struct {
	OwnerKind paymentsrepo.OwnerKind
	OwnerID   int64
	Method    paymentsrepo.Method
	Channel   string // bank code, VA only
	Amount    int64  // zero charges the outstanding amount
}

// owner is what a payment needs to know about the thing it settles.
type owner struct {
	name        string
	outstanding int64
}

func (l *Ledger) loadOwner(ctx context.Context, r *storage.Repos, kind paymentsrepo.OwnerKind, id int64) (owner, error) {
	switch kind {
	case paymentsrepo.OwnerBooking:
		b, err := r.Bookings.GetByID(ctx, id)
		if err != nil {
			return owner{}, err
		}
		if b == nil {
			return owner{}, apperr.NotFound("booking not found")
		}
		if b.Status == bookings.StatusCancelled {
			return owner{}, apperr.Validation("booking is cancelled")
		}
		return owner{name: b.Customer.Name, outstanding: b.Outstanding()}, nil
	case paymentsrepo.OwnerTransaction:
		t, err := r.Transactions.GetByID(ctx, id)
		if err != nil {
			return owner{}, err
		}
		if t == nil {
			return owner{}, apperr.NotFound("transaction not found")
		}
		if t.Status == transactions.StatusPaid {
			return owner{}, apperr.Validation("transaction is already paid")
		}
		return owner{name: fmt.Sprintf("POS #%d", t.ID), outstanding: t.Total}, nil
	}
	return owner{}, apperr.Validation("owner kind must be booking or transaction")
}

// Open creates a gateway intent and records it as a PENDING payment. If the
// gateway call fails nothing is stored.
func (l *Ledger) Open(ctx context.Context, in OpenInput) (*paymentsrepo.Payment, error) {
	if !in.Method.Valid() {
		return nil, apperr.Validation("method must be VA or QRIS")
	}
	if in.Method == paymentsrepo.MethodVA && strings.TrimSpace(in.Channel) == "" {
		return nil, apperr.Validation("channel (bank code) is required for VA")
	}
	if in.Amount < 0 {
		return nil, apperr.Validation("amount cannot be negative")
	}

	repos := l.store.Repos()
	o, err := l.loadOwner(ctx, repos, in.OwnerKind, in.OwnerID)
	if err != nil {
		return nil, err
	}
	amount := in.Amount
	if amount == 0 {
		amount = o.outstanding
	}
	if amount <= 0 {
		return nil, apperr.Validation("nothing left to pay")
	}

	p := &paymentsrepo.Payment{
		ExternalID: l.refs.Next(in.OwnerKind, in.OwnerID),
		OwnerKind:  in.OwnerKind,
		OwnerID:    in.OwnerID,
		Method:     in.Method,
		Amount:     amount,
		Status:     paymentsrepo.StatusPending,
	}

	var raw json.RawMessage
	switch in.Method {
	case paymentsrepo.MethodVA:
		channel := strings.ToUpper(strings.TrimSpace(in.Channel))
		va, err := l.gateway.CreateVirtualAccount(ctx, payments.VirtualAccountRequest{
			ExternalID: p.ExternalID,
			BankCode:   channel,
			Name:       o.name,
			Amount:     amount,
			ExpiresAt:  l.now().Add(l.vaExpiry),
		})
		if err != nil {
			l.logger.Errorw("open virtual account failed", "external_id", p.ExternalID, "error", err)
			return nil, apperr.Gateway(err)
		}
		p.GatewayID = nonEmpty(va.ID)
		p.Channel = &channel
		p.DisplayData = va.AccountNumber
		p.ExpiresAt = timePtr(va.ExpiresAt)
		raw = va.Raw
	case paymentsrepo.MethodQRIS:
		qr, err := l.gateway.CreateQRCharge(ctx, payments.QRRequest{
			ExternalID:  p.ExternalID,
			Amount:      amount,
			CallbackURL: l.callbackURL,
			ExpiresAt:   l.now().Add(l.qrExpiry),
		})
		if err != nil {
			l.logger.Errorw("open qr charge failed", "external_id", p.ExternalID, "error", err)
			return nil, apperr.Gateway(err)
		}
		p.GatewayID = nonEmpty(qr.ID)
		p.DisplayData = qr.QRString
		p.ExpiresAt = timePtr(qr.ExpiresAt)
		raw = qr.Raw
	}

	if err := repos.Payments.Create(ctx, p); err != nil {
		// The intent exists at the gateway; its webhook will be acknowledged as unknown.
		l.logger.Errorw("store payment failed", "external_id", p.ExternalID, "gateway_id", p.GatewayID, "error", err)
		return nil, apperr.Persistence("store payment", err)
	}
	if err := repos.PayLogs.InsertPaymentLog(ctx, p.ID, paymentsrepo.LogRequest, map[string]any{
		"method":  p.Method,
		"channel": p.Channel,
		"amount":  p.Amount,
		"name":    o.name,
	}); err != nil {
		l.logger.Warnw("payment log insert failed", "external_id", p.ExternalID, "error", err)
	}
	if err := repos.PayLogs.InsertPaymentLog(ctx, p.ID, paymentsrepo.LogResponse, raw); err != nil {
		l.logger.Warnw("payment log insert failed", "external_id", p.ExternalID, "error", err)
	}

	l.logger.Infow("payment opened", "external_id", p.ExternalID, "owner_kind", p.OwnerKind, "owner_id", p.OwnerID, "method", p.Method, "amount", p.Amount)
	events.Emit(ctx, l.events, l.logger, events.PaymentOpened, paymentEvent(p))
	return p, nil
}

// Lookup returns nil, nil for an unknown reference.
func (l *Ledger) Lookup(ctx context.Context, externalID string) (*paymentsrepo.Payment, error) {
	p, err := l.store.Repos().Payments.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, apperr.Persistence("load payment", err)
	}
	return p, nil
}

func (l *Ledger) Get(ctx context.Context, externalID string) (*paymentsrepo.Payment, error) {
	p, err := l.Lookup(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("payment not found")
	}
	return p, nil
}

func (l *Ledger) List(ctx context.Context, f paymentsrepo.Filter) ([]*paymentsrepo.Payment, int, error) {
	return l.store.Repos().Payments.List(ctx, f)
}

func (l *Ledger) Logs(ctx context.Context, paymentID int64) ([]paymentsrepo.PaymentLog, error) {
	return l.store.Repos().PayLogs.ListPaymentLogs(ctx, paymentID)
}

// MarkPaid moves a PENDING payment to PAID and credits its owner with
// amount (the payment's own amount when amount is not positive). The raw
// event is written to the audit log first so a failed cascade can always be
// replayed. A payment that is already terminal is left untouched.
func (l *Ledger) MarkPaid(ctx context.Context, externalID string, amount int64, raw json.RawMessage) (Outcome, error) {
	p, err := l.Get(ctx, externalID)
	if err != nil {
		return "", err
	}
	if err := l.store.Repos().PayLogs.InsertPaymentLog(ctx, p.ID, paymentsrepo.LogWebhook, raw); err != nil {
		return "", apperr.Persistence("record webhook payload", err)
	}
	if p.Status.Terminal() {
		l.logger.Infow("paid event for terminal payment ignored", "external_id", externalID, "status", p.Status)
		return OutcomeDuplicate, nil
	}

	outcome := OutcomeDuplicate
	var settled int64
	err = l.store.WithTx(ctx, func(r *storage.Repos) error {
		cur, err := r.Payments.GetByExternalIDForUpdate(ctx, externalID)
		if err != nil {
			return err
		}
		if cur == nil || cur.Status != paymentsrepo.StatusPending {
			return nil
		}

		settled = amount
		if settled <= 0 {
			settled = cur.Amount
		}
		if settled != cur.Amount {
			l.logger.Warnw("paid amount differs from requested", "external_id", externalID, "requested", cur.Amount, "paid", settled)
		}

		ok, err := r.Payments.Transition(ctx, cur.ID, paymentsrepo.StatusPending, paymentsrepo.StatusPaid, &settled, metadata(raw))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		cur.Status, cur.PaidAmount = paymentsrepo.StatusPaid, &settled
		if err := l.cascade(ctx, r, cur, settled); err != nil {
			return err
		}
		outcome = OutcomeApplied
		return nil
	})
	if err != nil {
		l.logger.Errorw("apply paid payment failed", "external_id", externalID, "error", err)
		return "", apperr.Persistence("apply paid payment", err)
	}

	if outcome == OutcomeApplied {
		p.Status, p.PaidAmount = paymentsrepo.StatusPaid, &settled
		l.logger.Infow("payment paid", "external_id", externalID, "owner_kind", p.OwnerKind, "owner_id", p.OwnerID, "amount", settled)
		events.Emit(ctx, l.events, l.logger, events.PaymentPaid, paymentEvent(p))
	}
	return outcome, nil
}

// MarkTerminal records EXPIRED or FAILED. Only a PENDING payment changes and
// the owner is never touched: the customer can simply pay again.
func (l *Ledger) MarkTerminal(ctx context.Context, externalID string, status paymentsrepo.Status, raw json.RawMessage) (Outcome, error) {
	if status != paymentsrepo.StatusExpired && status != paymentsrepo.StatusFailed {
		return "", apperr.Validation("terminal status must be EXPIRED or FAILED")
	}
	p, err := l.Get(ctx, externalID)
	if err != nil {
		return "", err
	}
	repos := l.store.Repos()
	if err := repos.PayLogs.InsertPaymentLog(ctx, p.ID, paymentsrepo.LogWebhook, raw); err != nil {
		return "", apperr.Persistence("record webhook payload", err)
	}

	ok, err := repos.Payments.Transition(ctx, p.ID, paymentsrepo.StatusPending, status, nil, metadata(raw))
	if err != nil {
		return "", apperr.Persistence("update payment status", err)
	}
	if !ok {
		l.logger.Infow("terminal event ignored", "external_id", externalID, "current", p.Status, "event", status)
		return OutcomeDuplicate, nil
	}

	p.Status = status
	l.logger.Infow("payment closed", "external_id", externalID, "status", status)
	events.Emit(ctx, l.events, l.logger, events.PaymentTerminal, paymentEvent(p))
	return OutcomeApplied, nil
}

// cascade credits the owner of a payment that just became PAID. Booking
// credits are keyed by the payment's external id. A transaction is flipped
// with a compare-and-set and only the payment that wins it credits the
// linked booking.
func (l *Ledger) cascade(ctx context.Context, r *storage.Repos, p *paymentsrepo.Payment, amount int64) error {
	switch p.OwnerKind {
	case paymentsrepo.OwnerBooking:
		return l.creditBooking(ctx, r, p.OwnerID, p.ExternalID, amount)
	case paymentsrepo.OwnerTransaction:
		t, err := r.Transactions.GetByID(ctx, p.OwnerID)
		if err != nil {
			return err
		}
		if t == nil {
			l.logger.Warnw("paid payment has no transaction", "external_id", p.ExternalID, "transaction_id", p.OwnerID)
			return nil
		}
		marked, err := r.Transactions.MarkPaid(ctx, t.ID, amount, l.now())
		if err != nil {
			return err
		}
		if !marked {
			// Settled by cash or an earlier intent; the money is recorded
			// on the payment but the booking is not credited twice.
			l.logger.Warnw("transaction already settled", "external_id", p.ExternalID, "transaction_id", t.ID, "amount", amount)
			return r.PayLogs.InsertPaymentLog(ctx, p.ID, paymentsrepo.LogError, map[string]any{
				"reason":         "transaction already settled",
				"transaction_id": t.ID,
				"amount":         amount,
			})
		}
		if t.BookingID != nil {
			return l.creditBooking(ctx, r, *t.BookingID, p.ExternalID, amount)
		}
		return nil
	}
	return fmt.Errorf("unknown owner kind %q", p.OwnerKind)
}

func (l *Ledger) creditBooking(ctx context.Context, r *storage.Repos, bookingID int64, reference string, amount int64) error {
	_, _, err := l.bookings.ApplyPaymentTx(ctx, r, bookingID, reference, amount)
	if errors.Is(err, apperr.ErrNotFound) {
		l.logger.Warnw("paid payment for deleted booking", "booking_id", bookingID, "reference", reference)
		return nil
	}
	return err
}

// Unsettled lists PAID payments whose owner was never credited.
func (l *Ledger) Unsettled(ctx context.Context, limit int) ([]*paymentsrepo.Payment, error) {
	return l.store.Repos().Payments.ListUnsettled(ctx, limit)
}

// RepairStuck re-runs the cascade for PAID payments whose owner was never
// credited. It returns how many were repaired; failures are logged and
// joined into the returned error.
func (l *Ledger) RepairStuck(ctx context.Context, limit int) (int, error) {
	stuck, err := l.Unsettled(ctx, limit)
	if err != nil {
		return 0, err
	}

	var (
		repaired int
		errs     []error
	)
	for _, p := range stuck {
		err := l.store.WithTx(ctx, func(r *storage.Repos) error {
			cur, err := r.Payments.GetByExternalIDForUpdate(ctx, p.ExternalID)
			if err != nil {
				return err
			}
			if cur == nil || cur.Status != paymentsrepo.StatusPaid {
				return nil
			}
			return l.cascade(ctx, r, cur, cur.Settled())
		})
		if err != nil {
			l.logger.Errorw("repair stuck payment failed", "external_id", p.ExternalID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.ExternalID, err))
			continue
		}
		l.logger.Infow("stuck payment repaired", "external_id", p.ExternalID, "owner_kind", p.OwnerKind, "owner_id", p.OwnerID)
		repaired++
	}
	return repaired, errors.Join(errs...)
}

func metadata(raw json.RawMessage) []byte {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	return raw
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func paymentEvent(p *paymentsrepo.Payment) events.Payment {
	return events.Payment{
		ExternalID: p.ExternalID,
		OwnerKind:  string(p.OwnerKind),
		OwnerID:    p.OwnerID,
		Method:     string(p.Method),
		Amount:     p.Settled(),
		Status:     string(p.Status),
	}
}
