package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"arena/internal/allocator"
	"arena/internal/apperr"
	"arena/internal/booking"
	"arena/internal/domain/bookings"
	"arena/internal/domain/paymentsrepo"
	"arena/internal/domain/storage"
	"arena/internal/ledger"
	"arena/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const secret = "whsec_test"

type fakeGateway struct{ n int }

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) CreateVirtualAccount(_ context.Context, req payments.VirtualAccountRequest) (payments.VirtualAccount, error) {
	g.n++
	return payments.VirtualAccount{ID: fmt.Sprintf("va-%d", g.n), AccountNumber: "880812345", ExpiresAt: req.ExpiresAt}, nil
}

func (g *fakeGateway) CreateQRCharge(_ context.Context, req payments.QRRequest) (payments.QRCharge, error) {
	g.n++
	return payments.QRCharge{ID: fmt.Sprintf("qr-%d", g.n), QRString: "000201" + req.ExternalID, ExpiresAt: req.ExpiresAt}, nil
}

type harness struct {
	bookings   *booking.Service
	ledger     *ledger.Ledger
	reconciler *Reconciler
	booking    *bookings.Booking
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t).Sugar()
	st := storage.NewMemory()
	codes, err := bookings.NewCodes("webhook")
	require.NoError(t, err)

	bsvc := booking.NewService(st, allocator.New(logger), codes, logger, booking.Options{})
	l := ledger.New(st, &fakeGateway{}, bsvc, ledger.NewReferences("refs"), logger, ledger.Options{})

	v, err := bsvc.CreateVenue(ctx, booking.VenueInput{Name: "Arena"})
	require.NoError(t, err)
	c, err := bsvc.CreateCourt(ctx, v.ID, "Court 1", 50_000)
	require.NoError(t, err)
	b, err := bsvc.Create(ctx, booking.CreateInput{
		VenueID: v.ID, CourtID: c.ID, Date: bookings.NewDate(2026, time.March, 14),
		Start: "10:00", Duration: 2, Customer: bookings.Customer{Name: "Sari"},
	})
	require.NoError(t, err)

	return &harness{
		bookings:   bsvc,
		ledger:     l,
		reconciler: NewReconciler(NewVerifier(secret, "", time.Minute), l, logger),
		booking:    b,
	}
}

func signed(body string) (http.Header, []byte) {
	h := http.Header{}
	h.Set(SignatureHeader, Sign(secret, time.Now(), []byte(body)))
	return h, []byte(body)
}

func (h *harness) deliver(t *testing.T, body string) Result {
	t.Helper()
	hdr, b := signed(body)
	res, err := h.reconciler.Handle(context.Background(), hdr, b)
	require.NoError(t, err)
	return res
}

func (h *harness) current(t *testing.T) *bookings.Booking {
	t.Helper()
	b, err := h.bookings.Get(context.Background(), h.booking.ID)
	require.NoError(t, err)
	return b
}

func TestDepositAndBalanceThroughWebhooks(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	va, err := h.ledger.Open(ctx, ledger.OpenInput{
		OwnerKind: paymentsrepo.OwnerBooking, OwnerID: h.booking.ID,
		Method: paymentsrepo.MethodVA, Channel: "BCA", Amount: 50_000,
	})
	require.NoError(t, err)

	vaPaid := fmt.Sprintf(`{"external_id":%q,"amount":50000,"bank_code":"BCA"}`, va.ExternalID)
	res := h.deliver(t, vaPaid)
	assert.Equal(t, string(ledger.OutcomeApplied), res.Outcome)
	assert.Equal(t, bookings.StatusDP, h.current(t).Status)

	res = h.deliver(t, vaPaid)
	assert.Equal(t, string(ledger.OutcomeDuplicate), res.Outcome)
	assert.Equal(t, int64(50_000), h.current(t).PaidAmount)

	qr, err := h.ledger.Open(ctx, ledger.OpenInput{OwnerKind: paymentsrepo.OwnerBooking, OwnerID: h.booking.ID, Method: paymentsrepo.MethodQRIS})
	require.NoError(t, err)

	res = h.deliver(t, fmt.Sprintf(`{"order_id":%q,"transaction_status":"settlement","gross_amount":"50000.00"}`, qr.ExternalID))
	assert.Equal(t, string(ledger.OutcomeApplied), res.Outcome)

	b := h.current(t)
	assert.Equal(t, bookings.StatusPaid, b.Status)
	assert.Equal(t, int64(100_000), b.PaidAmount)

	res = h.deliver(t, fmt.Sprintf(`{"external_id":%q,"status":"EXPIRED"}`, qr.ExternalID))
	assert.Equal(t, string(ledger.OutcomeDuplicate), res.Outcome)

	p, err := h.ledger.Get(ctx, qr.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, paymentsrepo.StatusPaid, p.Status)
}

func TestExpiredThenLatePaidIsAbsorbed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	qr, err := h.ledger.Open(ctx, ledger.OpenInput{OwnerKind: paymentsrepo.OwnerBooking, OwnerID: h.booking.ID, Method: paymentsrepo.MethodQRIS, Amount: 40_000})
	require.NoError(t, err)

	res := h.deliver(t, fmt.Sprintf(`{"external_id":%q,"status":"EXPIRED"}`, qr.ExternalID))
	assert.Equal(t, string(ledger.OutcomeApplied), res.Outcome)

	res = h.deliver(t, fmt.Sprintf(`{"external_id":%q,"status":"COMPLETED","amount":40000}`, qr.ExternalID))
	assert.Equal(t, string(ledger.OutcomeDuplicate), res.Outcome)

	b := h.current(t)
	assert.Equal(t, bookings.StatusPending, b.Status)
	assert.Zero(t, b.PaidAmount)
}

func TestAcknowledgedWithoutChange(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	qr, err := h.ledger.Open(ctx, ledger.OpenInput{OwnerKind: paymentsrepo.OwnerBooking, OwnerID: h.booking.ID, Method: paymentsrepo.MethodQRIS})
	require.NoError(t, err)

	cases := []struct {
		name    string
		body    string
		outcome string
	}{
		{"missing reference", `{"status":"PAID","amount":100000}`, OutcomeMissingReference},
		{"unknown reference", `{"external_id":"BK-999-AAAAAA-000000000000","status":"PAID"}`, OutcomeUnknownReference},
		{"pending", fmt.Sprintf(`{"external_id":%q,"status":"PENDING"}`, qr.ExternalID), OutcomeIgnoredStatus},
		{"unrecognised", fmt.Sprintf(`{"external_id":%q,"status":"REFUNDED"}`, qr.ExternalID), OutcomeIgnoredStatus},
		{"capture under fraud review", fmt.Sprintf(`{"order_id":%q,"transaction_status":"capture","fraud_status":"challenge","gross_amount":"100000.00"}`, qr.ExternalID), OutcomeIgnoredStatus},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.outcome, h.deliver(t, c.body).Outcome)
		})
	}

	p, err := h.ledger.Get(ctx, qr.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, paymentsrepo.StatusPending, p.Status)
	assert.Zero(t, h.current(t).PaidAmount)
}

type spyLedger struct {
	lookups   int
	lookupErr error
}

func (s *spyLedger) Lookup(context.Context, string) (*paymentsrepo.Payment, error) {
	s.lookups++
	return nil, s.lookupErr
}

func (s *spyLedger) MarkPaid(context.Context, string, int64, json.RawMessage) (ledger.Outcome, error) {
	return "", errors.New("unexpected MarkPaid")
}

func (s *spyLedger) MarkTerminal(context.Context, string, paymentsrepo.Status, json.RawMessage) (ledger.Outcome, error) {
	return "", errors.New("unexpected MarkTerminal")
}

func TestRejectedCallbacksTouchNothing(t *testing.T) {
	spy := &spyLedger{}
	r := NewReconciler(NewVerifier(secret, "", time.Minute), spy, zaptest.NewLogger(t).Sugar())
	body := []byte(`{"external_id":"BK-1","status":"PAID"}`)

	_, err := r.Handle(context.Background(), http.Header{}, body)
	assert.ErrorIs(t, err, apperr.ErrAuth)

	h := http.Header{}
	h.Set(SignatureHeader, Sign("wrong", time.Now(), body))
	_, err = r.Handle(context.Background(), h, body)
	assert.ErrorIs(t, err, apperr.ErrAuth)

	hdr, b := signed(`[]`)
	_, err = r.Handle(context.Background(), hdr, b)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Zero(t, spy.lookups)
}

func TestLookupFailureIsRetryable(t *testing.T) {
	spy := &spyLedger{lookupErr: apperr.Persistence("load payment", errors.New("conn refused"))}
	r := NewReconciler(NewVerifier(secret, "", time.Minute), spy, zaptest.NewLogger(t).Sugar())

	hdr, b := signed(`{"external_id":"BK-1","status":"PAID"}`)
	_, err := r.Handle(context.Background(), hdr, b)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(err))
}
