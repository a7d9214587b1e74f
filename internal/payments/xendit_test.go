package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXenditCreateVirtualAccount(t *testing.T) {
	expires := time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/callback_virtual_accounts", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "xnd_secret", user)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PAY-1", body["external_id"])
		assert.Equal(t, "BCA", body["bank_code"])
		assert.EqualValues(t, 100000, body["expected_amount"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"va_123","account_number":"8808123456","expiration_date":"2026-05-05T10:00:00Z","status":"PENDING"}`))
	}))
	defer srv.Close()

	x := NewXenditAdapter("xnd_secret", srv.URL)
	va, err := x.CreateVirtualAccount(context.Background(), VirtualAccountRequest{
		ExternalID: "PAY-1", BankCode: "bca", Name: "Budi", Amount: 100_000, ExpiresAt: expires,
	})
	require.NoError(t, err)
	assert.Equal(t, "va_123", va.ID)
	assert.Equal(t, "8808123456", va.AccountNumber)
	assert.True(t, expires.Equal(va.ExpiresAt))
	assert.NotEmpty(t, va.Raw)
}

func TestXenditCreateQRCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/qr_codes", r.URL.Path)
		assert.Equal(t, "2022-07-31", r.Header.Get("api-version"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"qr_1","qr_string":"00020101021226...","status":"ACTIVE"}`))
	}))
	defer srv.Close()

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	x := NewXenditAdapter("xnd_secret", srv.URL)
	qr, err := x.CreateQRCharge(context.Background(), QRRequest{ExternalID: "PAY-2", Amount: 50_000, ExpiresAt: expires})
	require.NoError(t, err)
	assert.Equal(t, "qr_1", qr.ID)
	assert.Equal(t, "00020101021226...", qr.QRString)
	assert.Equal(t, "ACTIVE", qr.Status)
	assert.True(t, expires.Equal(qr.ExpiresAt), "falls back to the requested expiry")
}

func TestXenditErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_code":"API_VALIDATION_ERROR"}`))
	}))
	defer srv.Close()

	x := NewXenditAdapter("xnd_secret", srv.URL)
	_, err := x.CreateQRCharge(context.Background(), QRRequest{ExternalID: "PAY-3", Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_VALIDATION_ERROR")
}

type stubGateway struct{ name string }

func (s stubGateway) Name() string { return s.name }

func (s stubGateway) CreateVirtualAccount(context.Context, VirtualAccountRequest) (VirtualAccount, error) {
	return VirtualAccount{ID: s.name}, nil
}

func (s stubGateway) CreateQRCharge(context.Context, QRRequest) (QRCharge, error) {
	return QRCharge{ID: s.name}, nil
}

func TestManagerRoutesToActive(t *testing.T) {
	m := NewManager("midtrans")
	m.RegisterGateway(stubGateway{"xendit"})
	m.RegisterGateway(stubGateway{"midtrans"})

	qr, err := m.CreateQRCharge(context.Background(), QRRequest{})
	require.NoError(t, err)
	assert.Equal(t, "midtrans", qr.ID)

	_, err = NewManager("stripe").CreateVirtualAccount(context.Background(), VirtualAccountRequest{})
	assert.Error(t, err)
}

func TestMidtransChargeRequests(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	m := NewMidtransAdapter("SB-Mid-server-x", false)
	m.now = func() time.Time { return now }

	va := m.vaRequest(VirtualAccountRequest{ExternalID: "PAY-9", BankCode: "BNI", Amount: 75_000, ExpiresAt: now.Add(24 * time.Hour)})
	assert.Equal(t, "PAY-9", va.TransactionDetails.OrderID)
	assert.Equal(t, int64(75_000), va.TransactionDetails.GrossAmt)
	require.NotNil(t, va.BankTransfer)
	assert.EqualValues(t, "bni", va.BankTransfer.Bank)
	require.NotNil(t, va.CustomExpiry)
	assert.Equal(t, 24*60, va.CustomExpiry.ExpiryDuration)

	qr := m.qrRequest(QRRequest{ExternalID: "PAY-10", Amount: 20_000})
	assert.Nil(t, qr.CustomExpiry)
	assert.Nil(t, qr.BankTransfer)
}
