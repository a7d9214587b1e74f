package webhook

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"arena/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func fixedVerifier(secret, token string, at time.Time) *Verifier {
	v := NewVerifier(secret, token, time.Minute)
	v.now = func() time.Time { return at }
	return v
}

func TestVerifySignature(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	body := []byte(`{"external_id":"BK-1","status":"PAID"}`)
	v := fixedVerifier("whsec", "", now)
	_, current, _ := strings.Cut(Sign("whsec", now, body), ",v1=")

	cases := []struct {
		name   string
		header string
		ok     bool
	}{
		{"valid", Sign("whsec", now, body), true},
		{"valid within tolerance", Sign("whsec", now.Add(-50*time.Second), body), true},
		{"rotated secret listed second", Sign("old", now, body) + ",v1=" + current, true},
		{"wrong secret", Sign("other", now, body), false},
		{"stale", Sign("whsec", now.Add(-2*time.Minute), body), false},
		{"future", Sign("whsec", now.Add(2*time.Minute), body), false},
		{"missing", "", false},
		{"garbage", "sha256=abcdef", false},
		{"bad timestamp", "t=yesterday,v1=00", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := http.Header{}
			if c.header != "" {
				h.Set(SignatureHeader, c.header)
			}
			err := v.Verify(h, body)
			if c.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrAuth)
		})
	}
}

func TestSignatureCoversBody(t *testing.T) {
	now := time.Now()
	v := fixedVerifier("whsec", "", now)
	h := http.Header{}
	h.Set(SignatureHeader, Sign("whsec", now, []byte(`{"amount":1}`)))

	assert.ErrorIs(t, v.Verify(h, []byte(`{"amount":1000000}`)), apperr.ErrAuth)
}

func TestTokenOnlyWithoutSecret(t *testing.T) {
	now := time.Now()
	body := []byte(`{}`)

	tokenOnly := fixedVerifier("", "cb-token", now)
	h := http.Header{}
	h.Set(TokenHeader, "cb-token")
	assert.NoError(t, tokenOnly.Verify(h, body))

	h.Set(TokenHeader, "nope")
	assert.ErrorIs(t, tokenOnly.Verify(h, body), apperr.ErrAuth)

	both := fixedVerifier("whsec", "cb-token", now)
	h.Set(TokenHeader, "cb-token")
	assert.ErrorIs(t, both.Verify(h, body), apperr.ErrAuth, "token is ignored once a secret is configured")
}

func TestUnconfiguredVerifierRejects(t *testing.T) {
	v := NewVerifier("", "", 0)
	h := http.Header{}
	h.Set(TokenHeader, "")
	assert.ErrorIs(t, v.Verify(h, []byte(`{}`)), apperr.ErrAuth)
}

func midtransBody(orderID, statusCode, grossAmount, signature string) []byte {
	return []byte(fmt.Sprintf(`{"order_id":%q,"status_code":%q,"gross_amount":%q,"transaction_status":"settlement","signature_key":%q}`,
		orderID, statusCode, grossAmount, signature))
}

func TestVerifyMidtransSignatureKey(t *testing.T) {
	now := time.Now()
	v := fixedVerifier("whsec", "", now).WithMidtransServerKey("SB-Mid-server-abc")
	good := MidtransSignature("BK-1-AAAAAA-000000000001", "200", "50000.00", "SB-Mid-server-abc")

	cases := []struct {
		name string
		body []byte
		ok   bool
	}{
		{"valid", midtransBody("BK-1-AAAAAA-000000000001", "200", "50000.00", good), true},
		{"uppercase hex", midtransBody("BK-1-AAAAAA-000000000001", "200", "50000.00", strings.ToUpper(good)), true},
		{"tampered amount", midtransBody("BK-1-AAAAAA-000000000001", "200", "5000000.00", good), false},
		{"tampered order", midtransBody("BK-2-AAAAAA-000000000001", "200", "50000.00", good), false},
		{"wrong server key", midtransBody("BK-1-AAAAAA-000000000001", "200", "50000.00", MidtransSignature("BK-1-AAAAAA-000000000001", "200", "50000.00", "other")), false},
		{"missing signature", []byte(`{"order_id":"BK-1-AAAAAA-000000000001","status_code":"200","gross_amount":"50000.00"}`), false},
		{"not json", []byte(`order_id=BK-1`), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := v.Verify(http.Header{}, c.body)
			if c.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrAuth)
		})
	}
}

func TestMidtransKeyKeepsHeaderSignatures(t *testing.T) {
	now := time.Now()
	body := []byte(`{"external_id":"BK-1","status":"PAID"}`)
	v := fixedVerifier("whsec", "", now).WithMidtransServerKey("SB-Mid-server-abc")

	h := http.Header{}
	h.Set(SignatureHeader, Sign("whsec", now, body))
	assert.NoError(t, v.Verify(h, body))

	h.Set(SignatureHeader, Sign("other", now, body))
	assert.ErrorIs(t, v.Verify(h, body), apperr.ErrAuth, "a bad header is not rescued by the body check")
}

func TestMidtransSignatureMatchesKnownDigest(t *testing.T) {
	const want = "40be90c770dcb4f7b22f8a09457a26ac52c3ad982d4dd22c4d0ed31fd1b1dde7" +
		"7451845515f4dc47e80758e1c6b33cf4ee9edb7aa0fe50b3d43c5ff45a5316f7"
	assert.Equal(t, want, MidtransSignature("ORDER-1", "200", "10000.00", "key"))
	assert.NotEqual(t, want, MidtransSignature("ORDER-1", "201", "10000.00", "key"))
}
