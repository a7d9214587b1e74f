package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"arena/internal/apperr"
)

const (
	SignatureHeader = "X-Webhook-Signature"
	TokenHeader     = "X-Callback-Token"

	DefaultTolerance = 5 * time.Minute
)

// Verifier authenticates gateway callbacks. With an HMAC secret configured it
// only accepts "t=<unix>,v1=<hex>" signatures over "<t>.<body>" inside the
// tolerance window. Without one it falls back to the static callback token.
// With neither it rejects everything.
//
// Midtrans sends no headers; once a server key is set, callbacks without a
// signature header are checked against the body's signature_key instead.
type Verifier struct {
	secret    []byte
	token     string
	serverKey string
	tolerance time.Duration
	now       func() time.Time
}

func NewVerifier(hmacSecret, callbackToken string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	v := &Verifier{token: callbackToken, tolerance: tolerance, now: time.Now}
	if hmacSecret != "" {
		v.secret = []byte(hmacSecret)
	}
	return v
}

// WithMidtransServerKey enables signature_key checks for Midtrans callbacks.
func (v *Verifier) WithMidtransServerKey(serverKey string) *Verifier {
	v.serverKey = serverKey
	return v
}

func (v *Verifier) Verify(h http.Header, body []byte) error {
	switch {
	case v.serverKey != "" && h.Get(SignatureHeader) == "":
		return v.verifyMidtrans(body)
	case len(v.secret) > 0:
		return v.verifySignature(h.Get(SignatureHeader), body)
	case v.token != "":
		got := h.Get(TokenHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(v.token)) != 1 {
			return apperr.Auth("invalid callback token")
		}
		return nil
	default:
		return apperr.Auth("webhook verification is not configured")
	}
}

func (v *Verifier) verifySignature(header string, body []byte) error {
	if header == "" {
		return apperr.Auth("missing signature")
	}

	var (
		ts   int64
		sigs []string
	)
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return apperr.Auth("malformed signature timestamp")
			}
			ts = n
		case "v1":
			sigs = append(sigs, val)
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return apperr.Auth("malformed signature")
	}

	age := v.now().Sub(time.Unix(ts, 0))
	if age < 0 {
		age = -age
	}
	if age > v.tolerance {
		return apperr.Auth("signature timestamp outside tolerance")
	}

	expected := mac(v.secret, ts, body)
	for _, s := range sigs {
		got, err := hex.DecodeString(s)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}
	return apperr.Auth("invalid signature")
}

func mac(secret []byte, ts int64, body []byte) []byte {
	m := hmac.New(sha256.New, secret)
	m.Write([]byte(strconv.FormatInt(ts, 10)))
	m.Write([]byte("."))
	m.Write(body)
	return m.Sum(nil)
}

// Sign builds the signature header value for body at ts.
func Sign(secret string, ts time.Time, body []byte) string {
	unix := ts.Unix()
	return "t=" + strconv.FormatInt(unix, 10) + ",v1=" + hex.EncodeToString(mac([]byte(secret), unix, body))
}

type midtransNotification struct {
	OrderID      flexString `json:"order_id"`
	StatusCode   flexString `json:"status_code"`
	GrossAmount  flexString `json:"gross_amount"`
	SignatureKey string     `json:"signature_key"`
}

func (v *Verifier) verifyMidtrans(body []byte) error {
	var n midtransNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return apperr.Auth("unreadable notification")
	}
	if n.SignatureKey == "" {
		return apperr.Auth("missing signature_key")
	}
	expected := MidtransSignature(string(n.OrderID), string(n.StatusCode), string(n.GrossAmount), v.serverKey)
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		return apperr.Auth("invalid signature_key")
	}
	return nil
}

// MidtransSignature is hex(SHA512(order_id + status_code + gross_amount + server_key)).
// gross_amount is used exactly as sent, e.g. "100000.00".
func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
