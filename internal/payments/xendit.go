package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const XenditName = "xendit"

// XenditAdapter talks to the Xendit REST API with the secret key as the
// basic auth user.
type XenditAdapter struct {
	SecretKey  string
	BaseURL    string
	httpClient *http.Client
}

func NewXenditAdapter(secret, baseURL string) *XenditAdapter {
	if baseURL == "" {
		baseURL = "https://api.xendit.co"
	}
	return &XenditAdapter{
		SecretKey:  secret,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (x *XenditAdapter) Name() string { return XenditName }

func (x *XenditAdapter) post(ctx context.Context, path string, payload any, extra map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, x.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(x.SecretKey, "")
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range extra {
		httpReq.Header.Set(k, v)
	}

	resp, err := x.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("xendit %s request: %w", path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("xendit %s failed: http=%d body=%s", path, resp.StatusCode, string(raw))
	}
	return raw, nil
}

func (x *XenditAdapter) CreateVirtualAccount(ctx context.Context, req VirtualAccountRequest) (VirtualAccount, error) {
	payload := map[string]any{
		"external_id":     req.ExternalID,
		"bank_code":       strings.ToUpper(req.BankCode),
		"name":            req.Name,
		"expected_amount": req.Amount,
		"is_closed":       true,
		"is_single_use":   true,
		"expiration_date": req.ExpiresAt.UTC().Format(time.RFC3339),
	}

	raw, err := x.post(ctx, "/callback_virtual_accounts", payload, nil)
	if err != nil {
		return VirtualAccount{}, err
	}

	var res struct {
		ID             string    `json:"id"`
		AccountNumber  string    `json:"account_number"`
		ExpirationDate time.Time `json:"expiration_date"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return VirtualAccount{}, fmt.Errorf("xendit va decode: %w body=%s", err, string(raw))
	}
	if res.AccountNumber == "" {
		return VirtualAccount{}, fmt.Errorf("xendit va: empty account number body=%s", string(raw))
	}

	return VirtualAccount{
		ID:            res.ID,
		AccountNumber: res.AccountNumber,
		ExpiresAt:     res.ExpirationDate,
		Raw:           raw,
	}, nil
}

func (x *XenditAdapter) CreateQRCharge(ctx context.Context, req QRRequest) (QRCharge, error) {
	payload := map[string]any{
		"reference_id": req.ExternalID,
		"external_id":  req.ExternalID,
		"type":         "DYNAMIC",
		"currency":     "IDR",
		"amount":       req.Amount,
		"callback_url": req.CallbackURL,
	}
	if !req.ExpiresAt.IsZero() {
		payload["expires_at"] = req.ExpiresAt.UTC().Format(time.RFC3339)
	}

	raw, err := x.post(ctx, "/qr_codes", payload, map[string]string{"api-version": "2022-07-31"})
	if err != nil {
		return QRCharge{}, err
	}

	var res struct {
		ID        string     `json:"id"`
		QRString  string     `json:"qr_string"`
		Status    string     `json:"status"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return QRCharge{}, fmt.Errorf("xendit qr decode: %w body=%s", err, string(raw))
	}
	if res.QRString == "" {
		return QRCharge{}, fmt.Errorf("xendit qr: empty qr string body=%s", string(raw))
	}

	out := QRCharge{ID: res.ID, QRString: res.QRString, Status: res.Status, ExpiresAt: req.ExpiresAt, Raw: raw}
	if res.ExpiresAt != nil {
		out.ExpiresAt = *res.ExpiresAt
	}
	return out, nil
}
