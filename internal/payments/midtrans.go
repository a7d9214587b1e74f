package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

const MidtransName = "midtrans"

// MidtransAdapter opens bank transfer and QRIS charges through the Core API.
// Midtrans reports expiry as a local timestamp string, so the adapter keeps
// the expiry it asked for instead of parsing it back.
type MidtransAdapter struct {
	client coreapi.Client
	now    func() time.Time
}

func NewMidtransAdapter(serverKey string, production bool) *MidtransAdapter {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	a := &MidtransAdapter{now: time.Now}
	a.client.New(serverKey, env)
	return a
}

func (m *MidtransAdapter) Name() string { return MidtransName }

func expiryMinutes(now, at time.Time) int {
	if at.IsZero() {
		return 0
	}
	mins := int(at.Sub(now).Round(time.Minute) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	return mins
}

func (m *MidtransAdapter) vaRequest(req VirtualAccountRequest) *coreapi.ChargeReq {
	charge := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeBankTransfer,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.ExternalID,
			GrossAmt: req.Amount,
		},
		BankTransfer: &coreapi.BankTransferDetails{
			Bank: midtrans.Bank(strings.ToLower(req.BankCode)),
		},
		CustomerDetails: &midtrans.CustomerDetails{FName: req.Name},
	}
	if mins := expiryMinutes(m.now(), req.ExpiresAt); mins > 0 {
		charge.CustomExpiry = &coreapi.CustomExpiry{ExpiryDuration: mins, Unit: "minute"}
	}
	return charge
}

func (m *MidtransAdapter) qrRequest(req QRRequest) *coreapi.ChargeReq {
	charge := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeQris,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.ExternalID,
			GrossAmt: req.Amount,
		},
	}
	if mins := expiryMinutes(m.now(), req.ExpiresAt); mins > 0 {
		charge.CustomExpiry = &coreapi.CustomExpiry{ExpiryDuration: mins, Unit: "minute"}
	}
	return charge
}

func (m *MidtransAdapter) CreateVirtualAccount(ctx context.Context, req VirtualAccountRequest) (VirtualAccount, error) {
	resp, merr := m.client.ChargeTransaction(m.vaRequest(req))
	if merr != nil {
		return VirtualAccount{}, fmt.Errorf("midtrans va charge: %s", merr.GetMessage())
	}

	number := resp.PermataVaNumber
	for _, va := range resp.VaNumbers {
		if va.VANumber != "" {
			number = va.VANumber
			break
		}
	}
	if number == "" {
		return VirtualAccount{}, fmt.Errorf("midtrans va charge: no account number (status %s)", resp.StatusCode)
	}

	raw, _ := json.Marshal(resp)
	return VirtualAccount{
		ID:            resp.TransactionID,
		AccountNumber: number,
		ExpiresAt:     req.ExpiresAt,
		Raw:           raw,
	}, nil
}

func (m *MidtransAdapter) CreateQRCharge(ctx context.Context, req QRRequest) (QRCharge, error) {
	resp, merr := m.client.ChargeTransaction(m.qrRequest(req))
	if merr != nil {
		return QRCharge{}, fmt.Errorf("midtrans qris charge: %s", merr.GetMessage())
	}

	qr := resp.QRString
	if qr == "" {
		for _, a := range resp.Actions {
			if a.Name == "generate-qr-code" {
				qr = a.URL
				break
			}
		}
	}
	if qr == "" {
		return QRCharge{}, fmt.Errorf("midtrans qris charge: no qr data (status %s)", resp.StatusCode)
	}

	raw, _ := json.Marshal(resp)
	return QRCharge{
		ID:        resp.TransactionID,
		QRString:  qr,
		ExpiresAt: req.ExpiresAt,
		Status:    resp.TransactionStatus,
		Raw:       raw,
	}, nil
}
