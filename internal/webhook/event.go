package webhook

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"arena/internal/apperr"
	"arena/internal/domain/paymentsrepo"
)

// Event is the part of a gateway callback the reconciler acts on.
type Event struct {
	ExternalID  string
	Status      string
	FraudStatus string
	Amount      int64
	GatewayID   string
	Timestamp   string
	Raw         json.RawMessage
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// amount parses integer or decimal amounts ("100000", 100000, "100000.00").
func (f flexString) amount() int64 {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}

// payload covers Xendit (external_id, status, amount, paid_amount) and
// Midtrans (order_id, transaction_status, gross_amount) field names. Newer
// Xendit callbacks nest the same fields under "data".
type payload struct {
	ExternalID        flexString `json:"external_id"`
	ReferenceID       flexString `json:"reference_id"`
	OrderID           flexString `json:"order_id"`
	Status            string     `json:"status"`
	TransactionStatus string     `json:"transaction_status"`
	FraudStatus       string     `json:"fraud_status"`
	Amount            flexString `json:"amount"`
	PaidAmount        flexString `json:"paid_amount"`
	GrossAmount       flexString `json:"gross_amount"`
	ID                flexString `json:"id"`
	TransactionID     flexString `json:"transaction_id"`
	Updated           string     `json:"updated"`
	Created           string     `json:"created"`
	TransactionTime   string     `json:"transaction_time"`
	Data              *payload   `json:"data"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ParseEvent decodes a callback body. Only bodies that are not a JSON object
// are errors; missing fields are left empty for the reconciler to judge.
func ParseEvent(body []byte) (Event, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Event{}, apperr.Validation("payload must be a JSON object")
	}
	var p payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return Event{}, apperr.Validation("unparsable payload")
	}
	if p.Data != nil && firstNonEmpty(string(p.ExternalID), string(p.ReferenceID), string(p.OrderID)) == "" {
		p = *p.Data
	}

	ev := Event{
		ExternalID:  firstNonEmpty(string(p.ExternalID), string(p.ReferenceID), string(p.OrderID)),
		Status:      firstNonEmpty(p.Status, p.TransactionStatus),
		FraudStatus: strings.TrimSpace(p.FraudStatus),
		GatewayID:   firstNonEmpty(string(p.TransactionID), string(p.ID)),
		Timestamp:   firstNonEmpty(p.Updated, p.TransactionTime, p.Created),
		Raw:         json.RawMessage(trimmed),
	}
	for _, a := range []flexString{p.PaidAmount, p.Amount, p.GrossAmount} {
		if n := a.amount(); n > 0 {
			ev.Amount = n
			break
		}
	}
	return ev, nil
}

// Class is the internal meaning of a gateway status.
type Class int

const (
	ClassNone    Class = iota // no status and nothing implied
	ClassPending              // still open, nothing to do
	ClassPaid
	ClassExpired
	ClassFailed
	ClassUnknown // a status string we do not recognise
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassPending:
		return "pending"
	case ClassPaid:
		return "paid"
	case ClassExpired:
		return "expired"
	case ClassFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Classify maps a gateway status to a Class. Virtual account payment
// callbacks carry no status at all; for those a positive amount is the
// success signal. An explicit status always wins over the implicit rule.
// A Midtrans card capture only counts as paid once fraud review accepts it.
func Classify(method paymentsrepo.Method, ev Event) Class {
	switch strings.ToUpper(strings.TrimSpace(ev.Status)) {
	case "":
		if method == paymentsrepo.MethodVA && ev.Amount > 0 {
			return ClassPaid
		}
		return ClassNone
	case "CAPTURE":
		switch strings.ToUpper(ev.FraudStatus) {
		case "CHALLENGE":
			return ClassPending
		case "DENY":
			return ClassFailed
		}
		return ClassPaid
	case "PAID", "COMPLETED", "SETTLED", "SETTLEMENT", "SUCCEEDED", "SUCCESS":
		return ClassPaid
	case "PENDING", "ACTIVE", "AUTHORIZE":
		return ClassPending
	case "EXPIRED", "EXPIRE", "INACTIVE":
		return ClassExpired
	case "FAILED", "FAILURE", "DENY", "CANCEL", "CANCELLED", "CANCELED", "VOIDED":
		return ClassFailed
	default:
		return ClassUnknown
	}
}
