package notifications

import (
	"context"
	"fmt"

	"arena/internal/events"

	"github.com/9ssi7/exponent"
)

// StaffNotifier pushes front-desk alerts for new bookings and confirmed
// payments. It plugs into the event fan-out and ignores every other event.
type StaffNotifier struct {
	push   PushSender
	tokens []string
}

func NewStaffNotifier(push PushSender, tokens []string) *StaffNotifier {
	return &StaffNotifier{push: push, tokens: tokens}
}

func (n *StaffNotifier) Publish(ctx context.Context, key string, v any) error {
	if len(n.tokens) == 0 {
		return nil
	}

	var title, body string
	data := map[string]string{"event": key}

	switch e := v.(type) {
	case events.Booking:
		if key != events.BookingCreated {
			return nil
		}
		title = "New booking"
		body = fmt.Sprintf("Court %d on %s, %s-%s", e.CourtID, e.Date, e.Start, e.End)
		data["bookingId"] = fmt.Sprint(e.BookingID)
		data["screen"] = "bookings-board"
	case events.Payment:
		if key != events.PaymentPaid {
			return nil
		}
		title = "Payment received"
		body = fmt.Sprintf("%s %d paid for %s #%d", e.Method, e.Amount, e.OwnerKind, e.OwnerID)
		data["externalId"] = e.ExternalID
		data["screen"] = "payments"
	default:
		return nil
	}

	msgs := make([]*exponent.Message, 0, len(n.tokens))
	for _, t := range n.tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data:  data,
		})
	}

	if _, err := n.push.Publish(ctx, msgs); err != nil {
		return fmt.Errorf("expo push: %w", err)
	}
	return nil
}
