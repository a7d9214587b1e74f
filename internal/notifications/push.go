package notifications

import (
	"context"
	"fmt"

	"github.com/9ssi7/exponent"
)

// Expo rejects push requests carrying more than this many messages.
const maxExpoBatch = 100

// PushSender is the part of the Expo client the notifier needs.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
}

// ExpoSender splits large pushes into batches Expo accepts.
type ExpoSender struct {
	client PushSender
	batch  int
}

func NewExpoSender(c PushSender) *ExpoSender {
	return &ExpoSender{client: c, batch: maxExpoBatch}
}

func (s *ExpoSender) Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	var out []*exponent.MessageResponse
	for start := 0; start < len(msgs); start += s.batch {
		end := min(start+s.batch, len(msgs))
		res, err := s.client.Publish(ctx, msgs[start:end])
		if err != nil {
			return out, fmt.Errorf("push batch %d-%d: %w", start, end, err)
		}
		out = append(out, res...)
	}
	return out, nil
}
