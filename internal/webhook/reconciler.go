// Package webhook turns authenticated gateway callbacks into ledger
// transitions. Gateways deliver at least once and in any order, so every
// path here is safe to repeat: unknown or malformed references are
// acknowledged, terminal payments absorb further events, and only genuine
// auth, format or storage failures produce a non-2xx answer.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"arena/internal/apperr"
	"arena/internal/domain/paymentsrepo"
	"arena/internal/ledger"

	"go.uber.org/zap"
)

type Ledger interface {
	Lookup(ctx context.Context, externalID string) (*paymentsrepo.Payment, error)
	MarkPaid(ctx context.Context, externalID string, amount int64, raw json.RawMessage) (ledger.Outcome, error)
	MarkTerminal(ctx context.Context, externalID string, status paymentsrepo.Status, raw json.RawMessage) (ledger.Outcome, error)
}

const (
	OutcomeMissingReference = "ignored_missing_reference"
	OutcomeUnknownReference = "ignored_unknown_reference"
	OutcomeIgnoredStatus    = "ignored_status"
)

type Result struct {
	ExternalID string `json:"external_id,omitempty"`
	Outcome    string `json:"outcome"`
}

type Reconciler struct {
	verifier *Verifier
	ledger   Ledger
	logger   *zap.SugaredLogger
}

func NewReconciler(v *Verifier, l Ledger, logger *zap.SugaredLogger) *Reconciler {
	return &Reconciler{verifier: v, ledger: l, logger: logger}
}

// Handle authenticates and applies one callback. A nil error means the
// gateway should get a 200.
func (r *Reconciler) Handle(ctx context.Context, h http.Header, body []byte) (Result, error) {
	if err := r.verifier.Verify(h, body); err != nil {
		r.logger.Warnw("webhook rejected", "reason", apperr.Message(err))
		return Result{}, err
	}

	ev, err := ParseEvent(body)
	if err != nil {
		r.logger.Warnw("webhook payload rejected", "reason", apperr.Message(err))
		return Result{}, err
	}

	if ev.ExternalID == "" {
		r.logger.Warnw("webhook without external_id acknowledged", "status", ev.Status)
		return Result{Outcome: OutcomeMissingReference}, nil
	}

	p, err := r.ledger.Lookup(ctx, ev.ExternalID)
	if err != nil {
		return Result{}, err
	}
	if p == nil {
		r.logger.Warnw("webhook for unknown payment acknowledged", "external_id", ev.ExternalID, "status", ev.Status)
		return Result{ExternalID: ev.ExternalID, Outcome: OutcomeUnknownReference}, nil
	}

	class := Classify(p.Method, ev)
	res := Result{ExternalID: ev.ExternalID}

	var outcome ledger.Outcome
	switch class {
	case ClassPaid:
		outcome, err = r.ledger.MarkPaid(ctx, ev.ExternalID, ev.Amount, ev.Raw)
	case ClassExpired:
		outcome, err = r.ledger.MarkTerminal(ctx, ev.ExternalID, paymentsrepo.StatusExpired, ev.Raw)
	case ClassFailed:
		outcome, err = r.ledger.MarkTerminal(ctx, ev.ExternalID, paymentsrepo.StatusFailed, ev.Raw)
	case ClassPending, ClassNone:
		r.logger.Infow("webhook without state change", "external_id", ev.ExternalID, "status", ev.Status, "fraud_status", ev.FraudStatus, "current", p.Status)
		res.Outcome = OutcomeIgnoredStatus
		return res, nil
	default:
		r.logger.Warnw("unrecognised gateway status acknowledged", "external_id", ev.ExternalID, "status", ev.Status)
		res.Outcome = OutcomeIgnoredStatus
		return res, nil
	}

	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			res.Outcome = OutcomeUnknownReference
			return res, nil
		}
		r.logger.Errorw("webhook processing failed", "external_id", ev.ExternalID, "class", class.String(), "error", err)
		return Result{}, err
	}

	res.Outcome = string(outcome)
	r.logger.Infow("webhook processed", "external_id", ev.ExternalID, "status", ev.Status, "class", class.String(), "outcome", res.Outcome)
	return res, nil
}
