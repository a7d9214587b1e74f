package main

import (
	"net/http"
	"strings"
	"time"

	"arena/internal/domain/paymentsrepo"
	"arena/internal/ledger"

	"github.com/go-chi/chi/v5"
)

type OpenPaymentPayload struct {
	OwnerKind string `json:"owner_kind" validate:"required,oneof=booking transaction"`
	OwnerID   int64  `json:"owner_id" validate:"required,gt=0"`
	Method    string `json:"method" validate:"required,oneof=VA QRIS"`
	Channel   string `json:"channel,omitempty" validate:"omitempty,max=20"`
	Amount    int64  `json:"amount" validate:"gte=0"`
}

type paymentResponse struct {
	ExternalID  string     `json:"external_id"`
	Method      string     `json:"method"`
	Channel     string     `json:"channel,omitempty"`
	Amount      int64      `json:"amount"`
	Status      string     `json:"status"`
	DisplayData string     `json:"display_data"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func paymentView(p *paymentsrepo.Payment) paymentResponse {
	out := paymentResponse{
		ExternalID:  p.ExternalID,
		Method:      string(p.Method),
		Amount:      p.Amount,
		Status:      string(p.Status),
		DisplayData: p.DisplayData,
		ExpiresAt:   p.ExpiresAt,
	}
	if p.Channel != nil {
		out.Channel = *p.Channel
	}
	return out
}

// OpenPayment godoc
//
//	@Summary		Open a VA or QRIS payment
//	@Description	Creates the intent at the active gateway and records it as PENDING. Amount 0 charges the outstanding balance.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		OpenPaymentPayload	true	"Payment"
//	@Success		201		{object}	paymentResponse
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		502		{object}	error	"Gateway unavailable"
//	@Router			/payments [post]
func (app *application) openPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload OpenPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Method = strings.ToUpper(strings.TrimSpace(payload.Method))
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p, err := app.ledger.Open(r.Context(), ledger.OpenInput{
		OwnerKind: paymentsrepo.OwnerKind(payload.OwnerKind),
		OwnerID:   payload.OwnerID,
		Method:    paymentsrepo.Method(payload.Method),
		Channel:   payload.Channel,
		Amount:    payload.Amount,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, paymentView(p)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetPayment godoc
//
//	@Summary	Get a payment by external id
//	@Tags		payments
//	@Produce	json
//	@Param		externalID	path		string	true	"External ID"
//	@Success	200			{object}	paymentResponse
//	@Failure	404			{object}	error
//	@Router		/payments/{externalID} [get]
func (app *application) getPaymentHandler(w http.ResponseWriter, r *http.Request) {
	p, err := app.ledger.Get(r.Context(), chi.URLParam(r, "externalID"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, paymentView(p))
}
