package main

import (
	"fmt"
	"io"
	"net/http"
)

const maxWebhookBytes = 1 << 20

// PaymentWebhook godoc
//
//	@Summary		Payment gateway callback
//	@Description	Authenticated by X-Webhook-Signature (HMAC) or, when no secret is configured, X-Callback-Token. Unknown references and statuses are acknowledged with 200.
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	webhook.Result
//	@Failure		400	{object}	error	"Unparsable payload"
//	@Failure		401	{object}	error	"Signature or token rejected"
//	@Failure		500	{object}	error	"Storage failure, gateway should retry"
//	@Router			/webhooks/payment-gateway [post]
func (app *application) paymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("read webhook body: %w", err))
		return
	}

	res, err := app.reconciler.Handle(r.Context(), r.Header, body)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, res)
}
