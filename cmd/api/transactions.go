package main

import (
	"net/http"

	"arena/internal/pos"
)

type CreateTransactionPayload struct {
	VenueID   int64  `json:"venue_id" validate:"required,gt=0"`
	BookingID *int64 `json:"booking_id,omitempty" validate:"omitempty,gt=0"`
	Total     int64  `json:"total" validate:"required,gt=0"`
}

// CreateTransaction godoc
//
//	@Summary	Open a POS transaction
//	@Tags		transactions
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CreateTransactionPayload	true	"Transaction"
//	@Success	201		{object}	transactions.Transaction
//	@Failure	400		{object}	error
//	@Failure	404		{object}	error
//	@Router		/transactions [post]
func (app *application) createTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateTransactionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	t, err := app.pos.Create(r.Context(), pos.CreateInput{
		VenueID:   payload.VenueID,
		BookingID: payload.BookingID,
		Total:     payload.Total,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, t)
}

// GetTransaction godoc
//
//	@Summary	Get a POS transaction
//	@Tags		transactions
//	@Produce	json
//	@Param		txID	path		int	true	"Transaction ID"
//	@Success	200		{object}	transactions.Transaction
//	@Failure	404		{object}	error
//	@Router		/transactions/{txID} [get]
func (app *application) getTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "txID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	t, err := app.pos.Get(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, t)
}

// SettleTransactionCash godoc
//
//	@Summary		Settle a POS transaction in cash
//	@Description	Marks it paid in full and credits the linked booking. Repeating is harmless.
//	@Tags			transactions
//	@Produce		json
//	@Param			txID	path		int	true	"Transaction ID"
//	@Success		200		{object}	transactions.Transaction
//	@Failure		404		{object}	error
//	@Router			/transactions/{txID}/cash [post]
func (app *application) settleTransactionCashHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "txID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	t, err := app.pos.SettleCash(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, t)
}
