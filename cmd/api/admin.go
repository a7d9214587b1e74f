package main

import (
	"fmt"
	"net/http"

	"arena/internal/booking"
	"arena/internal/domain/paymentsrepo"
	"arena/internal/domain/venues"
	"arena/internal/params"

	"github.com/go-chi/chi/v5"
)

type StaffTokenPayload struct {
	Subject string `json:"subject" validate:"required,max=100"`
	Role    string `json:"role" validate:"required,oneof=staff admin"`
}

type CreateVenuePayload struct {
	Name  string `json:"name" validate:"required,max=100"`
	Open  string `json:"open,omitempty" validate:"omitempty,clock"`
	Close string `json:"close,omitempty" validate:"omitempty,clock"`
}

type CreateCourtPayload struct {
	VenueID    int64  `json:"venue_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required,max=100"`
	HourlyRate int64  `json:"hourly_rate" validate:"required,gt=0"`
}

type UpdateCourtPayload struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	HourlyRate *int64  `json:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// CreateStaffToken godoc
//
//	@Summary	Issue a staff token
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		StaffTokenPayload	true	"Subject and role"
//	@Success	201		{object}	map[string]string
//	@Failure	400		{object}	error
//	@Failure	401		{object}	error
//	@Router		/admin/token [post]
func (app *application) createStaffTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload StaffTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, err := app.authenticator.GenerateToken(payload.Subject, payload.Role)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, map[string]string{"token": token})
}

// CreateVenue godoc
//
//	@Summary	Create a venue
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CreateVenuePayload	true	"Venue"
//	@Success	201		{object}	venues.Venue
//	@Failure	400		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/venues [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v, err := app.bookings.CreateVenue(r.Context(), booking.VenueInput{Name: payload.Name, Open: payload.Open, Close: payload.Close})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, v)
}

// CreateCourt godoc
//
//	@Summary	Create a court
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CreateCourtPayload	true	"Court"
//	@Success	201		{object}	venues.Court
//	@Failure	400		{object}	error
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/courts [post]
func (app *application) createCourtHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCourtPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	c, err := app.bookings.CreateCourt(r.Context(), payload.VenueID, payload.Name, payload.HourlyRate)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, c)
}

// UpdateCourt godoc
//
//	@Summary		Update a court
//	@Description	Rate changes apply to new bookings only.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			courtID	path		int					true	"Court ID"
//	@Param			payload	body		UpdateCourtPayload	true	"Fields to change"
//	@Success		200		{object}	venues.Court
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/courts/{courtID} [patch]
func (app *application) updateCourtHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "courtID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateCourtPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	c, err := app.bookings.UpdateCourt(r.Context(), id, venues.CourtPatch{
		Name:       payload.Name,
		HourlyRate: payload.HourlyRate,
		IsActive:   payload.IsActive,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, c)
}

// DeleteBooking godoc
//
//	@Summary	Delete a booking
//	@Tags		admin
//	@Param		bookingID	path	int	true	"Booking ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/bookings/{bookingID} [delete]
func (app *application) deleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := app.bookings.Delete(r.Context(), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPayments godoc
//
//	@Summary	List payments
//	@Tags		admin
//	@Produce	json
//	@Param		status	query		string	false	"PENDING, PAID, EXPIRED or FAILED"
//	@Param		page	query		int		false	"Page"
//	@Param		limit	query		int		false	"Page size"
//	@Success	200		{object}	map[string]any
//	@Failure	400		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/payments [get]
func (app *application) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	pg := params.ParsePagination(r.URL.Query())
	f := paymentsrepo.Filter{Limit: pg.Limit, Offset: pg.Offset}

	if s := r.URL.Query().Get("status"); s != "" {
		switch st := paymentsrepo.Status(s); st {
		case paymentsrepo.StatusPending, paymentsrepo.StatusPaid, paymentsrepo.StatusExpired, paymentsrepo.StatusFailed:
			f.Status = st
		default:
			app.badRequestResponse(w, r, fmt.Errorf("invalid status %q", s))
			return
		}
	}

	list, total, err := app.ledger.List(r.Context(), f)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	pg.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"payments":   list,
		"pagination": pg,
	})
}

// StuckPayments godoc
//
//	@Summary		PAID payments whose owner was never credited
//	@Description	Report only; the background reconciler repairs them.
//	@Tags			admin
//	@Produce		json
//	@Param			limit	query		int	false	"Max rows"
//	@Success		200		{array}		paymentsrepo.Payment
//	@Security		ApiKeyAuth
//	@Router			/admin/payments/stuck [get]
func (app *application) stuckPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	pg := params.ParsePagination(r.URL.Query())
	list, err := app.ledger.Unsettled(r.Context(), pg.Limit)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if list == nil {
		list = []*paymentsrepo.Payment{}
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// PaymentLogs godoc
//
//	@Summary	Audit log of a payment
//	@Tags		admin
//	@Produce	json
//	@Param		externalID	path		string	true	"External ID"
//	@Success	200			{array}		paymentsrepo.PaymentLog
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/payments/{externalID}/logs [get]
func (app *application) paymentLogsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := app.ledger.Get(r.Context(), chi.URLParam(r, "externalID"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	logs, err := app.ledger.Logs(r.Context(), p.ID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if logs == nil {
		logs = []paymentsrepo.PaymentLog{}
	}
	app.jsonResponse(w, http.StatusOK, logs)
}
