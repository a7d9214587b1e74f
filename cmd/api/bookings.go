package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"arena/internal/booking"
	"arena/internal/domain/bookings"
	"arena/internal/interval"

	"github.com/go-chi/chi/v5"
)

type CreateBookingPayload struct {
	VenueID       int64   `json:"venue_id" validate:"required,gt=0"`
	CourtID       int64   `json:"court_id" validate:"required,gt=0"`
	Date          string  `json:"date" validate:"required,isodate"`
	Start         string  `json:"start" validate:"required,clock"`
	Duration      int     `json:"duration" validate:"required,gte=1,lte=24"`
	CustomerName  string  `json:"customer_name" validate:"required,max=100"`
	CustomerPhone *string `json:"customer_phone,omitempty" validate:"omitempty,max=20"`
	CustomerID    *int64  `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
}

type MoveBookingPayload struct {
	CourtID int64  `json:"court_id" validate:"omitempty,gt=0"`
	Date    string `json:"date,omitempty" validate:"omitempty,isodate"`
	Start   string `json:"start" validate:"required,clock"`
}

type CashPayload struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

type bookingResponse struct {
	*bookings.Booking
	Code          string `json:"code"`
	Start         string `json:"start"`
	End           string `json:"end"`
	DurationHours int    `json:"duration_hours"`
	Outstanding   int64  `json:"outstanding"`
	Stale         bool   `json:"stale"`
}

func (app *application) bookingView(b *bookings.Booking) bookingResponse {
	return bookingResponse{
		Booking:       b,
		Code:          app.bookings.Code(b),
		Start:         interval.FormatClock(b.Slot.Start),
		End:           interval.FormatClock(b.Slot.End),
		DurationHours: b.DurationHours(),
		Outstanding:   b.Outstanding(),
		Stale:         app.bookings.IsStale(b),
	}
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// CreateBooking godoc
//
//	@Summary		Book a court
//	@Description	Claims the slot [start, start+duration) on the court for the date. The price is fixed at the court's current hourly rate.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateBookingPayload	true	"Booking"
//	@Success		201		{object}	bookingResponse
//	@Failure		400		{object}	error	"Invalid input or outside venue hours"
//	@Failure		404		{object}	error	"Venue or court not found"
//	@Failure		409		{object}	error	"Slot already taken"
//	@Router			/bookings [post]
func (app *application) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	date, err := bookings.ParseDate(payload.Date)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b, err := app.bookings.Create(r.Context(), booking.CreateInput{
		VenueID:  payload.VenueID,
		CourtID:  payload.CourtID,
		Date:     date,
		Start:    payload.Start,
		Duration: payload.Duration,
		Customer: bookings.Customer{
			Name:       payload.CustomerName,
			Phone:      payload.CustomerPhone,
			CustomerID: payload.CustomerID,
		},
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, app.bookingView(b)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetBooking godoc
//
//	@Summary	Get a booking
//	@Tags		bookings
//	@Produce	json
//	@Param		bookingID	path		int	true	"Booking ID"
//	@Success	200			{object}	bookingResponse
//	@Failure	404			{object}	error
//	@Router		/bookings/{bookingID} [get]
func (app *application) getBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	b, err := app.bookings.Get(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, app.bookingView(b))
}

// GetBookingByCode godoc
//
//	@Summary	Get a booking by its public code
//	@Tags		bookings
//	@Produce	json
//	@Param		code	path		string	true	"Booking code"
//	@Success	200		{object}	bookingResponse
//	@Failure	404		{object}	error
//	@Router		/bookings/code/{code} [get]
func (app *application) getBookingByCodeHandler(w http.ResponseWriter, r *http.Request) {
	b, err := app.bookings.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, app.bookingView(b))
}

// MoveBooking godoc
//
//	@Summary		Move a booking
//	@Description	Relocates to another court, date or start time inside the same venue. Price and payments are kept.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		int					true	"Booking ID"
//	@Param			payload		body		MoveBookingPayload	true	"Target"
//	@Success		200			{object}	bookingResponse
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error
//	@Router			/bookings/{bookingID}/move [patch]
func (app *application) moveBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload MoveBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	in := booking.MoveInput{CourtID: payload.CourtID, Start: payload.Start}
	if payload.Date != "" {
		if in.Date, err = bookings.ParseDate(payload.Date); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	b, err := app.bookings.Move(r.Context(), id, in)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, app.bookingView(b))
}

// CancelBooking godoc
//
//	@Summary	Cancel a booking
//	@Tags		bookings
//	@Produce	json
//	@Param		bookingID	path		int	true	"Booking ID"
//	@Success	200			{object}	bookingResponse
//	@Failure	404			{object}	error
//	@Router		/bookings/{bookingID}/cancel [post]
func (app *application) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	b, err := app.bookings.Cancel(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, app.bookingView(b))
}

// SettleBookingCash godoc
//
//	@Summary		Record a cash payment for a booking
//	@Description	Amount 0 (or no body) pays the outstanding balance.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		int			true	"Booking ID"
//	@Param			payload		body		CashPayload	false	"Amount"
//	@Success		200			{object}	bookingResponse
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Router			/bookings/{bookingID}/cash [post]
func (app *application) settleBookingCashHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CashPayload
	if err := readJSON(w, r, &payload); err != nil && !errors.Is(err, io.EOF) {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b, err := app.bookings.SettleCash(r.Context(), id, payload.Amount)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, app.bookingView(b))
}

func dateQuery(r *http.Request) (bookings.Date, error) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return bookings.Date{}, errors.New("missing date")
	}
	return bookings.ParseDate(s)
}

// ListCourts godoc
//
//	@Summary	Courts of a venue
//	@Tags		bookings
//	@Produce	json
//	@Param		venueID	path		int	true	"Venue ID"
//	@Success	200		{array}		venues.Court
//	@Failure	400		{object}	error
//	@Failure	404		{object}	error
//	@Router		/venues/{venueID}/courts [get]
func (app *application) listCourtsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := idParam(r, "venueID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	courts, err := app.bookings.ListCourts(r.Context(), venueID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, courts)
}

// ListCourtBookings godoc
//
//	@Summary	Day board of a court
//	@Tags		bookings
//	@Produce	json
//	@Param		venueID	path		int		true	"Venue ID"
//	@Param		courtID	path		int		true	"Court ID"
//	@Param		date	query		string	true	"YYYY-MM-DD"
//	@Success	200		{array}		bookingResponse
//	@Failure	400		{object}	error
//	@Failure	404		{object}	error
//	@Router		/venues/{venueID}/courts/{courtID}/bookings [get]
func (app *application) listCourtBookingsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := idParam(r, "venueID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	courtID, err := idParam(r, "courtID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	date, err := dateQuery(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.bookings.ListForCourt(r.Context(), venueID, courtID, date)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, app.bookingView(b))
	}
	app.jsonResponse(w, http.StatusOK, out)
}

// CourtAvailability godoc
//
//	@Summary		Hourly availability of a court
//	@Description	One-hour cells between the venue's opening hours (06:00-23:00 when unset).
//	@Tags			bookings
//	@Produce		json
//	@Param			venueID	path		int		true	"Venue ID"
//	@Param			courtID	path		int		true	"Court ID"
//	@Param			date	query		string	true	"YYYY-MM-DD"
//	@Success		200		{array}		allocator.Slot
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Router			/venues/{venueID}/courts/{courtID}/availability [get]
func (app *application) courtAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := idParam(r, "venueID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	courtID, err := idParam(r, "courtID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	date, err := dateQuery(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	slots, err := app.bookings.Availability(r.Context(), venueID, courtID, date)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, slots)
}
