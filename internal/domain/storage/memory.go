package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"arena/internal/apperr"
	"arena/internal/domain/bookings"
	"arena/internal/domain/paymentsrepo"
	"arena/internal/domain/transactions"
	"arena/internal/domain/venues"
	"arena/internal/interval"
)

// Memory is an in-process Store used by tests and the "memory" driver. It
// enforces the same overlap exclusion and compare-and-set rules as the
// Postgres schema. WithTx holds a single lock for the whole unit of work and
// restores a snapshot on error.
type Memory struct {
	mu    sync.Mutex
	state *memState
	repos *Repos
	now   func() time.Time
}

type settlementKey struct {
	bookingID int64
	reference string
}

type memState struct {
	seq         int64
	venues      map[int64]venues.Venue
	courts      map[int64]venues.Court
	bookings    map[int64]bookings.Booking
	settlements map[settlementKey]int64
	txs         map[int64]transactions.Transaction
	payments    map[int64]paymentsrepo.Payment
	logs        []paymentsrepo.PaymentLog
}

func newMemState() *memState {
	return &memState{
		venues:      map[int64]venues.Venue{},
		courts:      map[int64]venues.Court{},
		bookings:    map[int64]bookings.Booking{},
		settlements: map[settlementKey]int64{},
		txs:         map[int64]transactions.Transaction{},
		payments:    map[int64]paymentsrepo.Payment{},
	}
}

// clone copies the maps. Values are stored by value so the copy is deep
// enough; pointer fields inside them are never mutated in place.
func (s *memState) clone() *memState {
	c := &memState{
		seq:         s.seq,
		venues:      make(map[int64]venues.Venue, len(s.venues)),
		courts:      make(map[int64]venues.Court, len(s.courts)),
		bookings:    make(map[int64]bookings.Booking, len(s.bookings)),
		settlements: make(map[settlementKey]int64, len(s.settlements)),
		txs:         make(map[int64]transactions.Transaction, len(s.txs)),
		payments:    make(map[int64]paymentsrepo.Payment, len(s.payments)),
		logs:        append([]paymentsrepo.PaymentLog(nil), s.logs...),
	}
	for k, v := range s.venues {
		c.venues[k] = v
	}
	for k, v := range s.courts {
		c.courts[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.settlements {
		c.settlements[k] = v
	}
	for k, v := range s.txs {
		c.txs[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

func (s *memState) nextID() int64 {
	s.seq++
	return s.seq
}

func NewMemory() *Memory {
	m := &Memory{state: newMemState(), now: time.Now}
	m.repos = m.reposFor(false)
	return m
}

func (m *Memory) Repos() *Repos { return m.repos }

func (m *Memory) WithTx(ctx context.Context, fn func(r *Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(m.reposFor(true)); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *Memory) reposFor(inTx bool) *Repos {
	h := memHandle{m: m, inTx: inTx}
	return &Repos{
		Venues:       memVenues{h},
		Bookings:     memBookings{h},
		Transactions: memTransactions{h},
		Payments:     memPayments{h},
		PayLogs:      memLogs{h},
	}
}

// memHandle gives repositories access to the state. Inside WithTx the lock is
// already held by the caller.
type memHandle struct {
	m    *Memory
	inTx bool
}

func (h memHandle) do(ctx context.Context, fn func(s *memState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !h.inTx {
		h.m.mu.Lock()
		defer h.m.mu.Unlock()
	}
	return fn(h.m.state)
}

// venues

type memVenues struct{ memHandle }

func (r memVenues) CreateVenue(ctx context.Context, v *venues.Venue) error {
	return r.do(ctx, func(s *memState) error {
		v.ID = s.nextID()
		v.CreatedAt = r.m.now()
		s.venues[v.ID] = *v
		return nil
	})
}

func (r memVenues) GetVenue(ctx context.Context, id int64) (*venues.Venue, error) {
	var out *venues.Venue
	err := r.do(ctx, func(s *memState) error {
		if v, ok := s.venues[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r memVenues) CreateCourt(ctx context.Context, c *venues.Court) error {
	return r.do(ctx, func(s *memState) error {
		if _, ok := s.venues[c.VenueID]; !ok {
			return fmt.Errorf("create court: venue %d does not exist", c.VenueID)
		}
		c.ID = s.nextID()
		c.CreatedAt = r.m.now()
		c.UpdatedAt = c.CreatedAt
		s.courts[c.ID] = *c
		return nil
	})
}

func (r memVenues) GetCourt(ctx context.Context, id int64) (*venues.Court, error) {
	var out *venues.Court
	err := r.do(ctx, func(s *memState) error {
		if c, ok := s.courts[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r memVenues) ListCourts(ctx context.Context, venueID int64) ([]*venues.Court, error) {
	var out []*venues.Court
	err := r.do(ctx, func(s *memState) error {
		for _, c := range s.courts {
			if c.VenueID == venueID {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r memVenues) UpdateCourt(ctx context.Context, id int64, patch venues.CourtPatch) (*venues.Court, error) {
	var out *venues.Court
	err := r.do(ctx, func(s *memState) error {
		c, ok := s.courts[id]
		if !ok {
			return nil
		}
		if patch.HourlyRate != nil {
			c.HourlyRate = *patch.HourlyRate
		}
		if patch.IsActive != nil {
			c.IsActive = *patch.IsActive
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		c.UpdatedAt = r.m.now()
		s.courts[id] = c
		out = &c
		return nil
	})
	return out, err
}

// bookings

type memBookings struct{ memHandle }

// overlapping mirrors the bookings_no_overlap exclusion constraint.
func overlapping(s *memState, skipID, courtID int64, date bookings.Date, slot interval.Interval) bool {
	for id, b := range s.bookings {
		if id == skipID || !b.Status.Active() {
			continue
		}
		if b.CourtID == courtID && b.Date == date && interval.Overlaps(b.Slot, slot) {
			return true
		}
	}
	return false
}

func (r memBookings) Create(ctx context.Context, b *bookings.Booking) error {
	return r.do(ctx, func(s *memState) error {
		if _, ok := s.courts[b.CourtID]; !ok {
			return fmt.Errorf("create booking: court %d does not exist", b.CourtID)
		}
		if b.Status.Active() && overlapping(s, 0, b.CourtID, b.Date, b.Slot) {
			return apperr.Conflict(bookings.SlotTaken)
		}
		b.ID = s.nextID()
		b.CreatedAt = r.m.now()
		b.UpdatedAt = b.CreatedAt
		s.bookings[b.ID] = *b
		return nil
	})
}

func (r memBookings) GetByID(ctx context.Context, id int64) (*bookings.Booking, error) {
	var out *bookings.Booking
	err := r.do(ctx, func(s *memState) error {
		if b, ok := s.bookings[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r memBookings) GetForUpdate(ctx context.Context, id int64) (*bookings.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r memBookings) filter(ctx context.Context, keep func(b bookings.Booking) bool) ([]*bookings.Booking, error) {
	var out []*bookings.Booking
	err := r.do(ctx, func(s *memState) error {
		for _, b := range s.bookings {
			if keep(b) {
				b := b
				out = append(out, &b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Slot.Start != out[j].Slot.Start {
			return out[i].Slot.Start < out[j].Slot.Start
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r memBookings) ListActive(ctx context.Context, courtID int64, date bookings.Date) ([]*bookings.Booking, error) {
	return r.filter(ctx, func(b bookings.Booking) bool {
		return b.CourtID == courtID && b.Date == date && b.Status.Active()
	})
}

func (r memBookings) ListByCourtDate(ctx context.Context, courtID int64, date bookings.Date) ([]*bookings.Booking, error) {
	return r.filter(ctx, func(b bookings.Booking) bool {
		return b.CourtID == courtID && b.Date == date
	})
}

func (r memBookings) Relocate(ctx context.Context, id, courtID int64, date bookings.Date, slot interval.Interval) (bool, error) {
	var moved bool
	err := r.do(ctx, func(s *memState) error {
		b, ok := s.bookings[id]
		if !ok || !b.Status.Active() {
			return nil
		}
		if overlapping(s, id, courtID, date, slot) {
			return apperr.Conflict(bookings.SlotTaken)
		}
		b.CourtID, b.Date, b.Slot = courtID, date, slot
		b.UpdatedAt = r.m.now()
		s.bookings[id] = b
		moved = true
		return nil
	})
	return moved, err
}

func (r memBookings) UpdatePayment(ctx context.Context, id, paidAmount int64, status bookings.Status) error {
	return r.do(ctx, func(s *memState) error {
		b, ok := s.bookings[id]
		if !ok {
			return nil
		}
		b.PaidAmount, b.Status = paidAmount, status
		b.UpdatedAt = r.m.now()
		s.bookings[id] = b
		return nil
	})
}

func (r memBookings) SetStatus(ctx context.Context, id int64, status bookings.Status) error {
	return r.do(ctx, func(s *memState) error {
		b, ok := s.bookings[id]
		if !ok {
			return nil
		}
		if status.Active() && !b.Status.Active() && overlapping(s, id, b.CourtID, b.Date, b.Slot) {
			return apperr.Conflict(bookings.SlotTaken)
		}
		b.Status = status
		b.UpdatedAt = r.m.now()
		s.bookings[id] = b
		return nil
	})
}

func (r memBookings) AddSettlement(ctx context.Context, id int64, reference string, amount int64) (bool, error) {
	var added bool
	err := r.do(ctx, func(s *memState) error {
		if _, ok := s.bookings[id]; !ok {
			return fmt.Errorf("record settlement: booking %d does not exist", id)
		}
		key := settlementKey{id, reference}
		if _, ok := s.settlements[key]; ok {
			return nil
		}
		s.settlements[key] = amount
		added = true
		return nil
	})
	return added, err
}

func (r memBookings) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.do(ctx, func(s *memState) error {
		if _, ok := s.bookings[id]; !ok {
			return nil
		}
		delete(s.bookings, id)
		for k := range s.settlements {
			if k.bookingID == id {
				delete(s.settlements, k)
			}
		}
		for tid, t := range s.txs {
			if t.BookingID != nil && *t.BookingID == id {
				t.BookingID = nil
				s.txs[tid] = t
			}
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// transactions

type memTransactions struct{ memHandle }

func (r memTransactions) Create(ctx context.Context, t *transactions.Transaction) error {
	return r.do(ctx, func(s *memState) error {
		if t.BookingID != nil {
			if _, ok := s.bookings[*t.BookingID]; !ok {
				return fmt.Errorf("create transaction: booking %d does not exist", *t.BookingID)
			}
		}
		if t.Status == "" {
			t.Status = transactions.StatusPending
		}
		t.ID = s.nextID()
		t.CreatedAt = r.m.now()
		s.txs[t.ID] = *t
		return nil
	})
}

func (r memTransactions) GetByID(ctx context.Context, id int64) (*transactions.Transaction, error) {
	var out *transactions.Transaction
	err := r.do(ctx, func(s *memState) error {
		if t, ok := s.txs[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r memTransactions) MarkPaid(ctx context.Context, id, paidAmount int64, at time.Time) (bool, error) {
	var ok bool
	err := r.do(ctx, func(s *memState) error {
		t, found := s.txs[id]
		if !found || t.Status != transactions.StatusPending {
			return nil
		}
		t.Status, t.PaidAmount, t.PaidAt = transactions.StatusPaid, paidAmount, &at
		s.txs[id] = t
		ok = true
		return nil
	})
	return ok, err
}

// payments

type memPayments struct{ memHandle }

func (r memPayments) Create(ctx context.Context, p *paymentsrepo.Payment) error {
	return r.do(ctx, func(s *memState) error {
		for _, existing := range s.payments {
			if existing.ExternalID == p.ExternalID {
				return apperr.Conflict("payment reference already exists")
			}
		}
		if p.Status == "" {
			p.Status = paymentsrepo.StatusPending
		}
		p.ID = s.nextID()
		p.CreatedAt = r.m.now()
		p.UpdatedAt = p.CreatedAt
		s.payments[p.ID] = *p
		return nil
	})
}

func (r memPayments) find(ctx context.Context, match func(p paymentsrepo.Payment) bool) (*paymentsrepo.Payment, error) {
	var out *paymentsrepo.Payment
	err := r.do(ctx, func(s *memState) error {
		for _, p := range s.payments {
			if match(p) {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r memPayments) GetByID(ctx context.Context, id int64) (*paymentsrepo.Payment, error) {
	return r.find(ctx, func(p paymentsrepo.Payment) bool { return p.ID == id })
}

func (r memPayments) GetByExternalID(ctx context.Context, externalID string) (*paymentsrepo.Payment, error) {
	return r.find(ctx, func(p paymentsrepo.Payment) bool { return p.ExternalID == externalID })
}

func (r memPayments) GetByExternalIDForUpdate(ctx context.Context, externalID string) (*paymentsrepo.Payment, error) {
	return r.GetByExternalID(ctx, externalID)
}

func (r memPayments) Transition(ctx context.Context, id int64, from, to paymentsrepo.Status, paidAmount *int64, metadata []byte) (bool, error) {
	var ok bool
	err := r.do(ctx, func(s *memState) error {
		p, found := s.payments[id]
		if !found || p.Status != from {
			return nil
		}
		p.Status = to
		if paidAmount != nil {
			v := *paidAmount
			p.PaidAmount = &v
		}
		if metadata != nil {
			p.Metadata = append([]byte(nil), metadata...)
		}
		p.UpdatedAt = r.m.now()
		s.payments[id] = p
		ok = true
		return nil
	})
	return ok, err
}

func (r memPayments) collect(ctx context.Context, keep func(s *memState, p paymentsrepo.Payment) bool) ([]*paymentsrepo.Payment, error) {
	var out []*paymentsrepo.Payment
	err := r.do(ctx, func(s *memState) error {
		for _, p := range s.payments {
			if keep(s, p) {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}

func (r memPayments) List(ctx context.Context, f paymentsrepo.Filter) ([]*paymentsrepo.Payment, int, error) {
	all, err := r.collect(ctx, func(_ *memState, p paymentsrepo.Payment) bool {
		return f.Status == "" || p.Status == f.Status
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r memPayments) ListUnsettled(ctx context.Context, limit int) ([]*paymentsrepo.Payment, error) {
	out, err := r.collect(ctx, func(s *memState, p paymentsrepo.Payment) bool {
		if p.Status != paymentsrepo.StatusPaid {
			return false
		}
		switch p.OwnerKind {
		case paymentsrepo.OwnerBooking:
			if _, ok := s.bookings[p.OwnerID]; !ok {
				return false
			}
			_, settled := s.settlements[settlementKey{p.OwnerID, p.ExternalID}]
			return !settled
		case paymentsrepo.OwnerTransaction:
			// The transaction flip and its booking credit commit together,
			// so only a PENDING transaction can be behind.
			t, ok := s.txs[p.OwnerID]
			return ok && t.Status == transactions.StatusPending
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// payment logs

type memLogs struct{ memHandle }

func (r memLogs) InsertPaymentLog(ctx context.Context, paymentID int64, logType string, payload any) error {
	return r.do(ctx, func(s *memState) error {
		if _, ok := s.payments[paymentID]; !ok {
			return fmt.Errorf("insert payment_log: payment %d does not exist", paymentID)
		}
		s.logs = append(s.logs, paymentsrepo.PaymentLog{
			ID:        s.nextID(),
			PaymentID: paymentID,
			LogType:   logType,
			Payload:   paymentsrepo.EncodePayload(payload),
			CreatedAt: r.m.now(),
		})
		return nil
	})
}

func (r memLogs) ListPaymentLogs(ctx context.Context, paymentID int64) ([]paymentsrepo.PaymentLog, error) {
	var out []paymentsrepo.PaymentLog
	err := r.do(ctx, func(s *memState) error {
		for _, l := range s.logs {
			if l.PaymentID == paymentID {
				out = append(out, l)
			}
		}
		return nil
	})
	return out, err
}
