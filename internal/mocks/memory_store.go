package mocks

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/store"
)

// MemoryStore is an in-process implementation of every store interface.
// A single mutex serializes all operations, which gives RecordPayment the same
// all-or-nothing behavior as the database transaction.
type MemoryStore struct {
	mu       sync.Mutex
	parcels  map[uuid.UUID]domain.Parcel
	payments []domain.Payment
	users    map[string]domain.User
	riders   map[uuid.UUID]domain.Rider
	tracking []domain.TrackingLog

	// Err, when set, is returned by every operation.
	Err error
}

var (
	_ store.ParcelStore   = (*MemoryStore)(nil)
	_ store.PaymentStore  = (*MemoryStore)(nil)
	_ store.UserStore     = (*MemoryStore)(nil)
	_ store.RiderStore    = (*MemoryStore)(nil)
	_ store.TrackingStore = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		parcels: make(map[uuid.UUID]domain.Parcel),
		users:   make(map[string]domain.User),
		riders:  make(map[uuid.UUID]domain.Rider),
	}
}

// Stores bundles m as a store.Stores.
func (m *MemoryStore) Stores() *store.Stores {
	return &store.Stores{
		Parcels:  m,
		Payments: m,
		Users:    m,
		Riders:   m,
		Tracking: m,
		Ping:     func(context.Context) error { return m.Err },
		Close:    func(context.Context) error { return nil },
	}
}

// PaymentCount returns the number of stored payments for parcelID.
func (m *MemoryStore) PaymentCount(parcelID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.payments {
		if p.ParcelID == parcelID {
			n++
		}
	}
	return n
}

// TrackingLogs returns a copy of every stored tracking entry.
func (m *MemoryStore) TrackingLogs() []domain.TrackingLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.tracking)
}

func (m *MemoryStore) CreateParcel(ctx context.Context, parcel *domain.Parcel) error {
	if err := parcel.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.parcels[parcel.ID] = *parcel
	return nil
}

func (m *MemoryStore) GetParcel(ctx context.Context, id uuid.UUID) (*domain.Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.parcels[id]
	if !ok {
		return nil, store.ErrParcelNotFound
	}
	return &p, nil
}

func (m *MemoryStore) ListParcels(ctx context.Context, filter store.ParcelFilter) ([]*domain.Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*domain.Parcel, 0, len(m.parcels))
	for _, p := range m.parcels {
		if filter.CreatedBy != "" && p.CreatedBy != filter.CreatedBy {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) DeleteParcel(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	p, ok := m.parcels[id]
	if !ok {
		return store.ErrParcelNotFound
	}
	if p.IsPaid() {
		return store.ErrParcelPaid
	}
	delete(m.parcels, id)
	return nil
}

func (m *MemoryStore) RecordPayment(ctx context.Context, payment *domain.Payment) (store.TransitionResult, error) {
	if err := payment.Validate(); err != nil {
		return store.TransitionResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return store.TransitionResult{}, m.Err
	}
	if err := ctx.Err(); err != nil {
		return store.TransitionResult{}, err
	}

	parcel, ok := m.parcels[payment.ParcelID]
	if !ok {
		return store.ParcelMissing(), nil
	}
	if parcel.IsPaid() {
		return store.AlreadyPaid(), nil
	}

	paidAt := payment.PaidAt
	parcel.PaymentStatus = domain.ParcelPaid
	parcel.TransactionID = payment.TransactionID
	parcel.PaidAt = &paidAt
	m.parcels[parcel.ID] = parcel
	m.payments = append(m.payments, *payment)
	return store.Applied(payment.ID), nil
}

func (m *MemoryStore) ListPaymentsByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*domain.Payment, 0)
	for _, p := range m.payments {
		if p.Email == email {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

func (m *MemoryStore) UpsertUser(ctx context.Context, user *domain.User) (*domain.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, false, m.Err
	}
	if existing, ok := m.users[user.Email]; ok {
		existing.LastLogIn = time.Now().UTC()
		m.users[user.Email] = existing
		return &existing, false, nil
	}
	m.users[user.Email] = *user
	stored := *user
	return &stored, true, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryStore) UpdateUserRole(ctx context.Context, email string, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	u, ok := m.users[email]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Role = role
	m.users[email] = u
	return nil
}

func (m *MemoryStore) CreateRider(ctx context.Context, rider *domain.Rider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.riders[rider.ID] = *rider
	return nil
}

func (m *MemoryStore) ListRidersByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*domain.Rider, 0)
	for _, r := range m.riders {
		if r.Status == status {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) UpdateRiderStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.RiderStatus,
) (*domain.Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	r, ok := m.riders[id]
	if !ok {
		return nil, store.ErrRiderNotFound
	}
	r.Status = status
	m.riders[id] = r
	return &r, nil
}

func (m *MemoryStore) AppendTrackingLog(ctx context.Context, log *domain.TrackingLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.tracking = append(m.tracking, *log)
	return nil
}

func (m *MemoryStore) ListTrackingLogs(ctx context.Context, trackingID string) ([]*domain.TrackingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*domain.TrackingLog, 0)
	for _, l := range m.tracking {
		if l.TrackingID == trackingID {
			l := l
			out = append(out, &l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
