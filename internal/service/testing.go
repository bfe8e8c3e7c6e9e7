package service

import (
	"context"
	"sync"
	"time"

	"foodbridge-api-server/internal/models"
)

// MemoryStore is an in-process Store used by tests and local tooling.
// A single mutex serializes transactions, which gives the same
// atomicity guarantees as the MongoDB implementation: a transaction's
// writes are staged and applied only if its callback succeeds.
type MemoryStore struct {
	mu            sync.Mutex
	users         map[string]models.User
	donations     map[string]models.Donation
	claims        map[string]models.Claim
	schedules     map[string]models.PickupSchedule
	ratings       map[string]models.NgoRating
	notifications []models.Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		donations: make(map[string]models.Donation),
		claims:    make(map[string]models.Claim),
		schedules: make(map[string]models.PickupSchedule),
		ratings:   make(map[string]models.NgoRating),
	}
}

type memTx struct {
	store *MemoryStore

	donations map[string]models.Donation
	claims    map[string]models.Claim
	schedules map[string]models.PickupSchedule
	ratings   map[string]models.NgoRating
}

func (t *memTx) User(id string) (models.User, error) {
	u, ok := t.store.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (t *memTx) Donation(id string) (models.Donation, error) {
	if d, ok := t.donations[id]; ok {
		return d, nil
	}
	d, ok := t.store.donations[id]
	if !ok {
		return models.Donation{}, ErrNotFound
	}
	return d, nil
}

func (t *memTx) Claim(id string) (models.Claim, error) {
	if c, ok := t.claims[id]; ok {
		return c, nil
	}
	c, ok := t.store.claims[id]
	if !ok {
		return models.Claim{}, ErrNotFound
	}
	return c, nil
}

func (t *memTx) Schedule(claimID string) (models.PickupSchedule, error) {
	if s, ok := t.schedules[claimID]; ok {
		return s, nil
	}
	s, ok := t.store.schedules[claimID]
	if !ok {
		return models.PickupSchedule{}, ErrNotFound
	}
	return s, nil
}

func (t *memTx) SaveDonation(d models.Donation) error {
	t.donations[d.ID] = d
	return nil
}

func (t *memTx) InsertClaim(c models.Claim) error {
	t.claims[c.ID] = c
	return nil
}

func (t *memTx) SaveClaim(c models.Claim) error {
	t.claims[c.ID] = c
	return nil
}

func (t *memTx) SaveSchedule(s models.PickupSchedule) error {
	t.schedules[s.ID] = s
	return nil
}

func (t *memTx) SaveRating(r models.NgoRating) error {
	t.ratings[r.ID] = r
	return nil
}

func (m *MemoryStore) InTransaction(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		store:     m,
		donations: make(map[string]models.Donation),
		claims:    make(map[string]models.Claim),
		schedules: make(map[string]models.PickupSchedule),
		ratings:   make(map[string]models.NgoRating),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for id, d := range tx.donations {
		m.donations[id] = d
	}
	for id, c := range tx.claims {
		m.claims[id] = c
	}
	for id, s := range tx.schedules {
		m.schedules[id] = s
	}
	for id, r := range tx.ratings {
		m.ratings[id] = r
	}
	return nil
}

func (m *MemoryStore) InsertUser(ctx context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *MemoryStore) UserByID(ctx context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) UserByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *MemoryStore) SaveUser(ctx context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MemoryStore) Users(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *MemoryStore) UsersByRole(ctx context.Context, role string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MemoryStore) InsertDonation(ctx context.Context, d models.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.donations[d.ID] = d
	return nil
}

func (m *MemoryStore) DonationByID(ctx context.Context, id string) (models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return models.Donation{}, ErrNotFound
	}
	return d, nil
}

func (m *MemoryStore) AvailableDonations(ctx context.Context) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Donation
	for _, d := range m.donations {
		if d.Status == models.DonationAvailable {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryStore) DonationsByRestaurant(ctx context.Context, restaurantID string) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Donation
	for _, d := range m.donations {
		if d.RestaurantID == restaurantID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryStore) AllDonations(ctx context.Context) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Donation, 0, len(m.donations))
	for _, d := range m.donations {
		out = append(out, d)
	}
	return out, nil
}

func (m *MemoryStore) SetDonationStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return ErrNotFound
	}
	d.Status = status
	m.donations[id] = d
	return nil
}

func (m *MemoryStore) DeleteDonation(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.donations[id]; !ok {
		return ErrNotFound
	}
	delete(m.donations, id)
	return nil
}

func (m *MemoryStore) ClaimByID(ctx context.Context, id string) (models.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.claims[id]
	if !ok {
		return models.Claim{}, ErrNotFound
	}
	return c, nil
}

func (m *MemoryStore) ClaimsByNgo(ctx context.Context, ngoID string) ([]models.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Claim
	for _, c := range m.claims {
		if c.NgoID == ngoID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ClaimsByDonation is a test helper for asserting single-winner claims.
func (m *MemoryStore) ClaimsByDonation(donationID string) []models.Claim {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Claim
	for _, c := range m.claims {
		if c.DonationID == donationID {
			out = append(out, c)
		}
	}
	return out
}

func (m *MemoryStore) ScheduleByClaimID(ctx context.Context, claimID string) (models.PickupSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[claimID]
	if !ok {
		return models.PickupSchedule{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) SaveSchedule(ctx context.Context, s models.PickupSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.ID] = s
	return nil
}

func (m *MemoryStore) SchedulesByNgo(ctx context.Context, ngoID string) ([]models.PickupSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PickupSchedule
	for _, s := range m.schedules {
		if s.NgoID == ngoID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) SchedulesByRestaurant(ctx context.Context, restaurantID string) ([]models.PickupSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PickupSchedule
	for _, s := range m.schedules {
		if s.RestaurantID == restaurantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) RatingsByRestaurant(ctx context.Context, restaurantID string) ([]models.NgoRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.NgoRating
	for _, r := range m.ratings {
		if r.RestaurantID == restaurantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) RatingsByNgo(ctx context.Context, ngoID string) ([]models.NgoRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.NgoRating
	for _, r := range m.ratings {
		if r.NgoID == ngoID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) InsertNotification(ctx context.Context, n models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *MemoryStore) NotificationsFor(ctx context.Context, userID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if n.RecipientKey == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *MemoryStore) MarkNotificationRead(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.notifications {
		if n.ID == id && n.RecipientKey == userID {
			m.notifications[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

// RecordingNotifier captures fan-out calls for assertions.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []NotificationInput
}

func (r *RecordingNotifier) Notify(ctx context.Context, in NotificationInput) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, in)
}

// StaticAnalyzer returns a fixed analysis, standing in for the AI oracle.
type StaticAnalyzer struct {
	Result Analysis
}

func (a *StaticAnalyzer) Analyze(ctx context.Context, foodName, description string, availableTill time.Time) Analysis {
	if a.Result.FreshnessRiskLevel == "" {
		return Analysis{FreshnessRiskLevel: models.RiskMedium, PickupPriorityScore: 3, Reason: "static analyzer"}
	}
	return a.Result
}
