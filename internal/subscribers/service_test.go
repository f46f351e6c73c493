package subscribers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamops/streammanager/internal/domain"
)

// fakeRepo is an in-memory Repository for unit tests.
type fakeRepo struct {
	subs   []domain.Subscriber
	nextID int
}

func (r *fakeRepo) Create(_ context.Context, sub *domain.Subscriber) error {
	r.nextID++
	sub.ID = time.Now().Format("20060102") + "-" + string(rune('a'+r.nextID))
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	r.subs = append(r.subs, *sub)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*domain.Subscriber, error) {
	for _, sub := range r.subs {
		if sub.ID == id {
			copied := sub
			return &copied, nil
		}
	}
	return nil, ErrSubscriberNotFound
}

func (r *fakeRepo) List(_ context.Context) ([]domain.Subscriber, error) {
	out := make([]domain.Subscriber, len(r.subs))
	copy(out, r.subs)
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, sub *domain.Subscriber) error {
	for i := range r.subs {
		if r.subs[i].ID == sub.ID {
			r.subs[i] = *sub
			return nil
		}
	}
	return ErrSubscriberNotFound
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	for i := range r.subs {
		if r.subs[i].ID == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriberNotFound
}

func newTestService(repo *fakeRepo, now time.Time) *Service {
	svc := NewService(repo, 15)
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_Create_Normalizes(t *testing.T) {
	now := time.Date(2025, 8, 13, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeRepo{}, now)

	sub, err := svc.Create(context.Background(), CreateInput{
		Service:        "NETFLIX",
		Name:           "  akiro ",
		Phone:          "+51 963-755-815",
		Email:          " akiro60@gmail.com ",
		ExpirationDate: domain.NewDate(2025, 8, 23),
	})
	require.NoError(t, err)

	assert.Equal(t, "AKIRO", sub.Name)
	assert.Equal(t, "51963755815", sub.Phone)
	assert.Equal(t, "akiro60@gmail.com", sub.Email)
	assert.Equal(t, 10, sub.DaysRemaining)
	assert.Equal(t, domain.SubscriberStatusActive, sub.Status)
	assert.NotEmpty(t, sub.ID)
}

func TestService_Create_UpperCasesUnicodeNames(t *testing.T) {
	now := time.Date(2025, 8, 13, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeRepo{}, now)

	tests := []struct {
		name string
		want string
	}{
		{"  maría josé  ", "MARÍA JOSÉ"},
		{"peña nieto", "PEÑA NIETO"},
		{"große", "GROSSE"},
	}
	for _, tt := range tests {
		sub, err := svc.Create(context.Background(), CreateInput{
			Service:        "NETFLIX",
			Name:           tt.name,
			Phone:          "987654321",
			Email:          "a@b.c",
			ExpirationDate: domain.NewDate(2025, 8, 23),
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, sub.Name)
	}
}

func TestService_Create_UnknownService(t *testing.T) {
	svc := newTestService(&fakeRepo{}, time.Now())

	_, err := svc.Create(context.Background(), CreateInput{
		Service:        "BLOCKBUSTER",
		Name:           "A",
		Phone:          "123456789",
		Email:          "a@b.c",
		ExpirationDate: domain.DateOf(time.Now()),
	})
	require.ErrorIs(t, err, ErrUnknownService)
}

func TestService_Create_ShortPhone(t *testing.T) {
	svc := newTestService(&fakeRepo{}, time.Now())

	_, err := svc.Create(context.Background(), CreateInput{
		Service:        "SPOTIFY",
		Name:           "A",
		Phone:          "12-34",
		Email:          "a@b.c",
		ExpirationDate: domain.DateOf(time.Now()),
	})
	require.ErrorIs(t, err, ErrInvalidPhone)
}

func TestService_Create_PastDateAllowed(t *testing.T) {
	// The server accepts already-expired records; only the form blocks them.
	now := time.Date(2025, 8, 13, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeRepo{}, now)

	sub, err := svc.Create(context.Background(), CreateInput{
		Service:        "HBO MAX",
		Name:           "CANDY",
		Phone:          "984936373",
		Email:          "candy34@gmail.com",
		ExpirationDate: domain.NewDate(2025, 8, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriberStatusExpired, sub.Status)
	assert.Equal(t, -12, sub.DaysRemaining)
}

func TestService_Update_Partial(t *testing.T) {
	now := time.Date(2025, 8, 13, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}
	svc := newTestService(repo, now)

	sub, err := svc.Create(context.Background(), CreateInput{
		Service:        "NETFLIX",
		Name:           "NANCY",
		Phone:          "978988799",
		Email:          "nancy60@gmail.com",
		ExpirationDate: domain.NewDate(2025, 8, 21),
	})
	require.NoError(t, err)

	newDate := domain.NewDate(2025, 9, 21)
	updated, err := svc.Update(context.Background(), sub.ID, UpdateInput{
		ExpirationDate: &newDate,
	})
	require.NoError(t, err)

	// Untouched fields survive, derived fields recomputed.
	assert.Equal(t, "NANCY", updated.Name)
	assert.Equal(t, domain.SubscriberStatusActive, updated.Status)
	assert.Equal(t, 39, updated.DaysRemaining)
}

func TestService_Update_NotFound(t *testing.T) {
	svc := newTestService(&fakeRepo{}, time.Now())

	name := "X"
	_, err := svc.Update(context.Background(), "missing", UpdateInput{Name: &name})
	require.ErrorIs(t, err, ErrSubscriberNotFound)
}

func TestService_List_RefreshesDerivedFields(t *testing.T) {
	repo := &fakeRepo{subs: []domain.Subscriber{
		{ID: "1", Service: "NETFLIX", ExpirationDate: domain.NewDate(2025, 8, 20)},
	}}
	svc := newTestService(repo, time.Date(2025, 8, 13, 0, 0, 0, 0, time.UTC))

	subs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 7, subs[0].DaysRemaining)
	assert.Equal(t, domain.SubscriberStatusExpiring, subs[0].Status)
}

func TestAggregate_SampleScenario(t *testing.T) {
	days := []int{10, 8, 18, 26, 1, 22, 7, 5, 1, 20}
	subs := make([]domain.Subscriber, len(days))
	for i, d := range days {
		subs[i] = domain.Subscriber{DaysRemaining: d, Status: domain.StatusFor(d)}
	}

	stats := Aggregate(subs, 15)

	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 4, stats.Expiring)
	assert.Equal(t, 6, stats.Active)
	assert.Equal(t, 0, stats.Expired)
	assert.Equal(t, float64(150), stats.Revenue)
}

func TestAggregate_ExpiredExcludedFromRevenue(t *testing.T) {
	subs := []domain.Subscriber{
		{DaysRemaining: 10, Status: domain.SubscriberStatusActive},
		{DaysRemaining: 2, Status: domain.SubscriberStatusExpiring},
		{DaysRemaining: -4, Status: domain.SubscriberStatusExpired},
	}

	stats := Aggregate(subs, 20)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, float64(40), stats.Revenue)
}

func TestAggregate_BoundaryAtSeven(t *testing.T) {
	subs := []domain.Subscriber{
		{DaysRemaining: 7, Status: domain.StatusFor(7)},
		{DaysRemaining: 8, Status: domain.StatusFor(8)},
	}

	stats := Aggregate(subs, 15)

	assert.Equal(t, 1, stats.Expiring)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, stats.Total, stats.Expiring+stats.Active)
}
