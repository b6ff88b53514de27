package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type mockTrackingRepo struct {
	vehicle   *models.Vehicle
	latest    *models.LocationUpdate
	locations []*models.LocationUpdate
}

func (m *mockTrackingRepo) FindVehicleByNumber(ctx context.Context, number string) (*models.Vehicle, error) {
	if m.vehicle != nil && m.vehicle.Number == number {
		return m.vehicle, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTrackingRepo) CreateLocation(ctx context.Context, loc *models.LocationUpdate) error {
	loc.ID = "loc-new"
	m.locations = append(m.locations, loc)
	return nil
}

func (m *mockTrackingRepo) FindLatestLocation(ctx context.Context, vehicleID string) (*models.LocationUpdate, error) {
	if m.latest != nil {
		return m.latest, nil
	}
	return nil, sql.ErrNoRows
}

type mockTrackingCache struct {
	store     map[string][]byte
	published map[string]int
	setErr    error
}

func (m *mockTrackingCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockTrackingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	m.store[key] = raw
	return nil
}

func (m *mockTrackingCache) Publish(ctx context.Context, channel string, value interface{}) error {
	if m.published == nil {
		m.published = make(map[string]int)
	}
	m.published[channel]++
	return nil
}

func (m *mockTrackingCache) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return nil
}

func newTrackingFixture(repo *mockTrackingRepo, cache *mockTrackingCache) *TrackingService {
	svc := NewTrackingService(repo, cache, time.Hour, "tracking:vehicle:", validator.New(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	}
	return svc
}

func TestPingStoresCachesAndPublishes(t *testing.T) {
	repo := &mockTrackingRepo{vehicle: &models.Vehicle{ID: "v1", Number: "KA-01-AB-1234"}}
	cache := &mockTrackingCache{}
	svc := newTrackingFixture(repo, cache)

	position, err := svc.Ping(context.Background(), LocationPingRequest{
		VehicleNumber: "ka-01-ab-1234",
		Latitude:      12.9716,
		Longitude:     77.5946,
	})
	require.NoError(t, err)
	assert.Equal(t, "KA-01-AB-1234", position.VehicleNumber)
	require.Len(t, repo.locations, 1)
	assert.Contains(t, cache.store, "position:vehicle:KA-01-AB-1234")
	assert.Equal(t, 1, cache.published["tracking:vehicle:KA-01-AB-1234"])
}

func TestPingAcceptsZeroCoordinates(t *testing.T) {
	repo := &mockTrackingRepo{vehicle: &models.Vehicle{ID: "v1", Number: "KA-01-AB-1234"}}
	svc := newTrackingFixture(repo, &mockTrackingCache{})

	// A vehicle on the equator or prime meridian reports 0; that is valid data.
	_, err := svc.Ping(context.Background(), LocationPingRequest{
		VehicleNumber: "KA-01-AB-1234",
		Latitude:      0,
		Longitude:     0,
	})
	require.NoError(t, err)
	require.Len(t, repo.locations, 1)

	_, err = svc.Ping(context.Background(), LocationPingRequest{
		VehicleNumber: "KA-01-AB-1234",
		Latitude:      91,
		Longitude:     0,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPingUnknownVehicle(t *testing.T) {
	svc := newTrackingFixture(&mockTrackingRepo{}, &mockTrackingCache{})

	_, err := svc.Ping(context.Background(), LocationPingRequest{
		VehicleNumber: "XX-99",
		Latitude:      12.9716,
		Longitude:     77.5946,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPingSurvivesCacheFailure(t *testing.T) {
	repo := &mockTrackingRepo{vehicle: &models.Vehicle{ID: "v1", Number: "KA-01-AB-1234"}}
	cache := &mockTrackingCache{setErr: errors.New("redis down")}
	svc := newTrackingFixture(repo, cache)

	_, err := svc.Ping(context.Background(), LocationPingRequest{
		VehicleNumber: "KA-01-AB-1234",
		Latitude:      12.9716,
		Longitude:     77.5946,
	})
	require.NoError(t, err, "cache outage must not drop pings")
	require.Len(t, repo.locations, 1)
}

func TestLatestPrefersCache(t *testing.T) {
	repo := &mockTrackingRepo{}
	cache := &mockTrackingCache{}
	svc := newTrackingFixture(repo, cache)

	cached := models.VehiclePosition{VehicleNumber: "KA-01-AB-1234", Latitude: 1, Longitude: 2}
	require.NoError(t, cache.Set(context.Background(), "position:vehicle:KA-01-AB-1234", cached, time.Hour))

	position, err := svc.Latest(context.Background(), "ka-01-ab-1234")
	require.NoError(t, err)
	assert.Equal(t, 1.0, position.Latitude)
}

func TestLatestFallsBackToDatabase(t *testing.T) {
	recorded := time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC)
	repo := &mockTrackingRepo{
		vehicle: &models.Vehicle{ID: "v1", Number: "KA-01-AB-1234"},
		latest:  &models.LocationUpdate{VehicleID: "v1", Latitude: 12.9, Longitude: 77.6, RecordedAt: recorded},
	}
	svc := newTrackingFixture(repo, &mockTrackingCache{})

	position, err := svc.Latest(context.Background(), "KA-01-AB-1234")
	require.NoError(t, err)
	assert.Equal(t, 12.9, position.Latitude)
	assert.Equal(t, recorded, position.RecordedAt)
}

func TestLatestNoPositionYet(t *testing.T) {
	repo := &mockTrackingRepo{vehicle: &models.Vehicle{ID: "v1", Number: "KA-01-AB-1234"}}
	svc := newTrackingFixture(repo, &mockTrackingCache{})

	_, err := svc.Latest(context.Background(), "KA-01-AB-1234")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
