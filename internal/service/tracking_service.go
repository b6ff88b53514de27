package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type trackingRepository interface {
	FindVehicleByNumber(ctx context.Context, number string) (*models.Vehicle, error)
	CreateLocation(ctx context.Context, loc *models.LocationUpdate) error
	FindLatestLocation(ctx context.Context, vehicleID string) (*models.LocationUpdate, error)
}

type trackingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Publish(ctx context.Context, channel string, value interface{}) error
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// LocationPingRequest is one GPS report from a vehicle-mounted device. The
// device identifies itself by vehicle registration number; the endpoint is
// tokenless, so the number doubles as the shared identifier.
type LocationPingRequest struct {
	VehicleNumber string  `json:"vehicle_number" validate:"required,min=2,max=20"`
	Latitude      float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude     float64 `json:"longitude" validate:"min=-180,max=180"`
}

// TrackingService ingests GPS pings and serves last-known positions. Every
// ping lands in the database and in Redis; live subscribers are fanned-out
// over a per-vehicle pub/sub channel.
type TrackingService struct {
	repo          trackingRepository
	cache         trackingCache
	positionTTL   time.Duration
	channelPrefix string
	validator     *validator.Validate
	logger        *zap.Logger
	now           func() time.Time
}

// NewTrackingService constructs a TrackingService.
func NewTrackingService(repo trackingRepository, cache trackingCache, positionTTL time.Duration, channelPrefix string, validate *validator.Validate, logger *zap.Logger) *TrackingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if positionTTL <= 0 {
		positionTTL = 24 * time.Hour
	}
	if channelPrefix == "" {
		channelPrefix = "tracking:vehicle:"
	}
	return &TrackingService{
		repo:          repo,
		cache:         cache,
		positionTTL:   positionTTL,
		channelPrefix: channelPrefix,
		validator:     validate,
		logger:        logger,
		now:           time.Now,
	}
}

// Ping records one position report. The database write is the source of
// truth; cache and pub/sub failures are logged and swallowed so a Redis
// outage never drops pings.
func (s *TrackingService) Ping(ctx context.Context, req LocationPingRequest) (*models.VehiclePosition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location payload")
	}

	number := strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	vehicle, err := s.repo.FindVehicleByNumber(ctx, number)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown vehicle number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicle")
	}

	loc := &models.LocationUpdate{
		VehicleID:  vehicle.ID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		RecordedAt: s.now().UTC(),
	}
	if err := s.repo.CreateLocation(ctx, loc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record location")
	}

	position := &models.VehiclePosition{
		VehicleNumber: vehicle.Number,
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		RecordedAt:    loc.RecordedAt,
	}
	if err := s.cache.Set(ctx, s.positionKey(vehicle.Number), position, s.positionTTL); err != nil {
		s.logger.Warn("failed to cache vehicle position",
			zap.String("vehicle", vehicle.Number),
			zap.Error(err))
	}
	if err := s.cache.Publish(ctx, s.Channel(vehicle.Number), position); err != nil {
		s.logger.Warn("failed to publish vehicle position",
			zap.String("vehicle", vehicle.Number),
			zap.Error(err))
	}

	return position, nil
}

// Latest returns the last-known position for a vehicle, preferring the
// Redis copy and falling back to the newest database row.
func (s *TrackingService) Latest(ctx context.Context, vehicleNumber string) (*models.VehiclePosition, error) {
	number := strings.ToUpper(strings.TrimSpace(vehicleNumber))
	if number == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "vehicle number required")
	}

	var cached models.VehiclePosition
	if err := s.cache.Get(ctx, s.positionKey(number), &cached); err == nil {
		return &cached, nil
	}

	vehicle, err := s.repo.FindVehicleByNumber(ctx, number)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown vehicle number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicle")
	}
	loc, err := s.repo.FindLatestLocation(ctx, vehicle.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no position reported yet")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest position")
	}

	return &models.VehiclePosition{
		VehicleNumber: vehicle.Number,
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		RecordedAt:    loc.RecordedAt,
	}, nil
}

// Subscribe opens a pub/sub stream of live positions for one vehicle. The
// caller owns the returned subscription and must close it.
func (s *TrackingService) Subscribe(ctx context.Context, vehicleNumber string) (*redis.PubSub, error) {
	number := strings.ToUpper(strings.TrimSpace(vehicleNumber))
	if number == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "vehicle number required")
	}
	sub := s.cache.Subscribe(ctx, s.Channel(number))
	if sub == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "live tracking unavailable")
	}
	return sub, nil
}

// Channel names the pub/sub channel for a vehicle number.
func (s *TrackingService) Channel(vehicleNumber string) string {
	return s.channelPrefix + strings.ToUpper(vehicleNumber)
}

func (s *TrackingService) positionKey(vehicleNumber string) string {
	return "position:vehicle:" + strings.ToUpper(vehicleNumber)
}
