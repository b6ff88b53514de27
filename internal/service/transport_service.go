package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type transportRepository interface {
	ListVehicles(ctx context.Context) ([]models.VehicleDetail, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehicleByNumber(ctx context.Context, number string) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, v *models.Vehicle) error
	UpdateVehicle(ctx context.Context, v *models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error

	ListDrivers(ctx context.Context) ([]models.Driver, error)
	FindDriverByID(ctx context.Context, id string) (*models.Driver, error)
	FindDriverByUserID(ctx context.Context, userID string) (*models.Driver, error)
	ExistsByLicence(ctx context.Context, licence string, excludeID string) (bool, error)
	CreateDriver(ctx context.Context, d *models.Driver) error
	UpdateDriver(ctx context.Context, d *models.Driver) error
	SetDriverUserID(ctx context.Context, id, userID string) error
	DeleteDriver(ctx context.Context, id string) error

	ListRoutes(ctx context.Context) ([]models.Route, error)
	FindRouteByID(ctx context.Context, id string) (*models.Route, error)
	CreateRoute(ctx context.Context, route *models.Route) error
	UpdateRoute(ctx context.Context, route *models.Route) error
	DeleteRoute(ctx context.Context, id string) error

	ListAssignments(ctx context.Context, filter models.TransportAssignmentFilter) ([]models.TransportAssignmentDetail, int, error)
	FindAssignmentByID(ctx context.Context, id string) (*models.TransportAssignment, error)
	CreateAssignment(ctx context.Context, ta *models.TransportAssignment) error
	UpdateAssignment(ctx context.Context, ta *models.TransportAssignment) error
	DeleteAssignment(ctx context.Context, id string) error

	FindMeterReading(ctx context.Context, vehicleID string, date time.Time) (*models.MeterReading, error)
	FindLatestMeterReadingBefore(ctx context.Context, vehicleID string, date time.Time) (*models.MeterReading, error)
	ListMeterReadings(ctx context.Context, vehicleID string, from, to time.Time) ([]models.MeterReading, error)
	CreateMeterReading(ctx context.Context, m *models.MeterReading) error
	UpdateMeterReading(ctx context.Context, m *models.MeterReading) error
}

type transportStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type driverProvisioner interface {
	ProvisionDriver(ctx context.Context, driver *models.Driver, actorID string) (*ProvisionedAccount, error)
	SyncEmail(ctx context.Context, userID, email string) error
}

// CreateVehicleRequest registers a vehicle by its registration number.
type CreateVehicleRequest struct {
	Number   string  `json:"number" validate:"required,min=2,max=20"`
	Type     string  `json:"type" validate:"required,oneof=bus van car other"`
	Capacity int     `json:"capacity" validate:"required,min=1,max=200"`
	DriverID *string `json:"driver_id,omitempty" validate:"omitempty,uuid"`
	Remarks  *string `json:"remarks,omitempty"`
}

// CreateDriverRequest registers a driver; a login account keyed on the
// licence number is provisioned alongside.
type CreateDriverRequest struct {
	FullName      string `json:"full_name" validate:"required,min=2,max=100"`
	LicenceNumber string `json:"licence_number" validate:"required,min=4,max=30"`
	Email         string `json:"email" validate:"required,email"`
	Contact       string `json:"contact" validate:"required,min=6,max=20"`
}

// CreateDriverResult carries the driver plus the one-time credentials.
type CreateDriverResult struct {
	Driver  *models.Driver      `json:"driver"`
	Account *ProvisionedAccount `json:"account,omitempty"`
}

// CreateRouteRequest defines a named route with comma-separated stops.
type CreateRouteRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	StartPoint string `json:"start_point" validate:"required,min=2,max=100"`
	EndPoint   string `json:"end_point" validate:"required,min=2,max=100"`
	Stops      string `json:"stops" validate:"max=1000"`
}

// CreateAssignmentRequest places a student on a vehicle and route.
type CreateAssignmentRequest struct {
	StudentID   string  `json:"student_id" validate:"required,uuid"`
	VehicleID   *string `json:"vehicle_id,omitempty" validate:"omitempty,uuid"`
	RouteID     *string `json:"route_id,omitempty" validate:"omitempty,uuid"`
	PickupPoint string  `json:"pickup_point" validate:"required,min=2,max=100"`
	DropPoint   string  `json:"drop_point" validate:"required,min=2,max=100"`
}

// RecordMeterReadingRequest opens or closes the day's odometer entry for a
// vehicle. StartValue is optional; when absent the previous day's end value
// seeds the start.
type RecordMeterReadingRequest struct {
	VehicleID  string   `json:"vehicle_id" validate:"required,uuid"`
	Date       string   `json:"date" validate:"required"`
	StartValue *float64 `json:"start_value,omitempty" validate:"omitempty,min=0"`
	EndValue   *float64 `json:"end_value,omitempty" validate:"omitempty,min=0"`
}

// TransportService manages vehicles, drivers, routes, student assignments
// and daily meter readings.
type TransportService struct {
	repo        transportRepository
	students    transportStudentRepository
	provisioner driverProvisioner
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewTransportService constructs a TransportService.
func NewTransportService(repo transportRepository, students transportStudentRepository, provisioner driverProvisioner, validate *validator.Validate, logger *zap.Logger) *TransportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransportService{repo: repo, students: students, provisioner: provisioner, validator: validate, logger: logger, now: time.Now}
}

// ListVehicles returns all vehicles with driver names.
func (s *TransportService) ListVehicles(ctx context.Context) ([]models.VehicleDetail, error) {
	vehicles, err := s.repo.ListVehicles(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vehicles")
	}
	return vehicles, nil
}

// CreateVehicle registers a vehicle. Registration numbers are stored
// uppercase and must be unique.
func (s *TransportService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*models.Vehicle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vehicle payload")
	}

	number := strings.ToUpper(strings.TrimSpace(req.Number))
	if existing, err := s.repo.FindVehicleByNumber(ctx, number); err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check vehicle number")
	} else if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "vehicle number already registered")
	}
	if req.DriverID != nil {
		if _, err := s.repo.FindDriverByID(ctx, *req.DriverID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "driver not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load driver")
		}
	}

	vehicle := &models.Vehicle{
		Number:   number,
		Type:     models.VehicleType(req.Type),
		Capacity: req.Capacity,
		DriverID: req.DriverID,
		Remarks:  req.Remarks,
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create vehicle")
	}

	s.logger.Info("vehicle created", zap.String("number", vehicle.Number))
	return vehicle, nil
}

// UpdateVehicle edits a vehicle's details.
func (s *TransportService) UpdateVehicle(ctx context.Context, id string, req CreateVehicleRequest) (*models.Vehicle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vehicle payload")
	}
	vehicle, err := s.repo.FindVehicleByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "vehicle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicle")
	}

	number := strings.ToUpper(strings.TrimSpace(req.Number))
	if number != vehicle.Number {
		if existing, err := s.repo.FindVehicleByNumber(ctx, number); err != nil && err != sql.ErrNoRows {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check vehicle number")
		} else if existing != nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "vehicle number already registered")
		}
	}

	vehicle.Number = number
	vehicle.Type = models.VehicleType(req.Type)
	vehicle.Capacity = req.Capacity
	vehicle.DriverID = req.DriverID
	vehicle.Remarks = req.Remarks
	if err := s.repo.UpdateVehicle(ctx, vehicle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update vehicle")
	}
	return vehicle, nil
}

// DeleteVehicle removes a vehicle.
func (s *TransportService) DeleteVehicle(ctx context.Context, id string) error {
	if _, err := s.repo.FindVehicleByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "vehicle not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicle")
	}
	if err := s.repo.DeleteVehicle(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete vehicle")
	}
	return nil
}

// ListDrivers returns all drivers.
func (s *TransportService) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	drivers, err := s.repo.ListDrivers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list drivers")
	}
	return drivers, nil
}

// CreateDriver registers a driver and provisions the login account. A
// provisioning failure is reported but does not roll back the driver row;
// the account can be retried through an update.
func (s *TransportService) CreateDriver(ctx context.Context, req CreateDriverRequest, actorID string) (*CreateDriverResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid driver payload")
	}

	licence := strings.ToUpper(strings.TrimSpace(req.LicenceNumber))
	exists, err := s.repo.ExistsByLicence(ctx, licence, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check licence number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "licence number already registered")
	}

	driver := &models.Driver{
		FullName:      strings.TrimSpace(req.FullName),
		LicenceNumber: licence,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Contact:       strings.TrimSpace(req.Contact),
	}
	if err := s.repo.CreateDriver(ctx, driver); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create driver")
	}

	account, err := s.provisioner.ProvisionDriver(ctx, driver, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetDriverUserID(ctx, driver.ID, account.UserID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link driver account")
	}
	driver.UserID = &account.UserID

	s.logger.Info("driver created",
		zap.String("driver_id", driver.ID),
		zap.String("licence", driver.LicenceNumber))
	return &CreateDriverResult{Driver: driver, Account: account}, nil
}

// UpdateDriver edits a driver's profile. An email change is propagated to
// the linked login account.
func (s *TransportService) UpdateDriver(ctx context.Context, id string, req CreateDriverRequest) (*models.Driver, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid driver payload")
	}
	driver, err := s.repo.FindDriverByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "driver not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load driver")
	}

	licence := strings.ToUpper(strings.TrimSpace(req.LicenceNumber))
	exists, err := s.repo.ExistsByLicence(ctx, licence, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check licence number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "licence number already registered")
	}

	previousEmail := driver.Email
	driver.FullName = strings.TrimSpace(req.FullName)
	driver.LicenceNumber = licence
	driver.Email = strings.ToLower(strings.TrimSpace(req.Email))
	driver.Contact = strings.TrimSpace(req.Contact)
	if err := s.repo.UpdateDriver(ctx, driver); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update driver")
	}

	if driver.UserID != nil && driver.Email != previousEmail {
		if err := s.provisioner.SyncEmail(ctx, *driver.UserID, driver.Email); err != nil {
			return nil, err
		}
	}
	return driver, nil
}

// DeleteDriver removes a driver.
func (s *TransportService) DeleteDriver(ctx context.Context, id string) error {
	if _, err := s.repo.FindDriverByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "driver not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load driver")
	}
	if err := s.repo.DeleteDriver(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete driver")
	}
	return nil
}

// ListRoutes returns all routes.
func (s *TransportService) ListRoutes(ctx context.Context) ([]models.Route, error) {
	routes, err := s.repo.ListRoutes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list routes")
	}
	return routes, nil
}

// CreateRoute adds a route.
func (s *TransportService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*models.Route, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}
	route := &models.Route{
		Name:       strings.TrimSpace(req.Name),
		StartPoint: strings.TrimSpace(req.StartPoint),
		EndPoint:   strings.TrimSpace(req.EndPoint),
		Stops:      strings.TrimSpace(req.Stops),
	}
	if err := s.repo.CreateRoute(ctx, route); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create route")
	}
	return route, nil
}

// UpdateRoute edits a route.
func (s *TransportService) UpdateRoute(ctx context.Context, id string, req CreateRouteRequest) (*models.Route, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}
	route, err := s.repo.FindRouteByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "route not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load route")
	}

	route.Name = strings.TrimSpace(req.Name)
	route.StartPoint = strings.TrimSpace(req.StartPoint)
	route.EndPoint = strings.TrimSpace(req.EndPoint)
	route.Stops = strings.TrimSpace(req.Stops)
	if err := s.repo.UpdateRoute(ctx, route); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update route")
	}
	return route, nil
}

// DeleteRoute removes a route.
func (s *TransportService) DeleteRoute(ctx context.Context, id string) error {
	if _, err := s.repo.FindRouteByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "route not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load route")
	}
	if err := s.repo.DeleteRoute(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete route")
	}
	return nil
}

// ListAssignments returns student transport assignments with display names.
func (s *TransportService) ListAssignments(ctx context.Context, filter models.TransportAssignmentFilter) ([]models.TransportAssignmentDetail, int, error) {
	rows, total, err := s.repo.ListAssignments(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return rows, total, nil
}

// CreateAssignment places a student on transport. The class is denormalised
// from the student at assignment time.
func (s *TransportService) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*models.TransportAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if req.VehicleID != nil {
		if _, err := s.repo.FindVehicleByID(ctx, *req.VehicleID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "vehicle not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicle")
		}
	}
	if req.RouteID != nil {
		if _, err := s.repo.FindRouteByID(ctx, *req.RouteID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "route not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load route")
		}
	}

	assignment := &models.TransportAssignment{
		StudentID:    req.StudentID,
		ClassID:      student.ClassID,
		VehicleID:    req.VehicleID,
		RouteID:      req.RouteID,
		PickupPoint:  strings.TrimSpace(req.PickupPoint),
		DropPoint:    strings.TrimSpace(req.DropPoint),
		AssignedDate: s.now().UTC(),
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// DeleteAssignment removes a transport assignment.
func (s *TransportService) DeleteAssignment(ctx context.Context, id string) error {
	if _, err := s.repo.FindAssignmentByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if err := s.repo.DeleteAssignment(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

// RecordMeterReading opens or amends the odometer entry for a vehicle on a
// date. Drivers record for their own vehicle only, on the same day; when no
// start value is given the previous day's end value seeds it.
func (s *TransportService) RecordMeterReading(ctx context.Context, claims *models.JWTClaims, req RecordMeterReadingRequest) (*models.MeterReading, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meter reading payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	driver, err := s.resolveDriver(ctx, claims, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !isAdminRole(claims.Role) {
		today := s.now().UTC().Format("2006-01-02")
		if req.Date != today {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "meter readings may only be recorded for today")
		}
	}

	existing, err := s.repo.FindMeterReading(ctx, req.VehicleID, date)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meter reading")
	}

	if existing != nil {
		if req.StartValue != nil {
			existing.StartValue = *req.StartValue
		}
		if req.EndValue != nil {
			existing.EndValue = req.EndValue
		}
		// Re-check after applying both fields; raising only the start must
		// not leave the stored end below it.
		if existing.EndValue != nil && *existing.EndValue < existing.StartValue {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end value cannot be below start value")
		}
		if err := s.repo.UpdateMeterReading(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update meter reading")
		}
		return existing, nil
	}

	start := 0.0
	if req.StartValue != nil {
		start = *req.StartValue
	} else {
		previous, err := s.repo.FindLatestMeterReadingBefore(ctx, req.VehicleID, date)
		if err != nil && err != sql.ErrNoRows {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load previous reading")
		}
		if previous != nil && previous.EndValue != nil {
			start = *previous.EndValue
		}
	}
	if req.EndValue != nil && *req.EndValue < start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end value cannot be below start value")
	}

	reading := &models.MeterReading{
		VehicleID:  req.VehicleID,
		DriverID:   driver,
		Date:       date,
		StartValue: start,
		EndValue:   req.EndValue,
	}
	if err := s.repo.CreateMeterReading(ctx, reading); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create meter reading")
	}

	s.logger.Info("meter reading recorded",
		zap.String("vehicle_id", reading.VehicleID),
		zap.String("date", req.Date))
	return reading, nil
}

// ListMeterReadings returns a vehicle's readings over a date range.
func (s *TransportService) ListMeterReadings(ctx context.Context, vehicleID string, from, to time.Time) ([]models.MeterReading, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date range end precedes start")
	}
	readings, err := s.repo.ListMeterReadings(ctx, vehicleID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list meter readings")
	}
	return readings, nil
}

// resolveDriver maps the caller to a driver profile. Admins record on
// behalf of the vehicle's assigned driver.
func (s *TransportService) resolveDriver(ctx context.Context, claims *models.JWTClaims, vehicleID string) (string, error) {
	if claims.Role == models.RoleDriver {
		driver, err := s.repo.FindDriverByUserID(ctx, claims.UserID)
		if err != nil {
			if err == sql.ErrNoRows {
				return "", appErrors.Clone(appErrors.ErrForbidden, "no driver profile linked to account")
			}
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load driver")
		}
		return driver.ID, nil
	}
	if isAdminRole(claims.Role) {
		vehicle, err := s.repo.FindVehicleByID(ctx, vehicleID)
		if err != nil {
			if err == sql.ErrNoRows {
				return "", appErrors.Clone(appErrors.ErrNotFound, "vehicle not found")
			}
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicle")
		}
		if vehicle.DriverID == nil {
			return "", appErrors.Clone(appErrors.ErrValidation, "vehicle has no assigned driver")
		}
		return *vehicle.DriverID, nil
	}
	return "", appErrors.Clone(appErrors.ErrForbidden, "only drivers record meter readings")
}

func isAdminRole(role models.UserRole) bool {
	return role == models.RoleSuperAdmin || role == models.RoleAdmin
}
