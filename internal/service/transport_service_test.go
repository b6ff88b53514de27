package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const trVehicleID = "6a8f4f4e-0000-4000-8000-00000000ee01"

type mockTransportRepo struct {
	vehiclesByID     map[string]*models.Vehicle
	vehiclesByNumber map[string]*models.Vehicle
	driversByID      map[string]*models.Driver
	driversByUser    map[string]*models.Driver
	licenceTaken     bool

	readingsByDate map[string]*models.MeterReading
	previous       *models.MeterReading
	createdReading *models.MeterReading
	updatedReading *models.MeterReading
	createdVehicle *models.Vehicle
	createdDriver  *models.Driver
	linkedUserID   string
}

func (m *mockTransportRepo) ListVehicles(ctx context.Context) ([]models.VehicleDetail, error) {
	return nil, nil
}

func (m *mockTransportRepo) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	if v, ok := m.vehiclesByID[id]; ok {
		return v, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTransportRepo) FindVehicleByNumber(ctx context.Context, number string) (*models.Vehicle, error) {
	if v, ok := m.vehiclesByNumber[number]; ok {
		return v, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTransportRepo) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	v.ID = trVehicleID
	m.createdVehicle = v
	return nil
}

func (m *mockTransportRepo) UpdateVehicle(ctx context.Context, v *models.Vehicle) error { return nil }
func (m *mockTransportRepo) DeleteVehicle(ctx context.Context, id string) error         { return nil }

func (m *mockTransportRepo) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	return nil, nil
}

func (m *mockTransportRepo) FindDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	if d, ok := m.driversByID[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTransportRepo) FindDriverByUserID(ctx context.Context, userID string) (*models.Driver, error) {
	if d, ok := m.driversByUser[userID]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTransportRepo) ExistsByLicence(ctx context.Context, licence string, excludeID string) (bool, error) {
	return m.licenceTaken, nil
}

func (m *mockTransportRepo) CreateDriver(ctx context.Context, d *models.Driver) error {
	d.ID = "d-new"
	m.createdDriver = d
	return nil
}

func (m *mockTransportRepo) UpdateDriver(ctx context.Context, d *models.Driver) error { return nil }

func (m *mockTransportRepo) SetDriverUserID(ctx context.Context, id, userID string) error {
	m.linkedUserID = userID
	return nil
}

func (m *mockTransportRepo) DeleteDriver(ctx context.Context, id string) error { return nil }

func (m *mockTransportRepo) ListRoutes(ctx context.Context) ([]models.Route, error) { return nil, nil }
func (m *mockTransportRepo) FindRouteByID(ctx context.Context, id string) (*models.Route, error) {
	return nil, sql.ErrNoRows
}
func (m *mockTransportRepo) CreateRoute(ctx context.Context, route *models.Route) error { return nil }
func (m *mockTransportRepo) UpdateRoute(ctx context.Context, route *models.Route) error { return nil }
func (m *mockTransportRepo) DeleteRoute(ctx context.Context, id string) error           { return nil }

func (m *mockTransportRepo) ListAssignments(ctx context.Context, filter models.TransportAssignmentFilter) ([]models.TransportAssignmentDetail, int, error) {
	return nil, 0, nil
}
func (m *mockTransportRepo) FindAssignmentByID(ctx context.Context, id string) (*models.TransportAssignment, error) {
	return nil, sql.ErrNoRows
}
func (m *mockTransportRepo) CreateAssignment(ctx context.Context, ta *models.TransportAssignment) error {
	return nil
}
func (m *mockTransportRepo) UpdateAssignment(ctx context.Context, ta *models.TransportAssignment) error {
	return nil
}
func (m *mockTransportRepo) DeleteAssignment(ctx context.Context, id string) error { return nil }

func (m *mockTransportRepo) FindMeterReading(ctx context.Context, vehicleID string, date time.Time) (*models.MeterReading, error) {
	if r, ok := m.readingsByDate[date.Format("2006-01-02")]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTransportRepo) FindLatestMeterReadingBefore(ctx context.Context, vehicleID string, date time.Time) (*models.MeterReading, error) {
	if m.previous != nil {
		return m.previous, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTransportRepo) ListMeterReadings(ctx context.Context, vehicleID string, from, to time.Time) ([]models.MeterReading, error) {
	return nil, nil
}

func (m *mockTransportRepo) CreateMeterReading(ctx context.Context, r *models.MeterReading) error {
	r.ID = "mr-new"
	m.createdReading = r
	return nil
}

func (m *mockTransportRepo) UpdateMeterReading(ctx context.Context, r *models.MeterReading) error {
	m.updatedReading = r
	return nil
}

type mockTransportStudents struct{}

func (m *mockTransportStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return nil, sql.ErrNoRows
}

type mockDriverProvisioner struct {
	account      *ProvisionedAccount
	syncedUserID string
	syncedEmail  string
}

func (m *mockDriverProvisioner) ProvisionDriver(ctx context.Context, driver *models.Driver, actorID string) (*ProvisionedAccount, error) {
	return m.account, nil
}

func (m *mockDriverProvisioner) SyncEmail(ctx context.Context, userID, email string) error {
	m.syncedUserID = userID
	m.syncedEmail = email
	return nil
}

func newTransportFixture(repo *mockTransportRepo) *TransportService {
	svc := NewTransportService(repo, &mockTransportStudents{}, &mockDriverProvisioner{
		account: &ProvisionedAccount{UserID: "u-driver", Username: "dl-1234", Password: "secretpass"},
	}, validator.New(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCreateVehicleNormalizesNumber(t *testing.T) {
	repo := &mockTransportRepo{}
	svc := newTransportFixture(repo)

	vehicle, err := svc.CreateVehicle(context.Background(), CreateVehicleRequest{
		Number:   " ka-01-ab-1234 ",
		Type:     "bus",
		Capacity: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, "KA-01-AB-1234", vehicle.Number)
}

func TestCreateVehicleDuplicateNumber(t *testing.T) {
	repo := &mockTransportRepo{vehiclesByNumber: map[string]*models.Vehicle{
		"KA-01-AB-1234": {ID: trVehicleID, Number: "KA-01-AB-1234"},
	}}
	svc := newTransportFixture(repo)

	_, err := svc.CreateVehicle(context.Background(), CreateVehicleRequest{
		Number:   "ka-01-ab-1234",
		Type:     "bus",
		Capacity: 40,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCreateDriverProvisionsAccount(t *testing.T) {
	repo := &mockTransportRepo{}
	svc := newTransportFixture(repo)

	result, err := svc.CreateDriver(context.Background(), CreateDriverRequest{
		FullName:      "Gopal Singh",
		LicenceNumber: "dl-0420-1998",
		Email:         "Gopal@School.Example",
		Contact:       "9876543210",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "DL-0420-1998", result.Driver.LicenceNumber)
	assert.Equal(t, "gopal@school.example", result.Driver.Email)
	require.NotNil(t, result.Account)
	assert.Equal(t, "u-driver", repo.linkedUserID)
}

func TestRecordMeterReadingSeedsStartFromPreviousDay(t *testing.T) {
	end := 1250.5
	repo := &mockTransportRepo{
		driversByUser: map[string]*models.Driver{"u-driver": {ID: "d1"}},
		previous:      &models.MeterReading{VehicleID: trVehicleID, EndValue: &end},
	}
	svc := newTransportFixture(repo)
	claims := &models.JWTClaims{UserID: "u-driver", Role: models.RoleDriver}

	reading, err := svc.RecordMeterReading(context.Background(), claims, RecordMeterReadingRequest{
		VehicleID: trVehicleID,
		Date:      "2026-03-02",
	})
	require.NoError(t, err)
	assert.Equal(t, 1250.5, reading.StartValue)
	assert.Equal(t, "d1", reading.DriverID)
}

func TestRecordMeterReadingDriverLimitedToToday(t *testing.T) {
	repo := &mockTransportRepo{
		driversByUser: map[string]*models.Driver{"u-driver": {ID: "d1"}},
	}
	svc := newTransportFixture(repo)
	claims := &models.JWTClaims{UserID: "u-driver", Role: models.RoleDriver}

	_, err := svc.RecordMeterReading(context.Background(), claims, RecordMeterReadingRequest{
		VehicleID: trVehicleID,
		Date:      "2026-03-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRecordMeterReadingAdminBackdates(t *testing.T) {
	repo := &mockTransportRepo{
		vehiclesByID: map[string]*models.Vehicle{
			trVehicleID: {ID: trVehicleID, DriverID: strPtr("d1")},
		},
	}
	svc := newTransportFixture(repo)
	claims := &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin}

	start := 100.0
	reading, err := svc.RecordMeterReading(context.Background(), claims, RecordMeterReadingRequest{
		VehicleID:  trVehicleID,
		Date:       "2026-02-27",
		StartValue: &start,
	})
	require.NoError(t, err)
	assert.Equal(t, "d1", reading.DriverID)
	assert.Equal(t, 100.0, reading.StartValue)
}

func TestRecordMeterReadingClosesExistingEntry(t *testing.T) {
	repo := &mockTransportRepo{
		driversByUser: map[string]*models.Driver{"u-driver": {ID: "d1"}},
		readingsByDate: map[string]*models.MeterReading{
			"2026-03-02": {ID: "mr1", VehicleID: trVehicleID, DriverID: "d1", StartValue: 1250.5},
		},
	}
	svc := newTransportFixture(repo)
	claims := &models.JWTClaims{UserID: "u-driver", Role: models.RoleDriver}

	end := 1312.0
	reading, err := svc.RecordMeterReading(context.Background(), claims, RecordMeterReadingRequest{
		VehicleID: trVehicleID,
		Date:      "2026-03-02",
		EndValue:  &end,
	})
	require.NoError(t, err)
	require.NotNil(t, reading.EndValue)
	assert.Equal(t, 1312.0, *reading.EndValue)
	require.NotNil(t, repo.updatedReading)
}

func TestRecordMeterReadingRejectsEndBelowStart(t *testing.T) {
	repo := &mockTransportRepo{
		driversByUser: map[string]*models.Driver{"u-driver": {ID: "d1"}},
		readingsByDate: map[string]*models.MeterReading{
			"2026-03-02": {ID: "mr1", VehicleID: trVehicleID, DriverID: "d1", StartValue: 1250.5},
		},
	}
	svc := newTransportFixture(repo)
	claims := &models.JWTClaims{UserID: "u-driver", Role: models.RoleDriver}

	end := 1200.0
	_, err := svc.RecordMeterReading(context.Background(), claims, RecordMeterReadingRequest{
		VehicleID: trVehicleID,
		Date:      "2026-03-02",
		EndValue:  &end,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecordMeterReadingRejectsStartRaisedAboveStoredEnd(t *testing.T) {
	end := 1300.0
	repo := &mockTransportRepo{
		driversByUser: map[string]*models.Driver{"u-driver": {ID: "d1"}},
		readingsByDate: map[string]*models.MeterReading{
			"2026-03-02": {ID: "mr1", VehicleID: trVehicleID, DriverID: "d1", StartValue: 1250.5, EndValue: &end},
		},
	}
	svc := newTransportFixture(repo)
	claims := &models.JWTClaims{UserID: "u-driver", Role: models.RoleDriver}

	start := 1350.0
	_, err := svc.RecordMeterReading(context.Background(), claims, RecordMeterReadingRequest{
		VehicleID:  trVehicleID,
		Date:       "2026-03-02",
		StartValue: &start,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecordMeterReadingStudentForbidden(t *testing.T) {
	svc := newTransportFixture(&mockTransportRepo{})
	claims := &models.JWTClaims{UserID: "u-student", Role: models.RoleStudent}

	_, err := svc.RecordMeterReading(context.Background(), claims, RecordMeterReadingRequest{
		VehicleID: trVehicleID,
		Date:      "2026-03-02",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
