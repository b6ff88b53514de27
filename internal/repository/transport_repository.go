package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// TransportRepository manages vehicles, drivers, routes, student transport
// assignments and odometer readings.
type TransportRepository struct {
	db *sqlx.DB
}

// NewTransportRepository constructs a TransportRepository.
func NewTransportRepository(db *sqlx.DB) *TransportRepository {
	return &TransportRepository{db: db}
}

// ListVehicles returns all vehicles with driver names, ordered by number.
func (r *TransportRepository) ListVehicles(ctx context.Context) ([]models.VehicleDetail, error) {
	const query = `SELECT v.id, v.number, v.type, v.capacity, v.driver_id, v.remarks, v.created_at, v.updated_at, d.full_name AS driver_name
		FROM vehicles v
		LEFT JOIN drivers d ON d.id = v.driver_id
		ORDER BY v.number ASC`
	var vehicles []models.VehicleDetail
	if err := r.db.SelectContext(ctx, &vehicles, query); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

// FindVehicleByID fetches a vehicle by ID.
func (r *TransportRepository) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	const query = `SELECT id, number, type, capacity, driver_id, remarks, created_at, updated_at FROM vehicles WHERE id = $1`
	var v models.Vehicle
	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindVehicleByNumber fetches a vehicle by registration number.
func (r *TransportRepository) FindVehicleByNumber(ctx context.Context, number string) (*models.Vehicle, error) {
	const query = `SELECT id, number, type, capacity, driver_id, remarks, created_at, updated_at FROM vehicles WHERE UPPER(number) = UPPER($1)`
	var v models.Vehicle
	if err := r.db.GetContext(ctx, &v, query, number); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVehicle inserts a vehicle record.
func (r *TransportRepository) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now

	const query = `INSERT INTO vehicles (id, number, type, capacity, driver_id, remarks, created_at, updated_at)
		VALUES (:id, :number, :type, :capacity, :driver_id, :remarks, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, v); err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	return nil
}

// UpdateVehicle modifies a vehicle record.
func (r *TransportRepository) UpdateVehicle(ctx context.Context, v *models.Vehicle) error {
	v.UpdatedAt = time.Now().UTC()
	const query = `UPDATE vehicles SET number = :number, type = :type, capacity = :capacity, driver_id = :driver_id, remarks = :remarks, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, v); err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	return nil
}

// DeleteVehicle removes a vehicle record.
func (r *TransportRepository) DeleteVehicle(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return nil
}

// ListDrivers returns all drivers ordered by name.
func (r *TransportRepository) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	const query = `SELECT id, user_id, full_name, licence_number, email, contact, created_at, updated_at FROM drivers ORDER BY full_name ASC`
	var drivers []models.Driver
	if err := r.db.SelectContext(ctx, &drivers, query); err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	return drivers, nil
}

// FindDriverByID fetches a driver by ID.
func (r *TransportRepository) FindDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	const query = `SELECT id, user_id, full_name, licence_number, email, contact, created_at, updated_at FROM drivers WHERE id = $1`
	var d models.Driver
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindDriverByUserID fetches the driver linked to a user account.
func (r *TransportRepository) FindDriverByUserID(ctx context.Context, userID string) (*models.Driver, error) {
	const query = `SELECT id, user_id, full_name, licence_number, email, contact, created_at, updated_at FROM drivers WHERE user_id = $1`
	var d models.Driver
	if err := r.db.GetContext(ctx, &d, query, userID); err != nil {
		return nil, err
	}
	return &d, nil
}

// ExistsByLicence checks if another driver uses the same licence number.
func (r *TransportRepository) ExistsByLicence(ctx context.Context, licence string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM drivers WHERE licence_number = $1"
	args := []interface{}{licence}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check driver licence: %w", err)
	}
	return true, nil
}

// CreateDriver inserts a driver record.
func (r *TransportRepository) CreateDriver(ctx context.Context, d *models.Driver) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	const query = `INSERT INTO drivers (id, user_id, full_name, licence_number, email, contact, created_at, updated_at)
		VALUES (:id, :user_id, :full_name, :licence_number, :email, :contact, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("create driver: %w", err)
	}
	return nil
}

// UpdateDriver modifies a driver record.
func (r *TransportRepository) UpdateDriver(ctx context.Context, d *models.Driver) error {
	d.UpdatedAt = time.Now().UTC()
	const query = `UPDATE drivers SET full_name = :full_name, licence_number = :licence_number, email = :email, contact = :contact, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("update driver: %w", err)
	}
	return nil
}

// SetDriverUserID links the provisioned user account to a driver.
func (r *TransportRepository) SetDriverUserID(ctx context.Context, id, userID string) error {
	const query = `UPDATE drivers SET user_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("set driver user id: %w", err)
	}
	return nil
}

// DeleteDriver removes a driver record.
func (r *TransportRepository) DeleteDriver(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drivers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete driver: %w", err)
	}
	return nil
}

// ListRoutes returns all routes ordered by name.
func (r *TransportRepository) ListRoutes(ctx context.Context) ([]models.Route, error) {
	const query = `SELECT id, name, start_point, end_point, stops, created_at, updated_at FROM routes ORDER BY name ASC`
	var routes []models.Route
	if err := r.db.SelectContext(ctx, &routes, query); err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// FindRouteByID fetches a route by ID.
func (r *TransportRepository) FindRouteByID(ctx context.Context, id string) (*models.Route, error) {
	const query = `SELECT id, name, start_point, end_point, stops, created_at, updated_at FROM routes WHERE id = $1`
	var route models.Route
	if err := r.db.GetContext(ctx, &route, query, id); err != nil {
		return nil, err
	}
	return &route, nil
}

// CreateRoute inserts a route record.
func (r *TransportRepository) CreateRoute(ctx context.Context, route *models.Route) error {
	if route.ID == "" {
		route.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if route.CreatedAt.IsZero() {
		route.CreatedAt = now
	}
	route.UpdatedAt = now

	const query = `INSERT INTO routes (id, name, start_point, end_point, stops, created_at, updated_at)
		VALUES (:id, :name, :start_point, :end_point, :stops, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, route); err != nil {
		return fmt.Errorf("create route: %w", err)
	}
	return nil
}

// UpdateRoute modifies a route record.
func (r *TransportRepository) UpdateRoute(ctx context.Context, route *models.Route) error {
	route.UpdatedAt = time.Now().UTC()
	const query = `UPDATE routes SET name = :name, start_point = :start_point, end_point = :end_point, stops = :stops, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, route); err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	return nil
}

// DeleteRoute removes a route record.
func (r *TransportRepository) DeleteRoute(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	return nil
}

// ListAssignments returns transport assignments matching filters.
func (r *TransportRepository) ListAssignments(ctx context.Context, filter models.TransportAssignmentFilter) ([]models.TransportAssignmentDetail, int, error) {
	base := `FROM transport_assignments ta
		JOIN students st ON st.id = ta.student_id
		JOIN classes c ON c.id = ta.class_id
		LEFT JOIN vehicles v ON v.id = ta.vehicle_id
		LEFT JOIN routes rt ON rt.id = ta.route_id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("ta.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.VehicleID != "" {
		conditions = append(conditions, fmt.Sprintf("ta.vehicle_id = $%d", len(args)+1))
		args = append(args, filter.VehicleID)
	}
	if filter.RouteID != "" {
		conditions = append(conditions, fmt.Sprintf("ta.route_id = $%d", len(args)+1))
		args = append(args, filter.RouteID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT ta.id, ta.student_id, ta.class_id, ta.vehicle_id, ta.route_id, ta.pickup_point, ta.drop_point, ta.assigned_date,
		st.full_name AS student_name, c.name AS class_name, v.number AS vehicle_number, rt.name AS route_name
		%s ORDER BY c.name ASC, st.roll_no ASC LIMIT %d OFFSET %d`, base, size, offset)
	var assignments []models.TransportAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list transport assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count transport assignments: %w", err)
	}

	return assignments, total, nil
}

// FindAssignmentByID fetches an assignment by ID.
func (r *TransportRepository) FindAssignmentByID(ctx context.Context, id string) (*models.TransportAssignment, error) {
	const query = `SELECT id, student_id, class_id, vehicle_id, route_id, pickup_point, drop_point, assigned_date FROM transport_assignments WHERE id = $1`
	var ta models.TransportAssignment
	if err := r.db.GetContext(ctx, &ta, query, id); err != nil {
		return nil, err
	}
	return &ta, nil
}

// CreateAssignment inserts a transport assignment.
func (r *TransportRepository) CreateAssignment(ctx context.Context, ta *models.TransportAssignment) error {
	if ta.ID == "" {
		ta.ID = uuid.NewString()
	}
	if ta.AssignedDate.IsZero() {
		ta.AssignedDate = time.Now().UTC()
	}
	const query = `INSERT INTO transport_assignments (id, student_id, class_id, vehicle_id, route_id, pickup_point, drop_point, assigned_date)
		VALUES (:id, :student_id, :class_id, :vehicle_id, :route_id, :pickup_point, :drop_point, :assigned_date)`
	if _, err := r.db.NamedExecContext(ctx, query, ta); err != nil {
		return fmt.Errorf("create transport assignment: %w", err)
	}
	return nil
}

// UpdateAssignment modifies a transport assignment.
func (r *TransportRepository) UpdateAssignment(ctx context.Context, ta *models.TransportAssignment) error {
	const query = `UPDATE transport_assignments SET vehicle_id = :vehicle_id, route_id = :route_id, pickup_point = :pickup_point, drop_point = :drop_point WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, ta); err != nil {
		return fmt.Errorf("update transport assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes a transport assignment.
func (r *TransportRepository) DeleteAssignment(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transport_assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transport assignment: %w", err)
	}
	return nil
}

// FindMeterReading fetches the reading for a vehicle on a date.
func (r *TransportRepository) FindMeterReading(ctx context.Context, vehicleID string, date time.Time) (*models.MeterReading, error) {
	const query = `SELECT id, vehicle_id, driver_id, date, start_value, end_value, created_at, updated_at FROM meter_readings WHERE vehicle_id = $1 AND date = $2 LIMIT 1`
	var m models.MeterReading
	if err := r.db.GetContext(ctx, &m, query, vehicleID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find meter reading: %w", err)
	}
	return &m, nil
}

// FindLatestMeterReadingBefore returns the most recent reading strictly before
// the given date. Used to seed the next day's start value.
func (r *TransportRepository) FindLatestMeterReadingBefore(ctx context.Context, vehicleID string, date time.Time) (*models.MeterReading, error) {
	const query = `SELECT id, vehicle_id, driver_id, date, start_value, end_value, created_at, updated_at FROM meter_readings WHERE vehicle_id = $1 AND date < $2 ORDER BY date DESC LIMIT 1`
	var m models.MeterReading
	if err := r.db.GetContext(ctx, &m, query, vehicleID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find latest meter reading: %w", err)
	}
	return &m, nil
}

// ListMeterReadings returns readings for a vehicle in a date window, newest first.
func (r *TransportRepository) ListMeterReadings(ctx context.Context, vehicleID string, from, to time.Time) ([]models.MeterReading, error) {
	const query = `SELECT id, vehicle_id, driver_id, date, start_value, end_value, created_at, updated_at FROM meter_readings WHERE vehicle_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC`
	var readings []models.MeterReading
	if err := r.db.SelectContext(ctx, &readings, query, vehicleID, from, to); err != nil {
		return nil, fmt.Errorf("list meter readings: %w", err)
	}
	return readings, nil
}

// CreateMeterReading inserts an odometer reading.
func (r *TransportRepository) CreateMeterReading(ctx context.Context, m *models.MeterReading) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	const query = `INSERT INTO meter_readings (id, vehicle_id, driver_id, date, start_value, end_value, created_at, updated_at)
		VALUES (:id, :vehicle_id, :driver_id, :date, :start_value, :end_value, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create meter reading: %w", err)
	}
	return nil
}

// UpdateMeterReading modifies an odometer reading.
func (r *TransportRepository) UpdateMeterReading(ctx context.Context, m *models.MeterReading) error {
	m.UpdatedAt = time.Now().UTC()
	const query = `UPDATE meter_readings SET start_value = :start_value, end_value = :end_value, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("update meter reading: %w", err)
	}
	return nil
}

// CreateLocation appends a GPS ping.
func (r *TransportRepository) CreateLocation(ctx context.Context, loc *models.LocationUpdate) error {
	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	if loc.RecordedAt.IsZero() {
		loc.RecordedAt = time.Now().UTC()
	}
	const query = `INSERT INTO location_updates (id, vehicle_id, latitude, longitude, recorded_at)
		VALUES (:id, :vehicle_id, :latitude, :longitude, :recorded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, loc); err != nil {
		return fmt.Errorf("create location update: %w", err)
	}
	return nil
}

// FindLatestLocation returns the newest ping for a vehicle.
func (r *TransportRepository) FindLatestLocation(ctx context.Context, vehicleID string) (*models.LocationUpdate, error) {
	const query = `SELECT id, vehicle_id, latitude, longitude, recorded_at FROM location_updates WHERE vehicle_id = $1 ORDER BY recorded_at DESC LIMIT 1`
	var loc models.LocationUpdate
	if err := r.db.GetContext(ctx, &loc, query, vehicleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find latest location: %w", err)
	}
	return &loc, nil
}
