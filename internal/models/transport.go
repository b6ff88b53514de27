package models

import "time"

// VehicleType enumerates supported vehicle categories.
type VehicleType string

const (
	VehicleTypeBus   VehicleType = "bus"
	VehicleTypeVan   VehicleType = "van"
	VehicleTypeCar   VehicleType = "car"
	VehicleTypeOther VehicleType = "other"
)

// Valid returns true when the vehicle type is supported.
func (t VehicleType) Valid() bool {
	switch t {
	case VehicleTypeBus, VehicleTypeVan, VehicleTypeCar, VehicleTypeOther:
		return true
	default:
		return false
	}
}

// Vehicle represents a transport vehicle identified by its registration number.
type Vehicle struct {
	ID        string      `db:"id" json:"id"`
	Number    string      `db:"number" json:"number"`
	Type      VehicleType `db:"type" json:"type"`
	Capacity  int         `db:"capacity" json:"capacity"`
	DriverID  *string     `db:"driver_id" json:"driver_id,omitempty"`
	Remarks   *string     `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// VehicleDetail extends Vehicle with driver context.
type VehicleDetail struct {
	Vehicle
	DriverName *string `db:"driver_name" json:"driver_name,omitempty"`
}

// Driver represents a vehicle driver with a provisioned login account keyed
// on the licence number.
type Driver struct {
	ID            string    `db:"id" json:"id"`
	UserID        *string   `db:"user_id" json:"user_id,omitempty"`
	FullName      string    `db:"full_name" json:"full_name"`
	LicenceNumber string    `db:"licence_number" json:"licence_number"`
	Email         string    `db:"email" json:"email"`
	Contact       string    `db:"contact" json:"contact"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Route represents a named transport route with comma-separated stops.
type Route struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	StartPoint string    `db:"start_point" json:"start_point"`
	EndPoint   string    `db:"end_point" json:"end_point"`
	Stops      string    `db:"stops" json:"stops"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// TransportAssignment links a student to a vehicle/route with pickup and
// drop points.
type TransportAssignment struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	VehicleID    *string   `db:"vehicle_id" json:"vehicle_id,omitempty"`
	RouteID      *string   `db:"route_id" json:"route_id,omitempty"`
	PickupPoint  string    `db:"pickup_point" json:"pickup_point"`
	DropPoint    string    `db:"drop_point" json:"drop_point"`
	AssignedDate time.Time `db:"assigned_date" json:"assigned_date"`
}

// TransportAssignmentDetail extends an assignment with display names.
type TransportAssignmentDetail struct {
	TransportAssignment
	StudentName   string  `db:"student_name" json:"student_name"`
	ClassName     string  `db:"class_name" json:"class_name"`
	VehicleNumber *string `db:"vehicle_number" json:"vehicle_number,omitempty"`
	RouteName     *string `db:"route_name" json:"route_name,omitempty"`
}

// TransportAssignmentFilter scopes assignment listings.
type TransportAssignmentFilter struct {
	ClassID   string
	VehicleID string
	RouteID   string
	Page      int
	PageSize  int
}

// MeterReading records the daily odometer start/end per vehicle+driver.
// One reading per vehicle per date; editable only on the day it was created.
type MeterReading struct {
	ID         string    `db:"id" json:"id"`
	VehicleID  string    `db:"vehicle_id" json:"vehicle_id"`
	DriverID   string    `db:"driver_id" json:"driver_id"`
	Date       time.Time `db:"date" json:"date"`
	StartValue float64   `db:"start_value" json:"start_value"`
	EndValue   *float64  `db:"end_value" json:"end_value,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Distance derives kilometres covered, nil until the end value is recorded.
func (m *MeterReading) Distance() *float64 {
	if m.EndValue == nil {
		return nil
	}
	d := *m.EndValue - m.StartValue
	return &d
}

// LocationUpdate is a timestamped GPS ping for a vehicle.
type LocationUpdate struct {
	ID         string    `db:"id" json:"id"`
	VehicleID  string    `db:"vehicle_id" json:"vehicle_id"`
	Latitude   float64   `db:"latitude" json:"latitude"`
	Longitude  float64   `db:"longitude" json:"longitude"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

// VehiclePosition is the last-known position served to tracking clients.
type VehiclePosition struct {
	VehicleNumber string    `json:"vehicle_number"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	RecordedAt    time.Time `json:"recorded_at"`
}
