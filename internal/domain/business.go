package domain

import "time"

// Business represents a tenant: the owner of services, staff, working hours
// and appointment settings
type Business struct {
	ID          int64
	Name        string
	Slug        string // Уникальный URL-safe идентификатор витрины
	OwnerUserID int64
	// Raw appointment settings blob as stored; parse with ParseAppointmentSettings
	SettingsBlob []byte
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Service represents a bookable offering of a business
// DurationMinutes is authoritative for computing an appointment's end time
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	Price           float64
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Staff represents an optional assignable resource of a business
type Staff struct {
	ID         int64
	BusinessID int64
	Name       string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
