package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Timings holds the displayed operating hours. The values are free-text
// display strings, they are never parsed as structured time.
type Timings struct {
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	Days      string `json:"days"`
}

// Prices holds entry ticket prices in whole rupees.
type Prices struct {
	Weekday int `json:"weekday"`
	Weekend int `json:"weekend"`
}

// Facilities holds per-facility rental fees in whole rupees.
type Facilities struct {
	LockerRoom       int `json:"lockerRoom"`
	SwimmingCostumes int `json:"swimmingCostumes"`
}

// ParkSettings is the singleton record behind the public site: operating
// hours, ticket prices and facility fees. The most recently created record
// is the current one.
type ParkSettings struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Timings    Timings    `json:"timings" db:"timings"`
	Prices     Prices     `json:"prices" db:"prices"`
	Facilities Facilities `json:"facilities" db:"facilities"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// SettingsUpdate is a partial update of ParkSettings: nil sections are left
// untouched. It doubles as the per-section edit draft payload.
type SettingsUpdate struct {
	Timings    *Timings    `json:"timings,omitempty"`
	Prices     *Prices     `json:"prices,omitempty"`
	Facilities *Facilities `json:"facilities,omitempty"`
}

// DefaultParkSettings returns the settings the park opens with before an
// admin ever edits anything.
func DefaultParkSettings() ParkSettings {
	now := time.Now().UTC()

	return ParkSettings{
		ID: uuid.New(),
		Timings: Timings{
			OpenTime:  "10:00 AM",
			CloseTime: "5:00 PM",
			Days:      "Monday - Sunday",
		},
		Prices: Prices{
			Weekday: 400,
			Weekend: 500,
		},
		Facilities: Facilities{
			LockerRoom:       50,
			SwimmingCostumes: 100,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsZero reports whether the update carries no sections at all.
func (u SettingsUpdate) IsZero() bool {
	return u.Timings == nil && u.Prices == nil && u.Facilities == nil
}

// Apply merges the update into a copy of the given settings.
func (u SettingsUpdate) Apply(s ParkSettings) ParkSettings {
	if u.Timings != nil {
		s.Timings = *u.Timings
	}
	if u.Prices != nil {
		s.Prices = *u.Prices
	}
	if u.Facilities != nil {
		s.Facilities = *u.Facilities
	}
	return s
}

// Validate checks the update before any I/O happens.
func (u SettingsUpdate) Validate() error {
	var validationErrors []string

	if u.IsZero() {
		validationErrors = append(validationErrors, "update carries no fields")
	}
	if u.Timings != nil {
		if u.Timings.OpenTime == "" || u.Timings.CloseTime == "" {
			validationErrors = append(validationErrors, "open and close times are required")
		}
		if u.Timings.Days == "" {
			validationErrors = append(validationErrors, "days are required")
		}
	}
	if u.Prices != nil && (u.Prices.Weekday < 0 || u.Prices.Weekend < 0) {
		validationErrors = append(validationErrors, "prices must not be negative")
	}
	if u.Facilities != nil && (u.Facilities.LockerRoom < 0 || u.Facilities.SwimmingCostumes < 0) {
		validationErrors = append(validationErrors, "facility fees must not be negative")
	}

	if len(validationErrors) > 0 {
		return &SettingsValidationError{Errors: validationErrors}
	}

	return nil
}

// SettingsValidationError collects all validation failures of one update.
type SettingsValidationError struct {
	Errors []string
}

func (e *SettingsValidationError) Error() string {
	return fmt.Sprintf("settings validation failed: %s", strings.Join(e.Errors, "; "))
}

// Value реализует интерфейс driver.Valuer для сериализации Timings в JSONB
func (t Timings) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan реализует интерфейс sql.Scanner для десериализации JSONB в Timings
func (t *Timings) Scan(value interface{}) error {
	return scanJSON(value, t)
}

func (p Prices) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Prices) Scan(value interface{}) error {
	return scanJSON(value, p)
}

func (f Facilities) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *Facilities) Scan(value interface{}) error {
	return scanJSON(value, f)
}

func scanJSON(value interface{}, dst interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
