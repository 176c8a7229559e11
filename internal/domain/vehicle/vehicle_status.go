package vehicle

import "fmt"

// Status represents the availability state of a vehicle.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusRented       Status = "rented"
	StatusMaintenance  Status = "maintenance"
	StatusOutOfService Status = "out_of_service"
)

// IsValid returns true if the status is a recognized vehicle status.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusRented, StatusMaintenance, StatusOutOfService:
		return true
	}
	return false
}

// IsSuspension returns true for the owner-forced states that take a vehicle
// out of the booking pool independently of its booking lifecycle.
func (s Status) IsSuspension() bool {
	return s == StatusMaintenance || s == StatusOutOfService
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid vehicle status: %s", s)
	}
	return status, nil
}
