package inventory

import (
	"strings"

	"github.com/assetdesk/backend/internal/domain/shared"
)

// Status is the lifecycle label of an asset or kit. It is free-form text,
// conventionally one of the base statuses or "Assigned to <name>".
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusInUse       Status = "In Use"
	StatusMaintenance Status = "Maintenance"
	StatusRetired     Status = "Retired"
	StatusLost        Status = "Lost"
	StatusFaulty      Status = "Faulty"
)

const assignedPrefix = "Assigned to "

// MaxStatusLength bounds the stored status string
const MaxStatusLength = 255

// BaseStatuses lists the conventional statuses in display order
var BaseStatuses = []Status{
	StatusAvailable,
	StatusInUse,
	StatusMaintenance,
	StatusRetired,
	StatusLost,
	StatusFaulty,
}

// AssignedTo builds the dynamic "Assigned to X" status
func AssignedTo(assignee string) Status {
	return Status(assignedPrefix + strings.TrimSpace(assignee))
}

// IsBase reports whether the status is one of the base statuses
func (s Status) IsBase() bool {
	for _, b := range BaseStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// Assignee returns the assignee of an "Assigned to X" status
func (s Status) Assignee() (string, bool) {
	str := string(s)
	if !strings.HasPrefix(str, assignedPrefix) {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimPrefix(str, assignedPrefix))
	return name, name != ""
}

// ParseStatus trims the input, defaults empty input to Available and
// enforces the length limit.
func ParseStatus(raw string) (Status, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return StatusAvailable, nil
	}
	if len(s) > MaxStatusLength {
		return "", shared.NewValidationError("INVALID_STATUS", "Status cannot exceed 255 characters")
	}
	return Status(s), nil
}
