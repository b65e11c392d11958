package entity

import "time"

// Shift is the backend's shift record as the board holds it. Timestamps are
// kept as received so a malformed value is carried, not rejected.
type Shift struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	RoleRequired string `json:"role_required"`
	Role         string `json:"role,omitempty"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// RoleName returns the required role, falling back to the legacy role field.
func (s Shift) RoleName() string {
	if s.RoleRequired != "" {
		return s.RoleRequired
	}
	return s.Role
}

func (s Shift) HasEnd() bool {
	return s.EndTime != ""
}

// WeekSnapshot is the last successfully loaded copy of a week.
type WeekSnapshot struct {
	WeekStart string    `json:"week_start"` // YYYY-MM-DD
	Shifts    []Shift   `json:"shifts"`
	FetchedAt time.Time `json:"fetched_at"`
}

// MoveRecord is a committed shift relocation.
type MoveRecord struct {
	ID                int64     `json:"id"`
	ShiftID           int64     `json:"shift_id"`
	ShiftName         string    `json:"shift_name"`
	FromStart         string    `json:"from_start"`
	ToStart           string    `json:"to_start"`
	ConflictConfirmed bool      `json:"conflict_confirmed"`
	MovedAt           time.Time `json:"moved_at"`
}
