package entity

import "time"

// Session holds the tokens of the signed-in user.
type Session struct {
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// Profile is the backend's view of the signed-in user.
type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
}

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

// Notification is a user-facing message about a board operation.
type Notification struct {
	Level   NotificationLevel
	Title   string
	Message string
}
