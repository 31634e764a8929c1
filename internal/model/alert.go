package model

import "time"

// AlertState tracks when each instrument was last alerted.
type AlertState struct {
	LastAlert map[string]time.Time `json:"last_alert"`
	UpdatedAt time.Time            `json:"updated_at"`
}
