package domain

import "time"

type Participant struct {
	Name     string    `json:"name"`
	LastSeen time.Time `json:"last_seen"`
}
