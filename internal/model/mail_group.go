package model

import "time"

// MailGroup gates access to downstream apps by account membership.
type MailGroup struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
