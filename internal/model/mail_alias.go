package model

import "time"

// MailAlias maps an alias address to one destination account. An alias never
// shadows a real mailbox address; that is enforced at create time and again
// when an account with the same address is saved.
type MailAlias struct {
	ID        string    `json:"id" db:"id"`
	Alias     string    `json:"alias" db:"alias"`
	AccountID string    `json:"account_id" db:"account_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
