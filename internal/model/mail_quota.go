package model

import "time"

// MailQuota is one per-account storage quota for dovecot-quotas.cf.
// Suffix is one of B, K, M, G, T.
type MailQuota struct {
	ID        string    `json:"id" db:"id"`
	AccountID string    `json:"account_id" db:"account_id"`
	SizeValue int64     `json:"size_value" db:"size_value"`
	Suffix    string    `json:"suffix" db:"suffix"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
