package model

import (
	"encoding/json"
	"time"
)

// AuditLog is one recorded mutating API request.
type AuditLog struct {
	ID           int64           `json:"id" db:"id"`
	APIKeyID     *string         `json:"api_key_id,omitempty" db:"api_key_id"`
	Method       string          `json:"method" db:"method"`
	Path         string          `json:"path" db:"path"`
	ResourceType *string         `json:"resource_type,omitempty" db:"resource_type"`
	ResourceID   *string         `json:"resource_id,omitempty" db:"resource_id"`
	StatusCode   int             `json:"status_code" db:"status_code"`
	RequestBody  json.RawMessage `json:"request_body,omitempty" db:"request_body"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
