package store

import "time"

// UsageCounter accrues per-tenant message totals. Created on first use,
// incremented on every successful exchange, never deleted here.
type UsageCounter struct {
	TenantID      string    `json:"tenant_id"`
	TotalMessages int64     `json:"total_messages"`
	LastUsed      time.Time `json:"last_used"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ConversationLogEntry is an append-only, best-effort record of one
// exchange. Fields arrive already truncated by the recorder.
type ConversationLogEntry struct {
	ID          string    `json:"id"` // UUID
	TenantID    string    `json:"tenant_id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	CreatedAt   time.Time `json:"created_at"`
}
