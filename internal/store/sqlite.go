package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; serializing connections avoids
	// SQLITE_BUSY under concurrent recorder writes.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS usage_counters (
        tenant_id TEXT PRIMARY KEY,
        total_messages INTEGER NOT NULL DEFAULT 0,
        last_used DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS conversation_logs (
        id TEXT PRIMARY KEY, -- UUID
        tenant_id TEXT NOT NULL,
        user_message TEXT NOT NULL,
        bot_response TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_conversation_logs_tenant
        ON conversation_logs (tenant_id, created_at);
    `
	_, err := s.db.Exec(schema)
	return err
}

// IncrementUsage applies an atomic delta upsert to the tenant's counter.
// Safe to run concurrently from multiple requests for the same tenant: the
// increment happens inside the statement, not as read-then-write.
func (s *SQLiteStore) IncrementUsage(ctx context.Context, tenantID string, ts time.Time) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO usage_counters (tenant_id, total_messages, last_used, updated_at)
        VALUES (?, 1, ?, ?)
        ON CONFLICT(tenant_id) DO UPDATE SET
            total_messages = total_messages + 1,
            last_used = excluded.last_used,
            updated_at = excluded.updated_at`,
		tenantID, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to upsert usage counter: %w", err)
	}
	return nil
}

// GetUsage returns the tenant's counter, or nil when the tenant has no
// recorded usage yet.
func (s *SQLiteStore) GetUsage(ctx context.Context, tenantID string) (*UsageCounter, error) {
	var c UsageCounter
	err := s.db.QueryRowContext(ctx,
		"SELECT tenant_id, total_messages, last_used, updated_at FROM usage_counters WHERE tenant_id = ?",
		tenantID).Scan(&c.TenantID, &c.TotalMessages, &c.LastUsed, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query usage counter: %w", err)
	}
	return &c, nil
}

// AppendConversationLog writes one append-only log entry.
func (s *SQLiteStore) AppendConversationLog(ctx context.Context, tenantID, userMessage, botResponse string, ts time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO conversation_logs (id, tenant_id, user_message, bot_response, created_at) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), tenantID, userMessage, botResponse, ts)
	if err != nil {
		return fmt.Errorf("failed to insert conversation log: %w", err)
	}
	return nil
}

// GetConversationLogs returns the tenant's most recent entries, newest first.
func (s *SQLiteStore) GetConversationLogs(ctx context.Context, tenantID string, limit int) ([]ConversationLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, tenant_id, user_message, bot_response, created_at
        FROM conversation_logs
        WHERE tenant_id = ?
        ORDER BY created_at DESC, id
        LIMIT ?`, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation logs: %w", err)
	}
	defer rows.Close()

	var entries []ConversationLogEntry
	for rows.Next() {
		var e ConversationLogEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.UserMessage, &e.BotResponse, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
