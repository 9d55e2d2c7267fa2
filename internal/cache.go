package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache mirrors conversations and histories to a local SQLite file so the
// list and export commands still work when the remote store is
// unreachable. The remote store stays authoritative: every successful
// rehydration or send overwrites the cached rows.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS conversations (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	owner_uid TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS messages (
	conversation_id TEXT NOT NULL,
	id TEXT NOT NULL,
	text TEXT NOT NULL,
	sender TEXT NOT NULL,
	created_at INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL,
	PRIMARY KEY (conversation_id, position)
);
`

// OpenCache opens (and if needed creates) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache database ping failed: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveConversations replaces the cached conversation list.
func (c *Cache) SaveConversations(convs []Conversation) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM conversations"); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}
	for i, conv := range convs {
		_, err := tx.Exec(
			"INSERT INTO conversations (id, title, owner_uid, created_at, position) VALUES (?, ?, ?, ?, ?)",
			conv.ID, conv.Title, conv.OwnerUID, conv.CreatedAt.UnixMilli(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert conversation: %w", err)
		}
	}
	return tx.Commit()
}

// SaveHistory replaces the cached history for one conversation.
func (c *Cache) SaveHistory(convID string, msgs []Message) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", convID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	for i, msg := range msgs {
		_, err := tx.Exec(
			"INSERT INTO messages (conversation_id, id, text, sender, created_at, position) VALUES (?, ?, ?, ?, ?, ?)",
			convID, msg.ID, msg.Text, string(msg.Sender), msg.CreatedAt.UnixMilli(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}
	return tx.Commit()
}

// LoadConversations returns the cached conversation list in stored order.
func (c *Cache) LoadConversations() ([]Conversation, error) {
	rows, err := c.db.Query("SELECT id, title, owner_uid, created_at FROM conversations ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var convs []Conversation
	for rows.Next() {
		var conv Conversation
		var createdAt int64
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.OwnerUID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if createdAt > 0 {
			conv.CreatedAt = time.UnixMilli(createdAt)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// LoadHistory returns the cached ordered history for one conversation.
func (c *Cache) LoadHistory(convID string) ([]Message, error) {
	rows, err := c.db.Query(
		"SELECT id, text, sender, created_at FROM messages WHERE conversation_id = ? ORDER BY position",
		convID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var msg Message
		var sender string
		var createdAt int64
		if err := rows.Scan(&msg.ID, &msg.Text, &sender, &createdAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		msg.Sender = Sender(sender)
		if createdAt > 0 {
			msg.CreatedAt = time.UnixMilli(createdAt)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// DeleteConversation removes a conversation and its messages from the
// cache.
func (c *Cache) DeleteConversation(convID string) error {
	if _, err := c.db.Exec("DELETE FROM conversations WHERE id = ?", convID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if _, err := c.db.Exec("DELETE FROM messages WHERE conversation_id = ?", convID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}
