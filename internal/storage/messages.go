// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/chatview/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("message not found")
	ErrInvalidStatus = errors.New("invalid message status")
)

// =============================================================================
// MESSAGE STORE
// =============================================================================

// MessageStore persists messages in SQLite.
type MessageStore struct {
	db *sql.DB
}

// Open opens (or creates) the message database at path.
func Open(path string) (*MessageStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &MessageStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *MessageStore) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Close closes the store and releases resources.
func (s *MessageStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Add inserts a message. A missing ID, timestamp, type, or status is filled
// with a sensible default before the insert.
func (s *MessageStore) Add(ctx context.Context, msg *model.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if msg.Type == "" {
		msg.Type = model.TypeRegular
	}
	if msg.Status == "" {
		msg.Status = model.StatusReceived
	}

	attachments, err := json.Marshal(msg.Attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}
	mentioned, err := json.Marshal(msg.MentionedUsers)
	if err != nil {
		return fmt.Errorf("failed to encode mentioned users: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages
			(id, user_id, user_name, created_at, text, html, type, status, attachments, mentioned_users)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.User.ID, msg.User.Name, msg.CreatedAt.Unix(),
		msg.Text, msg.HTML, msg.Type.String(), msg.Status.String(),
		string(attachments), string(mentioned),
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// UpdateStatus changes the status of a message.
func (s *MessageStore) UpdateStatus(ctx context.Context, id string, status model.MessageStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE messages SET status = ? WHERE id = ?", status.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a message by ID.
func (s *MessageStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Get retrieves a single message by ID.
func (s *MessageStore) Get(ctx context.Context, id string) (*model.Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, user_name, created_at, text, html, type, status, attachments, mentioned_users
		FROM messages WHERE id = ?`, id)

	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return msg, err
}

// List returns up to limit messages in chronological order. A limit of 0
// returns everything.
func (s *MessageStore) List(ctx context.Context, limit int) ([]*model.Message, error) {
	query := `
		SELECT id, user_id, user_name, created_at, text, html, type, status, attachments, mentioned_users
		FROM messages ORDER BY created_at ASC, id ASC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Count returns the total number of stored messages.
func (s *MessageStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(row rowScanner) (*model.Message, error) {
	var (
		msg         model.Message
		createdAt   int64
		msgType     string
		status      string
		attachments string
		mentioned   string
	)

	err := row.Scan(
		&msg.ID, &msg.User.ID, &msg.User.Name, &createdAt,
		&msg.Text, &msg.HTML, &msgType, &status, &attachments, &mentioned,
	)
	if err != nil {
		return nil, err
	}

	msg.CreatedAt = time.Unix(createdAt, 0).UTC()
	msg.Type = model.MessageType(msgType)
	msg.Status = model.MessageStatus(status)

	if err := json.Unmarshal([]byte(attachments), &msg.Attachments); err != nil {
		return nil, fmt.Errorf("failed to decode attachments: %w", err)
	}
	if err := json.Unmarshal([]byte(mentioned), &msg.MentionedUsers); err != nil {
		return nil, fmt.Errorf("failed to decode mentioned users: %w", err)
	}

	return &msg, nil
}
