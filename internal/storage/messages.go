package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hmalvik/matchflow/internal/model"
)

// SaveMessages upserts a batch of ingested messages.
func (s *SQLiteStorage) SaveMessages(ctx context.Context, messages []model.Message) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMessages(messages); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range messages {
		createdAt := m.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (
				id, caption, vendor_hint, needs_review,
				resolved_product_id, last_match_attempt_at, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				caption = excluded.caption,
				vendor_hint = excluded.vendor_hint,
				needs_review = excluded.needs_review,
				resolved_product_id = excluded.resolved_product_id,
				last_match_attempt_at = excluded.last_match_attempt_at
		`,
			m.ID,
			m.Caption,
			nullableString(m.VendorHint),
			m.NeedsReview,
			nullableString(m.ResolvedProductID),
			nullableTime(m.LastMatchAttemptAt),
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save message %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// GetMessageByID retrieves a single message.
func (s *SQLiteStorage) GetMessageByID(ctx context.Context, id string) (*model.Message, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, caption, vendor_hint, needs_review,
		       resolved_product_id, last_match_attempt_at, created_at
		FROM messages
		WHERE id = ?
	`, id)

	m, err := scanMessageRow(row)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return m, nil
}

// GetMessagesByIDs retrieves the message records for a batch run. IDs that
// do not exist are simply absent from the result; the caller decides how to
// report them.
func (s *SQLiteStorage) GetMessagesByIDs(ctx context.Context, ids []string) ([]model.Message, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids", ErrEmptySlice)
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, caption, vendor_hint, needs_review,
		       resolved_product_id, last_match_attempt_at, created_at
		FROM messages
		WHERE id IN (%s)
	`, placeholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []model.Message
	for rows.Next() {
		m, scanErr := scanMessage(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// GetMessagesNeedingReview lists messages still waiting on a match, oldest first.
func (s *SQLiteStorage) GetMessagesNeedingReview(ctx context.Context, limit int) ([]model.Message, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, caption, vendor_hint, needs_review,
		       resolved_product_id, last_match_attempt_at, created_at
		FROM messages
		WHERE needs_review = 1
		ORDER BY created_at
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages needing review: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []model.Message
	for rows.Next() {
		m, scanErr := scanMessage(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// ApplyMatchToMessage points a message at its resolved product and clears the
// manual review flag. Used by auto-apply and the manual approve path.
func (s *SQLiteStorage) ApplyMatchToMessage(ctx context.Context, messageID, productID string, attemptedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(messageID, "messageID"); err != nil {
		return err
	}
	if err := validateString(productID, "productID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE messages
		SET resolved_product_id = ?, needs_review = 0, last_match_attempt_at = ?
		WHERE id = ?
	`, productID, attemptedAt, messageID)
	if err != nil {
		return fmt.Errorf("failed to apply match to message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("message %q not found", messageID)
	}

	return nil
}

func scanMessage(rs rowScanner) (model.Message, error) {
	var m model.Message
	var vendorHint, resolvedID sql.NullString
	var lastAttempt sql.NullTime

	err := rs.Scan(
		&m.ID,
		&m.Caption,
		&vendorHint,
		&m.NeedsReview,
		&resolvedID,
		&lastAttempt,
		&m.CreatedAt,
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to scan message: %w", err)
	}

	m.VendorHint = vendorHint.String
	m.ResolvedProductID = resolvedID.String
	if lastAttempt.Valid {
		t := lastAttempt.Time
		m.LastMatchAttemptAt = &t
	}
	return m, nil
}

func scanMessageRow(row *sql.Row) (*model.Message, error) {
	var m model.Message
	var vendorHint, resolvedID sql.NullString
	var lastAttempt sql.NullTime

	err := row.Scan(
		&m.ID,
		&m.Caption,
		&vendorHint,
		&m.NeedsReview,
		&resolvedID,
		&lastAttempt,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.VendorHint = vendorHint.String
	m.ResolvedProductID = resolvedID.String
	if lastAttempt.Valid {
		t := lastAttempt.Time
		m.LastMatchAttemptAt = &t
	}
	return &m, nil
}
