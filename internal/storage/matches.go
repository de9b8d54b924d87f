package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hmalvik/matchflow/internal/model"
)

// SaveMatch upserts a match record keyed by message ID and appends an audit
// row to the match history.
func (s *SQLiteStorage) SaveMatch(ctx context.Context, record *model.MatchRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMatchRecord(record); err != nil {
		return err
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (
			message_id, product_id, priority_tier, confidence,
			details, status, applied, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO UPDATE SET
			product_id = excluded.product_id,
			priority_tier = excluded.priority_tier,
			confidence = excluded.confidence,
			details = excluded.details,
			status = excluded.status,
			applied = excluded.applied,
			created_at = excluded.created_at
	`,
		record.MessageID,
		record.ProductID,
		record.PriorityTier,
		record.Confidence,
		record.Details,
		string(record.Status),
		record.Applied,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO match_history (
			message_id, product_id, priority_tier, confidence, status
		) VALUES (?, ?, ?, ?, ?)
	`,
		record.MessageID,
		record.ProductID,
		record.PriorityTier,
		record.Confidence,
		string(record.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to save match history: %w", err)
	}

	return tx.Commit()
}

// GetMatchByMessageID retrieves the current match record for a message.
func (s *SQLiteStorage) GetMatchByMessageID(ctx context.Context, messageID string) (*model.MatchRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(messageID, "messageID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT message_id, product_id, priority_tier, confidence,
		       details, status, applied, created_at
		FROM matches
		WHERE message_id = ?
	`, messageID)

	var r model.MatchRecord
	var status string
	var details sql.NullString

	err := row.Scan(
		&r.MessageID,
		&r.ProductID,
		&r.PriorityTier,
		&r.Confidence,
		&details,
		&status,
		&r.Applied,
		&r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	r.Details = details.String
	r.Status = model.MatchStatus(status)
	return &r, nil
}

// GetMatchesByStatus lists match records in a given status, newest first.
func (s *SQLiteStorage) GetMatchesByStatus(ctx context.Context, status model.MatchStatus, limit int) ([]model.MatchRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT message_id, product_id, priority_tier, confidence,
		       details, status, applied, created_at
		FROM matches
		WHERE status = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.MatchRecord
	for rows.Next() {
		var r model.MatchRecord
		var st string
		var details sql.NullString

		scanErr := rows.Scan(
			&r.MessageID,
			&r.ProductID,
			&r.PriorityTier,
			&r.Confidence,
			&details,
			&st,
			&r.Applied,
			&r.CreatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match: %w", scanErr)
		}

		r.Details = details.String
		r.Status = model.MatchStatus(st)
		records = append(records, r)
	}

	return records, rows.Err()
}

// ApproveMatch promotes a pending match to approved and marks it applied.
// This is the manual-review path; the auto-apply path writes the approved
// state directly.
func (s *SQLiteStorage) ApproveMatch(ctx context.Context, messageID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(messageID, "messageID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE matches
		SET status = ?, applied = 1
		WHERE message_id = ? AND status = ?
	`, string(model.MatchStatusApproved), messageID, string(model.MatchStatusPending))
	if err != nil {
		return fmt.Errorf("failed to approve match: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no pending match for message %q", messageID)
	}

	return nil
}
