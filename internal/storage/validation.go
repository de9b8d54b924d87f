package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hmalvik/matchflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrEmptySlice    = errors.New("slice cannot be empty")
	ErrInvalidStatus = errors.New("invalid match status")
	ErrInvalidRecord = errors.New("invalid match record")
	ErrInvalidEntity = errors.New("invalid entity")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateProducts validates a slice of products.
func validateProducts(products []model.Product) error {
	if products == nil {
		return fmt.Errorf("%w: products", ErrNilParameter)
	}
	if len(products) == 0 {
		return fmt.Errorf("%w: products", ErrEmptySlice)
	}
	for i, p := range products {
		if p.ID == "" {
			return fmt.Errorf("%w: product at index %d missing ID", ErrInvalidEntity, i)
		}
		if p.Name == "" {
			return fmt.Errorf("%w: product at index %d missing name", ErrInvalidEntity, i)
		}
	}
	return nil
}

// validateMessages validates a slice of messages.
func validateMessages(messages []model.Message) error {
	if messages == nil {
		return fmt.Errorf("%w: messages", ErrNilParameter)
	}
	if len(messages) == 0 {
		return fmt.Errorf("%w: messages", ErrEmptySlice)
	}
	for i, m := range messages {
		if m.ID == "" {
			return fmt.Errorf("%w: message at index %d missing ID", ErrInvalidEntity, i)
		}
	}
	return nil
}

// validateMatchRecord validates a match record prior to persistence.
func validateMatchRecord(record *model.MatchRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if record.MessageID == "" {
		return fmt.Errorf("%w: missing message ID", ErrInvalidRecord)
	}
	if record.ProductID == "" {
		return fmt.Errorf("%w: missing product ID", ErrInvalidRecord)
	}
	if record.Confidence < 0 || record.Confidence > 1 {
		return fmt.Errorf("%w: confidence %f out of range", ErrInvalidRecord, record.Confidence)
	}
	if record.PriorityTier < 1 || record.PriorityTier > 4 {
		return fmt.Errorf("%w: priority tier %d out of range", ErrInvalidRecord, record.PriorityTier)
	}
	switch record.Status {
	case model.MatchStatusPending, model.MatchStatusApproved:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, record.Status)
	}
	return nil
}
