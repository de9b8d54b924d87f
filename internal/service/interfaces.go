// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/hmalvik/matchflow/internal/model"
)

// DefaultPoolLimit bounds the candidate pool fetch when the caller does not
// provide a limit.
const DefaultPoolLimit = 100

// ProductFilter defines filtering options for candidate pool queries.
// Results are always ordered most-recently-created first.
type ProductFilter struct {
	VendorCode string
	Limit      int
	Offset     int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Product operations
	SaveProducts(ctx context.Context, products []model.Product) error
	GetProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)

	// Message operations
	SaveMessages(ctx context.Context, messages []model.Message) error
	GetMessageByID(ctx context.Context, id string) (*model.Message, error)
	GetMessagesByIDs(ctx context.Context, ids []string) ([]model.Message, error)
	GetMessagesNeedingReview(ctx context.Context, limit int) ([]model.Message, error)
	ApplyMatchToMessage(ctx context.Context, messageID, productID string, attemptedAt time.Time) error

	// Match record operations
	SaveMatch(ctx context.Context, record *model.MatchRecord) error
	GetMatchByMessageID(ctx context.Context, messageID string) (*model.MatchRecord, error)
	GetMatchesByStatus(ctx context.Context, status model.MatchStatus, limit int) ([]model.MatchRecord, error)
	ApproveMatch(ctx context.Context, messageID string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
