package engine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hmalvik/matchflow/internal/model"
	"github.com/hmalvik/matchflow/internal/service"
)

// mockStorage is an in-memory service.Storage with per-call error injection
// for exercising failure paths.
type mockStorage struct {
	products       map[string]model.Product
	messages       map[string]model.Message
	matches        map[string]model.MatchRecord
	productOrder   []string
	productsErr    error
	messagesErr    error
	saveMatchErr   map[string]error
	applyMatchErr  map[string]error
	savedMatches   []model.MatchRecord
	appliedMessage []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		products:      make(map[string]model.Product),
		messages:      make(map[string]model.Message),
		matches:       make(map[string]model.MatchRecord),
		saveMatchErr:  make(map[string]error),
		applyMatchErr: make(map[string]error),
	}
}

func (m *mockStorage) addProducts(products ...model.Product) {
	for _, p := range products {
		m.products[p.ID] = p
		m.productOrder = append(m.productOrder, p.ID)
	}
}

func (m *mockStorage) addMessages(messages ...model.Message) {
	for _, msg := range messages {
		m.messages[msg.ID] = msg
	}
}

func (m *mockStorage) SaveProducts(_ context.Context, products []model.Product) error {
	m.addProducts(products...)
	return nil
}

func (m *mockStorage) GetProducts(_ context.Context, filter service.ProductFilter) ([]model.Product, error) {
	if m.productsErr != nil {
		return nil, m.productsErr
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = service.DefaultPoolLimit
	}
	var out []model.Product
	for _, id := range m.productOrder {
		if len(out) >= limit {
			break
		}
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *mockStorage) GetProductByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (m *mockStorage) SaveMessages(_ context.Context, messages []model.Message) error {
	m.addMessages(messages...)
	return nil
}

func (m *mockStorage) GetMessageByID(_ context.Context, id string) (*model.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &msg, nil
}

func (m *mockStorage) GetMessagesByIDs(_ context.Context, ids []string) ([]model.Message, error) {
	if m.messagesErr != nil {
		return nil, m.messagesErr
	}
	var out []model.Message
	for _, id := range ids {
		if msg, ok := m.messages[id]; ok {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockStorage) GetMessagesNeedingReview(_ context.Context, _ int) ([]model.Message, error) {
	var out []model.Message
	for _, msg := range m.messages {
		if msg.NeedsReview {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockStorage) ApplyMatchToMessage(_ context.Context, messageID, productID string, attemptedAt time.Time) error {
	if err := m.applyMatchErr[messageID]; err != nil {
		return err
	}
	msg, ok := m.messages[messageID]
	if !ok {
		return errors.New("message not found")
	}
	msg.ResolvedProductID = productID
	msg.NeedsReview = false
	msg.LastMatchAttemptAt = &attemptedAt
	m.messages[messageID] = msg
	m.appliedMessage = append(m.appliedMessage, messageID)
	return nil
}

func (m *mockStorage) SaveMatch(_ context.Context, record *model.MatchRecord) error {
	if err := m.saveMatchErr[record.MessageID]; err != nil {
		return err
	}
	m.matches[record.MessageID] = *record
	m.savedMatches = append(m.savedMatches, *record)
	return nil
}

func (m *mockStorage) GetMatchByMessageID(_ context.Context, messageID string) (*model.MatchRecord, error) {
	r, ok := m.matches[messageID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (m *mockStorage) GetMatchesByStatus(_ context.Context, status model.MatchStatus, _ int) ([]model.MatchRecord, error) {
	var out []model.MatchRecord
	for _, r := range m.matches {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStorage) ApproveMatch(_ context.Context, messageID string) error {
	r, ok := m.matches[messageID]
	if !ok || r.Status != model.MatchStatusPending {
		return errors.New("no pending match")
	}
	r.Status = model.MatchStatusApproved
	r.Applied = true
	m.matches[messageID] = r
	return nil
}

func (m *mockStorage) Migrate(_ context.Context) error { return nil }
func (m *mockStorage) Close() error                    { return nil }
