package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/hmalvik/matchflow/internal/model"
	"github.com/hmalvik/matchflow/internal/service"
)

// SaveProducts upserts a batch of catalog products.
func (s *SQLiteStorage) SaveProducts(ctx context.Context, products []model.Product) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProducts(products); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range products {
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (
				id, external_id, name, vendor_name, vendor_code,
				purchase_date, purchase_order_ref, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				external_id = excluded.external_id,
				name = excluded.name,
				vendor_name = excluded.vendor_name,
				vendor_code = excluded.vendor_code,
				purchase_date = excluded.purchase_date,
				purchase_order_ref = excluded.purchase_order_ref
		`,
			p.ID,
			nullableString(p.ExternalID),
			p.Name,
			nullableString(p.VendorName),
			nullableString(p.VendorCode),
			nullableTime(p.PurchaseDate),
			nullableString(p.PurchaseOrderRef),
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetProducts returns the candidate pool for a matching run, most recently
// created first. The limit defaults to service.DefaultPoolLimit.
func (s *SQLiteStorage) GetProducts(ctx context.Context, filter service.ProductFilter) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = service.DefaultPoolLimit
	}

	builder := sq.Select(
		"id", "external_id", "name", "vendor_name", "vendor_code",
		"purchase_date", "purchase_order_ref", "created_at",
	).
		From("products").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))

	if filter.VendorCode != "" {
		builder = builder.Where(sq.Eq{"vendor_code": filter.VendorCode})
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		p, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// GetProductByID retrieves a single product.
func (s *SQLiteStorage) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, external_id, name, vendor_name, vendor_code,
		       purchase_date, purchase_order_ref, created_at
		FROM products
		WHERE id = ?
	`, id)

	p, err := scanProductRow(row)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(rs rowScanner) (model.Product, error) {
	var p model.Product
	var externalID, vendorName, vendorCode, poRef sql.NullString
	var purchaseDate sql.NullTime

	err := rs.Scan(
		&p.ID,
		&externalID,
		&p.Name,
		&vendorName,
		&vendorCode,
		&purchaseDate,
		&poRef,
		&p.CreatedAt,
	)
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to scan product: %w", err)
	}

	p.ExternalID = externalID.String
	p.VendorName = vendorName.String
	p.VendorCode = vendorCode.String
	p.PurchaseOrderRef = poRef.String
	if purchaseDate.Valid {
		d := purchaseDate.Time
		p.PurchaseDate = &d
	}
	return p, nil
}

func scanProductRow(row *sql.Row) (*model.Product, error) {
	var p model.Product
	var externalID, vendorName, vendorCode, poRef sql.NullString
	var purchaseDate sql.NullTime

	err := row.Scan(
		&p.ID,
		&externalID,
		&p.Name,
		&vendorName,
		&vendorCode,
		&purchaseDate,
		&poRef,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ExternalID = externalID.String
	p.VendorName = vendorName.String
	p.VendorCode = vendorCode.String
	p.PurchaseOrderRef = poRef.String
	if purchaseDate.Valid {
		d := purchaseDate.Time
		p.PurchaseDate = &d
	}
	return &p, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
