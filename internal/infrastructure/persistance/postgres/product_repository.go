package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/entity"
	"github.com/hapkiduki/landedcost/internal/domain/repository"
)

//go:embed schema.sql
var schemaSQL string

// Querier is the subset of *pgxpool.Pool (and pgx.Tx) the repository uses.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepository reads product snapshots and their classification
// alternatives. It implements repository.ProductReader and
// repository.AlternativeLookup.
type ProductRepository struct {
	db Querier
}

var (
	_ repository.ProductReader     = (*ProductRepository)(nil)
	_ repository.AlternativeLookup = (*ProductRepository)(nil)
)

// NewProductRepository creates a repository over a pool or transaction.
func NewProductRepository(db Querier) *ProductRepository {
	return &ProductRepository{db: db}
}

// Migrate creates the tables the repository reads, if they do not exist.
func Migrate(ctx context.Context, db Querier) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const selectProduct = `
SELECT id, sku, name, category,
       cost::text, shipping_cost::text, insurance_cost::text,
       annual_volume, hs_code, origin_country, duty_rate::float8
  FROM products
 WHERE id = $1`

// FetchProduct retrieves a product by id.
//
// Parameters:
//   - ctx: context for cancellation and deadlines
//   - id: the product's identifier
//
// Returns:
//   - *entity.Product: the product snapshot
//   - error: repository.ErrProductNotFound, repository.ErrCorruptRecord or a
//     wrapped driver error
func (r *ProductRepository) FetchProduct(ctx context.Context, id string) (*entity.Product, error) {
	var (
		row                       entity.Product
		cost, shipping, insurance string
	)
	err := r.db.QueryRow(ctx, selectProduct, id).Scan(
		&row.ID, &row.SKU, &row.Name, &row.Category,
		&cost, &shipping, &insurance,
		&row.AnnualVolume, &row.Classification.HSCode, &row.Classification.OriginCountry, &row.Classification.DutyRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product %s: %w", id, err)
	}

	amounts := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"cost", cost, &row.Cost},
		{"shipping cost", shipping, &row.ShippingCost},
		{"insurance cost", insurance, &row.InsuranceCost},
	}
	for _, a := range amounts {
		if *a.dst, err = decimal.NewFromString(a.raw); err != nil {
			return nil, fmt.Errorf("%w: product %s %s %q", repository.ErrCorruptRecord, id, a.name, a.raw)
		}
	}

	p, err := entity.NewProduct(row.ID, row.Category, row.Cost, row.Classification)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s: %v", repository.ErrCorruptRecord, id, err)
	}
	snapshot := p.WithLogistics(row.ShippingCost, row.InsuranceCost).WithAnnualVolume(row.AnnualVolume)
	snapshot.SKU, snapshot.Name = row.SKU, row.Name
	return &snapshot, nil
}

const selectAlternatives = `
SELECT type, value, duty_rate::float8, confidence::float8, note
  FROM classification_alternatives
 WHERE product_id = $1
 ORDER BY id`

// Alternatives lists the stored alternatives of a product.
//
// Parameters:
//   - ctx: context for cancellation and deadlines
//   - product: the product whose alternatives are wanted
//
// Returns:
//   - []entity.Alternative: the alternatives in insertion order
//   - error: a wrapped driver error
func (r *ProductRepository) Alternatives(ctx context.Context, product *entity.Product) ([]entity.Alternative, error) {
	rows, err := r.db.Query(ctx, selectAlternatives, product.ID)
	if err != nil {
		return nil, fmt.Errorf("query alternatives for %s: %w", product.ID, err)
	}

	alts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Alternative, error) {
		var (
			a   entity.Alternative
			typ string
		)
		err := row.Scan(&typ, &a.Value, &a.DutyRate, &a.Confidence, &a.Note)
		a.Type = entity.AlternativeType(typ)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan alternatives for %s: %w", product.ID, err)
	}
	return alts, nil
}

// SaveProduct upserts a product snapshot. It is used to seed data sets.
func (r *ProductRepository) SaveProduct(ctx context.Context, p *entity.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}
	_, err := r.db.Exec(ctx, `
INSERT INTO products (id, sku, name, category, cost, shipping_cost, insurance_cost,
                      annual_volume, hs_code, origin_country, duty_rate)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
    sku = EXCLUDED.sku, name = EXCLUDED.name, category = EXCLUDED.category,
    cost = EXCLUDED.cost, shipping_cost = EXCLUDED.shipping_cost,
    insurance_cost = EXCLUDED.insurance_cost, annual_volume = EXCLUDED.annual_volume,
    hs_code = EXCLUDED.hs_code, origin_country = EXCLUDED.origin_country,
    duty_rate = EXCLUDED.duty_rate`,
		p.ID, p.SKU, p.Name, p.Category,
		p.Cost.String(), p.ShippingCost.String(), p.InsuranceCost.String(),
		p.AnnualVolume, p.Classification.HSCode, p.Classification.OriginCountry, p.Classification.DutyRate,
	)
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.ID, err)
	}
	return nil
}

// ReplaceAlternatives replaces every stored alternative of a product.
func (r *ProductRepository) ReplaceAlternatives(ctx context.Context, productID string, alts []entity.Alternative) error {
	for _, a := range alts {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
		}
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM classification_alternatives WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("clear alternatives for %s: %w", productID, err)
		}
		for _, a := range alts {
			_, err := tx.Exec(ctx, `
INSERT INTO classification_alternatives (product_id, type, value, duty_rate, confidence, note)
VALUES ($1, $2, $3, $4, $5, $6)`,
				productID, string(a.Type), a.Value, a.DutyRate, a.Confidence, a.Note)
			if err != nil {
				return fmt.Errorf("insert alternative for %s: %w", productID, err)
			}
		}
		return nil
	})
}
