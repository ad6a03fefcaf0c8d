package repository

import (
	"context"

	"github.com/hapkiduki/landedcost/internal/domain/entity"
)

// ProductReader defines read access to product snapshots.
// It abstracts the data access layer so the optimization engine stays a pure
// function of what it is given.
//
// Example usage:
//
//	reader := postgres.NewProductRepository(pool)
//	product, err := reader.FetchProduct(ctx, "sku-123")
type ProductReader interface {
	// FetchProduct retrieves a product by its identifier.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - id: the product's identifier
	//
	// Returns:
	//   - *entity.Product: the product snapshot
	//   - error: ErrProductNotFound if the product doesn't exist
	FetchProduct(ctx context.Context, id string) (*entity.Product, error)
}

// AlternativeLookup supplies candidate classifications and origins for a
// product. Implementations return an empty slice, not an error, when there
// are no candidates.
type AlternativeLookup interface {
	// Alternatives lists the candidates for a product.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - product: the product whose alternatives are wanted
	//
	// Returns:
	//   - []entity.Alternative: candidates in no particular order
	//   - error: any error encountered during retrieval
	Alternatives(ctx context.Context, product *entity.Product) ([]entity.Alternative, error)
}
