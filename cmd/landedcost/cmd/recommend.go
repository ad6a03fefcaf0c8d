package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/hapkiduki/landedcost/internal/application/dto"
	"github.com/hapkiduki/landedcost/internal/application/service"
	"github.com/hapkiduki/landedcost/internal/domain/optimization"
	"github.com/hapkiduki/landedcost/internal/domain/repository"
	"github.com/hapkiduki/landedcost/internal/infrastructure/persistance/memory"
	"github.com/hapkiduki/landedcost/internal/infrastructure/persistance/postgres"
)

// errNoCatalogue is returned when recommend has no product data source.
var errNoCatalogue = errors.New("no product data source: pass --catalogue or set LCE_DATABASE_URL")

type catalogue interface {
	repository.ProductReader
	repository.AlternativeLookup
}

func newRecommendCommand(a *app) *cobra.Command {
	var (
		cataloguePath string
		threshold     float64
		maxPerProduct int
	)

	cmd := &cobra.Command{
		Use:   "recommend PRODUCT_ID...",
		Short: "Rank duty-saving alternatives for products",
		Long: `Look up each product and its classification alternatives and rank the
alternatives that lower duty, best saving first. Unknown products are skipped.

Products come from the JSON catalogue given with --catalogue, or from the
configured Postgres database.

Examples:
  landedcost recommend --catalogue products.json sku-1 sku-2
  LCE_DATABASE_URL=postgres://localhost/landedcost landedcost recommend sku-1 --format text`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.ctx(cmd)

			products, closeFn, err := a.openCatalogue(ctx, cataloguePath)
			if err != nil {
				return err
			}
			defer closeFn()

			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.Optimization.ConfidenceThreshold
			}
			if !cmd.Flags().Changed("max") {
				maxPerProduct = a.cfg.Optimization.MaxRecommendations
			}
			engine := optimization.NewEngine(products, products,
				optimization.WithConfidenceThreshold(threshold),
				optimization.WithMaxRecommendations(maxPerProduct),
				optimization.WithLandedCost(a.landed),
				optimization.WithLogger(a.log),
			)
			svc := service.NewCalculationService(service.Dependencies{
				LandedCost: a.landed,
				Engine:     engine,
				Logger:     a.log,
			})

			req := dto.OptimizationRequest{ProductIDs: args}
			if err := validate(req); err != nil {
				return err
			}
			resp, err := svc.GenerateRecommendations(ctx, req)
			if err != nil {
				return err
			}
			currency, _ := a.cfg.Calculator.ParseCurrency()
			return a.write(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				return writeRecommendations(w, resp.Recommendations, currency)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&cataloguePath, "catalogue", "", "JSON product catalogue file")
	f.Float64Var(&threshold, "threshold", optimization.DefaultConfidenceThreshold, "minimum alternative confidence (default from config)")
	f.IntVar(&maxPerProduct, "max", optimization.DefaultMaxRecommendations, "maximum recommendations per product (default from config)")
	return cmd
}

// openCatalogue prefers an explicit catalogue file over the configured
// database.
func (a *app) openCatalogue(ctx context.Context, path string) (catalogue, func(), error) {
	if path != "" {
		store := memory.NewProductStore()
		n, err := store.LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		a.log.Debug("catalogue loaded", "file", path, "products", n)
		return store, func() {}, nil
	}

	if a.cfg.Database.URL == "" {
		return nil, nil, errNoCatalogue
	}
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:             a.cfg.Database.URL,
		MaxConns:        2,
		ConnectTimeout:  a.cfg.Database.ConnectTimeout,
		ApplicationName: "landedcost-cli",
	})
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewProductRepository(pool), pool.Close, nil
}
