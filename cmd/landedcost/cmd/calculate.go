package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hapkiduki/landedcost/internal/application/dto"
)

func newFbaCommand(a *app) *cobra.Command {
	var req dto.FbaFeeRequest

	cmd := &cobra.Command{
		Use:   "fba",
		Short: "Calculate the per-unit FBA fees of a package",
		Long: `Normalize the package measurements, classify its size tier and look up the
fulfillment, storage, referral and other fees.

Examples:
  landedcost fba --length 10 --width 6 --height 0.5 --weight 12 --weight-unit oz --category Electronics --price 25
  landedcost fba --length 40 --width 30 --height 20 --dim-unit cm --weight 2 --weight-unit kg --format text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validate(req); err != nil {
				return err
			}
			fees, err := a.svc.CalculateFbaFees(a.ctx(cmd), req)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), fees, func(w io.Writer) error {
				return writeFees(w, fees)
			})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.Dimensions.Length, "length", 0, "package length")
	f.Float64Var(&req.Dimensions.Width, "width", 0, "package width")
	f.Float64Var(&req.Dimensions.Height, "height", 0, "package height")
	f.StringVar(&req.Dimensions.Unit, "dim-unit", "in", "dimension unit (in, cm)")
	f.Float64Var(&req.Weight.Value, "weight", 0, "package weight")
	f.StringVar(&req.Weight.Unit, "weight-unit", "lb", "weight unit (oz, lb, g, kg)")
	f.StringVar(&req.Category, "category", "", "product category (case-sensitive)")
	f.Float64Var(&req.Price, "price", 0, "selling price, for the referral fee")
	for _, name := range []string{"length", "width", "height", "weight"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newLandedCommand(a *app) *cobra.Command {
	var req dto.LandedCostRequest

	cmd := &cobra.Command{
		Use:   "landed",
		Short: "Calculate the landed cost of an import",
		Long: `Run the duty/VAT cascade: dutyable value, duty, VAT and the total landed cost.
Rates are fractions (0.05 = 5%).

Examples:
  landedcost landed --value 100 --duty-rate 0.05 --vat-rate 0.21 --shipping 10 --fba-fee 19.05
  landedcost landed --value 1000 --duty-rate 0.1 --quantity 3 --currency EUR --format text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validate(req); err != nil {
				return err
			}
			b, err := a.svc.CalculateLandedCost(a.ctx(cmd), req)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), b, func(w io.Writer) error {
				return writeLandedCost(w, b, a.landed.DutyBase())
			})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.ProductValue, "value", 0, "product value")
	f.Float64Var(&req.DutyRate, "duty-rate", 0, "duty rate as a fraction")
	f.Float64Var(&req.VATRate, "vat-rate", 0, "VAT rate as a fraction")
	f.Float64Var(&req.ShippingCost, "shipping", 0, "international shipping cost")
	f.Float64Var(&req.InsuranceCost, "insurance", 0, "insurance cost")
	f.Float64Var(&req.FBAFeeAmount, "fba-fee", 0, "total FBA fees to add to the landed cost")
	f.IntVar(&req.Quantity, "quantity", 1, "units in the shipment")
	f.StringVar(&req.Currency, "currency", "", "ISO 4217 currency of the amounts (default from config)")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newTiersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Print the size tier thresholds and fee schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.svc.SizeTiers(a.ctx(cmd))
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				return writeTiers(w, resp)
			})
		},
	}
}
