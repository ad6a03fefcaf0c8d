package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hapkiduki/landedcost/internal/application/dto"
)

func newCompareCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FILE",
		Short: "Build and compare sourcing scenarios",
		Long: `Read scenarios from a JSON file ("-" for stdin) shaped like the body of
POST /api/v1/scenarios/compare, build each one and compare them by profit.

Example file:
  {"scenarios": [
    {"name": "retail", "dimensions": {"length": 10, "width": 6, "height": 0.5, "unit": "in"},
     "weight": {"value": 12, "unit": "oz"}, "category": "Electronics",
     "productValue": 1000, "dutyRate": 0.05, "shippingCost": 100,
     "sellingPrice": 25, "quantity": 100}
  ]}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readScenarios(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if err := validate(req); err != nil {
				return err
			}
			resp, err := a.svc.CompareScenarios(a.ctx(cmd), req)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				return writeComparison(w, resp)
			})
		},
	}
	return cmd
}

func readScenarios(stdin io.Reader, path string) (dto.CompareScenariosRequest, error) {
	var req dto.CompareScenariosRequest

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("open scenarios: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decode scenarios %s: %w", path, err)
	}
	return req, nil
}
