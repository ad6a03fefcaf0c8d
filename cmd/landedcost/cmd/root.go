// Package cmd provides the CLI commands for landedcost.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hapkiduki/landedcost/internal/application/dto"
	"github.com/hapkiduki/landedcost/internal/application/port"
	"github.com/hapkiduki/landedcost/internal/application/service"
	"github.com/hapkiduki/landedcost/internal/domain/fba"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/infrastructure/config"
	"github.com/hapkiduki/landedcost/internal/infrastructure/logging"
	"github.com/hapkiduki/landedcost/pkg/logger"
)

// version is set at build time via ldflags
var version = "dev"

// Output formats.
const (
	formatJSON = "json"
	formatText = "text"
)

// app holds what every subcommand needs once the root has initialised.
type app struct {
	cfgFile string
	format  string
	verbose bool

	cfg    *config.Config
	log    port.Logger
	zap    *logger.Logger
	landed *landedcost.Calculator
	svc    *service.CalculationService
}

// Execute runs the CLI
func Execute() error {
	root := NewRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	return root.Execute()
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree, so tests can run commands in isolation.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "landedcost",
		Short: "Calculate FBA fees and landed costs",
		Long: `landedcost computes Amazon FBA fees, the duty/VAT landed-cost cascade,
duty-saving recommendations and scenario comparisons.

Examples:
  landedcost fba --length 10 --width 6 --height 0.5 --weight 12 --weight-unit oz --category Electronics --price 25
  landedcost landed --value 100 --duty-rate 0.05 --vat-rate 0.21 --shipping 10
  landedcost tiers --format text`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.zap != nil {
				_ = a.zap.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml, ./configs, /etc/landedcost)")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", formatJSON, "output format (json, text)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(
		newFbaCommand(a),
		newLandedCommand(a),
		newTiersCommand(a),
		newRecommendCommand(a),
		newCompareCommand(a),
		newVersionCommand(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.format = strings.ToLower(strings.TrimSpace(a.format))
	if a.format != formatJSON && a.format != formatText {
		return fmt.Errorf("unknown format %q (use json or text)", a.format)
	}

	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadFile(a.cfgFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.zap, err = logger.New(logger.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	a.log = logging.NewAdapter(a.zap)

	base, err := a.cfg.Calculator.ParseDutyBase()
	if err != nil {
		return err
	}
	currency, err := a.cfg.Calculator.ParseCurrency()
	if err != nil {
		return err
	}
	a.landed = landedcost.NewCalculator(landedcost.WithDutyBase(base), landedcost.WithCurrency(currency))

	a.svc = service.NewCalculationService(service.Dependencies{
		Fees:       fba.NewCalculator(nil),
		LandedCost: a.landed,
		Logger:     a.log,
	})
	return nil
}

// context returns the command context tagged with the command name for logs.
func (a *app) ctx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, logger.CommandKey, cmd.Name())
}

// validate runs the request's struct validation and reports every failure.
func validate(req any) error {
	errs := dto.Validate(req)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}

// write prints v as indented JSON or through the text renderer.
func (a *app) write(w io.Writer, v any, text func(io.Writer) error) error {
	if a.format == formatText {
		return text(w)
	}
	return writeJSON(w, v)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "landedcost version %s\n", version)
		},
	}
}
