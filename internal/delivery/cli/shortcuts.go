package cli

import (
	"github.com/spf13/cobra"

	"signaldesk/internal/payload"
)

// Form ids of the built-in catalog the shortcuts submit to
const (
	assetFormID      = "assetForm"
	autoSignalFormID = "autoSignalForm"
)

// flagField ties a command-line flag to the form field it fills
type flagField struct {
	flag  string
	field string
	usage string
}

var (
	assetCreateFields = []flagField{
		{flag: "symbol", field: "symbol", usage: "Ticker symbol, e.g. BTCUSDT"},
		{flag: "name", field: "name", usage: "Display name"},
		{flag: "exchange", field: "exchange", usage: "Exchange (backend default: binance)"},
		{flag: "target-price", field: "target_price", usage: "Optional price target"},
	}
	signalAutoFields = []flagField{
		{flag: "asset-id", field: "asset_id", usage: "Asset to analyse"},
		{flag: "timeframe", field: "timeframe", usage: "Candle timeframe (backend default: 5m)"},
	}
	aiSummaryFields = []flagField{
		{flag: "signal-id", field: "signal_id", usage: "Signal to summarise"},
		{flag: "last-price", field: "last_price", usage: "Last traded price"},
		{flag: "rsi", field: "rsi", usage: "Relative strength index"},
		{flag: "macd", field: "macd", usage: "MACD value"},
		{flag: "volatility", field: "volatility", usage: "Volatility"},
	}
)

// bindFlags registers one string flag per field.
// Flags are strings so that they go through the same coercion as form inputs.
func bindFlags(cmd *cobra.Command, defs []flagField) {
	for _, d := range defs {
		cmd.Flags().String(d.flag, "", d.usage)
	}
}

// fieldsFromFlags reads the flags back as form fields in declaration order
func fieldsFromFlags(cmd *cobra.Command, defs []flagField) ([]payload.Field, error) {
	fields := make([]payload.Field, 0, len(defs))
	for _, d := range defs {
		v, err := cmd.Flags().GetString(d.flag)
		if err != nil {
			return nil, err
		}
		fields = append(fields, payload.Field{Name: d.field, Value: v})
	}
	return fields, nil
}

func newAssetCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage tracked assets",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Start tracking an asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := fieldsFromFlags(cmd, assetCreateFields)
			if err != nil {
				return err
			}
			return submitFields(cmd, opts, assetFormID, fields)
		},
	}
	bindFlags(create, assetCreateFields)

	cmd.AddCommand(create)
	return cmd
}

func newSignalCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Work with trading signals",
	}

	auto := &cobra.Command{
		Use:   "auto",
		Short: "Generate a signal for an asset from live indicators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := fieldsFromFlags(cmd, signalAutoFields)
			if err != nil {
				return err
			}
			return submitFields(cmd, opts, autoSignalFormID, fields)
		},
	}
	bindFlags(auto, signalAutoFields)

	cmd.AddCommand(auto)
	return cmd
}

func newAICommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "AI assistance",
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Ask for an advisory summary of a signal",
		Long: `Ask the backend for an advisory summary of a signal. Market indicators
are sent as a nested "market" object; indicators left out are sent as null.

Examples:
  signaldesk ai summary --signal-id 3 --rsi 71.2 --volatility 0.018`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := fieldsFromFlags(cmd, aiSummaryFields)
			if err != nil {
				return err
			}
			a, err := opts.load()
			if err != nil {
				return err
			}
			svc, _ := a.consoleService(cmd, opts.output)

			_, err = svc.SubmitAISummary(cmd.Context(), fields)
			return reported(err)
		},
	}
	bindFlags(summary, aiSummaryFields)

	cmd.AddCommand(summary)
	return cmd
}
