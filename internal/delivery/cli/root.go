package cli

import (
	"errors"
	"flag"
	"fmt"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"signaldesk/configs"
	"signaldesk/internal/adapter"
	"signaldesk/internal/forms"
	"signaldesk/internal/usecase"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	apiURL string
	output string
}

func init() {
	// glog writes to files by default; a CLI wants stderr
	_ = flag.Set("logtostderr", "true")
}

// Execute runs the signaldesk command line
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the signaldesk command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "signaldesk",
		Short: "Dashboard client for the asset and signal API",
		Long: `signaldesk drives the trading-signal backend from a browser dashboard
or straight from the terminal: track assets, generate signals and ask for
AI summaries, with the asset and signal counters kept up to date.

Examples:
  signaldesk serve --port 8080
  signaldesk asset create --symbol BTCUSDT --name Bitcoin
  signaldesk submit autoSignalForm --field asset_id=1 --field timeframe=1h
  signaldesk ai summary --signal-id 1 --rsi 72.5`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog expects flag.Parse to have run; cobra already filled the values
			_ = flag.CommandLine.Parse(nil)

			if opts.output != outputJSON && opts.output != outputTable {
				return fmt.Errorf("invalid --output %q: want %s or %s", opts.output, outputJSON, outputTable)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api", "", "Backend API base URL (default $API_BASE_URL)")
	flags.StringVarP(&opts.output, "output", "o", outputJSON, "Output format: json or table")
	flags.AddGoFlagSet(flag.CommandLine)

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newRefreshCommand(opts))
	cmd.AddCommand(newFormsCommand(opts))
	cmd.AddCommand(newSubmitCommand(opts))
	cmd.AddCommand(newAssetCommand(opts))
	cmd.AddCommand(newSignalCommand(opts))
	cmd.AddCommand(newAICommand(opts))
	cmd.AddCommand(newMockAPICommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// app is the wiring every command starts from
type app struct {
	cfg     *configs.Config
	api     *adapter.APIClient
	catalog *forms.Catalog
}

func (o *rootOptions) load() (*app, error) {
	if err := godotenv.Load(); err != nil {
		glog.V(1).Info("[CONFIG] .env file not found, using environment variables")
	}

	cfg, err := configs.Load()
	if err != nil {
		return nil, err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}

	catalog := forms.Default()
	if cfg.Forms.File != "" {
		catalog, err = forms.Load(cfg.Forms.File)
		if err != nil {
			return nil, err
		}
		glog.V(1).Infof("[CONFIG] Loaded forms from %s", cfg.Forms.File)
	}

	return &app{
		cfg:     cfg,
		api:     adapter.NewAPIClient(cfg.API.BaseURL, cfg.API.Timeout),
		catalog: catalog,
	}, nil
}

// consoleService wires a dashboard service that draws on the terminal
func (a *app) consoleService(cmd *cobra.Command, format string) (*usecase.DashboardService, *Console) {
	console := NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), format)
	return usecase.NewDashboardService(a.api, console, a.catalog), console
}

// reportedError marks a failure whose details are already on screen
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// Reported reports whether err was already printed as command output
func Reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
