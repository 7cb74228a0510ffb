package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"signaldesk/internal/payload"
)

func newRefreshCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch both lists and print the counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			svc, console := a.consoleService(cmd, opts.output)

			err = svc.RefreshLists(cmd.Context())
			console.RenderStatus()
			return reported(err)
		},
	}
}

func newFormsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the dashboard forms and their endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			bindings := a.catalog.All()

			if opts.output == outputJSON {
				b, err := json.MarshalIndent(bindings, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"id", "kind", "path", "fields"})
			for _, f := range bindings {
				names := make([]string, 0, len(f.Fields))
				for _, field := range f.Fields {
					names = append(names, field.Name)
				}
				t.AppendRow(table.Row{f.ID, f.Kind, f.Path, strings.Join(names, ", ")})
			}
			t.Render()
			return nil
		},
	}
}

func newSubmitCommand(opts *rootOptions) *cobra.Command {
	var assignments []string

	cmd := &cobra.Command{
		Use:   "submit FORM_ID --field NAME=VALUE ...",
		Short: "Submit a dashboard form",
		Long: `Submit a form from the catalog the way the dashboard does: empty fields
are dropped, numeric text is sent as a number, and a successful
submission refreshes the counters.

Examples:
  signaldesk submit assetForm --field symbol=BTCUSDT --field name=Bitcoin
  signaldesk submit aiForm --field signal_id=1 --field rsi=28`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := payload.ParseAssignments(assignments)
			if err != nil {
				return err
			}
			return submitFields(cmd, opts, args[0], fields)
		},
	}
	cmd.Flags().StringArrayVarP(&assignments, "field", "f", nil, "Form field as NAME=VALUE (repeatable)")
	return cmd
}

// submitFields runs a form submission and prints the outcome
func submitFields(cmd *cobra.Command, opts *rootOptions, formID string, fields []payload.Field) error {
	a, err := opts.load()
	if err != nil {
		return err
	}
	svc, console := a.consoleService(cmd, opts.output)

	_, err = svc.SubmitForm(cmd.Context(), formID, fields)
	console.RenderStatus()
	return reported(err)
}
