package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/reportloom-cli/internal/config"
	"github.com/KaramelBytes/reportloom-cli/internal/email"
	"github.com/KaramelBytes/reportloom-cli/internal/report"
)

var (
	genData    string
	genFormats []string
	genEmail   bool
)

// reportMailer sends generated outputs; satisfied by email.Sender.
type reportMailer interface {
	Send(ctx context.Context, title string, outputs map[string]string) error
}

var newMailer = func(cfg cfgpkg.Email) (reportMailer, error) {
	return email.NewSender(cfg)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a report from the configured data source",
	Long: `Generate loads the data source, classifies its columns, builds the
enabled charts, and writes the report in each configured output format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if genData != "" {
			c.Data.Source = genData
		}
		if len(genFormats) > 0 {
			c.Output.Formats = genFormats
		}

		gen := report.NewGenerator(c, nil, nil)
		res, err := gen.Run(cmd.Context())
		if err != nil {
			return err
		}

		for _, art := range res.Charts {
			fmt.Printf("✓ Chart: %s (%s)\n", art.Title, art.Path)
		}
		for format, path := range res.Outputs {
			fmt.Printf("✓ Report (%s): %s\n", strings.ToUpper(format), path)
		}

		// The reports are on disk at this point; a delivery problem is
		// warned about, never a run failure.
		if genEmail || c.Email.Enabled {
			deliverByEmail(cmd.Context(), c, res.Outputs)
		}
		return nil
	},
}

func deliverByEmail(ctx context.Context, c *cfgpkg.Global, outputs map[string]string) {
	sender, err := newMailer(c.Email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: email not configured: %v\n", err)
		return
	}
	if err := sender.Send(ctx, c.Report.Title, outputs); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: report generated but email delivery failed: %v\n", err)
		return
	}
	fmt.Printf("✓ Emailed report to %s\n", strings.Join(c.Email.Recipients, ", "))
}

func init() {
	generateCmd.Flags().StringVar(&genData, "data", "", "data source path, URL or connection string (overrides config)")
	generateCmd.Flags().StringSliceVar(&genFormats, "formats", nil, "output formats: pdf,html (overrides config)")
	generateCmd.Flags().BoolVar(&genEmail, "email", false, "email the report after generating")
	rootCmd.AddCommand(generateCmd)
}
