package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/reportloom-cli/internal/config"
	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
	"github.com/KaramelBytes/reportloom-cli/internal/source"
)

// sourceDescriptor maps the config data section onto a loader descriptor.
func sourceDescriptor(c *cfgpkg.Global) source.Descriptor {
	return source.Descriptor{
		Source:   c.Data.Source,
		Type:     c.Data.SourceType,
		Sheet:    c.Data.Sheet,
		Table:    c.Data.Table,
		Query:    c.Data.Query,
		Headers:  c.Data.Headers,
		Params:   c.Data.Params,
		JSONPath: c.Data.JSONPath,
	}
}

var inspectData string

var inspectCmd = &cobra.Command{
	Use:   "inspect [source]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Load the data source and show how its columns classify",
	Long: `Inspect loads the data source and prints the column classification and
numeric summary that report generation would use, without writing any
report files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		switch {
		case len(args) > 0:
			c.Data.Source = args[0]
		case inspectData != "":
			c.Data.Source = inspectData
		}

		ds, err := source.Load(cmd.Context(), sourceDescriptor(c))
		if err != nil {
			return fmt.Errorf("load data: %w", err)
		}
		prof := dataset.Classify(ds)
		summary := dataset.Summarize(ds)

		fmt.Printf("Source: %s\n", c.Data.Source)
		fmt.Printf("Rows: %d, Columns: %d\n\n", ds.Len(), len(ds.Columns()))

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Column", "Class", "Non-null", "Distinct"})
		numeric := toSet(prof.Numeric)
		categorical := toSet(prof.Categorical)
		dateLike := toSet(prof.DateLike)
		for _, col := range ds.Columns() {
			class := "unused"
			switch {
			case numeric[col]:
				class = "numeric"
			case categorical[col]:
				class = "categorical"
			}
			if dateLike[col] {
				class += ", date-like"
			}
			tw.AppendRow(table.Row{col, class, ds.NonNull(col), ds.Distinct(col)})
		}
		tw.SetStyle(table.StyleLight)
		tw.Render()

		if len(summary.NumericOrder) > 0 {
			fmt.Println()
			st := table.NewWriter()
			st.SetOutputMirror(os.Stdout)
			st.AppendHeader(table.Row{"Numeric Column", "Sum", "Mean", "Max", "Min"})
			for _, col := range summary.NumericOrder {
				s := summary.Numeric[col]
				st.AppendRow(table.Row{col,
					fmt.Sprintf("%.2f", s.Sum),
					fmt.Sprintf("%.2f", s.Mean),
					fmt.Sprintf("%.2f", s.Max),
					fmt.Sprintf("%.2f", s.Min)})
			}
			st.SetStyle(table.StyleLight)
			st.Render()
		}

		best := []string{}
		if col, ok := prof.BestCategorical(); ok {
			best = append(best, "category: "+col)
		}
		if col, ok := prof.BestNumeric(); ok {
			best = append(best, "value: "+col)
		}
		if len(best) > 0 {
			fmt.Printf("\nAuto-selection would use %s\n", strings.Join(best, ", "))
		} else {
			fmt.Println("\n⚠ No columns qualify for automatic chart selection")
		}
		return nil
	},
}

func toSet(cols []string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}

func init() {
	inspectCmd.Flags().StringVar(&inspectData, "data", "", "data source path, URL or connection string (overrides config)")
	rootCmd.AddCommand(inspectCmd)
}
