package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noirscope/noirscope"
	"github.com/noirscope/noirscope/metrics"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate profiler output into a complexity report",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := generate(cmd)
		if err != nil {
			return err
		}
		if fJSON {
			return json.NewEncoder(os.Stdout).Encode(report)
		}
		printReport(report)
		return nil
	},
}

func generate(cmd *cobra.Command) (*metrics.ComplexityReport, error) {
	eng, err := newEngine()
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	req, err := loadRequest()
	if err != nil {
		return nil, err
	}
	return eng.GenerateComplexityReport(cmd.Context(), req)
}

func printReport(report *metrics.ComplexityReport) {
	fmt.Printf("circuit totals: %d acir, %d brillig, %d gates (%d total)\n\n",
		report.ACIROps, report.BrilligOps, report.GateCount, report.TotalCost)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOTSPOT\tHEAT\tPERCENT\tACIR\tBRILLIG\tGATES")
	for _, lm := range report.Hotspots {
		fmt.Fprintf(w, "%s:%d\t%.2f\t%.1f%%\t%d\t%d\t%d\n",
			lm.File, lm.Line, lm.Heat, lm.PercentOfCircuit, lm.ACIROps, lm.BrilligOps, lm.GateCount)
	}
	w.Flush()

	if len(report.TopFunctions) > 0 {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FUNCTION\tLINES\tPERCENT\tTOTAL")
		for _, fn := range report.TopFunctions {
			fmt.Fprintf(w, "%s\t%d-%d\t%.1f%%\t%d\n",
				fn.Name, fn.StartLine, fn.EndLine-1, fn.PercentOfCircuit, fn.TotalCost)
		}
		w.Flush()
	}
}

func init() {
	rootCmd.Version = noirscope.Version.String()
}
