package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Derive optimization suggestions from profiler output",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		req, err := loadRequest()
		if err != nil {
			return err
		}
		report, err := eng.GenerateComplexityReport(cmd.Context(), req)
		if err != nil {
			return err
		}
		insights := eng.AnalyzeCircuit(report, req.Source)

		if fJSON {
			return json.NewEncoder(os.Stdout).Encode(insights)
		}

		fmt.Printf("complexity class: %s, potential savings: %d (%.1f%%)\n\n",
			insights.ComplexityClass, insights.TotalPotentialSavings, insights.TotalPotentialSavingsPercent)
		for _, s := range insights.Suggestions {
			loc := "circuit-wide"
			if s.Line > 0 {
				loc = fmt.Sprintf("line %d", s.Line)
			}
			fmt.Printf("[%s] %s (%s, %s)\n", s.Severity, s.Title, s.Category, loc)
			fmt.Printf("    %s\n", s.Description)
			if s.CodeSnippet != "" {
				fmt.Printf("    > %s\n", s.CodeSnippet)
			}
			fmt.Printf("    estimated savings: %d (%.2f%%)\n\n", s.Impact.EstimatedSavings, s.Impact.SavingsPercent)
		}
		return nil
	},
}
