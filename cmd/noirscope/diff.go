package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noirscope/noirscope/costrecord"
	"github.com/noirscope/noirscope/metrics"
	"github.com/noirscope/noirscope/reportcache"
)

var fDiffMetric string

// diffCmd compares two gate-domain profiler outputs for the same circuit.
var diffCmd = &cobra.Command{
	Use:   "diff <before.svg> <after.svg>",
	Short: "Compare two profiler runs line by line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, ok := reportcache.MetricFromString(fDiffMetric)
		if !ok {
			return fmt.Errorf("unknown metric %q", fDiffMetric)
		}

		aggregate := func(path string) (*metrics.ComplexityReport, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			var in metrics.Input
			in.SetDomain(costrecord.Gates, costrecord.Parse(string(data)))
			in.FileName = filepath.Base(path)
			return metrics.Aggregate(in, metrics.DefaultConfig())
		}

		before, err := aggregate(args[0])
		if err != nil {
			return err
		}
		after, err := aggregate(args[1])
		if err != nil {
			return err
		}

		cmp := reportcache.Compare(before, after, m)
		if fJSON {
			return json.NewEncoder(os.Stdout).Encode(cmp)
		}

		for _, d := range cmp.Deltas {
			fmt.Printf("%s:%d  %d -> %d (%+d)\n", d.File, d.Line, d.Previous, d.Current, d.Delta)
		}
		verdict := "regression"
		if cmp.IsImprovement {
			verdict = "improvement"
		} else if cmp.OverallChange == 0 {
			verdict = "no change"
		}
		fmt.Printf("overall: %+d (%.1f%%) %s\n", cmp.OverallChange, cmp.OverallChangePercent, verdict)
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&fDiffMetric, "metric", "gates", "metric to compare: acir, brillig, gates or total")
}
