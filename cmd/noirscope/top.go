package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noirscope/noirscope/profile"
)

var fPprofOut string

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Print a pprof-style flat cost table",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := generate(cmd)
		if err != nil {
			return err
		}
		p := profile.FromReport(report)
		fmt.Print(p.Top())
		if fPprofOut != "" {
			return p.WriteFile(fPprofOut)
		}
		return nil
	},
}

func init() {
	topCmd.Flags().StringVarP(&fPprofOut, "output", "o", "", "also write a binary pprof profile to this path")
}
