// Command noirscope inspects Noir profiler output from the command line.
//
// It is a thin collaborator over the noirscope library: it reads profiler SVG
// (or log) files plus the circuit source from disk, prints reports and
// suggestions, and exports pprof profiles. The engine itself has no file or CLI
// surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noirscope/noirscope"
)

var (
	fConfig  string
	fACIR    string
	fBrillig string
	fGates   string
	fSource  string
	fJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "noirscope",
	Short: "Analyze the cost structure of a compiled Noir circuit",
	Long: `noirscope parses the per-line cost annotations emitted by the Noir profiler
(ACIR opcodes, Brillig opcodes, backend gates), reconstructs a complexity model
of the circuit and derives optimization suggestions.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&fConfig, "config", "", "TOML configuration file")
	pf.StringVar(&fACIR, "acir", "", "profiler output for the ACIR opcode domain")
	pf.StringVar(&fBrillig, "brillig", "", "profiler output for the Brillig opcode domain")
	pf.StringVar(&fGates, "gates", "", "profiler output for the backend gate domain")
	pf.StringVar(&fSource, "source", "", "Noir source file being profiled")
	pf.BoolVar(&fJSON, "json", false, "print machine-readable JSON")

	rootCmd.AddCommand(reportCmd, topCmd, suggestCmd, diffCmd)
}

func newEngine() (*noirscope.Engine, error) {
	if fConfig == "" {
		return noirscope.New(), nil
	}
	cfg, err := noirscope.LoadConfig(fConfig)
	if err != nil {
		return nil, err
	}
	return noirscope.New(noirscope.WithConfig(cfg)), nil
}

// loadRequest reads the flag-named files into a profiling request.
func loadRequest() (noirscope.Request, error) {
	var req noirscope.Request
	read := func(path string, into *string) error {
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		*into = string(data)
		return nil
	}
	if err := read(fACIR, &req.ACIRText); err != nil {
		return req, err
	}
	if err := read(fBrillig, &req.BrilligText); err != nil {
		return req, err
	}
	if err := read(fGates, &req.GatesText); err != nil {
		return req, err
	}
	if err := read(fSource, &req.Source); err != nil {
		return req, err
	}
	if fSource != "" {
		req.FileName = filepath.Base(fSource)
	}
	return req, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
