// Package profile exports a complexity report as a pprof compatible profile.
//
// The resulting file can be inspected with the usual tooling
// (go tool pprof -http=:8080 circuit.pprof). Samples carry one value per cost
// domain: ACIR opcodes, Brillig opcodes and backend gates.
package profile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/pprof/profile"

	"github.com/noirscope/noirscope/logger"
	"github.com/noirscope/noirscope/metrics"
)

// Profile is a complexity report rendered into pprof form.
type Profile struct {
	pprof profile.Profile

	functions map[string]*profile.Function
	locations map[string]*profile.Location
}

// FromReport builds a pprof profile out of a complexity report. Each costed
// source line becomes one sample; locations are attributed to the lexically
// containing function when one is known, to the file otherwise.
func FromReport(r *metrics.ComplexityReport) *Profile {
	p := &Profile{
		functions: make(map[string]*profile.Function),
		locations: make(map[string]*profile.Location),
	}
	p.pprof.SampleType = []*profile.ValueType{
		{Type: "acir", Unit: "count"},
		{Type: "brillig", Unit: "count"},
		{Type: "gates", Unit: "count"},
	}
	p.pprof.TimeNanos = r.GeneratedAt.UnixNano()

	for fi := range r.Files {
		fm := &r.Files[fi]
		for _, lm := range fm.Lines {
			loc := p.getLocation(fm, &lm)
			p.pprof.Sample = append(p.pprof.Sample, &profile.Sample{
				Location: []*profile.Location{loc},
				Value:    []int64{int64(lm.ACIROps), int64(lm.BrilligOps), int64(lm.GateCount)},
			})
		}
	}
	return p
}

func (p *Profile) getLocation(fm *metrics.FileMetric, lm *metrics.LineMetric) *profile.Location {
	key := fmt.Sprintf("%s:%d", fm.Name, lm.Line)
	if l, ok := p.locations[key]; ok {
		return l
	}

	fName := fm.Name
	for i := range fm.Functions {
		if lm.Line >= fm.Functions[i].StartLine && lm.Line < fm.Functions[i].EndLine {
			fName = fm.Functions[i].Name
			break
		}
	}
	f, ok := p.functions[fm.Name+fName]
	if !ok {
		f = &profile.Function{
			ID:         uint64(len(p.functions) + 1),
			Name:       fName,
			SystemName: fName,
			Filename:   fm.Name,
		}
		p.functions[fm.Name+fName] = f
		p.pprof.Function = append(p.pprof.Function, f)
	}

	l := &profile.Location{
		ID:   uint64(len(p.locations) + 1),
		Line: []profile.Line{{Function: f, Line: int64(lm.Line)}},
	}
	p.locations[key] = l
	p.pprof.Location = append(p.pprof.Location, l)
	return l
}

// NbSamples returns the number of costed lines in the profile.
func (p *Profile) NbSamples() int {
	return len(p.pprof.Sample)
}

// Top returns a flat, pprof-top-like rendering of the profile, ordered by the
// summed sample value, descending.
func (p *Profile) Top() string {
	type row struct {
		flat int64
		name string
		pos  string
	}
	rows := make([]row, 0, len(p.pprof.Sample))
	var total int64
	for _, s := range p.pprof.Sample {
		var flat int64
		for _, v := range s.Value {
			flat += v
		}
		total += flat
		line := s.Location[0].Line[0]
		rows = append(rows, row{
			flat: flat,
			name: line.Function.Name,
			pos:  fmt.Sprintf("%s:%d", line.Function.Filename, line.Line),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].flat > rows[j].flat })

	var sbb strings.Builder
	fmt.Fprintf(&sbb, "Showing nodes accounting for %d, 100%% of %d total\n", total, total)
	sbb.WriteString("      flat  flat%   sum%\n")
	var sum int64
	for _, r := range rows {
		sum += r.flat
		flatPct, sumPct := 0.0, 0.0
		if total > 0 {
			flatPct = 100 * float64(r.flat) / float64(total)
			sumPct = 100 * float64(sum) / float64(total)
		}
		fmt.Fprintf(&sbb, "%10d %5.2f%% %5.2f%%  %s %s\n", r.flat, flatPct, sumPct, r.name, r.pos)
	}
	return sbb.String()
}

// Write serializes the profile in binary pprof format.
func (p *Profile) Write(w io.Writer) error {
	return p.pprof.Write(w)
}

// WriteFile writes the profile to path.
func (p *Profile) WriteFile(path string) error {
	log := logger.Logger()

	var buf bytes.Buffer
	if err := p.pprof.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("circuit profile written")
	return nil
}
