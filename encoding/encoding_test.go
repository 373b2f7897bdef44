package encoding

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/noirscope/noirscope/costrecord"
	"github.com/noirscope/noirscope/metrics"
)

func testReport(t *testing.T) *metrics.ComplexityReport {
	t.Helper()

	in := metrics.Input{Source: "fn main() {\n    assert(x != 0);\n}", FileName: "main.nr"}
	in.SetDomain(costrecord.Gates, []costrecord.Record{
		{File: "main.nr", Line: 2, Column: 5, Expression: "x != 0", Cost: 12},
	})
	report, err := metrics.Aggregate(in, metrics.DefaultConfig())
	require.NoError(t, err)

	// the default time encoding drops sub-second precision
	report.GeneratedAt = time.Unix(1712345678, 0).UTC()
	return report
}

func TestSerializeRoundTrip(t *testing.T) {
	assert := require.New(t)

	want := testReport(t)

	var buf bytes.Buffer
	assert.NoError(Serialize(&buf, want))

	var got metrics.ComplexityReport
	assert.NoError(Deserialize(&buf, &got))
	assert.Empty(cmp.Diff(want, &got))
}

func TestSerializeDeterministic(t *testing.T) {
	assert := require.New(t)

	report := testReport(t)

	var a, b bytes.Buffer
	assert.NoError(Serialize(&a, report))
	assert.NoError(Serialize(&b, report))
	assert.Equal(a.Bytes(), b.Bytes())
}

func TestDeserializeVersionMismatch(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	assert.NoError(enc.Encode("99.0.0"))
	assert.NoError(enc.Encode(map[string]int{}))

	var got metrics.ComplexityReport
	assert.ErrorIs(Deserialize(&buf, &got), ErrVersionMismatch)
}

func TestDeserializeBadVersion(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer
	assert.NoError(cbor.NewEncoder(&buf).Encode("not-a-version"))

	var got metrics.ComplexityReport
	err := Deserialize(&buf, &got)
	assert.Error(err)
	assert.NotErrorIs(err, ErrVersionMismatch)
}

func TestWriteRead(t *testing.T) {
	assert := require.New(t)

	want := testReport(t)
	path := filepath.Join(t.TempDir(), "report.cbor")

	assert.NoError(Write(path, want))

	var got metrics.ComplexityReport
	assert.NoError(Read(path, &got))
	assert.Equal(want.ID, got.ID)
	assert.Equal(want.TotalCost, got.TotalCost)
}
