package costrecord

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestParseSingleAnnotation(t *testing.T) {
	assert := require.New(t)

	records := Parse(`<title>main.nr:3:12::x != 0 (2 opcodes, 4.35%)</title>`)
	assert.Len(records, 1)
	assert.Equal(Record{
		File:         "main.nr",
		Line:         3,
		Column:       12,
		Expression:   "x != 0",
		Cost:         2,
		SharePercent: 4.35,
	}, records[0])
}

func TestParseEntityDecoding(t *testing.T) {
	assert := require.New(t)

	records := Parse(`<title>main.nr:7:5::a &gt; b &amp;&amp; c &lt; d (10 opcodes, 1%)</title>`)
	assert.Len(records, 1)
	assert.Equal("a > b && c < d", records[0].Expression)

	records = Parse(`<title>main.nr:8:1::s == &quot;ok&quot; (1 opcodes, 0.5%)</title>`)
	assert.Len(records, 1)
	assert.Equal(`s == "ok"`, records[0].Expression)
}

func TestParseSkipsMalformed(t *testing.T) {
	assert := require.New(t)

	raw := `
<title>not an annotation</title>
<title>main.nr:0:4::zero line (3 opcodes, 1%)</title>
<title>main.nr:4::missing column (3 opcodes, 1%)</title>
<title>main.txt:4:1::wrong extension (3 opcodes, 1%)</title>
<title>main.nr:4:1::no cost (opcodes, 1%)</title>
<title>main.nr:5:2::valid (3 opcodes, 1.5%)</title>
some trailing garbage`

	records := Parse(raw)
	assert.Len(records, 1)
	assert.Equal("valid", records[0].Expression)
	assert.Equal(5, records[0].Line)
}

func TestParseSortedByLineColumn(t *testing.T) {
	assert := require.New(t)

	raw := `<title>main.nr:9:2::c (1 opcodes, 1%)</title>` +
		`<title>main.nr:3:8::b (1 opcodes, 1%)</title>` +
		`<title>main.nr:3:1::a (1 opcodes, 1%)</title>`

	records := Parse(raw)
	assert.Len(records, 3)
	assert.Equal([]string{"a", "b", "c"}, []string{records[0].Expression, records[1].Expression, records[2].Expression})
}

func TestParseMultiFile(t *testing.T) {
	assert := require.New(t)

	raw := `<title>main.nr:3:1::main line (5 opcodes, 10%)</title>` +
		`<title>lib.nr:3:1::lib line (7 opcodes, 14%)</title>`

	result := ParseText(raw)
	assert.Equal([]string{"lib.nr", "main.nr"}, result.Files())

	mains := result.Line("main.nr", 3)
	libs := result.Line("lib.nr", 3)
	assert.Len(mains, 1)
	assert.Len(libs, 1)
	assert.Equal(5, mains[0].Cost)
	assert.Equal(7, libs[0].Cost)
	assert.Len(result.File("lib.nr"), 1)
}

func TestParseMultipleRecordsPerLine(t *testing.T) {
	assert := require.New(t)

	raw := `<title>main.nr:3:4::x * y (2 opcodes, 1%)</title>` +
		`<title>main.nr:3:10::y + 1 (3 opcodes, 2%)</title>`

	result := ParseText(raw)
	assert.Len(result.Line("main.nr", 3), 2)
}

func TestUnescape(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`x > 0 & y < "z"`, Unescape(`x &gt; 0 &amp; y &lt; &quot;z&quot;`))
	assert.Equal("it's", Unescape("it&apos;s"))
	assert.Equal("plain", Unescape("<b>plain</b>"))
}

func TestParseRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("parse(render(record)) == record", prop.ForAll(
		func(line, column, cost int, share float64) bool {
			raw := fmt.Sprintf("<title>main.nr:%d:%d::x + y (%d opcodes, %.2f%%)</title>", line, column, cost, share)
			records := Parse(raw)
			if len(records) != 1 {
				return false
			}
			r := records[0]
			return r.File == "main.nr" && r.Line == line && r.Column == column &&
				r.Expression == "x + y" && r.Cost == cost
		},
		gen.IntRange(1, 100000),
		gen.IntRange(1, 500),
		gen.IntRange(0, 1<<30),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
