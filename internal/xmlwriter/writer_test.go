package xmlwriter

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csvtable/internal/engine"
)

func sampleResults() []*engine.Result {
	return []*engine.Result{
		{
			Table: "Sales",
			Rows: []engine.DisplayRow{
				{Index: 0, IsGroup: true, Cells: []engine.Cell{{Key: "region", Text: "East"}, {Key: "m2r", Text: "1,500"}}},
				{Index: 1, IsGroup: true, Cells: []engine.Cell{{Key: "region", Text: "R&D <West>"}, {Key: "m2r", Text: "7"}}},
			},
			Footer: &engine.DisplayRow{Cells: []engine.Cell{{Key: "region", Text: ""}, {Key: "m2r", Text: "1,507"}}},
		},
		{Table: "Empty", Empty: true, Rows: []engine.DisplayRow{}},
	}
}

func TestGenerate(t *testing.T) {
	out := string(Generate(sampleResults()))

	want := `<?xml version="1.0" encoding="UTF-8"?>
<dashboard>
  <table name="Sales" rows="2">
    <row index="0" group="true">
      <cell key="region">East</cell>
      <cell key="m2r">1,500</cell>
    </row>
    <row index="1" group="true">
      <cell key="region">R&amp;D &lt;West&gt;</cell>
      <cell key="m2r">7</cell>
    </row>
    <footer>
      <cell key="region"/>
      <cell key="m2r">1,507</cell>
    </footer>
  </table>
  <table name="Empty" rows="0">
    <noData/>
  </table>
</dashboard>
`
	assert.Equal(t, want, out)
}

func TestGenerate_WellFormed(t *testing.T) {
	var doc struct {
		Tables []struct {
			Name string `xml:"name,attr"`
			Rows []struct {
				Cells []string `xml:"cell"`
			} `xml:"row"`
		} `xml:"table"`
	}

	require.NoError(t, xml.Unmarshal(Generate(sampleResults()), &doc))
	require.Len(t, doc.Tables, 2)
	assert.Equal(t, "Sales", doc.Tables[0].Name)
	assert.Equal(t, []string{"R&D <West>", "7"}, doc.Tables[0].Rows[1].Cells)
}

func TestGenerate_ControlCharacters(t *testing.T) {
	results := []*engine.Result{{
		Table: "Ctl\x02",
		Rows: []engine.DisplayRow{
			{Index: 0, Cells: []engine.Cell{{Key: "note", Text: "a\x01b\tc"}}},
		},
	}}

	var doc struct {
		Tables []struct {
			Name string `xml:"name,attr"`
			Rows []struct {
				Cells []string `xml:"cell"`
			} `xml:"row"`
		} `xml:"table"`
	}

	require.NoError(t, xml.Unmarshal(Generate(results), &doc))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "Ctl\uFFFD", doc.Tables[0].Name)
	assert.Equal(t, []string{"a\uFFFDb\tc"}, doc.Tables[0].Rows[0].Cells)
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`a&b`, "a&amp;b"},
		{`"x'`, "&quot;x&apos;"},
		{"bell\x07", "bell\uFFFD"},
		{"nul\x00", "nul\uFFFD"},
		{"tab\tline\n", "tab\tline\n"},
		{"caf\u00e9 \U0001F600", "caf\u00e9 \U0001F600"},
		{"\uFFFE", "\uFFFD"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeXML(tt.in), "input %q", tt.in)
	}
}

func TestGenerateWithOptions(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.IncludeXMLDeclaration = false
	opts.RootElement = "report"
	opts.Indent = "\t"
	opts.RootAttributes = []xml.Attr{{Name: xml.Name{Local: "run"}, Value: "abc"}}

	out := string(GenerateWithOptions(nil, opts))
	assert.Equal(t, "<report run=\"abc\"/>\n", out)
}
