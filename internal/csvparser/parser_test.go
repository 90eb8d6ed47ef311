package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-summarizer/internal/config"
	"github.com/ginjaninja78/order-summarizer/internal/types"
)

func TestParseTypesFields(t *testing.T) {
	input := "sku,qty,note\nK100,5,\n r1 ,2.5,x\nL7,1e2,\"a,b\"\n"

	rows, err := Parse(strings.NewReader(input), config.CSVSettings{InferNumbers: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, types.Text("sku"), rows[0][0])
	assert.Equal(t, types.Text("K100"), rows[1][0])
	assert.Equal(t, "5", rows[1][1].Number.String())
	assert.True(t, rows[1][2].IsAbsent())

	// Values are kept untrimmed; padded numbers stay text.
	assert.Equal(t, types.Text(" r1 "), rows[2][0])
	assert.Equal(t, "2.5", rows[2][1].Number.String())

	assert.Equal(t, types.CellNumber, rows[3][1].Kind)
	assert.Equal(t, "100", rows[3][1].Number.String())
	assert.Equal(t, types.Text("a,b"), rows[3][2])
}

func TestParseWithoutInference(t *testing.T) {
	rows, err := Parse(strings.NewReader("h\n42\n"), config.CSVSettings{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, types.Text("42"), rows[1][0])
}

func TestParseRaggedRows(t *testing.T) {
	rows, err := Parse(strings.NewReader("a,b,c\nd\ne,f\n"), config.CSVSettings{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 1)
	assert.True(t, rows[1].At(2).IsAbsent())
}

func TestParseKeepsOutOfRangeNumbersAsText(t *testing.T) {
	rows, err := Parse(strings.NewReader("q\n1e50000000\n1e-9999\n"), config.CSVSettings{InferNumbers: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, types.Text("1e50000000"), rows[1][0])
	assert.Equal(t, types.Text("1e-9999"), rows[2][0])
}

func TestParseEmpty(t *testing.T) {
	rows, err := Parse(strings.NewReader(""), config.CSVSettings{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseLazyQuotes(t *testing.T) {
	rows, err := Parse(strings.NewReader("a,b\nsay \"hi\",2\n"), config.CSVSettings{InferNumbers: true})
	require.NoError(t, err)
	assert.Equal(t, types.Text(`say "hi"`), rows[1][0])
}

func TestDelimiter(t *testing.T) {
	tests := []struct {
		name string
		want rune
	}{
		{name: "", want: ','},
		{name: ",", want: ','},
		{name: "comma", want: ','},
		{name: "tab", want: '\t'},
		{name: "\\t", want: '\t'},
		{name: "pipe", want: '|'},
		{name: "|", want: '|'},
		{name: "semicolon", want: ';'},
		{name: "#", want: '#'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Delimiter(tt.name))
		})
	}
}

func TestIsDelimiter(t *testing.T) {
	for _, name := range []string{"", ",", "comma", "tab", "\\t", "\t", "pipe", "semicolon", "#", "§"} {
		assert.True(t, IsDelimiter(name), "%q", name)
	}
	for _, name := range []string{"comma2", ",,", `"`, "\n", "\r", "\uFEFF", "\xff"} {
		assert.False(t, IsDelimiter(name), "%q", name)
	}
}

func TestParseFilePipeDelimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("sku|qty\nR9|3\n"), 0644))

	rows, err := ParseFile(path, config.CSVSettings{Delimiter: "pipe", InferNumbers: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, types.Text("R9"), rows[1][0])
	assert.Equal(t, "3", rows[1][1].Number.String())
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.csv"), config.CSVSettings{})
	assert.Error(t, err)
}
