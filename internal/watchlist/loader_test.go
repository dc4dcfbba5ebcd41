package watchlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "watch.csv", "Symbol,Entry,PX,Stop,T1,T2,Score_10\n"+
		"abc,10.00,,9.5,11,12,7\n"+
		" xyz ,,3.2,,,,\n")

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "ABC", got[0].Symbol)
	require.True(t, got[0].Entry.Valid)
	assert.Equal(t, "10", got[0].Entry.Decimal.String())
	assert.False(t, got[0].Price.Valid)
	assert.Equal(t, "9.5", got[0].Stop.Decimal.String())
	assert.Equal(t, "11", got[0].Target1.Decimal.String())
	assert.Equal(t, "12", got[0].Target2.Decimal.String())
	require.NotNil(t, got[0].BaseScore)
	assert.Equal(t, 7.0, *got[0].BaseScore)

	assert.Equal(t, "XYZ", got[1].Symbol)
	assert.False(t, got[1].Entry.Valid)
	assert.Equal(t, "3.2", got[1].Price.Decimal.String())
	assert.Nil(t, got[1].BaseScore)
}

func TestLoad_SymbolAliases(t *testing.T) {
	for _, header := range []string{"sym", "Ticker", "TICKER"} {
		path := writeFile(t, "w.csv", header+",px\naapl,190\n")
		got, err := Load(path)
		require.NoError(t, err, header)
		require.Len(t, got, 1)
		assert.Equal(t, "AAPL", got[0].Symbol)
	}
}

func TestLoad_SymbolPreferredOverAlias(t *testing.T) {
	path := writeFile(t, "w.csv", "ticker,symbol\nAAA,BBB\n")
	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BBB", got[0].Symbol)
}

func TestLoad_NoSymbolColumn(t *testing.T) {
	path := writeFile(t, "w.csv", "name,px\nApple,190\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_TSVAndBadNumbers(t *testing.T) {
	path := writeFile(t, "w.tsv", "symbol\tentry\tscore_10\nabc\tn/a\thigh\n\t5\t1\n")
	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.False(t, got[0].Entry.Valid)
	assert.Nil(t, got[0].BaseScore)
	// empty symbol rows survive loading
	assert.Equal(t, "", got[1].Symbol)
}

func TestLoad_Dedupe(t *testing.T) {
	path := writeFile(t, "w.csv", "symbol,px\nabc,1\nABC,2\n")
	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Price.Decimal.String())
}

func TestLoad_TextAndJSON(t *testing.T) {
	txt := writeFile(t, "w.txt", "# premarket\naapl\n\nmsft\naapl\n")
	got, err := Load(txt)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, "MSFT", got[1].Symbol)

	js := writeFile(t, "w.json", `["tsla", " nvda "]`)
	got, err = Load(js)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "NVDA", got[1].Symbol)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "w.xlsx", "")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyCSV(t *testing.T) {
	path := writeFile(t, "w.csv", "")
	got, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
