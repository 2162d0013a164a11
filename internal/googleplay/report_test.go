package googleplay

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeZip(t *testing.T, members map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestMergeSharedHeader(t *testing.T) {
	archives := map[string][]byte{
		"earnings_202401_a.zip": makeZip(t, map[string]string{
			"a.csv": "Product,Amount\nApp One,10.00\n",
		}),
		"earnings_202401_b.zip": makeZip(t, map[string]string{
			"b.csv": "Product,Amount\nApp Two,20.00\n",
		}),
	}

	merged, err := mergeReportArchives(FinancialReports, "202401", archives)
	require.NoError(t, err)

	assert.Contains(t, merged, "# Google Play financial report for 202401")
	assert.Contains(t, merged, "2 CSV file(s) across 2 archive(s)")
	assert.Contains(t, merged, "App One,10.00")
	assert.Contains(t, merged, "App Two,20.00")

	// The shared header must appear exactly once.
	assert.Equal(t, 1, bytes.Count([]byte(merged), []byte("Product,Amount")))
}

func TestMergeKeepsDivergentHeaders(t *testing.T) {
	archives := map[string][]byte{
		"a.zip": makeZip(t, map[string]string{
			"a.csv": "Product,Amount\nApp One,10.00\n",
		}),
		"b.zip": makeZip(t, map[string]string{
			"b.csv": "Country,Units\nDE,5\n",
		}),
	}

	merged, err := mergeReportArchives(SalesReports, "202401", archives)
	require.NoError(t, err)

	assert.Contains(t, merged, "Product,Amount")
	assert.Contains(t, merged, "Country,Units")
	assert.Contains(t, merged, "DE,5")
}

func TestMergeSkipsNonCSVMembers(t *testing.T) {
	archives := map[string][]byte{
		"a.zip": makeZip(t, map[string]string{
			"readme.txt": "not a report",
			"a.csv":      "Product,Amount\nApp One,10.00\n",
		}),
	}

	merged, err := mergeReportArchives(FinancialReports, "202401", archives)
	require.NoError(t, err)
	assert.NotContains(t, merged, "not a report")
	assert.Contains(t, merged, "App One,10.00")
}

func TestMergeHandlesCRLF(t *testing.T) {
	archives := map[string][]byte{
		"a.zip": makeZip(t, map[string]string{
			"a.csv": "Product,Amount\r\nApp One,10.00\r\n",
		}),
	}

	merged, err := mergeReportArchives(FinancialReports, "202401", archives)
	require.NoError(t, err)
	assert.Contains(t, merged, "App One,10.00")
	assert.NotContains(t, merged, "\r")
}

func TestMergeNoCSVFiles(t *testing.T) {
	archives := map[string][]byte{
		"a.zip": makeZip(t, map[string]string{"readme.txt": "nothing"}),
	}

	_, err := mergeReportArchives(FinancialReports, "202401", archives)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CSV files found")
}

func TestMergeBadArchive(t *testing.T) {
	archives := map[string][]byte{
		"broken.zip": []byte("not a zip"),
	}

	_, err := mergeReportArchives(FinancialReports, "202401", archives)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.zip")
}

func TestMergeOrderIsDeterministic(t *testing.T) {
	archives := map[string][]byte{
		"z.zip": makeZip(t, map[string]string{"z.csv": "H\nlast\n"}),
		"a.zip": makeZip(t, map[string]string{"a.csv": "H\nfirst\n"}),
	}

	merged, err := mergeReportArchives(SalesReports, "202401", archives)
	require.NoError(t, err)

	first := bytes.Index([]byte(merged), []byte("first"))
	last := bytes.Index([]byte(merged), []byte("last"))
	assert.Less(t, first, last)
}
