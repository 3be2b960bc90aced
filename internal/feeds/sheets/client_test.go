package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatscope/threatscope/pkg/errors"
	"github.com/threatscope/threatscope/pkg/intel"
)

const russiaCSV = "\xef\xbb\xbf" + `Common Name,Operation,Aliases,Comment
Sandworm,"BlackEnergy, Industroyer","Voodoo Bear, IRIDIUM",Attacks on energy grids
,,,
Turla,Snake,"Uroburos, Venomous Bear",Long-running espionage
`

const chinaCSV = `Common Name,Operation,Aliases,Comment
"Deep Panda",,Shell Crew,Healthcare intrusions
`

func sheetServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/abc123/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		switch r.URL.Query().Get("gid") {
		case "42":
			_, _ = w.Write([]byte(russiaCSV))
		case "7":
			_, _ = w.Write([]byte(chinaCSV))
		default:
			http.NotFound(w, r)
		}
	})
	return httptest.NewServer(mux)
}

func TestURLBuilders(t *testing.T) {
	assert.Equal(t,
		"https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=42",
		ExportURL("abc123", "42"))
	assert.Equal(t,
		"https://docs.google.com/spreadsheets/d/abc123/edit#gid=42",
		EditURL("abc123", "42"))
}

func TestFetchTab(t *testing.T) {
	server := sheetServer()
	defer server.Close()

	client := New(WithBaseURL(server.URL + "/"))

	tab, err := client.FetchTab(context.Background(), "abc123", TabConfig{Name: "Russia", GID: "42"})
	require.NoError(t, err)

	assert.Equal(t, "Russia", tab.Name)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/edit#gid=42", tab.EditURL)

	// Header and the spacer row gone, BOM stripped, quoted commas intact.
	require.Len(t, tab.Rows, 2)
	assert.Equal(t, intel.Row{"Sandworm", "BlackEnergy, Industroyer", "Voodoo Bear, IRIDIUM", "Attacks on energy grids"}, tab.Rows[0])
	assert.Equal(t, "Turla", tab.Rows[1][0])
}

func TestFetchTabNotFound(t *testing.T) {
	server := sheetServer()
	defer server.Close()

	client := New(WithBaseURL(server.URL + "/"))

	_, err := client.FetchTab(context.Background(), "abc123", TabConfig{Name: "Unknown", GID: "999"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestSourcesSkipsFailingTabs(t *testing.T) {
	server := sheetServer()
	defer server.Close()

	client := New(WithBaseURL(server.URL + "/"))
	sheet := Spreadsheet{
		ID: "abc123",
		Tabs: []TabConfig{
			{Name: "Russia", GID: "42"},
			{Name: "Gone", GID: "999"},
			{Name: "China", GID: "7"},
		},
	}

	sources := client.Sources(context.Background(), sheet)
	require.Len(t, sources, 2, "the failing tab is skipped, not fatal")

	assert.Equal(t, intel.LabelSheet, sources[0].Label)
	assert.Equal(t, TabPriority, sources[0].Priority)
	assert.Equal(t, intel.KindTabular, sources[0].Kind)
	assert.Equal(t, "Russia", sources[0].Tab.Name)
	assert.Equal(t, "China", sources[1].Tab.Name)
}

func TestDefaultSpreadsheet(t *testing.T) {
	sheet := DefaultSpreadsheet()
	assert.NotEmpty(t, sheet.ID)
	require.NotEmpty(t, sheet.Tabs)

	names := make([]string, 0, len(sheet.Tabs))
	for _, tab := range sheet.Tabs {
		assert.NotEmpty(t, tab.GID)
		names = append(names, tab.Name)
	}
	assert.Contains(t, names, "China")
	assert.Contains(t, names, "Russia")
}
