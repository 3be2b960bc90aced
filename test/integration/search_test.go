// Package integration exercises the full search pipeline end to end:
// HTTP feeds in, ranked report out.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatscope/threatscope"
	"github.com/threatscope/threatscope/internal/feeds/attack"
	"github.com/threatscope/threatscope/internal/feeds/sheets"
	"github.com/threatscope/threatscope/pkg/intel"
	"github.com/threatscope/threatscope/pkg/report"
)

const bundleJSON = `{
	"type": "bundle",
	"id": "bundle--integration",
	"objects": [
		{
			"type": "intrusion-set",
			"id": "intrusion-set--1",
			"name": "Orangeworm",
			"description": "Known to target the healthcare sector via supply chain intrusions.",
			"aliases": ["Orangeworm"],
			"external_references": [
				{"source_name": "mitre-attack", "external_id": "G0071", "url": "https://attack.mitre.org/groups/G0071"}
			]
		},
		{
			"type": "intrusion-set",
			"id": "intrusion-set--2",
			"name": "Sandworm Team",
			"description": "Destructive attacks against energy grids and industrial systems.",
			"aliases": ["Sandworm Team", "ELECTRUM"],
			"external_references": [
				{"source_name": "mitre-attack", "external_id": "G0034", "url": "https://attack.mitre.org/groups/G0034"}
			]
		},
		{
			"type": "malware",
			"id": "malware--1",
			"name": "Kwampirs",
			"description": "Backdoor used against healthcare organizations."
		}
	]
}`

const (
	chinaCSV = "Common Name,First Seen,Targets\n" +
		"Deep Panda,2011,Healthcare and government networks\n" +
		"Orangeworm,2015,Healthcare supply chain\n"

	russiaCSV = "Common Name,First Seen,Targets\n" +
		"Sandworm Team,2009,\"Energy, industrial control systems\"\n"
)

// feedServer stands in for both upstream feeds.
func feedServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/18.1/enterprise-attack.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bundleJSON))
	})
	mux.HandleFunc("/doc-1/export", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("gid") {
		case "11":
			_, _ = w.Write([]byte(chinaCSV))
		case "22":
			_, _ = w.Write([]byte(russiaCSV))
		default:
			http.NotFound(w, r)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func fetchSources(t *testing.T, srv *httptest.Server) []intel.Source {
	t.Helper()
	ctx := context.Background()

	attackClient := attack.New(attack.WithBaseURL(srv.URL + "/"))
	structured, err := attackClient.Source(ctx, "18.1")
	require.NoError(t, err)

	sheet := sheets.Spreadsheet{
		ID: "doc-1",
		Tabs: []sheets.TabConfig{
			{Name: "China", GID: "11"},
			{Name: "Russia", GID: "22"},
		},
	}
	tabs := sheets.New(sheets.WithBaseURL(srv.URL+"/")).Sources(ctx, sheet)
	require.Len(t, tabs, 2)

	return append([]intel.Source{structured}, tabs...)
}

func TestSearchPipelineEndToEnd(t *testing.T) {
	sources := fetchSources(t, feedServer(t))

	records, err := threatscope.Search("healthcare", sources)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Orangeworm appears in the catalog and the China tab, so it
	// outranks the sheet-only Deep Panda.
	first := records[0]
	assert.Equal(t, "Orangeworm", first.DisplayName)
	assert.Equal(t, "MITRE + Google Sheet", string(first.SourceLabel))
	assert.Equal(t, []intel.Label{intel.LabelMITRE, intel.LabelSheet}, first.ConfirmedIn)
	assert.Equal(t, "G0071", first.ExternalID)
	assert.Equal(t, "https://attack.mitre.org/groups/G0071/", first.ReferenceURL)
	assert.Contains(t, first.DetailText, "[also tracked in Google Sheet:")

	second := records[1]
	assert.Equal(t, "Deep Panda", second.DisplayName)
	assert.Equal(t, "Google Sheet", string(second.SourceLabel))
	assert.Equal(t, "China", second.RegionTag)
	assert.Equal(t, "N/A (tabular source)", second.ExternalID)

	// The malware object mentions healthcare but is not an intrusion set.
	for _, rec := range records {
		assert.NotEqual(t, "Kwampirs", rec.DisplayName)
	}
}

func TestSearchPipelineExpandsOnlyStructuredFeed(t *testing.T) {
	sources := fetchSources(t, feedServer(t))

	// "energy" matches Sandworm Team in the catalog directly and the
	// Russia tab row verbatim, so the two corroborate each other.
	records, err := threatscope.Search("energy", sources)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Sandworm Team", records[0].DisplayName)
	assert.Len(t, records[0].ConfirmedIn, 2)

	// "manufacturing" expands to "industrial" for the catalog, but the
	// raw term misses the Russia tab, leaving a single-feed match.
	records, err = threatscope.Search("manufacturing", sources)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []intel.Label{intel.LabelMITRE}, records[0].ConfirmedIn)
}

func TestSearchPipelineReportRoundTrip(t *testing.T) {
	sources := fetchSources(t, feedServer(t))

	records, err := threatscope.Search("healthcare", sources)
	require.NoError(t, err)

	rep := report.New("healthcare", "18.1", records)
	assert.Equal(t, "threat_groups_v18_1_healthcare.json", rep.Filename())

	data, err := rep.JSON()
	require.NoError(t, err)

	var decoded report.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rep.Keyword, decoded.Keyword)
	assert.Equal(t, rep.Count, decoded.Count)
	require.Len(t, decoded.Records, len(records))
	assert.Equal(t, records[0].DisplayName, decoded.Records[0].DisplayName)
}
