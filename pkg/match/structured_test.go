package match_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatscope/threatscope/pkg/intel"
	"github.com/threatscope/threatscope/pkg/match"
)

func structuredFixture() []intel.StructuredObject {
	return []intel.StructuredObject{
		{
			Type:        "intrusion-set",
			Name:        "Sandworm Team",
			Description: "Sandworm Team is a destructive group attributed to GRU Unit 74455.\nIt targets energy providers.",
			Aliases:     []string{"ELECTRUM", "Telebots", "Voodoo Bear"},
			ExternalReferences: []intel.ExternalReference{
				{SourceName: "other-catalog", ExternalID: "X-1"},
				{SourceName: "mitre-attack", ExternalID: "G0034", URL: "https://attack.mitre.org/groups/G0034"},
			},
		},
		{
			Type:        "intrusion-set",
			Name:        "Orangeworm",
			Description: "Orangeworm has targeted the healthcare sector in the United States.",
		},
		{
			Type:        "intrusion-set",
			Name:        "Deep Panda",
			Description: "Deep Panda is a suspected Chinese group.",
			Deprecated:  true,
		},
		{
			Type:        "malware",
			Name:        "NotPetya",
			Description: "Destructive malware used against energy and healthcare targets.",
		},
	}
}

func TestStructuredFiltersTypeAndDeprecated(t *testing.T) {
	records := match.Structured(intel.LabelMITRE, structuredFixture(), []string{"healthcare", "energy"})

	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.DisplayName)
	}

	// "NotPetya" is not an intrusion-set and "Deep Panda" is deprecated.
	assert.ElementsMatch(t, []string{"Sandworm Team", "Orangeworm"}, names)
}

func TestStructuredMatchesAnyTerm(t *testing.T) {
	objects := structuredFixture()

	t.Run("name hit", func(t *testing.T) {
		records := match.Structured(intel.LabelMITRE, objects, []string{"sandworm"})
		require.Len(t, records, 1)
		assert.Equal(t, "Sandworm Team", records[0].DisplayName)
	})

	t.Run("description hit", func(t *testing.T) {
		records := match.Structured(intel.LabelMITRE, objects, []string{"hospital", "healthcare"})
		require.Len(t, records, 1)
		assert.Equal(t, "Orangeworm", records[0].DisplayName)
	})

	t.Run("alias hit", func(t *testing.T) {
		records := match.Structured(intel.LabelMITRE, objects, []string{"voodoo bear"})
		require.Len(t, records, 1)
		assert.Equal(t, "Sandworm Team", records[0].DisplayName)
	})

	t.Run("no hit", func(t *testing.T) {
		records := match.Structured(intel.LabelMITRE, objects, []string{"maritime"})
		assert.Empty(t, records)
	})
}

func TestStructuredAuthorityReference(t *testing.T) {
	records := match.Structured(intel.LabelMITRE, structuredFixture(), []string{"sandworm"})
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "G0034", rec.ExternalID)
	assert.Equal(t, "https://attack.mitre.org/groups/G0034/", rec.ReferenceURL)
	assert.Equal(t, intel.LabelMITRE, rec.SourceLabel)
	assert.Equal(t, "Global", rec.RegionTag)
	assert.Equal(t, []string{"ELECTRUM", "Telebots", "Voodoo Bear"}, rec.Aliases)
}

func TestStructuredWithoutAuthorityReference(t *testing.T) {
	records := match.Structured(intel.LabelMITRE, structuredFixture(), []string{"orangeworm"})
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, match.NoExternalID, rec.ExternalID)
	assert.Equal(t, match.PlaceholderURL, rec.ReferenceURL)
	assert.Empty(t, rec.Aliases)
}

func TestStructuredDetailTextBoundedAndNewlineFree(t *testing.T) {
	long := strings.Repeat("energy sector intrusion\n", 40)
	objects := []intel.StructuredObject{{
		Type:        "intrusion-set",
		Name:        "Test Group",
		Description: long,
	}}

	records := match.Structured(intel.LabelMITRE, objects, []string{"energy"})
	require.Len(t, records, 1)

	detail := records[0].DetailText
	assert.LessOrEqual(t, len([]rune(detail)), match.DetailTextLimit)
	assert.NotContains(t, detail, "\n")
}

func TestStructuredDropsUnreconcilableNames(t *testing.T) {
	objects := []intel.StructuredObject{
		{Type: "intrusion-set", Name: "***", Description: "energy attacks"},
		{Type: "intrusion-set", Name: "", Description: "energy attacks"},
	}

	records := match.Structured(intel.LabelMITRE, objects, []string{"energy"})
	assert.Empty(t, records, "records without a usable name must be dropped at the matcher boundary")
}

func TestStructuredMalformedObjectsUseDefaults(t *testing.T) {
	objects := []intel.StructuredObject{{Type: "intrusion-set", Name: "Lazarus Group"}}

	records := match.Structured(intel.LabelMITRE, objects, []string{"lazarus"})
	require.Len(t, records, 1)

	rec := records[0]
	assert.Empty(t, rec.DetailText)
	assert.Equal(t, match.NoExternalID, rec.ExternalID)
	assert.Equal(t, []string{}, rec.Aliases)
}

func TestStructuredEmptyInput(t *testing.T) {
	assert.Empty(t, match.Structured(intel.LabelMITRE, nil, []string{"energy"}))
}
