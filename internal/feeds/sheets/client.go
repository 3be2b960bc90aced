// Package sheets fetches tabs of a public Google spreadsheet through the
// CSV export endpoint and exposes each tab as a tabular source. The feed
// needs no credentials: community tracking sheets are world-readable.
package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"

	"github.com/threatscope/threatscope/internal/transport"
	"github.com/threatscope/threatscope/pkg/errors"
	"github.com/threatscope/threatscope/pkg/intel"
	"github.com/threatscope/threatscope/pkg/logging"
)

const (
	// FeedName labels this feed in logs and errors.
	FeedName = "Google Sheets"

	// TabPriority ranks tabular sources below the structured feed.
	TabPriority = 1

	docsBase = "https://docs.google.com/spreadsheets/d/"
)

// utf8BOM prefixes Google CSV exports; it must not leak into the first cell.
var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// TabConfig names one tab of a spreadsheet by its grid ID.
type TabConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	GID  string `mapstructure:"gid"  yaml:"gid"`
}

// Spreadsheet identifies a document and the tabs worth searching.
type Spreadsheet struct {
	ID   string      `mapstructure:"id"   yaml:"id"`
	Tabs []TabConfig `mapstructure:"tabs" yaml:"tabs"`
}

// DefaultSpreadsheet returns the community "APT Groups and Operations"
// tracking sheet with its per-region tabs.
func DefaultSpreadsheet() Spreadsheet {
	return Spreadsheet{
		ID: "1H9_xaxQHpWaa4O_Son4Gx0YOIzlcBWMsdvePFX68EKU",
		Tabs: []TabConfig{
			{Name: "China", GID: "361554658"},
			{Name: "Russia", GID: "1636225066"},
			{Name: "North Korea", GID: "1905351590"},
			{Name: "Iran", GID: "376438690"},
			{Name: "Israel", GID: "300065512"},
			{Name: "NATO", GID: "301363807"},
			{Name: "Middle East", GID: "511996794"},
			{Name: "Others", GID: "80374933"},
		},
	}
}

// ExportURL returns the CSV export endpoint for one tab.
func ExportURL(sheetID, gid string) string {
	return docsBase + sheetID + "/export?format=csv&gid=" + gid
}

// EditURL returns the human-facing view of one tab, used as the reference
// URL on records the tab produced.
func EditURL(sheetID, gid string) string {
	return docsBase + sheetID + "/edit#gid=" + gid
}

// Client downloads spreadsheet tabs.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL redirects downloads, mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithTransport substitutes the HTTP transport.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// New creates a spreadsheet feed client.
func New(opts ...Option) *Client {
	c := &Client{
		transport: transport.New(FeedName),
		baseURL:   docsBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTab downloads one tab and returns its header-stripped rows.
func (c *Client) FetchTab(ctx context.Context, sheetID string, tab TabConfig) (intel.Tab, error) {
	url := c.baseURL + sheetID + "/export?format=csv&gid=" + tab.GID

	raw, err := c.transport.GetBytes(ctx, url)
	if err != nil {
		return intel.Tab{}, err
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1 // community sheets have ragged rows
	reader.LazyQuotes = true

	all, err := reader.ReadAll()
	if err != nil {
		return intel.Tab{}, errors.WrapParse("csv", FeedName+" tab "+tab.Name, err)
	}

	rows := make([]intel.Row, 0, len(all))
	for i, cells := range all {
		if i == 0 {
			continue // header
		}
		if blankRow(cells) {
			continue
		}
		rows = append(rows, intel.Row(cells))
	}

	return intel.Tab{
		Name:    tab.Name,
		EditURL: EditURL(sheetID, tab.GID),
		Rows:    rows,
	}, nil
}

// blankRow reports whether every cell is empty, as in the spacer rows
// community sheets use between sections.
func blankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Sources downloads every configured tab and wraps each as a tabular
// source. A failing tab is logged and skipped, so the result may hold
// fewer sources than the spreadsheet has tabs; one bad tab must not take
// the whole feed down.
func (c *Client) Sources(ctx context.Context, sheet Spreadsheet) []intel.Source {
	log := logging.FromContext(ctx)

	sources := make([]intel.Source, 0, len(sheet.Tabs))
	for _, tabCfg := range sheet.Tabs {
		tab, err := c.FetchTab(ctx, sheet.ID, tabCfg)
		if err != nil {
			log.Warn().Err(err).Str("tab", tabCfg.Name).Msg("tab skipped")
			continue
		}
		log.Debug().Str("tab", tab.Name).Int("rows", len(tab.Rows)).Msg("fetched tab")
		sources = append(sources, intel.NewTabularSource(intel.LabelSheet, TabPriority, tab))
	}
	return sources
}
