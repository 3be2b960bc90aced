package intel

// ExternalReference is one entry of a structured object's reference list.
type ExternalReference struct {
	SourceName string `json:"source_name"`
	ExternalID string `json:"external_id"`
	URL        string `json:"url"`
}

// StructuredObject is the raw shape of one knowledge-base bundle object.
// Fields absent from the feed decode to zero values; matchers treat those
// as empty rather than failing.
type StructuredObject struct {
	Type               string              `json:"type"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Aliases            []string            `json:"aliases"`
	ExternalReferences []ExternalReference `json:"external_references"`
	Deprecated         bool                `json:"x_mitre_deprecated"`
}

// Row is one tabular row: ordered string cells with no named fields.
// The header row is consumed by the feed client before rows reach here.
type Row []string

// Tab is one spreadsheet tab, already fetched and header-stripped.
type Tab struct {
	Name    string
	EditURL string
	Rows    []Row
}

// Kind discriminates source payload shapes.
type Kind string

// Source payload kinds.
const (
	KindStructured Kind = "structured"
	KindTabular    Kind = "tabular"
)

// Source is one feed's contribution to a single search pass: its label,
// its priority rank (lower rank folds first and owns identifying fields),
// and exactly one payload. A spreadsheet contributes one Source per tab,
// all sharing the same label and rank.
type Source struct {
	Label    Label
	Priority int
	Kind     Kind

	// Objects is the payload when Kind == KindStructured.
	Objects []StructuredObject

	// Tab is the payload when Kind == KindTabular.
	Tab Tab
}

// NewStructuredSource wraps a structured feed payload as a Source.
func NewStructuredSource(label Label, priority int, objects []StructuredObject) Source {
	return Source{
		Label:    label,
		Priority: priority,
		Kind:     KindStructured,
		Objects:  objects,
	}
}

// NewTabularSource wraps one spreadsheet tab as a Source.
func NewTabularSource(label Label, priority int, tab Tab) Source {
	return Source{
		Label:    label,
		Priority: priority,
		Kind:     KindTabular,
		Tab:      tab,
	}
}
