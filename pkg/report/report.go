// Package report renders a finished search into the persisted JSON report:
// an envelope of run metadata around the ranked canonical records.
package report

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/threatscope/threatscope/pkg/errors"
	"github.com/threatscope/threatscope/pkg/intel"
)

// Report is the envelope written to disk or object storage.
type Report struct {
	Keyword       string                  `json:"keyword"        yaml:"keyword"`
	AttackVersion string                  `json:"attack_version" yaml:"attack_version"`
	GeneratedAt   time.Time               `json:"generated_at"   yaml:"generated_at"`
	Count         int                     `json:"count"          yaml:"count"`
	Records       []intel.CanonicalRecord `json:"records"        yaml:"records"`
}

// New builds a report for one search run.
func New(keyword, attackVersion string, records []intel.CanonicalRecord) *Report {
	return &Report{
		Keyword:       keyword,
		AttackVersion: attackVersion,
		GeneratedAt:   time.Now().UTC(),
		Count:         len(records),
		Records:       records,
	}
}

// Filename derives the report's file name from the run parameters,
// e.g. keyword "health care" against ATT&CK 18.1 becomes
// threat_groups_v18_1_health_care.json.
func (r *Report) Filename() string {
	version := strings.ReplaceAll(r.AttackVersion, ".", "_")
	return "threat_groups_v" + version + "_" + Sanitize(r.Keyword) + ".json"
}

// JSON marshals the report, indented for human inspection.
func (r *Report) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.WrapParse("json", "report", err)
	}
	return out, nil
}

// Sanitize makes a keyword safe for file names: letters, digits, spaces and
// underscores survive, trailing spaces drop, remaining spaces become
// underscores. Everything else is removed, path separators included.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimRight(b.String(), " ")
	return strings.ReplaceAll(cleaned, " ", "_")
}
