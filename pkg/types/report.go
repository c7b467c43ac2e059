package types

import "fmt"

// IntegrityGapTag marks a relation whose via column is not backed by a key.
const IntegrityGapTag = "NoIndexForReferentialIntegrity"

// Edge is the metadata of a relation edge. It carries nothing yet.
type Edge struct{}

// RelationMap maps table -> referenced table -> via column -> edge.
type RelationMap map[string]map[string]map[string]Edge

// Add records the relation.
func (m RelationMap) Add(r Relation) {
	targets, ok := m[r.Source]
	if !ok {
		targets = make(map[string]map[string]Edge)
		m[r.Source] = targets
	}
	vias, ok := targets[r.Target]
	if !ok {
		vias = make(map[string]Edge)
		targets[r.Target] = vias
	}
	vias[r.Via] = Edge{}
}

// Count returns the number of edges.
func (m RelationMap) Count() int {
	n := 0
	for _, targets := range m {
		for _, vias := range targets {
			n += len(vias)
		}
	}
	return n
}

// Issues groups the advisory findings of a run.
type Issues struct {
	// Relations maps table -> via column -> IntegrityGapTag.
	Relations map[string]map[string]string `json:"relations"            yaml:"relations"`
	// Collisions maps column name -> domain -> tables.
	Collisions map[string]map[string][]string `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	// Common maps common column name -> signature -> tables, for columns that
	// are not shaped the same in every table.
	Common  map[string]map[string][]string `json:"common,omitempty"  yaml:"common,omitempty"`
	Skipped []*SkippedStatement            `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Summary holds the counts of a run.
type Summary struct {
	Tables        int `json:"tables"         yaml:"tables"`
	Columns       int `json:"columns"        yaml:"columns"`
	Domains       int `json:"domains"        yaml:"domains"`
	Relations     int `json:"relations"      yaml:"relations"`
	IntegrityGaps int `json:"integrity_gaps" yaml:"integrity_gaps"`
	Collisions    int `json:"collisions"     yaml:"collisions"`
	CommonDrifts  int `json:"common_drifts"  yaml:"common_drifts"`
	Skipped       int `json:"skipped"        yaml:"skipped"`
}

// Report is the result of one analysis run.
type Report struct {
	Domain      map[string]*Attributes `json:"domain"                yaml:"domain"`
	Tables      map[string]*Table      `json:"tables"                yaml:"tables"`
	Relations   RelationMap            `json:"relations"             yaml:"relations"`
	Issues      Issues                 `json:"issues"                yaml:"issues"`
	Order       []string               `json:"order,omitempty"       yaml:"order,omitempty"`
	Summary     Summary                `json:"summary"               yaml:"summary"`
	Fingerprint string                 `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`

	// Advices lists every advisory finding in the order it was recorded.
	Advices []*Advice `json:"-" yaml:"-"`
}

// HasIssues reports whether the run recorded any warning.
func (r *Report) HasIssues() bool {
	for _, advice := range r.Advices {
		if advice.Status == Advice_WARNING || advice.Status == Advice_ERROR {
			return true
		}
	}
	return false
}

// FilterByCode returns the advices with the given code.
func (r *Report) FilterByCode(code int32) []*Advice {
	filtered := make([]*Advice, 0)
	for _, advice := range r.Advices {
		if advice.Code == code {
			filtered = append(filtered, advice)
		}
	}
	return filtered
}

// FilterByStatus returns the advices with the given status.
func (r *Report) FilterByStatus(status Advice_Status) []*Advice {
	filtered := make([]*Advice, 0)
	for _, advice := range r.Advices {
		if advice.Status == status {
			filtered = append(filtered, advice)
		}
	}
	return filtered
}

// String returns a one-line summary of the report.
//
// Example output:
//
//	Analysis: 12 tables, 140 columns, 9 domains, 20 relations (3 integrity gaps, 1 collisions, 0 skipped)
func (r *Report) String() string {
	return fmt.Sprintf(
		"Analysis: %d tables, %d columns, %d domains, %d relations (%d integrity gaps, %d collisions, %d skipped)",
		r.Summary.Tables,
		r.Summary.Columns,
		r.Summary.Domains,
		r.Summary.Relations,
		r.Summary.IntegrityGaps,
		r.Summary.Collisions,
		r.Summary.Skipped,
	)
}
