// Package mapping builds the source-to-target mapping document emitted for a
// migration object. The document records every resolved mapping with its
// method and confidence, plus audit sections listing skipped source fields,
// unmatched source fields (with review suggestions), and unclaimed target
// fields.
package mapping

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/goccy/go-yaml"

	"fieldmap/internal/match"
)

// Stats summarizes mapping coverage. Coverage counts matched sources against
// the sources still in play, so skipped fields do not depress it.
type Stats struct {
	TotalSources   int     `yaml:"total_sources"`
	TotalTargets   int     `yaml:"total_targets"`
	MatchedSources int     `yaml:"matched_sources"`
	SkippedSources int     `yaml:"skipped_sources,omitempty"`
	Coverage       float64 `yaml:"coverage_percentage"`
}

// Metadata identifies the mapping run.
type Metadata struct {
	Object      string `yaml:"object"`
	Variant     string `yaml:"variant"`
	GeneratedAt string `yaml:"generated_at"`
	Generator   string `yaml:"generator"`
	Stats       Stats  `yaml:"stats"`
}

// Entry is one resolved source-to-target mapping.
type Entry struct {
	Source      string  `yaml:"source"`
	InternalID  string  `yaml:"internal_id"`
	Table       string  `yaml:"sap_table"`
	Field       string  `yaml:"sap_field"`
	Description string  `yaml:"description,omitempty"`
	Method      string  `yaml:"method"`
	Confidence  float64 `yaml:"confidence"`
	Note        string  `yaml:"note,omitempty"`
}

// Suggestion is a scored candidate carried for manual review.
type Suggestion struct {
	InternalID string  `yaml:"internal_id"`
	Confidence float64 `yaml:"confidence"`
}

// UnmatchedSource is a source field with no accepted mapping.
type UnmatchedSource struct {
	Source      string       `yaml:"source"`
	Suggestions []Suggestion `yaml:"suggestions,omitempty"`
}

// SkippedSource is a source field excluded by a reviewed skip rule.
type SkippedSource struct {
	Source string `yaml:"source"`
	Note   string `yaml:"note,omitempty"`
}

// UnmatchedTarget is a target field no source field claimed.
type UnmatchedTarget struct {
	InternalID  string `yaml:"internal_id"`
	Table       string `yaml:"sap_table"`
	Field       string `yaml:"sap_field"`
	Description string `yaml:"description,omitempty"`
}

// Document is the full mapping file.
type Document struct {
	Metadata         Metadata          `yaml:"metadata"`
	Mappings         []Entry           `yaml:"mappings"`
	SkippedSources   []SkippedSource   `yaml:"skipped_sources,omitempty"`
	UnmatchedSources []UnmatchedSource `yaml:"unmatched_sources,omitempty"`
	UnmatchedTargets []UnmatchedTarget `yaml:"unmatched_targets,omitempty"`
}

const generator = "fieldmap"

// round3 keeps confidences readable in the emitted document.
func round3(f float64) float64 { return math.Round(f*1000) / 1000 }

// Build assembles a Document from match results. totalTargets is the catalog
// size; targets never claimed end up in the unmatched_targets audit section.
// now supplies the generated-at stamp so callers (and tests) control it.
func Build(object, variant string, results []match.Result, totalTargets int, now time.Time) Document {
	doc := Document{
		Metadata: Metadata{
			Object:      object,
			Variant:     variant,
			GeneratedAt: now.Format("2006-01-02 15:04:05"),
			Generator:   generator,
		},
	}

	for _, r := range results {
		if r.Skipped() {
			doc.SkippedSources = append(doc.SkippedSources, SkippedSource{
				Source: r.Source.Name(),
				Note:   r.Note,
			})
			continue
		}
		if !r.Matched() {
			us := UnmatchedSource{Source: r.Source.Name()}
			for _, s := range r.Suggestions {
				us.Suggestions = append(us.Suggestions, Suggestion{
					InternalID: s.Target.ID(),
					Confidence: round3(s.Confidence),
				})
			}
			doc.UnmatchedSources = append(doc.UnmatchedSources, us)
			continue
		}
		doc.Mappings = append(doc.Mappings, Entry{
			Source:      r.Source.Name(),
			InternalID:  r.Target.ID(),
			Table:       r.Target.Table,
			Field:       r.Target.Name,
			Description: r.Target.Description,
			Method:      string(r.Type),
			Confidence:  round3(r.Confidence),
			Note:        r.Note,
		})
	}

	doc.Metadata.Stats = Stats{
		TotalSources:   len(results),
		TotalTargets:   totalTargets,
		MatchedSources: len(doc.Mappings),
		SkippedSources: len(doc.SkippedSources),
	}
	if inPlay := len(results) - len(doc.SkippedSources); inPlay > 0 {
		doc.Metadata.Stats.Coverage = round3(float64(len(doc.Mappings)) / float64(inPlay) * 100)
	}
	return doc
}

// AddUnmatchedTargets appends the audit section for catalog fields absent
// from the resolved mappings, preserving catalog order.
func (d *Document) AddUnmatchedTargets(ids []UnmatchedTarget) {
	claimed := make(map[string]bool, len(d.Mappings))
	for _, e := range d.Mappings {
		claimed[e.InternalID] = true
	}
	for _, t := range ids {
		if !claimed[t.InternalID] {
			d.UnmatchedTargets = append(d.UnmatchedTargets, t)
		}
	}
}

// Write serializes the document as YAML with a short comment banner.
func (d Document) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Source-to-target field mappings\n# Coverage: %.1f%%\n\n", d.Metadata.Stats.Coverage); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w, yaml.Indent(2))
	defer enc.Close()
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode mapping yaml: %w", err)
	}
	return nil
}
