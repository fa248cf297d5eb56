// Package match pairs source field definitions with target catalog fields.
// Strategies run in fixed order per source field: exact normalized-name
// equality, then synonym equivalence, then weighted fuzzy similarity. A
// target field can be claimed by at most one source field; claims resolve in
// source order, so output is deterministic for identical inputs.
package match

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"fieldmap/internal/fielddef"
	"fieldmap/internal/fuzzy"
	"fieldmap/internal/synonym"
	"fieldmap/internal/targetdef"
)

// Type labels how a result was produced.
type Type string

const (
	TypeExact   Type = "exact"
	TypeSynonym Type = "synonym"
	TypeFuzzy   Type = "fuzzy"
	TypeManual  Type = "manual"
	TypeSkip    Type = "skip"
	TypeNone    Type = "none"
)

// Suggestion is a scored candidate attached to unmatched fields for manual
// review.
type Suggestion struct {
	Target     targetdef.Field
	Confidence float64
}

// Result is the mapping outcome for one source field.
type Result struct {
	// Source is the source definition the result belongs to.
	Source fielddef.Definition

	// Target is set for exact/synonym/fuzzy/manual results, nil otherwise.
	Target *targetdef.Field

	// Type and Confidence describe the winning strategy. Exact matches carry
	// confidence 1.0; synonym matches 0.85; fuzzy matches their combined
	// similarity score.
	Type       Type
	Confidence float64

	// Suggestions holds the best rejected candidates, threshold-filtered and
	// capped, only on unmatched results.
	Suggestions []Suggestion

	// Note carries the reviewer comment on manual and skip results.
	Note string
}

// Matched reports whether the result carries a target.
func (r Result) Matched() bool { return r.Target != nil }

// Skipped reports whether a mapping-memory rule excluded the source field.
func (r Result) Skipped() bool { return r.Type == TypeSkip }

const synonymConfidence = 0.85

// Matcher matches source definitions against a target catalog.
type Matcher struct {
	cfg fuzzy.Config
}

// New returns a Matcher with the given fuzzy configuration.
func New(cfg fuzzy.Config) *Matcher { return &Matcher{cfg: cfg} }

// scored is one catalog candidate by index, with its combined confidence.
type scored struct {
	idx        int
	confidence float64
}

// candidate is the per-source scoring outcome produced by the parallel stage.
type candidate struct {
	matchType  Type
	target     int
	confidence float64
	ranked     []scored
}

// Match scores every source definition against the catalog and resolves
// claims in source order. Per-source scoring runs on an errgroup bounded by
// GOMAXPROCS; the claim pass is sequential so results are reproducible.
func (m *Matcher) Match(ctx context.Context, sources []fielddef.Definition, targets []targetdef.Field) ([]Result, error) {
	candidates := make([]candidate, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			candidates[i] = m.score(sources[i], targets)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	claimed := make([]bool, len(targets))
	results := make([]Result, len(sources))
	for i, c := range candidates {
		res := Result{Source: sources[i], Type: TypeNone}
		if c.matchType != TypeNone && !claimed[c.target] {
			claimed[c.target] = true
			res.Type = c.matchType
			res.Confidence = c.confidence
			res.Target = &targets[c.target]
		} else {
			res.Suggestions = suggestions(c.ranked, claimed, targets, m.cfg.MaxSuggestions)
		}
		results[i] = res
	}
	return results, nil
}

// score finds the best candidate target for one source field, without
// claiming it.
func (m *Matcher) score(src fielddef.Definition, targets []targetdef.Field) candidate {
	name := fuzzy.Normalize(src.Name())

	if name != "" {
		// Exact: normalized name equality.
		for i, tgt := range targets {
			if fuzzy.Normalize(tgt.Name) == name {
				return candidate{matchType: TypeExact, target: i, confidence: 1}
			}
		}
		// Exact against the target description catches extracts whose "field
		// name" column carries labels rather than identifiers.
		if srcDesc := fuzzy.NormalizeDescription(src.Text()); srcDesc != "" {
			for i, tgt := range targets {
				if fuzzy.NormalizeDescription(tgt.Description) == srcDesc {
					return candidate{matchType: TypeExact, target: i, confidence: 1}
				}
			}
		}

		// Synonym equivalence on names.
		for i, tgt := range targets {
			if synonym.Match(src.Name(), tgt.Name) {
				return candidate{matchType: TypeSynonym, target: i, confidence: synonymConfidence}
			}
		}
	}

	if !m.cfg.Enabled {
		return candidate{matchType: TypeNone}
	}

	// Fuzzy: weighted combined similarity on normalized names, with the
	// description as a secondary signal.
	ranked := m.rank(src, targets)
	if len(ranked) > 0 && ranked[0].confidence >= m.cfg.Threshold {
		best := ranked[0]
		return candidate{matchType: TypeFuzzy, target: best.idx, confidence: best.confidence, ranked: ranked}
	}
	return candidate{matchType: TypeNone, ranked: ranked}
}

// rank scores all targets for a source field and returns them ordered by
// descending confidence. Candidates below half the match threshold are
// dropped; the remainder feed suggestions even when no candidate clears the
// full threshold. Ties keep catalog order.
func (m *Matcher) rank(src fielddef.Definition, targets []targetdef.Field) []scored {
	name := fuzzy.Normalize(src.Name())
	desc := fuzzy.NormalizeDescription(src.Text())

	floor := m.cfg.Threshold / 2
	out := make([]scored, 0, 4)
	for i, tgt := range targets {
		score := m.cfg.Similarity(name, fuzzy.Normalize(tgt.Name))
		if desc != "" && tgt.Description != "" {
			ds := m.cfg.Similarity(desc, fuzzy.NormalizeDescription(tgt.Description))
			// Name similarity dominates; the description contributes a third.
			score = score*2/3 + ds/3
		}
		if score >= floor {
			out = append(out, scored{idx: i, confidence: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].confidence > out[j].confidence })
	return out
}

// suggestions maps ranked candidates onto still-unclaimed targets, capped at
// limit. Nil when nothing qualifies.
func suggestions(ranked []scored, claimed []bool, targets []targetdef.Field, limit int) []Suggestion {
	if limit <= 0 || len(ranked) == 0 {
		return nil
	}
	out := make([]Suggestion, 0, limit)
	for _, s := range ranked {
		if len(out) == limit {
			break
		}
		if claimed[s.idx] {
			continue
		}
		out = append(out, Suggestion{Target: targets[s.idx], Confidence: s.confidence})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
