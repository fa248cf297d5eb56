package match

import (
	"context"
	"strings"

	"fieldmap/internal/fielddef"
	"fieldmap/internal/memory"
	"fieldmap/internal/targetdef"
)

// MatchWithRules resolves mapping-memory rules before running the matcher.
// Skip rules remove their source fields from matching and yield skip results;
// manual mappings claim their target with confidence 1.0 so the matcher
// cannot reassign it. Remaining sources go through Match. Results come back
// in source order regardless of which stage resolved them.
//
// Both rule sets may be nil, in which case this is equivalent to Match.
func (m *Matcher) MatchWithRules(
	ctx context.Context,
	sources []fielddef.Definition,
	targets []targetdef.Field,
	skips []memory.SkipRule,
	manuals []memory.ManualMapping,
) ([]Result, error) {
	skipBy := make(map[string]memory.SkipRule, len(skips))
	for _, r := range skips {
		if r.Skip {
			skipBy[r.SourceField] = r
		}
	}
	manualBy := make(map[string]memory.ManualMapping, len(manuals))
	for _, mm := range manuals {
		manualBy[mm.SourceField] = mm
	}

	results := make([]Result, len(sources))
	claimedIDs := make(map[string]bool)
	var rest []fielddef.Definition
	var restIdx []int

	for i, src := range sources {
		name := src.Name()
		if rule, ok := skipBy[name]; ok {
			results[i] = Result{
				Source: backfillDescription(src, rule.SourceDescription),
				Type:   TypeSkip,
				Note:   rule.Comment,
			}
			continue
		}
		if mm, ok := manualBy[name]; ok {
			tgt := resolveManualTarget(targets, mm)
			claimedIDs[tgt.ID()] = true
			results[i] = Result{
				Source:     backfillDescription(src, mm.SourceDescription),
				Target:     &tgt,
				Type:       TypeManual,
				Confidence: 1,
				Note:       mm.Comment,
			}
			continue
		}
		rest = append(rest, src)
		restIdx = append(restIdx, i)
	}

	if len(rest) == 0 {
		return results, nil
	}

	// Manually claimed targets are withheld from the matcher entirely.
	open := targets
	if len(claimedIDs) > 0 {
		open = make([]targetdef.Field, 0, len(targets))
		for _, t := range targets {
			if !claimedIDs[t.ID()] {
				open = append(open, t)
			}
		}
	}

	matched, err := m.Match(ctx, rest, open)
	if err != nil {
		return nil, err
	}
	for j, r := range matched {
		results[restIdx[j]] = r
	}
	return results, nil
}

// backfillDescription fills a missing source description from the reviewed
// rule text, so the emitted document shows why the rule exists.
func backfillDescription(src fielddef.Definition, desc string) fielddef.Definition {
	if desc == "" {
		return src
	}
	if src.Description == nil || strings.TrimSpace(*src.Description) == "" {
		src.Description = &desc
	}
	return src
}

// resolveManualTarget finds the manual mapping's target in the catalog by
// internal id. An id absent from the catalog still resolves, synthesized from
// the id text, since reviewed mappings may point at targets the extract of
// the catalog does not carry.
func resolveManualTarget(targets []targetdef.Field, mm memory.ManualMapping) targetdef.Field {
	for _, t := range targets {
		if t.ID() == mm.Target {
			return t
		}
	}
	table, field := mm.Target, ""
	if i := strings.LastIndex(mm.Target, "."); i >= 0 {
		table, field = mm.Target[:i], mm.Target[i+1:]
	}
	return targetdef.Field{
		Table:       table,
		Name:        field,
		Description: mm.TargetDescription,
	}
}
