// Command fieldmap matches source field definitions against a target field
// catalog and writes the resulting mapping document as YAML.
//
// Usage:
//
//	fieldmap -config configs/runs/m140_bnka.json
//	fieldmap -config configs/runs/m140_bnka.json -validate
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fieldmap/internal/config"
	"fieldmap/internal/fielddef"
	"fieldmap/internal/mapping"
	"fieldmap/internal/match"
	"fieldmap/internal/memory"
	"fieldmap/internal/targetdef"
)

func main() {
	var (
		cfgPath  string
		validate bool
	)

	flag.StringVar(&cfgPath, "config", "configs/runs/sample.json", "run config JSON path")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	run, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidateRun(run)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	if run.Targets.Path == "" {
		fatalf("targets.path must be set to produce a mapping")
	}

	ctx := context.Background()
	start := time.Now()

	sources, err := fielddef.Parse(run.Source.Path)
	if err != nil {
		fatalf("parse definitions: %v", err)
	}
	targets, err := targetdef.Load(run.Targets.Path)
	if err != nil {
		fatalf("load targets: %v", err)
	}

	var mem *memory.Memory
	if run.Memory.Path != "" {
		mem, err = memory.Load(run.Memory.Path)
		if err != nil {
			fatalf("load mapping memory: %v", err)
		}
	}
	skips, manuals := mem.RulesFor(run.Object, run.Variant)
	if *verbose && mem != nil {
		log.Printf("mapping memory: %d skip rules, %d manual mappings for %s_%s",
			len(skips), len(manuals), run.Object, run.Variant)
	}

	matcher := match.New(run.Fuzzy.Config())
	results, err := matcher.MatchWithRules(ctx, sources, targets, skips, manuals)
	if err != nil {
		fatalf("match: %v", err)
	}

	doc := mapping.Build(run.Object, run.Variant, results, len(targets), time.Now())
	doc.AddUnmatchedTargets(unmatchedTargets(targets))

	out := os.Stdout
	if run.Output.Mapping != "" {
		f, err := os.Create(run.Output.Mapping)
		if err != nil {
			fatalf("create mapping file: %v", err)
		}
		defer f.Close()
		out = f
	}
	if err := doc.Write(out); err != nil {
		fatalf("write mapping: %v", err)
	}

	st := doc.Metadata.Stats
	log.Printf("mapped %d/%d source fields (%.1f%% coverage)",
		st.MatchedSources, st.TotalSources, st.Coverage)
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// unmatchedTargets shapes the full catalog for the audit section; the
// document filters out targets already claimed by a mapping.
func unmatchedTargets(targets []targetdef.Field) []mapping.UnmatchedTarget {
	out := make([]mapping.UnmatchedTarget, 0, len(targets))
	for _, t := range targets {
		out = append(out, mapping.UnmatchedTarget{
			InternalID:  t.ID(),
			Table:       t.Table,
			Field:       t.Name,
			Description: t.Description,
		})
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
