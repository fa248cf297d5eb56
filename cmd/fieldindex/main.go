// Command fieldindex parses a CSV of source field definitions, normalizes it
// into a field catalog, and writes the catalog as JSON and (optionally) into
// a database table.
//
// Usage:
//
//	fieldindex -config configs/runs/m140_bnka.json
//	fieldindex -config configs/runs/m140_bnka.json -validate
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fieldmap/internal/config"
	"fieldmap/internal/fielddef"
	"fieldmap/internal/fingerprint"
	"fieldmap/internal/storage"
	"fieldmap/pkg/records"

	// register all backends with the storage factory.
	_ "fieldmap/internal/storage/all"
)

const loadBatchSize = 500

// catalogDoc is the JSON artifact written for a normalized catalog.
type catalogDoc struct {
	Object      string           `json:"object"`
	Variant     string           `json:"variant"`
	GeneratedAt string           `json:"generated_at"`
	Fingerprint string           `json:"fingerprint"`
	Fields      []records.Record `json:"fields"`
}

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

	ctx := context.Background()
	start := time.Now()

	defs, err := fielddef.Parse(run.Source.Path)
	if err != nil {
		fatalf("parse definitions: %v", err)
	}
	fp := fingerprint.Catalog(defs)

	if *verbose {
		log.Printf("catalog: object=%s variant=%s fields=%d fingerprint=%s",
			run.Object, run.Variant, len(defs), fp)
	}

	if run.Output.Catalog != "" {
		if catalogUnchanged(run.Output.Catalog, fp) {
			log.Printf("catalog %s is up to date (fingerprint %s), skipping", run.Output.Catalog, fp)
		} else if err := writeCatalog(run, defs, fp); err != nil {
			fatalf("write catalog: %v", err)
		}
	}

	if run.Storage.Kind != "" {
		n, err := store(ctx, run, defs, fp)
		if err != nil {
			fatalf("store catalog: %v", err)
		}
		log.Printf("stored %d rows in %s table %s", n, run.Storage.Kind, run.Storage.DB.Table)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// catalogUnchanged reports whether an existing catalog artifact at path
// already carries the given fingerprint. Any read or decode failure counts
// as changed so the catalog gets rewritten.
func catalogUnchanged(path, fp string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var prev struct {
		Fingerprint string `json:"fingerprint"`
	}
	if err := json.Unmarshal(data, &prev); err != nil {
		return false
	}
	return prev.Fingerprint == fp
}

// writeCatalog emits the normalized catalog JSON artifact.
func writeCatalog(run config.Run, defs []fielddef.Definition, fp string) error {
	fields := make([]records.Record, 0, len(defs))
	for _, d := range defs {
		fields = append(fields, d.Record())
	}
	doc := catalogDoc{
		Object:      run.Object,
		Variant:     run.Variant,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Fingerprint: fp,
		Fields:      fields,
	}

	f, err := os.Create(run.Output.Catalog)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// store opens the configured backend and batch-loads catalog rows into it.
func store(ctx context.Context, run config.Run, defs []fielddef.Definition, fp string) (int64, error) {
	repo, err := storage.New(ctx, storage.Config{
		Kind:    run.Storage.Kind,
		DSN:     run.Storage.DB.DSN,
		Table:   run.Storage.DB.Table,
		Options: run.Storage.Options,
	})
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if run.Storage.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, run.Storage.Kind, run.Storage.DB.Table, repo); err != nil {
			return 0, err
		}
	}

	return storage.LoadCatalog(ctx, repo, run.Object, run.Variant, defs, fp, loadBatchSize)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
