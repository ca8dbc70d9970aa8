package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refmint/refmint"
	"github.com/refmint/refmint/internal/bibliography"
	"github.com/refmint/refmint/internal/cache"
	"github.com/refmint/refmint/internal/citekey"
	"github.com/refmint/refmint/internal/csl"
	"github.com/refmint/refmint/internal/providers"
)

var (
	citeOutput          string
	citeBibliographies  []string
	citeCachePath       string
	citeAllowInvalidCSL bool
)

func init() {
	citeCmd.Flags().StringVarP(&citeOutput, "output", "o", "", "Write CSL JSON to this file instead of stdout")
	citeCmd.Flags().StringArrayVar(&citeBibliographies, "bibliography", nil, "Manual reference file (JSON or YAML, repeatable)")
	citeCmd.Flags().StringVar(&citeCachePath, "cache", "", "SQLite cache for retrieved items")
	citeCmd.Flags().BoolVar(&citeAllowInvalidCSL, "allow-invalid-csl-data", false, "Skip schema repair and validation of retrieved items")
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite <citekey>...",
	Short: "Resolve citekeys to CSL JSON items",
	Long: `Resolve one or more citekeys to CSL JSON bibliographic items.

Citekeys without a source prefix get one inferred from their structure.

Example:
  refmint cite doi:10.7717/peerj.338 pmid:21347133 arxiv:1407.3561`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCite,
}

func runCite(cmd *cobra.Command, args []string) error {
	resolver, err := newResolver()
	if err != nil {
		os.Exit(ExitConfigError)
	}
	defer resolver.close()

	items, failed := resolver.resolveAll(cmd.Context(), args)
	if err := writeItems(items, citeOutput); err != nil {
		return err
	}
	if failed > 0 {
		log.Errorf("%d of %d citekeys failed to resolve", failed, len(args))
		os.Exit(ExitDataError)
	}
	return nil
}

// resolver resolves citekeys through manual references, the cache, and the
// metadata provider registry, in that order.
type resolver struct {
	registry *providers.Registry
	manual   map[string]csl.Item
	cache    *cache.DB
	prune    bool
}

func newResolver() (*resolver, error) {
	clientOpts := []providers.Option{providers.WithNCBIAPIKey(os.Getenv("NCBI_API_KEY"))}
	if ua := os.Getenv("REFMINT_USER_AGENT"); ua != "" {
		clientOpts = append(clientOpts, providers.WithUserAgent(ua))
	}
	client := providers.NewClient(clientOpts...)
	citekey.Default.ExpandShortDOI = client.ExpandShortDOI

	r := &resolver{
		registry: providers.NewRegistry(client),
		manual:   bibliography.LoadManualReferences(citeBibliographies, nil),
		prune:    !citeAllowInvalidCSL,
	}
	if citeCachePath != "" {
		db, err := cache.Open(citeCachePath)
		if err != nil {
			log.Errorf("opening cache: %v", err)
			return nil, err
		}
		r.cache = db
	}
	return r, nil
}

func (r *resolver) close() {
	if r.cache != nil {
		r.cache.Close()
	}
}

// resolveAll resolves each citekey in order, keeping going past failures,
// and returns the resolved items plus the failure count.
func (r *resolver) resolveAll(ctx context.Context, citekeys []string) ([]csl.Item, int) {
	items := make([]csl.Item, 0, len(citekeys))
	failed := 0
	for _, ck := range citekeys {
		item, err := r.resolve(ctx, ck)
		if err != nil {
			log.Errorf("resolving %q: %v", ck, err)
			failed++
			continue
		}
		items = append(items, item)
	}
	return items, failed
}

func (r *resolver) resolve(ctx context.Context, ck string) (csl.Item, error) {
	ck = citekey.InferPrefix(ck)
	if !citekey.IsValid(ck, citekey.ValidateOptions{AllowRaw: true}) {
		return nil, fmt.Errorf("invalid citekey %q", ck)
	}
	standardID := citekey.Standardize(ck)

	if item, ok := r.manual[standardID]; ok {
		return item, nil
	}
	if r.cache != nil {
		if item, err := r.cache.Get(standardID); err == nil {
			return item, nil
		}
	}

	item, err := r.registry.Retrieve(ctx, standardID)
	if err != nil {
		return nil, err
	}
	item.NoteAppendText(fmt.Sprintf(
		"This CSL JSON Item was automatically generated by %s v%s.",
		refmint.AppName, refmint.Version))
	item.NoteAppendDict(map[string]string{"standard_id": standardID})
	reconciled, err := item.Reconcile(citekey.Shorten(standardID), r.prune)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		if err := r.cache.Put(standardID, reconciled); err != nil {
			log.Warnf("caching %q: %v", standardID, err)
		}
	}
	return reconciled, nil
}

// writeItems encodes items as a pretty-printed CSL JSON array.
func writeItems(items []csl.Item, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	// DOIs and URLs read better without & escapes.
	encoder.SetEscapeHTML(false)
	return encoder.Encode(items)
}
