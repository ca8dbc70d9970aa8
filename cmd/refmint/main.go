// Package main provides the refmint CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refmint/refmint"
)

// verbose enables debug logging
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refmint",
	Short: "Resolve citation identifiers to CSL JSON",
	Long: `refmint turns persistent identifiers (DOIs, PMIDs, PMCIDs, arXiv IDs,
ISBNs, Wikidata QIDs, and URLs) into clean CSL JSON bibliographic items.

Citekeys take the form source:identifier, for example doi:10.7717/peerj.338
or pmid:21347133. Identifiers are standardized, resolved through the
registries that mint them, and repaired against the CSL JSON schema.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	// Missing .env files are the normal case.
	godotenv.Load()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = refmint.Version
}
