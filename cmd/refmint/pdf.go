package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refmint/refmint/internal/csl"
	"github.com/refmint/refmint/internal/pdfdoi"
)

var pdfResolve bool

func init() {
	pdfCmd.Flags().BoolVar(&pdfResolve, "resolve", false, "Resolve the extracted citekey to a CSL JSON item")
	rootCmd.AddCommand(pdfCmd)
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <file.pdf>",
	Short: "Extract a citekey from a PDF",
	Long: `Scan the leading pages of a PDF for a DOI or arXiv identifier and
print it as a citekey.

Example:
  refmint pdf paper.pdf
  refmint pdf --resolve paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func runPDF(cmd *cobra.Command, args []string) error {
	ck, err := pdfdoi.ExtractCitekey(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	if ck == "" {
		log.Errorf("no DOI or arXiv identifier found in %s", args[0])
		os.Exit(ExitDataError)
	}
	if !pdfResolve {
		fmt.Println(ck)
		return nil
	}

	resolver, err := newResolver()
	if err != nil {
		os.Exit(ExitConfigError)
	}
	defer resolver.close()
	item, err := resolver.resolve(cmd.Context(), ck)
	if err != nil {
		log.Errorf("resolving %q: %v", ck, err)
		os.Exit(ExitDataError)
	}
	return writeItems([]csl.Item{item}, "")
}
