package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refmint/refmint/internal/citekey"
)

var (
	checkAllowRaw bool
	checkAllowTag bool
)

func init() {
	checkCmd.Flags().BoolVar(&checkAllowRaw, "allow-raw", true, "Accept raw: citekeys")
	checkCmd.Flags().BoolVar(&checkAllowTag, "allow-tag", false, "Accept tag: citekeys")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <citekey>...",
	Short: "Check citekey syntax",
	Long: `Check that each citekey is properly formatted for its source.

Citekeys are checked exactly as given: no source prefix is inferred, so
a bare identifier fails here even though cite would accept it as raw.
The checks are syntactic only; no registry is consulted, so a well-formed
citekey for a nonexistent identifier still passes.

Example:
  refmint check doi:10.7717/peerj.338 pmid:21347133`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts := citekey.ValidateOptions{AllowRaw: checkAllowRaw, AllowTag: checkAllowTag}
	invalid := countInvalid(args, opts)
	if invalid > 0 {
		log.Errorf("%d of %d citekeys are invalid", invalid, len(args))
		os.Exit(ExitDataError)
	}
	fmt.Printf("all %d citekeys valid\n", len(args))
	return nil
}

// countInvalid validates each citekey as given, without prefix inference.
func countInvalid(citekeys []string, opts citekey.ValidateOptions) int {
	invalid := 0
	for _, ck := range citekeys {
		if !citekey.IsValid(ck, opts) {
			invalid++
		}
	}
	return invalid
}
