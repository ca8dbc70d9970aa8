// Package refmint resolves bibliographic citation identifiers into
// CSL (Citation Style Language) JSON metadata.
package refmint

// AppName is the canonical program name, used in provenance notes.
const AppName = "refmint"

// Version is the release version. Overridden at build time via ldflags.
var Version = "0.3.0"
