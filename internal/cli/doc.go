// Package cli translates command-line flags into an app.Config. It owns the
// process-level concerns of the featuregrid binary: usage text, flag
// validation, and exit codes via ExitError.
package cli
