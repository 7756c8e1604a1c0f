// Package app wires the export pipeline together: a validated Config, an
// isolated logger, one SDK instance, and the Run lifecycle that loads
// definition files, registers every spec, and writes the rendered
// manifests. It is decoupled from any specific entrypoint like a CLI.
package app
