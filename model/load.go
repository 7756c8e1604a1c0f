package model

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/featuregrid/featuregrid/internal/ctxlog"
	"github.com/featuregrid/featuregrid/internal/fsutil"
)

// File is the parsed content of one definition file, block order preserved.
type File struct {
	Path     string
	Features []*hclFeature
	Sets     []*hclFeatureSet
}

// Definitions is the user's complete definition set, aggregated across every
// file found under the load path. Files keep the lexical walk order so
// cross-file references resolve the same way on every run.
type Definitions struct {
	Files []*File
}

// newFileFromHCL parses a single definition file.
func newFileFromHCL(filePath string, parser *hclparse.Parser) (*File, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsed hclDefinitionFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	return &File{Path: filePath, Features: parsed.Features, Sets: parsed.Sets}, nil
}

// LoadDir finds and parses all .hcl definition files under defsPath.
func LoadDir(ctx context.Context, defsPath string) (*Definitions, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading definitions from path", "path", defsPath)

	files, err := fsutil.FindFilesByExtension(defsPath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find definition files in %s: %w", defsPath, err)
	}

	defs := &Definitions{}
	if len(files) == 0 {
		logger.Warn("No .hcl definition files found in path", "path", defsPath)
		return defs, nil
	}

	parser := hclparse.NewParser()
	for _, file := range files {
		parsed, err := newFileFromHCL(file, parser)
		if err != nil {
			return nil, err
		}
		defs.Files = append(defs.Files, parsed)
	}

	return defs, nil
}
