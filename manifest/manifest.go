// Package manifest renders registered specs as YAML documents for external
// consumption, one document per spec, in the platform's resource format.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/featuregrid/featuregrid/types"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// APIVersion is the resource group/version stamped on every manifest.
const APIVersion = "features.featuregrid.dev/v1alpha1"

// Header is prepended to every rendered manifest.
const Header = "# Generated by the FeatureGrid SDK\n"

const (
	kindFeature    = "Feature"
	kindFeatureSet = "FeatureSet"
)

type document struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   metadata `yaml:"metadata"`
	Spec       any      `yaml:"spec"`
}

type metadata struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
	UID       string `yaml:"uid"`
}

type featureBody struct {
	Description string         `yaml:"description,omitempty"`
	Primitive   string         `yaml:"primitive"`
	Keys        []string       `yaml:"keys"`
	Freshness   string         `yaml:"freshness"`
	Staleness   string         `yaml:"staleness"`
	DataSource  string         `yaml:"dataSource,omitempty"`
	Builder     map[string]any `yaml:"builder"`
}

type featureSetBody struct {
	Description string   `yaml:"description,omitempty"`
	Features    []string `yaml:"features"`
	KeyFeature  string   `yaml:"keyFeature,omitempty"`
	Timeout     string   `yaml:"timeout"`
}

// Feature renders a feature spec. The aggregation, when present, is folded
// into the builder section together with the compiled program source and
// checksum, which is how the platform consumes it.
func Feature(spec *types.FeatureSpec, defaultNamespace string) (string, error) {
	fqn := spec.FQN(defaultNamespace)

	builder := map[string]any{}
	if spec.Builder != nil {
		for k, v := range spec.Builder.Options {
			builder[k] = v
		}
		if spec.Builder.Kind != "" {
			builder["kind"] = spec.Builder.Kind
		}
	}
	if spec.Program != nil {
		builder["code"] = spec.Program.SourceText()
		builder["checksum"] = spec.Program.SourceChecksum()
	}
	if spec.HasAggregation() {
		funcs := make([]string, 0, len(spec.Aggr.Funcs))
		for _, fn := range spec.Aggr.Funcs {
			funcs = append(funcs, string(fn))
		}
		builder["aggr"] = funcs
		builder["aggrGranularity"] = spec.Aggr.Granularity.String()
	}

	body := featureBody{
		Description: spec.Description,
		Primitive:   spec.Primitive.String(),
		Keys:        spec.Keys,
		Freshness:   spec.EffectiveFreshness().String(),
		Staleness:   spec.Staleness.String(),
		Builder:     builder,
	}
	if spec.DataSource != nil {
		body.DataSource = spec.DataSource.FQN()
	}

	return render(kindFeature, spec.Name, namespaceOf(fqn), body)
}

// FeatureSet renders a feature-set spec.
func FeatureSet(spec *types.FeatureSetSpec, defaultNamespace string) (string, error) {
	fqn := spec.FQN(defaultNamespace)
	timeout := spec.Timeout
	if timeout.Empty() {
		timeout = types.DefaultFeatureSetTimeout
	}
	body := featureSetBody{
		Description: spec.Description,
		Features:    spec.Features,
		KeyFeature:  spec.KeyFeature,
		Timeout:     timeout.String(),
	}
	return render(kindFeatureSet, spec.Name, namespaceOf(fqn), body)
}

func render(kind, name, namespace string, body any) (string, error) {
	doc := document{
		APIVersion: APIVersion,
		Kind:       kind,
		Metadata: metadata{
			Name:      name,
			Namespace: namespace,
			// Derived from the FQN so repeated exports stay identical.
			UID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+"/"+namespace+"."+name)).String(),
		},
		Spec: body,
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("rendering %s manifest for %s: %w", kind, name, err)
	}
	return Header + string(out), nil
}

func namespaceOf(fqn string) string {
	ns, _, _ := strings.Cut(fqn, ".")
	return ns
}

// WriteFile renders the manifest and writes it under dir as
// <kind>.<fqn>.yaml, returning the file path.
func WriteFile(dir, fqn, kind, rendered string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, strings.ToLower(kind)+"."+strings.ToLower(fqn)+".yaml")
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
