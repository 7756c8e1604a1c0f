// Package types defines the immutable specification model of the SDK:
// features, feature sets, aggregations, builders and the fully-qualified
// naming scheme that ties them together.
//
// Values in this package are constructed fully formed by the registration
// pipeline (package sdk) and are never mutated after they have been
// published to a registry. A FeatureSetSpec references its member features
// by FQN string only; AggrSpec, BuilderSpec and ResourceReference are owned
// by the single FeatureSpec that embeds them.
package types
