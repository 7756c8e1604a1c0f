// Package model is the declarative authoring surface: feature and
// feature_set blocks in .hcl definition files, loaded from a directory tree
// and applied through the sdk registration pipeline in file order.
package model
