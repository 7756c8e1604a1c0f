package sdk

import "errors"

// Configuration errors.
var (
	// ErrOptionAfterRegister is returned by every modifier once the
	// definition has been terminally registered.
	ErrOptionAfterRegister = errors.New("option decorators must be before the register decorator")

	// ErrUnknownAggr rejects the AggrUnknown sentinel in an aggregation
	// list.
	ErrUnknownAggr = errors.New("unknown aggregation function")

	// ErrMissingKeys is returned when a registration supplies no key names.
	ErrMissingKeys = errors.New("must have at least one key")

	// ErrMissingStaleness is returned when staleness is empty.
	ErrMissingStaleness = errors.New("must have a staleness")

	// ErrMissingFreshness is returned when freshness is empty and no
	// aggregation granularity substitutes for it.
	ErrMissingFreshness = errors.New("must have a freshness or an aggregation with granularity")

	// ErrAggrUnsupported is returned when an aggregation function cannot be
	// computed over the compiled primitive.
	ErrAggrUnsupported = errors.New("aggregation function not supported for primitive")

	// ErrInvalidSetSignature is returned when a feature-set definition
	// function is not a niladic function returning a slice of references.
	ErrInvalidSetSignature = errors.New("invalid signature for a feature set definition")
)

// Resolution errors.
var (
	// ErrUnresolvedReference is returned when a symbolic reference cannot
	// be bound to a registered spec.
	ErrUnresolvedReference = errors.New("cannot resolve reference to an FQN")

	// ErrAggrNeedsFQN is returned when an aggregated feature is referenced
	// without an aggregation-qualified FQN. One aggregated definition fans
	// out into several derived features, so a bare reference is ambiguous.
	ErrAggrNeedsFQN = errors.New("must specify an FQN with an aggregation function (e.g. \"namespace.name+sum\") for aggregated features")
)
