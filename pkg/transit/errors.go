package transit

import "errors"

var (
	// ErrNotFound is returned when a stop or line name is not registered.
	ErrNotFound = errors.New("not found")

	// ErrNoRoute is returned when the destination cannot be reached from the origin.
	ErrNoRoute = errors.New("no route found")

	// ErrFrozen is returned for mutations after the routing graph was built.
	ErrFrozen = errors.New("network is frozen after routing")

	// ErrNotRouted is returned for queries before BuildRouter.
	ErrNotRouted = errors.New("routing graph not built")

	// ErrParamsNotSet is returned by BuildRouter when SetParams was never called.
	ErrParamsNotSet = errors.New("routing parameters not set")

	// ErrInvalidParams is returned for a negative wait time or a non-positive velocity.
	ErrInvalidParams = errors.New("invalid routing parameters")

	// ErrInvalidDistance is returned for a negative road distance.
	ErrInvalidDistance = errors.New("invalid road distance")

	// ErrMissingDistance is returned when consecutive stops of a line have no road distance.
	ErrMissingDistance = errors.New("missing road distance")

	// ErrStopNotLocated is returned when a stop was referenced but never defined with coordinates.
	ErrStopNotLocated = errors.New("stop has no coordinates")
)
