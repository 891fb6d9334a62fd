package mood

import "errors"

var (
	// ErrUnknownMood is returned when a mood id is not present in the registry.
	// The detector's Neutral fallback is not a registry node, so passing it to
	// the simulator yields this error.
	ErrUnknownMood = errors.New("mood: unknown mood")

	// ErrConfiguration is returned when a graph definition fails validation:
	// dangling edge targets, malformed ranges, or a node whose evolution step
	// can never satisfy any of its outgoing edges.
	ErrConfiguration = errors.New("mood: invalid graph configuration")
)
