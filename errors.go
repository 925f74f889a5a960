package depot

import "github.com/rotisserie/eris"

// Every error returned by this package wraps one of these; test with errors.Is or eris.Is.
// A call that fails leaves the registry and its storages as they were.
var (
	// ErrStaleHandle is returned when a handle's generation no longer matches its slot.
	ErrStaleHandle = eris.New("stale entity handle")
	// ErrNotPresent is returned when reading or detaching a component the entity does not hold.
	ErrNotPresent = eris.New("component not present on entity")
	// ErrAlreadyPresent is only returned by storages using PolicyReject.
	ErrAlreadyPresent = eris.New("component already present on entity")
	// ErrConfiguration covers registry and query composition mistakes: empty or
	// duplicate component sets, unregistered components, include/exclude overlap.
	ErrConfiguration = eris.New("invalid configuration")
	// ErrLocked is returned by structural calls made while a cursor holds the registry.
	ErrLocked = eris.New("registry is locked")
	// ErrMutatedDuringIteration is reported by a cursor whose driving storage
	// changed layout while the cursor was live.
	ErrMutatedDuringIteration = eris.New("driving storage mutated during iteration")
	// ErrCacheFull is returned when registering a new key in a full EntityCache.
	ErrCacheFull = eris.New("cache at maximum capacity")
)
