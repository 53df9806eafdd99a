package duplication

// unsetIdentity is the sentinel Context.identity value before the context
// has ever been set up against a live controller generation.
const unsetIdentity int64 = 0

// SubContext is the opaque per-adapter handle an AdapterDuplicator hands
// back from Setup. The controller stores one per adapter and passes it
// straight back into Duplicate/DuplicateMonitor/Unregister; it never
// inspects the value.
type SubContext = any

// Context is the per-caller handle a Frame carries across repeated
// Duplicate calls. It records which controller generation ("identity") and
// which set of adapter sub-contexts it was last set up against, so the
// controller can tell a stale Context (one predating a deinitialize) from
// a current one without the caller having to track that itself.
type Context struct {
	identity     int64
	subContexts  []SubContext
}

// expired reports whether c predates the controller's current generation,
// or was never set up, or was set up against a different number of
// adapters than currently exist. Any of these mean the controller must
// rebuild c before using it.
func (c *Context) expired(identity int64, numAdapters int) bool {
	return c.identity != identity || len(c.subContexts) != numAdapters
}

// reset clears c back to its never-set-up state.
func (c *Context) reset() {
	c.identity = unsetIdentity
	c.subContexts = nil
}
