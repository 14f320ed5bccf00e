package gemini

// Test exports for unexported internals.
var (
	ResolveModel = resolveModel
	BuildConfig  = buildConfig
	NewStream    = newStream
)
