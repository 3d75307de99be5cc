package transports

// Config carries the transport settings the binaries pass in at
// construction time.
type Config struct {
	// APIKey enables the API-key gate when non-empty.
	APIKey string

	// ExemptPaths lists HTTP paths and gRPC full method names that skip the
	// API-key gate in addition to the health checks.
	ExemptPaths []string

	// PublicDir is served under /public/ when set.
	PublicDir string
}
