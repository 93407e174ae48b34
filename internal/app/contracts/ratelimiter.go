package contracts

type AttemptLimiter interface {
	// Allow reports whether one more attempt for key is permitted now.
	Allow(key string) bool
}
