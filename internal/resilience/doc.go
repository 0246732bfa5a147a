// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes circuit breakers for the external services the summarizer depends on,
// so that a misbehaving provider or unreachable site fails fast instead of piling up.
//
// Failed requests are never retried. A tripped breaker rejects calls immediately
// until its timeout elapses, and each rejected call surfaces as a normal error
// to the caller.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ClaudeAPIConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callExternalService()
//	})
package resilience
