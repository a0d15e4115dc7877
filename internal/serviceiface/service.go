package serviceiface

// Service is the lifecycle contract every registered service implements.
// Start must not block; long-running work runs in the service's own
// goroutines and is torn down by Stop.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
