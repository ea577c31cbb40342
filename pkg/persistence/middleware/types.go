package middleware

import "github.com/aretw0/colloquy/pkg/ports"

// Middleware allows wrapping a SuspensionStore to add behavior.
type Middleware func(ports.SuspensionStore) ports.SuspensionStore

// Chain wraps store with mws; the first middleware is the outermost.
func Chain(store ports.SuspensionStore, mws ...Middleware) ports.SuspensionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
