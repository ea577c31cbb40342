/*
Package observability turns engine lifecycle hooks into logs and Prometheus metrics.

Hooks from several sources can be merged with Combine and passed to the
engine as one domain.LifecycleHooks value:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Combine(metrics.Hooks(), observability.LogHooks(logger))
	eng, err := colloquy.New("./conversations", colloquy.WithLifecycleHooks(hooks))
*/
package observability
