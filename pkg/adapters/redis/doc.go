// Package redis persists suspended executions in Redis and provides a
// distributed lock for hosts running several replicas.
package redis
