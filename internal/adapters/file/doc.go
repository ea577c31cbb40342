// Package file stores conversations and suspended executions on the local filesystem.
package file
