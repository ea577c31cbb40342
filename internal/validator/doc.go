// Package validator reports authoring mistakes in a conversation before it is played.
//
// The runtime never rejects a conversation: it degrades and carries on. The
// validator is where those same problems surface as errors and warnings.
package validator
