// Package middleware decorates suspension stores. NewEncryptionMiddleware
// seals every snapshot with AES-GCM before it reaches the backend.
package middleware
