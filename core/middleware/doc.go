// Package middleware groups Fiber middlewares shared across features:
// request ray-id assignment and the POS partner API key check.
package middleware
