// Package audit provides the internal audit event model and the async
// dispatcher used by the root engine package.
package audit
