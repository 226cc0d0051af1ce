// Package internal contains helper utilities that are intentionally
// private to jwtgate, including user-secret and token-ID generation.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//
// # What this package must NOT do
//
//   - Export types that appear in the public jwtgate API.
//   - Be imported by any package outside the jwtgate module.
package internal
