// SPDX-License-Identifier: EPL-2.0

// Package stream provides ready-made audio.Stream implementations.
//
//   - Memory reads from a byte slice already resident in memory.
//   - Funcs binds three callbacks and an opaque user data value, for sources
//     such as sockets that only the caller knows how to drive.
//   - FromReadSeeker wraps any io.ReadSeeker.
//
// None of them buffer; every call reaches the underlying source.
package stream
