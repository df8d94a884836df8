// Package iox provides small I/O cleanup helpers for defer sites.
package iox

import "io"

// DiscardClose closes c, discarding the error, for defer sites where a
// close failure is unactionable:
//
//	defer iox.DiscardClose(conn)
func DiscardClose(c io.Closer) { _ = c.Close() }

// DiscardErr calls fn and discards its error, for best-effort cleanup
// calls such as Flush on a shutdown path:
//
//	defer iox.DiscardErr(w.Flush)
func DiscardErr(fn func() error) { _ = fn() }
