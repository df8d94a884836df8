// Package catalog provides the session boundary to the remote data
// catalog service and its wire client implementation.
package catalog

import (
	"context"
	"io"

	"github.com/crozier-io/crozier/query"
	"github.com/crozier-io/crozier/wire"
)

// Command is a positional invocation record for a catalog mutation:
// a verb plus ordered string arguments, mirroring the service's generic
// call convention.
type Command struct {
	Verb string
	Args []string
}

// Command verbs accepted by the catalog service.
const (
	VerbMetadata = "metamod"
	VerbChmod    = "chmod"
	VerbMove     = "move"
	VerbRemove   = "rm"
	VerbMkdir    = "mkdir"
	VerbRmdir    = "rmdir"
)

// Stat describes a resolved catalog path.
type Stat struct {
	Path string
	Type string
	Size int64
}

// IsDataObject reports whether the path resolved to a data object.
func (s *Stat) IsDataObject() bool { return s.Type == wire.ObjTypeDataObject }

// IsCollection reports whether the path resolved to a collection.
func (s *Stat) IsCollection() bool { return s.Type == wire.ObjTypeCollection }

// Session is an authenticated, stateful connection to the catalog
// service. A session is exclusively owned by its connection manager and
// is not safe for concurrent use.
type Session interface {
	// Query issues one query round trip and returns a page of rows.
	// A page with no results reports query.ErrNoRows.
	Query(ctx context.Context, req *query.Request) (*query.Page, error)

	// Invoke executes a positional command record.
	Invoke(ctx context.Context, cmd Command) error

	// Stat resolves a path and probes its object type.
	Stat(ctx context.Context, path string) (*Stat, error)

	// Get streams a data object's bytes into w in bufSize chunks.
	Get(ctx context.Context, path string, w io.Writer, bufSize int) error

	// Put uploads the local file to path as a direct transfer.
	Put(ctx context.Context, localPath, path string, bufSize int, force bool) error

	// Write streams bytes from r to path through this session, for
	// single-server transfer mode.
	Write(ctx context.Context, r io.Reader, path string, bufSize int, force bool) error

	// Checksum returns the catalog's digest for a data object,
	// recomputing it when force is set.
	Checksum(ctx context.Context, path string, force bool) (string, error)

	// Close disconnects the session.
	Close() error
}
