// Package meta translates metadata add/remove intents into catalog
// mutation commands.
package meta

import (
	"context"

	"github.com/crozier-io/crozier/catalog"
	"github.com/crozier-io/crozier/types"
)

// Op selects the metadata mutation direction.
type Op int

const (
	// Add attaches an AVU to the target.
	Add Op = iota
	// Remove detaches an AVU from the target.
	Remove
)

// Name returns the operation's command verb argument.
func (o Op) Name() string {
	if o == Remove {
		return types.MetaRemoveName
	}
	return types.MetaAddName
}

// Target type flags in the positional command record.
const (
	typeFlagDataObject = "-d"
	typeFlagCollection = "-C"
)

// Invoker executes positional command records; satisfied by
// catalog.Session.
type Invoker interface {
	Invoke(ctx context.Context, cmd Command) error
}

// Command aliases the catalog command record so Invoker stays narrow.
type Command = catalog.Command

// Editor applies metadata mutations against one resolved target.
type Editor struct {
	inv Invoker
}

// NewEditor creates an editor invoking through inv.
func NewEditor(inv Invoker) *Editor {
	return &Editor{inv: inv}
}

// Apply executes one mutation for a single AVU. Units default to the
// empty string when absent, never null. The positional record encodes
// operation-as-verb, target-type-as-flag and the resolved absolute path.
func (e *Editor) Apply(ctx context.Context, target map[string]any, op Op, avu types.AVU) error {
	path, perr := types.TargetPath(target)
	if perr != nil {
		return perr
	}

	typeFlag := typeFlagCollection
	if types.RepresentsDataObject(target) {
		typeFlag = typeFlagDataObject
	}

	cmd := Command{
		Verb: catalog.VerbMetadata,
		Args: []string{op.Name(), typeFlag, path, avu.Attribute, avu.Value, avu.Units},
	}
	if err := e.inv.Invoke(ctx, cmd); err != nil {
		ce := types.AsError(err)
		return types.NewError(ce.Code,
			"failed to %s metadata '%s' -> '%s' on '%s': %s",
			op.Name(), avu.Attribute, avu.Value, path, ce.Message)
	}
	return nil
}

// ApplyAll applies an ordered batch of AVU triples against one target,
// short-circuiting on the first failure and reporting which triple
// failed.
func (e *Editor) ApplyAll(ctx context.Context, target map[string]any, op Op, avus []types.AVU) error {
	for i, avu := range avus {
		if err := e.Apply(ctx, target, op, avu); err != nil {
			ce := types.AsError(err)
			return types.NewError(ce.Code, "avu %d of %d: %s", i+1, len(avus), ce.Message)
		}
	}
	return nil
}
