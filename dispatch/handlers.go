package dispatch

import (
	"bytes"
	"context"
	"os"
	gopath "path"
	"unicode/utf8"

	"github.com/crozier-io/crozier/catalog"
	"github.com/crozier-io/crozier/iox"
	"github.com/crozier-io/crozier/meta"
	"github.com/crozier-io/crozier/types"
)

// pathFacets splits an absolute data object path into its JSON facets.
func pathFacets(path string) map[string]any {
	return map[string]any{
		types.KeyCollection: gopath.Dir(path),
		types.KeyDataObject: gopath.Base(path),
	}
}

func (r *Router) list(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	path, cerr := types.TargetPath(target)
	if cerr != nil {
		return nil, cerr
	}

	st, err := sess.Stat(ctx, path)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	switch {
	case st.IsDataObject():
		result = pathFacets(path)
		if opts.Flags.Has(types.FlagPrintSize) {
			result[types.KeySize] = st.Size
		}
		if opts.Flags.Has(types.FlagPrintChecksum) {
			sum, err := sess.Checksum(ctx, path, false)
			if err != nil {
				return nil, err
			}
			result[types.KeyChecksum] = sum
		}

	case st.IsCollection():
		result = map[string]any{types.KeyCollection: path}
		if opts.Flags.Has(types.FlagPrintContents) {
			contents, err := r.listContents(ctx, sess, path)
			if err != nil {
				return nil, err
			}
			result[types.KeyContents] = contents
		}

	default:
		return nil, types.NewError(types.CodeInvalidArgument,
			"path '%s' is neither data object nor collection", path)
	}

	if opts.Flags.Has(types.FlagPrintAVU) {
		avus, err := r.listAVUs(ctx, sess, path, st.IsDataObject())
		if err != nil {
			return nil, err
		}
		result[types.KeyAVUs] = avus
	}
	if opts.Flags.Has(types.FlagPrintACL) {
		acl, err := r.listACL(ctx, sess, path, st.IsDataObject())
		if err != nil {
			return nil, err
		}
		result[types.KeyAccess] = acl
	}
	if opts.Flags.Has(types.FlagPrintTimestamp) && st.IsDataObject() {
		stamps, err := r.listTimestamps(ctx, sess, path)
		if err != nil {
			return nil, err
		}
		result["timestamps"] = stamps
	}
	if opts.Flags.Has(types.FlagPrintReplicas) && st.IsDataObject() {
		replicas, err := r.listReplicates(ctx, sess, path)
		if err != nil {
			return nil, err
		}
		result[types.KeyReplicates] = replicas
	}

	return result, nil
}

func (r *Router) chmod(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	path, cerr := types.TargetPath(target)
	if cerr != nil {
		return nil, cerr
	}
	perms, cerr := types.ParseAccessArray(target)
	if cerr != nil {
		return nil, cerr
	}

	recurseArg := ""
	if opts.Flags.Has(types.FlagRecursive) {
		recurseArg = "recurse"
	}

	for _, perm := range perms {
		owner := perm.Owner
		if perm.Zone != "" {
			owner = perm.Owner + "#" + perm.Zone
		}
		cmd := catalog.Command{
			Verb: catalog.VerbChmod,
			Args: []string{recurseArg, perm.Level, owner, path},
		}
		if err := sess.Invoke(ctx, cmd); err != nil {
			ce := types.AsError(err)
			return nil, types.NewError(ce.Code,
				"failed to modify permissions of '%s' for '%s': %s",
				path, owner, ce.Message)
		}
	}

	return target, nil
}

func (r *Router) checksum(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	if !types.RepresentsDataObject(target) {
		return nil, types.NewError(types.CodeInvalidArgument,
			"cannot checksum a non-data-object")
	}
	path, cerr := types.TargetPath(target)
	if cerr != nil {
		return nil, cerr
	}

	// The remote side computes (or recomputes, under force) the digest;
	// attaching it to the result is the router's post-processing step.
	if _, err := sess.Checksum(ctx, path, opts.Flags.Has(types.FlagForce)); err != nil {
		return nil, err
	}

	return pathFacets(path), nil
}

func (r *Router) metamod(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	avus, cerr := types.ParseAVUArray(target)
	if cerr != nil {
		return nil, cerr
	}

	var op meta.Op
	switch {
	case opts.Flags.Has(types.FlagAddAVU):
		op = meta.Add
	case opts.Flags.Has(types.FlagRemoveAVU):
		op = meta.Remove
	default:
		return nil, types.NewError(types.CodeInvalidArgument,
			"no metadata operation was specified")
	}

	if err := meta.NewEditor(sess).ApplyAll(ctx, target, op, avus); err != nil {
		return nil, err
	}

	return target, nil
}

func (r *Router) get(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	path, cerr := types.TargetPath(target)
	if cerr != nil {
		return nil, cerr
	}
	if opts.Flags.Has(types.FlagSaveFiles) && opts.Flags.Has(types.FlagPrintRaw) {
		return nil, types.NewError(types.CodeInvalidArgument,
			"save and raw modes are mutually exclusive")
	}

	bsize := opts.BufferSize
	r.logger.Debug("using get buffer size", map[string]any{"bytes": bsize})

	switch {
	case opts.Flags.Has(types.FlagSaveFiles):
		local, cerr := types.LocalPath(target)
		if cerr != nil {
			return nil, cerr
		}
		f, err := os.Create(local)
		if err != nil {
			return nil, types.NewError(types.CodeInvalidArgument,
				"failed to open '%s' for writing: %v", local, err)
		}
		if err := sess.Get(ctx, path, f, bsize); err != nil {
			iox.DiscardClose(f)
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, types.NewError(types.CodeGeneral,
				"failed to close '%s': %v", local, err)
		}
		return nil, nil

	case opts.Flags.Has(types.FlagPrintRaw):
		if err := sess.Get(ctx, path, r.rawOut, bsize); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		var buf bytes.Buffer
		if err := sess.Get(ctx, path, &buf, bsize); err != nil {
			return nil, err
		}
		if !utf8.Valid(buf.Bytes()) {
			return nil, types.NewError(types.CodeProtocol,
				"contents of '%s' are not valid UTF-8", path)
		}
		result := pathFacets(path)
		result[types.KeyData] = buf.String()
		return result, nil
	}
}

func (r *Router) put(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	if opts.Flags.Has(types.FlagSingleServer) {
		r.logger.Debug("single-server mode, falling back to operation 'write'", nil)
		return r.write(ctx, sess, target, opts)
	}

	path, cerr := types.TargetPath(target)
	if cerr != nil {
		return nil, cerr
	}
	local, cerr := types.LocalPath(target)
	if cerr != nil {
		return nil, cerr
	}

	err := sess.Put(ctx, local, path, opts.BufferSize, opts.Flags.Has(types.FlagForce))
	if err != nil {
		return nil, err
	}

	return target, nil
}

// write streams the local file through the session instead of a direct
// transfer; the single-server fallback for put.
func (r *Router) write(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	if !types.RepresentsDataObject(target) {
		return nil, types.NewError(types.CodeInvalidArgument,
			"cannot write a data object given a non-data-object")
	}
	path, cerr := types.TargetPath(target)
	if cerr != nil {
		return nil, cerr
	}
	local, cerr := types.LocalPath(target)
	if cerr != nil {
		return nil, cerr
	}

	f, err := os.Open(local)
	if err != nil {
		return nil, types.NewError(types.CodeInvalidArgument,
			"failed to open '%s' for reading: %v", local, err)
	}

	r.logger.Debug("using write buffer size", map[string]any{"bytes": opts.BufferSize})

	werr := sess.Write(ctx, f, path, opts.BufferSize, opts.Flags.Has(types.FlagForce))
	cerr2 := f.Close()
	if werr != nil {
		return nil, werr
	}
	if cerr2 != nil {
		return nil, types.NewError(types.CodeGeneral,
			"failed to close '%s': %v", local, cerr2)
	}

	return nil, nil
}

func (r *Router) move(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	path, cerr := types.TargetPath(target)
	if cerr != nil {
		return nil, cerr
	}
	if opts.Path == "" {
		return nil, types.NewError(types.CodeInvalidArgument,
			"no destination path was supplied for moving '%s'", path)
	}

	r.logger.Debug("moving path", map[string]any{
		"from": path,
		"to":   opts.Path,
	})

	cmd := catalog.Command{Verb: catalog.VerbMove, Args: []string{path, opts.Path}}
	if err := sess.Invoke(ctx, cmd); err != nil {
		ce := types.AsError(err)
		return nil, types.NewError(ce.Code,
			"failed to move '%s' to '%s': %s", path, opts.Path, ce.Message)
	}

	return nil, nil
}

func (r *Router) remove(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	if !types.RepresentsDataObject(target) {
		return nil, types.NewError(types.CodeInvalidArgument,
			"cannot remove a non-data-object")
	}
	path, cerr := types.TargetPath(target)
	if cerr != nil {
		return nil, cerr
	}

	r.logger.Debug("removing data object", map[string]any{"path": path})

	cmd := catalog.Command{Verb: catalog.VerbRemove, Args: []string{forceArg(opts), path}}
	if err := sess.Invoke(ctx, cmd); err != nil {
		return nil, err
	}

	return target, nil
}

func (r *Router) mkdir(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	if types.RepresentsDataObject(target) {
		return nil, types.NewError(types.CodeInvalidArgument,
			"cannot make a collection given a data object")
	}
	path, cerr := types.CollectionPath(target)
	if cerr != nil {
		return nil, cerr
	}

	r.logger.Debug("creating collection", map[string]any{"path": path})

	cmd := catalog.Command{Verb: catalog.VerbMkdir, Args: []string{recurseArg(opts), path}}
	if err := sess.Invoke(ctx, cmd); err != nil {
		return nil, err
	}

	return target, nil
}

func (r *Router) rmdir(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	if types.RepresentsDataObject(target) {
		return nil, types.NewError(types.CodeInvalidArgument,
			"cannot remove a collection given a data object")
	}
	path, cerr := types.CollectionPath(target)
	if cerr != nil {
		return nil, cerr
	}

	r.logger.Debug("removing collection", map[string]any{"path": path})

	cmd := catalog.Command{
		Verb: catalog.VerbRmdir,
		Args: []string{forceArg(opts), recurseArg(opts), path},
	}
	if err := sess.Invoke(ctx, cmd); err != nil {
		return nil, err
	}

	return target, nil
}

func forceArg(opts *types.CallOptions) string {
	if opts.Flags.Has(types.FlagForce) {
		return "force"
	}
	return ""
}

func recurseArg(opts *types.CallOptions) string {
	if opts.Flags.Has(types.FlagRecursive) {
		return "recurse"
	}
	return ""
}
