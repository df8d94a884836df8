package dispatch

import (
	"context"
	gopath "path"
	"strings"

	"github.com/crozier-io/crozier/catalog"
	"github.com/crozier-io/crozier/query"
	"github.com/crozier-io/crozier/types"
)

// defaultMaxRows is the page row cap for catalog queries.
const defaultMaxRows = 10

var (
	avuLabels     = []string{types.KeyAttribute, types.KeyValue, types.KeyUnits}
	aclLabels     = []string{types.KeyOwner, types.KeyZone, types.KeyLevel}
	entryLabels   = []string{types.KeyCollection, types.KeyDataObject}
	stampLabels   = []string{"created", "modified"}
	collOnlyLabel = []string{types.KeyCollection}
	replicaLabels = []string{
		types.KeyChecksum, types.KeyResource, types.KeyLocation,
		types.KeyNumber, types.KeyValid,
	}
)

// metaquery searches the catalog for entities whose metadata matches
// every AVU in the target. Collections are searched first, then data
// objects, and the result arrays are concatenated in that order.
func (r *Router) metaquery(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error) {
	avus, cerr := types.ParseAVUArray(target)
	if cerr != nil {
		return nil, cerr
	}

	var rootColl string
	if _, ok := target[types.KeyCollection]; ok {
		path, cerr := types.CollectionPath(target)
		if cerr != nil {
			return nil, cerr
		}
		rootColl = path
	}

	wantColls := opts.Flags.Has(types.FlagSearchCollections)
	wantObjs := opts.Flags.Has(types.FlagSearchObjects)
	if !wantColls && !wantObjs {
		wantColls, wantObjs = true, true
	}

	r.logger.Debug("metadata query", map[string]any{
		"zone":        opts.Zone,
		"root":        rootColl,
		"collections": wantColls,
		"objects":     wantObjs,
	})

	results := make([]map[string]any, 0)

	if wantColls {
		req := query.NewRequest(defaultMaxRows, query.ColCollName)
		req.Zone = opts.Zone
		if err := addSearchConds(req, avus, rootColl, false); err != nil {
			return nil, err
		}
		colls, err := query.FetchAll(ctx, sess, req, collOnlyLabel)
		if err != nil {
			return nil, err
		}
		results = append(results, colls...)
	}

	if wantObjs {
		req := query.NewRequest(defaultMaxRows, query.ColCollName, query.ColDataName)
		req.Zone = opts.Zone
		if err := addSearchConds(req, avus, rootColl, true); err != nil {
			return nil, err
		}
		objs, err := query.FetchAll(ctx, sess, req, entryLabels)
		if err != nil {
			return nil, err
		}
		results = append(results, objs...)
	}

	return results, nil
}

// addSearchConds appends one attribute and one value condition per AVU,
// plus the optional root collection restriction.
func addSearchConds(req *query.Request, avus []types.AVU, rootColl string, forObjects bool) error {
	attrCol, valueCol := query.ColMetaCollAttrName, query.ColMetaCollAttrValue
	if forObjects {
		attrCol, valueCol = query.ColMetaObjAttrName, query.ColMetaObjAttrValue
	}

	for _, avu := range avus {
		op, err := searchOperator(avu.Operator)
		if err != nil {
			return err
		}
		conds := []query.Condition{
			{Column: attrCol, Operator: query.OperatorEquals, Value: avu.Attribute},
			{Column: valueCol, Operator: op, Value: avu.Value},
		}
		if err := req.AddConditions(conds...); err != nil {
			return err
		}
	}

	if rootColl != "" {
		pattern := "%" + rootColl + "%"
		if strings.HasPrefix(rootColl, "/") {
			pattern = rootColl + "%"
		}
		cond := query.Condition{
			Column:   query.ColCollName,
			Operator: query.OperatorLike,
			Value:    pattern,
		}
		if err := req.AddConditions(cond); err != nil {
			return err
		}
	}

	return nil
}

func searchOperator(name string) (query.Operator, error) {
	switch name {
	case "", string(query.OperatorEquals):
		return query.OperatorEquals, nil
	case string(query.OperatorLike):
		return query.OperatorLike, nil
	default:
		return "", types.NewError(types.CodeInvalidArgument,
			"invalid query operator '%s'", name)
	}
}

// listAVUs fetches the metadata triples attached to a path.
func (r *Router) listAVUs(ctx context.Context, sess catalog.Session, path string, isObject bool) ([]map[string]any, error) {
	var req *query.Request
	if isObject {
		req = query.NewRequest(defaultMaxRows,
			query.ColMetaObjAttrName, query.ColMetaObjAttrValue, query.ColMetaObjAttrUnits)
		if err := addObjectPathConds(req, path); err != nil {
			return nil, err
		}
	} else {
		req = query.NewRequest(defaultMaxRows,
			query.ColMetaCollAttrName, query.ColMetaCollAttrValue, query.ColMetaCollAttrUnits)
		cond := query.Condition{
			Column: query.ColCollName, Operator: query.OperatorEquals, Value: path,
		}
		if err := req.AddConditions(cond); err != nil {
			return nil, err
		}
	}
	return query.FetchAll(ctx, sess, req, avuLabels)
}

// listACL fetches the permission entries attached to a path.
func (r *Router) listACL(ctx context.Context, sess catalog.Session, path string, isObject bool) ([]map[string]any, error) {
	req := query.NewRequest(defaultMaxRows,
		query.ColAccessOwnerName, query.ColAccessOwnerZone, query.ColAccessLevel)
	if isObject {
		if err := addObjectPathConds(req, path); err != nil {
			return nil, err
		}
	} else {
		cond := query.Condition{
			Column: query.ColCollName, Operator: query.OperatorEquals, Value: path,
		}
		if err := req.AddConditions(cond); err != nil {
			return nil, err
		}
	}
	return query.FetchAll(ctx, sess, req, aclLabels)
}

// listTimestamps fetches the creation and modification stamps of a data
// object.
func (r *Router) listTimestamps(ctx context.Context, sess catalog.Session, path string) ([]map[string]any, error) {
	req := query.NewRequest(defaultMaxRows, query.ColDataCreated, query.ColDataModified)
	if err := addObjectPathConds(req, path); err != nil {
		return nil, err
	}
	return query.FetchAll(ctx, sess, req, stampLabels)
}

// listReplicates fetches the per-replica records of a data object, one
// entry per stored copy with its digest, resource, host and status.
func (r *Router) listReplicates(ctx context.Context, sess catalog.Session, path string) ([]map[string]any, error) {
	req := query.NewRequest(defaultMaxRows,
		query.ColDataChecksum, query.ColDataResource, query.ColDataLocation,
		query.ColDataReplNumber, query.ColDataReplStatus)
	if err := addObjectPathConds(req, path); err != nil {
		return nil, err
	}
	return query.FetchAll(ctx, sess, req, replicaLabels)
}

// listContents enumerates a collection's immediate entries: its data
// objects followed by its child collections.
func (r *Router) listContents(ctx context.Context, sess catalog.Session, path string) ([]map[string]any, error) {
	objReq := query.NewRequest(defaultMaxRows, query.ColCollName, query.ColDataName)
	cond := query.Condition{
		Column: query.ColCollName, Operator: query.OperatorEquals, Value: path,
	}
	if err := objReq.AddConditions(cond); err != nil {
		return nil, err
	}
	entries, err := query.FetchAll(ctx, sess, objReq, entryLabels)
	if err != nil {
		return nil, err
	}

	collReq := query.NewRequest(defaultMaxRows, query.ColCollName)
	cond = query.Condition{
		Column: query.ColCollParentName, Operator: query.OperatorEquals, Value: path,
	}
	if err := collReq.AddConditions(cond); err != nil {
		return nil, err
	}
	colls, err := query.FetchAll(ctx, sess, collReq, collOnlyLabel)
	if err != nil {
		return nil, err
	}

	return append(entries, colls...), nil
}

// addObjectPathConds constrains a query to one data object by splitting
// its path into collection and object name conditions.
func addObjectPathConds(req *query.Request, path string) error {
	conds := []query.Condition{
		{Column: query.ColCollName, Operator: query.OperatorEquals, Value: gopath.Dir(path)},
		{Column: query.ColDataName, Operator: query.OperatorEquals, Value: gopath.Base(path)},
	}
	return req.AddConditions(conds...)
}
