// Package query builds parametric catalog queries, drives chunked result
// retrieval and projects tabular rows into JSON objects.
package query

import (
	"fmt"
	"strings"

	"github.com/crozier-io/crozier/types"
)

// Column identifies a catalog table column in the query protocol.
type Column int32

// Catalog column identifiers.
const (
	ColCollName       Column = 500
	ColCollParentName Column = 501
	ColDataName       Column = 401
	ColDataReplNumber Column = 404
	ColDataSize       Column = 407
	ColDataResource   Column = 409
	ColDataLocation   Column = 410
	ColDataReplStatus Column = 413
	ColDataChecksum   Column = 415
	ColDataCreated    Column = 419
	ColDataModified   Column = 420

	ColMetaObjAttrName   Column = 600
	ColMetaObjAttrValue  Column = 601
	ColMetaObjAttrUnits  Column = 602
	ColMetaCollAttrName  Column = 610
	ColMetaCollAttrValue Column = 611
	ColMetaCollAttrUnits Column = 612

	ColAccessOwnerName Column = 713
	ColAccessOwnerZone Column = 714
	ColAccessLevel     Column = 710
)

// Operator is a condition comparison operator.
type Operator string

const (
	OperatorEquals Operator = "="
	OperatorLike   Operator = "like"
)

// MaxConditions is the fixed capacity of a request's condition list.
const MaxConditions = 20

// Condition is one (column, operator, literal) constraint.
type Condition struct {
	Column   Column
	Operator Operator
	Value    string
}

// Literal renders the condition's comparison clause with the value quoted
// to the protocol's literal syntax. Embedded single quotes are doubled.
func (c Condition) Literal() string {
	escaped := strings.ReplaceAll(c.Value, "'", "''")
	return fmt.Sprintf("%s '%s'", c.Operator, escaped)
}

// Request is a parametric query: selected columns, a row cap per page,
// accumulated conditions and the continuation token mutated between
// pages. Conditions are append-only for the lifetime of one request; a
// request is never resumable after an error — build a fresh one.
type Request struct {
	Columns    []Column
	MaxRows    int32
	Conditions []Condition
	Continue   int32
	// Zone optionally scopes the query to a catalog zone.
	Zone string
}

// NewRequest creates a request selecting the given columns with a page
// row cap and no conditions.
func NewRequest(maxRows int32, columns ...Column) *Request {
	return &Request{
		Columns: columns,
		MaxRows: maxRows,
	}
}

// AddConditions appends conditions to the request. Exceeding the fixed
// condition capacity is a construction error.
func (r *Request) AddConditions(conds ...Condition) error {
	if len(r.Conditions)+len(conds) > MaxConditions {
		return types.NewError(types.CodeInvalidArgument,
			"query exceeded the maximum of %d conditions", MaxConditions)
	}
	r.Conditions = append(r.Conditions, conds...)
	return nil
}

// Page is one chunk of query results: raw rows of cell values plus the
// continuation token. A zero token indicates no further pages.
type Page struct {
	Rows     [][]string
	Continue int32
}
