// Package types defines the envelope schema, operation enumeration,
// option flags and error values shared across crozier.
package types

import "path"

// Envelope JSON keys. An input item is an "envelope" when it declares an
// operation; otherwise the item itself doubles as the target ("bare" mode).
const (
	KeyOperation  = "operation"
	KeyArguments  = "arguments"
	KeyTarget     = "target"
	KeyResult     = "result"
	KeyError      = "error"
	KeyCollection = "collection"
	KeyDataObject = "data_object"
	KeyAVUs       = "avus"
	KeyAccess     = "access"
	KeyDirectory  = "directory"
	KeyFile       = "file"
	KeyData       = "data"
	KeyContents   = "contents"
	KeyChecksum   = "checksum"
	KeySize       = "size"
	KeyReplicates = "replicates"
	KeyResource   = "resource"
	KeyLocation   = "location"
	KeyNumber     = "number"
	KeyValid      = "valid"

	KeyAttribute = "attribute"
	KeyValue     = "value"
	KeyUnits     = "units"
	KeyOperator  = "operator"

	KeyOwner = "owner"
	KeyZone  = "zone"
	KeyLevel = "level"

	KeyErrorCode    = "error_code"
	KeyErrorMessage = "error_message"
)

// Argument object keys recognised inside "arguments".
const (
	ArgOperation = "operation"
	ArgPath      = "path"

	ArgACL          = "acl"
	ArgAVU          = "avu"
	ArgChecksum     = "checksum"
	ArgContents     = "contents"
	ArgReplicates   = "replicates"
	ArgSize         = "size"
	ArgTimestamp    = "timestamp"
	ArgRecurse      = "recurse"
	ArgForce        = "force"
	ArgCollection   = "collection"
	ArgObject       = "object"
	ArgSingleServer = "single-server"
	ArgSave         = "save"
	ArgRaw          = "raw"
)

// Sub-operation names accepted under arguments.operation.
const (
	MetaAddName    = "add"
	MetaRemoveName = "rm"
)

// Envelope is one JSON input item. It is an open map so that unrecognised
// fields survive the round trip back to the output stream unchanged.
type Envelope map[string]any

// HasOperation reports whether the item declares an operation.
func (e Envelope) HasOperation() bool {
	_, ok := e[KeyOperation]
	return ok
}

// HasTarget reports whether the item carries a target sub-object.
func (e Envelope) HasTarget() bool {
	_, ok := e[KeyTarget]
	return ok
}

// OperationName returns the declared operation name. Declaring a
// non-string operation is a structural error.
func (e Envelope) OperationName() (string, *Error) {
	v, ok := e[KeyOperation]
	if !ok {
		return "", NewError(CodeInvalidArgument, "no operation in item")
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", NewError(CodeInvalidArgument, "operation was not a non-empty string")
	}
	return s, nil
}

// Arguments returns the operation arguments object, or an empty map when
// the envelope carries none.
func (e Envelope) Arguments() (map[string]any, *Error) {
	v, ok := e[KeyArguments]
	if !ok {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, NewError(CodeInvalidArgument, "operation arguments were not a JSON object")
	}
	return m, nil
}

// Target returns the object an operation acts on. Envelopes declaring an
// operation must carry an explicit target; bare items are their own target.
func (e Envelope) Target() (map[string]any, *Error) {
	if !e.HasOperation() {
		return map[string]any(e), nil
	}
	v, ok := e[KeyTarget]
	if !ok {
		return nil, NewError(CodeInvalidArgument, "operation declared but no target present")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, NewError(CodeInvalidArgument, "operation target was not a JSON object")
	}
	return m, nil
}

// SetResult attaches a result under the reserved result key.
func (e Envelope) SetResult(result any) {
	e[KeyResult] = result
}

// SetError attaches an error report under the reserved error key.
func (e Envelope) SetError(err *Error) {
	e[KeyError] = map[string]any{
		KeyErrorCode:    err.Code,
		KeyErrorMessage: err.Message,
	}
}

// RepresentsDataObject reports whether the target names a data object.
func RepresentsDataObject(target map[string]any) bool {
	_, ok := target[KeyDataObject]
	return ok
}

// TargetPath resolves the absolute catalog path of a target: the
// collection joined with the data object name when one is present.
func TargetPath(target map[string]any) (string, *Error) {
	coll, err := stringKey(target, KeyCollection)
	if err != nil {
		return "", err
	}
	if !RepresentsDataObject(target) {
		return coll, nil
	}
	obj, err := stringKey(target, KeyDataObject)
	if err != nil {
		return "", err
	}
	return path.Join(coll, obj), nil
}

// CollectionPath resolves the collection path of a target.
func CollectionPath(target map[string]any) (string, *Error) {
	return stringKey(target, KeyCollection)
}

// LocalPath resolves the local filesystem path of a target for transfer
// operations. The directory defaults to the working directory and the
// file name defaults to the data object name.
func LocalPath(target map[string]any) (string, *Error) {
	dir := "."
	if _, ok := target[KeyDirectory]; ok {
		d, err := stringKey(target, KeyDirectory)
		if err != nil {
			return "", err
		}
		dir = d
	}
	file := ""
	if _, ok := target[KeyFile]; ok {
		f, err := stringKey(target, KeyFile)
		if err != nil {
			return "", err
		}
		file = f
	} else if RepresentsDataObject(target) {
		f, err := stringKey(target, KeyDataObject)
		if err != nil {
			return "", err
		}
		file = f
	}
	if file == "" {
		return "", NewError(CodeInvalidArgument, "no local file name in target")
	}
	return path.Join(dir, file), nil
}

func stringKey(obj map[string]any, key string) (string, *Error) {
	v, ok := obj[key]
	if !ok {
		return "", NewError(CodeInvalidArgument, "no %s property in object", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", NewError(CodeInvalidArgument, "%s property was not a string", key)
	}
	if s == "" {
		return "", NewError(CodeInvalidArgument, "%s property was empty", key)
	}
	return s, nil
}
