package types

import "strings"

// Operation enumerates the catalog operations an envelope may declare.
type Operation string

const (
	OpList      Operation = "list"
	OpChmod     Operation = "chmod"
	OpChecksum  Operation = "checksum"
	OpMetamod   Operation = "metamod"
	OpMetaquery Operation = "metaquery"
	OpGet       Operation = "get"
	OpPut       Operation = "put"
	OpMove      Operation = "move"
	OpRemove    Operation = "rm"
	OpMkdir     Operation = "mkdir"
	OpRmdir     Operation = "rmdir"
)

// Operations lists every routable operation, in dispatch order.
func Operations() []Operation {
	return []Operation{
		OpList, OpChmod, OpChecksum, OpMetamod, OpMetaquery,
		OpGet, OpPut, OpMove, OpRemove, OpMkdir, OpRmdir,
	}
}

// ParseOperation resolves an operation name, independent of case.
func ParseOperation(name string) (Operation, bool) {
	op := Operation(strings.ToLower(name))
	for _, known := range Operations() {
		if op == known {
			return op, true
		}
	}
	return "", false
}
