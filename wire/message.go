package wire

// Request kinds understood by the catalog service.
const (
	KindHandshake = "handshake"
	KindQuery     = "query"
	KindInvoke    = "invoke"
	KindStat      = "stat"
	KindGet       = "get"
	KindPut       = "put"
	KindWrite     = "write"
	KindChecksum  = "checksum"
	KindGoodbye   = "goodbye"
)

// Request is one client frame. Fields beyond ID and Kind are populated
// per kind; msgpack omits the empty ones.
type Request struct {
	ID   uint64 `msgpack:"id"`
	Kind string `msgpack:"kind"`

	// Handshake fields.
	ClientID string `msgpack:"client_id,omitempty"`
	Zone     string `msgpack:"zone,omitempty"`
	User     string `msgpack:"user,omitempty"`
	Secret   string `msgpack:"secret,omitempty"`
	Version  string `msgpack:"version,omitempty"`

	// Invoke fields: a positional command record.
	Verb string   `msgpack:"verb,omitempty"`
	Args []string `msgpack:"args,omitempty"`

	// Query fields.
	Columns  []int32  `msgpack:"columns,omitempty"`
	MaxRows  int32    `msgpack:"max_rows,omitempty"`
	CondCols []int32  `msgpack:"cond_cols,omitempty"`
	CondVals []string `msgpack:"cond_vals,omitempty"`
	Continue int32    `msgpack:"continue,omitempty"`

	// Transfer fields.
	Path  string `msgpack:"path,omitempty"`
	Force bool   `msgpack:"force,omitempty"`
	Data  []byte `msgpack:"data,omitempty"`
	Last  bool   `msgpack:"last,omitempty"`
}

// Response is one server frame. Status zero is success; a non-zero
// status carries its code and message through to the caller verbatim.
type Response struct {
	ID      uint64 `msgpack:"id"`
	Status  int32  `msgpack:"status"`
	Message string `msgpack:"message,omitempty"`

	// Query fields.
	Rows     [][]string `msgpack:"rows,omitempty"`
	Continue int32      `msgpack:"continue,omitempty"`

	// Stat fields.
	ObjectType string `msgpack:"object_type,omitempty"`
	Size       int64  `msgpack:"size,omitempty"`

	// Transfer fields.
	Data     []byte `msgpack:"data,omitempty"`
	Last     bool   `msgpack:"last,omitempty"`
	Checksum string `msgpack:"checksum,omitempty"`
}

// Object types reported by stat responses. A path that resolves to
// neither is reported through a non-zero status, not an object type.
const (
	ObjTypeDataObject = "data_object"
	ObjTypeCollection = "collection"
)
