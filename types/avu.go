package types

// AVU is an attribute-value-units metadata triple attached to a catalog
// entity. Units are optional; an absent units field is the empty string,
// never null.
type AVU struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Units     string `json:"units,omitempty"`
	Operator  string `json:"operator,omitempty"`
}

// Access is one permission entry on a catalog entity.
type Access struct {
	Owner string `json:"owner"`
	Zone  string `json:"zone,omitempty"`
	Level string `json:"level"`
}

// ParseAVU reads one AVU from its JSON object form. The attribute and
// value are required; units default to the empty string.
func ParseAVU(obj map[string]any) (AVU, *Error) {
	var avu AVU
	attr, err := stringKey(obj, KeyAttribute)
	if err != nil {
		return avu, err
	}
	value, err := stringKey(obj, KeyValue)
	if err != nil {
		return avu, err
	}
	avu.Attribute = attr
	avu.Value = value
	if _, ok := obj[KeyUnits]; ok {
		units, err := stringKey(obj, KeyUnits)
		if err != nil {
			return avu, err
		}
		avu.Units = units
	}
	if _, ok := obj[KeyOperator]; ok {
		op, err := stringKey(obj, KeyOperator)
		if err != nil {
			return avu, err
		}
		avu.Operator = op
	}
	return avu, nil
}

// ParseAVUArray reads the "avus" array from a target object.
func ParseAVUArray(target map[string]any) ([]AVU, *Error) {
	raw, ok := target[KeyAVUs]
	if !ok {
		return nil, NewError(CodeInvalidArgument, "no avus property in target")
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, NewError(CodeInvalidArgument, "avus data was not a JSON array")
	}
	avus := make([]AVU, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, NewError(CodeInvalidArgument, "avu %d was not a JSON object", i)
		}
		avu, err := ParseAVU(obj)
		if err != nil {
			return nil, err
		}
		avus = append(avus, avu)
	}
	return avus, nil
}

// ParseAccessArray reads the "access" array from a target object.
func ParseAccessArray(target map[string]any) ([]Access, *Error) {
	raw, ok := target[KeyAccess]
	if !ok {
		return nil, NewError(CodeInvalidArgument, "no access property in target")
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, NewError(CodeInvalidArgument, "permissions data was not a JSON array")
	}
	perms := make([]Access, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, NewError(CodeInvalidArgument, "permission %d was not a JSON object", i)
		}
		owner, err := stringKey(obj, KeyOwner)
		if err != nil {
			return nil, err
		}
		level, err := stringKey(obj, KeyLevel)
		if err != nil {
			return nil, err
		}
		perm := Access{Owner: owner, Level: level}
		if _, ok := obj[KeyZone]; ok {
			zone, err := stringKey(obj, KeyZone)
			if err != nil {
				return nil, err
			}
			perm.Zone = zone
		}
		perms = append(perms, perm)
	}
	return perms, nil
}
