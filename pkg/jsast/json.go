package jsast

import (
	"encoding/json"
	"fmt"
	"math"
)

// jsonValue is the wire shape a Value marshals to and unmarshals from. Only
// one of the fields is set, discriminated by Type, mirroring how the codec
// itself tags every Value with a symbol-space partition.
type jsonValue struct {
	Type string `json:"type"`

	Kind  string                 `json:"kind,omitempty"`
	Props map[string]*jsonValue  `json:"props,omitempty"`
	Items []*jsonValue           `json:"items,omitempty"`
	Bool  bool                   `json:"bool,omitempty"`
	// Number is carried as a string so exact NaN payloads and bit patterns
	// are not lost to JSON's own float parsing.
	Number string `json:"number,omitempty"`
	String string `json:"string,omitempty"`
}

const (
	typeNode    = "node"
	typeList    = "list"
	typeNull    = "null"
	typeMissing = "missing"
	typeBool    = "bool"
	typeNumber  = "number"
	typeString  = "string"
)

// MarshalJSON renders root as the CLI's JSON AST interchange format: the
// same Kind/props/List/primitive shape the registry builds nodes from, used
// by `jsastcodec encode` to read input and `jsastcodec decode` to print
// output without a JavaScript parser or printer in scope.
func MarshalJSON(root Node) ([]byte, error) {
	jv := valueToJSON(root)

	return json.Marshal(jv)
}

// UnmarshalJSON parses the CLI's JSON AST interchange format into a Node,
// resolving kind names against reg.
func UnmarshalJSON(data []byte, reg *Registry) (Node, error) {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return nil, fmt.Errorf("jsast: parse json ast: %w", err)
	}

	val, err := jsonToValue(&jv, reg)
	if err != nil {
		return nil, err
	}

	node, ok := val.(Node)
	if !ok {
		return nil, fmt.Errorf("jsast: json ast root is not a node (type=%s)", jv.Type)
	}

	return node, nil
}

func valueToJSON(v Value) *jsonValue {
	switch val := v.(type) {
	case Node:
		props := make(map[string]*jsonValue, len(val.PropertyNames()))

		for _, name := range val.PropertyNames() {
			p, _ := val.Property(name)
			props[name] = valueToJSON(p)
		}

		return &jsonValue{Type: typeNode, Kind: val.Kind(), Props: props}
	case List:
		items := make([]*jsonValue, len(val.Items))
		for i, it := range val.Items {
			items[i] = valueToJSON(it)
		}

		return &jsonValue{Type: typeList, Items: items}
	case Null:
		return &jsonValue{Type: typeNull}
	case Missing:
		return &jsonValue{Type: typeMissing}
	case Bool:
		return &jsonValue{Type: typeBool, Bool: val.V}
	case Number:
		return &jsonValue{Type: typeNumber, Number: formatFloatBits(val.V)}
	case String:
		return &jsonValue{Type: typeString, String: val.V}
	default:
		panic(fmt.Sprintf("jsast: unhandled Value type %T", v))
	}
}

func jsonToValue(jv *jsonValue, reg *Registry) (Value, error) {
	switch jv.Type {
	case typeNode:
		props := make(map[string]Value, len(jv.Props))

		for name, p := range jv.Props {
			val, err := jsonToValue(p, reg)
			if err != nil {
				return nil, err
			}

			props[name] = val
		}

		node, err := reg.New(jv.Kind, props)
		if err != nil {
			return nil, fmt.Errorf("jsast: %w", err)
		}

		return node, nil
	case typeList:
		items := make([]Value, len(jv.Items))

		for i, it := range jv.Items {
			val, err := jsonToValue(it, reg)
			if err != nil {
				return nil, err
			}

			items[i] = val
		}

		return NewList(items...), nil
	case typeNull:
		return Null{}, nil
	case typeMissing:
		return Missing{}, nil
	case typeBool:
		return Bool{V: jv.Bool}, nil
	case typeNumber:
		f, err := parseFloatBits(jv.Number)
		if err != nil {
			return nil, fmt.Errorf("jsast: parse number %q: %w", jv.Number, err)
		}

		return Number{V: f}, nil
	case typeString:
		return String{V: jv.String}, nil
	default:
		return nil, fmt.Errorf("jsast: unknown json value type %q", jv.Type)
	}
}

// formatFloatBits and parseFloatBits round-trip a float64 through its exact
// bit pattern rather than through decimal text, so NaN payloads survive the
// CLI's JSON interchange format the same way the wire codec preserves them.
func formatFloatBits(f float64) string {
	return fmt.Sprintf("0x%016x", math.Float64bits(f))
}

func parseFloatBits(s string) (float64, error) {
	var bits uint64

	_, err := fmt.Sscanf(s, "0x%016x", &bits)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(bits), nil
}
