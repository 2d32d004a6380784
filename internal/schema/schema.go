package schema

// Kind identifies the shape of a JSON value, either as declared by a Node or
// as observed on a decoded value at runtime.
type Kind string

const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
)

// Property is one named child of an object node. Properties are checked in
// declaration order.
type Property struct {
	Name string
	Node *Node
}

// Node declares the expected shape of a JSON value. Trees are built once at
// startup and reused read-only across validations; Validate never writes to
// them, so sharing a tree between goroutines is safe.
type Node struct {
	Kind       Kind
	Required   []string   // object: field names that must be present, checked in this order
	Properties []Property // object: child shapes, checked in declaration order
	Elem       *Node      // array: element shape, nil means elements are unchecked
}

// Object declares an object shape with the given required field names and
// property sub-schemas.
func Object(required []string, props ...Property) *Node {
	return &Node{Kind: KindObject, Required: required, Properties: props}
}

// Prop pairs a property name with its sub-schema.
func Prop(name string, n *Node) Property {
	return Property{Name: name, Node: n}
}

// Array declares an array shape. A nil elem leaves elements unchecked.
func Array(elem *Node) *Node {
	return &Node{Kind: KindArray, Elem: elem}
}

func String() *Node { return &Node{Kind: KindString} }

// Integer matches only whole-number numerics.
func Integer() *Node { return &Node{Kind: KindInteger} }

func Number() *Node { return &Node{Kind: KindNumber} }

func Boolean() *Node { return &Node{Kind: KindBoolean} }
