package typing

// Type represents a resolved Mano type.  Name is either one of the primitive
// keywords, a user-defined identifier, or the textual form "[Elem]" for a
// one-dimensional array type.  Nested arrays are not representable.
type Type struct {
	Name    string
	IsConst bool
}

// Reserved primitive type names
const (
	IntName    = "int"
	UintName   = "uint"
	FloatName  = "float"
	BoolName   = "bool"
	StringName = "string"

	// VoidName is never spelled in source; it is the internal sentinel for
	// "no return value"
	VoidName = "void"
)

// Primitive creates a non-const type with the given primitive name
func Primitive(name string) *Type {
	return &Type{Name: name}
}

// Void creates the sentinel type used for functions without a return value
func Void() *Type {
	return &Type{Name: VoidName}
}

// Array creates the array type whose elements have the named type
func Array(elemName string) *Type {
	return &Type{Name: "[" + elemName + "]"}
}

// IsPrimitiveName tests whether a name is one of the reserved scalar types
func IsPrimitiveName(name string) bool {
	switch name {
	case IntName, UintName, FloatName, BoolName, StringName:
		return true
	}

	return false
}

// IsNumericName tests whether a name is a numeric primitive
func IsNumericName(name string) bool {
	return name == IntName || name == UintName || name == FloatName
}

// Clone returns an independent copy of a type.  Annotations on the AST always
// hold clones so the tree never shares type storage with the symbol table.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}

	c := *t
	return &c
}

// IsArray tests whether a type is an array type (name of the shape "[...]")
func (t *Type) IsArray() bool {
	return len(t.Name) > 2 && t.Name[0] == '[' && t.Name[len(t.Name)-1] == ']'
}

// ElemName returns the element type name of an array type.  It must only be
// called when IsArray reports true.
func (t *Type) ElemName() string {
	return t.Name[1 : len(t.Name)-1]
}

// Repr returns the display form of a type
func (t *Type) Repr() string {
	if t == nil {
		return "<unknown>"
	}

	if t.IsConst {
		return "const " + t.Name
	}

	return t.Name
}

// Compatible computes the symmetric type compatibility relation: equal names
// are compatible, and two array types are compatible iff their element type
// names are.  There is no implicit numeric coercion and no class hierarchy.
func Compatible(t1, t2 *Type) bool {
	if t1 == nil || t2 == nil {
		return false
	}

	if t1.Name == t2.Name {
		return true
	}

	if t1.IsArray() && t2.IsArray() {
		return Compatible(&Type{Name: t1.ElemName()}, &Type{Name: t2.ElemName()})
	}

	return false
}
