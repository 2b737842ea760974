// object.go — the runtime value model (spec.md §3.2).
//
// Every language value is reached through an ObjectHolder: either empty
// (None) or a handle to an Object. The Kind distinguishes Own (the holder
// shares ownership of a freshly allocated Object) from Share (a non-owning
// view, used only to bind `self` inside a method body without creating a
// reference cycle back through the instance that owns the method's
// closure). Go's garbage collector reclaims the underlying Object in both
// cases; the tag exists for semantic fidelity to spec.md's ownership
// discipline (§3.2, §5), not for manual memory management.
package mython

// Object is any Mython value: Number, String, Bool, *Class, or
// *ClassInstance.
type Object interface {
	objectKind() string
}

// Number wraps an int64 (spec.md explicitly excludes floats).
type Number int64

func (Number) objectKind() string { return "Number" }

// String wraps a byte string.
type String string

func (String) objectKind() string { return "String" }

// Bool wraps a boolean.
type Bool bool

func (Bool) objectKind() string { return "Bool" }

// HolderKind distinguishes an empty holder from the two construction modes
// spec.md §3.2 defines.
type HolderKind int

const (
	HolderEmpty HolderKind = iota
	HolderOwn
	HolderShare
)

// ObjectHolder is either empty (None) or a handle to exactly one live
// Object (spec.md §3.2's invariant).
type ObjectHolder struct {
	Kind HolderKind
	obj  Object
}

// None is the empty holder.
func None() ObjectHolder { return ObjectHolder{} }

// Own wraps o as an owning holder.
func Own(o Object) ObjectHolder { return ObjectHolder{Kind: HolderOwn, obj: o} }

// Share wraps o as a non-owning view, used for `self` bindings.
func Share(o Object) ObjectHolder { return ObjectHolder{Kind: HolderShare, obj: o} }

// IsEmpty reports whether the holder carries no Object.
func (h ObjectHolder) IsEmpty() bool { return h.obj == nil }

// Object returns the held value, or nil if empty.
func (h ObjectHolder) Object() Object { return h.obj }

// Closure is an identifier-to-handle activation record (the GLOSSARY's
// definition). Assignment binds in the current Closure with no nested-scope
// walk; a ClassInstance's fields are themselves a Closure.
type Closure map[string]ObjectHolder

// Lookup returns the value bound to name and whether it was bound at all.
func (c Closure) Lookup(name string) (ObjectHolder, bool) {
	v, ok := c[name]
	return v, ok
}
