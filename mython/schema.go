// schema.go — read-only YAML schema export for bound classes
// (SPEC_FULL.md §2.5). Grounded in pontaoski/tawago's main.go, which
// yaml.Marshals a tawaModule descriptor; here the descriptor is a Class's
// name, its parent's name, and its methods' names/arities. This has no
// bearing on language semantics — it is an introspection aid only.
package mython

import "gopkg.in/yaml.v2"

// MethodSchema describes one method's name and declared arity.
type MethodSchema struct {
	Name  string `yaml:"name"`
	Arity int    `yaml:"arity"`
}

// ClassSchema describes a Class for introspection/export.
type ClassSchema struct {
	Name    string         `yaml:"name"`
	Parent  string         `yaml:"parent,omitempty"`
	Methods []MethodSchema `yaml:"methods"`
}

// BuildClassSchema walks cls's own methods (not the parent chain: the
// schema reflects what this class itself declares) into a ClassSchema.
func BuildClassSchema(cls *Class) ClassSchema {
	s := ClassSchema{Name: cls.Name}
	if cls.Parent != nil {
		s.Parent = cls.Parent.Name
	}
	for _, m := range cls.Methods {
		s.Methods = append(s.Methods, MethodSchema{Name: m.Name, Arity: len(m.Params)})
	}
	return s
}

// DumpClassSchema marshals cls's schema to YAML.
func DumpClassSchema(cls *Class) ([]byte, error) {
	return yaml.Marshal(BuildClassSchema(cls))
}

// DumpClosureSchemas marshals the schema of every Class bound in closure,
// in a stable order determined by the caller (map iteration order is not
// reused directly: see cmd/mython, which sorts names before calling this).
func DumpClosureSchemas(closure Closure, names []string) ([]byte, error) {
	var schemas []ClassSchema
	for _, name := range names {
		h, ok := closure.Lookup(name)
		if !ok {
			continue
		}
		if cls, ok := h.Object().(*Class); ok {
			schemas = append(schemas, BuildClassSchema(cls))
		}
	}
	return yaml.Marshal(schemas)
}
