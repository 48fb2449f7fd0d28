package protocol

import "fmt"

// FieldSpec describes one field of a telemetry row: the simulation variable
// name, its unit, and the wire element type.
type FieldSpec struct {
	Name string
	Unit string
	Type DataType
}

// Schema is an explicit, reflection-free description of a telemetry row
// layout: an ordered field list with precomputed byte offsets. It is built
// once when a data definition is registered and consulted by name afterwards.
type Schema struct {
	fields  []FieldSpec
	offsets map[string]int
	size    int
}

// NewSchema computes offsets for an ordered field list. Variable-width
// fields are rejected since their offsets cannot be precomputed.
func NewSchema(fields []FieldSpec) (*Schema, error) {
	s := &Schema{
		fields:  fields,
		offsets: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		w := f.Type.Size()
		if w == 0 {
			return nil, fmt.Errorf("schema field %q: type %d has no fixed width", f.Name, f.Type)
		}
		if _, dup := s.offsets[f.Name]; dup {
			return nil, fmt.Errorf("schema field %q: duplicate name", f.Name)
		}
		s.offsets[f.Name] = s.size
		s.size += w
	}
	return s, nil
}

// Fields returns the ordered field list.
func (s *Schema) Fields() []FieldSpec { return s.fields }

// Size returns the total row width in bytes.
func (s *Schema) Size() int { return s.size }

// Offset returns the byte offset of the named field within a row.
func (s *Schema) Offset(name string) (int, bool) {
	off, ok := s.offsets[name]
	return off, ok
}

// Bind maps every field of the schema into the buffer's symbolic index so
// row fields can be addressed by name.
func (s *Schema) Bind(d *DataBuffer) {
	for name, off := range s.offsets {
		d.MapField(name, off)
	}
}
