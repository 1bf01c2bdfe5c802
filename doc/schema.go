package doc

import "strings"

// StyleAttr registers one attribute of the shared inline-style mark together
// with its inline-style serialization hooks.
type StyleAttr struct {
	// Name is the key in Marks.TextStyle.
	Name string
	// Property is the CSS property the attribute round-trips through.
	Property string

	// Parse converts a declaration value read from markup into the attribute
	// value. ok=false drops it. Nil trims whitespace and drops empty values.
	Parse func(value string) (attr string, ok bool)
	// Render converts the attribute value into a declaration value. ok=false
	// writes nothing. Nil writes non-empty values as-is.
	Render func(attr string) (value string, ok bool)
}

func (a StyleAttr) parse(value string) (string, bool) {
	if a.Parse != nil {
		return a.Parse(value)
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (a StyleAttr) render(attr string) (string, bool) {
	if a.Render != nil {
		return a.Render(attr)
	}
	return attr, attr != ""
}

// Schema holds the inline-style attributes registered by extensions.
type Schema struct {
	attrs []StyleAttr
}

func NewSchema(attrs ...StyleAttr) *Schema {
	s := &Schema{}
	for _, a := range attrs {
		s.Register(a)
	}
	return s
}

// Register adds a or replaces the attribute with the same name.
func (s *Schema) Register(a StyleAttr) {
	if a.Name == "" || a.Property == "" {
		return
	}
	a.Property = strings.ToLower(a.Property)
	for i := range s.attrs {
		if s.attrs[i].Name == a.Name {
			s.attrs[i] = a
			return
		}
	}
	s.attrs = append(s.attrs, a)
}

// Attr returns the registered attribute called name.
func (s *Schema) Attr(name string) (StyleAttr, bool) {
	if s == nil {
		return StyleAttr{}, false
	}
	for _, a := range s.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return StyleAttr{}, false
}

// Attrs returns the registered attributes in registration order.
func (s *Schema) Attrs() []StyleAttr {
	if s == nil {
		return nil
	}
	return append([]StyleAttr(nil), s.attrs...)
}

// Properties returns the CSS properties of all registered attributes.
func (s *Schema) Properties() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.attrs))
	for _, a := range s.attrs {
		out = append(out, a.Property)
	}
	return out
}
