package drawing

// Attr is a single presentation attribute carried through unchanged.
type Attr struct {
	Name, Value string
}

// Style is the ordered list of attributes attached to an element. The layout
// engine never reads it; the page writer emits it verbatim.
type Style []Attr

// Get returns the value of the named attribute.
func (s Style) Get(name string) (string, bool) {
	for _, a := range s {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// With returns a copy of s with name set to value, replacing an existing
// entry in place or appending a new one.
func (s Style) With(name, value string) Style {
	out := make(Style, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attr{Name: name, Value: value})
}
