package model

import (
	"strings"
)

// HeaderField is a single name/value pair as it appeared on the wire.
type HeaderField struct {
	Name  string
	Value string
}

// Header is an ordered multimap of header fields. Names keep the case they
// arrived with and duplicates are kept; lookups match names case-insensitively.
type Header []HeaderField

// Add appends a field, keeping insertion order.
func (h *Header) Add(name, value string) {

	*h = append(*h, HeaderField{Name: name, Value: value})
}

// Get returns the value of the first field called name.
func (h Header) Get(name string) (string, bool) {

	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}

	return "", false
}

// Len returns the number of fields, duplicates included.
func (h Header) Len() int {

	return len(h)
}
