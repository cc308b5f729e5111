package bvx

import (
	"encoding/xml"
	"math"
	"strings"

	"github.com/Simplici0/houtcalc/internal/operations"
)

// element is a generic XML node; the document dialect varies too much
// between machine vendors for a fixed schema.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

// walk visits el and all descendants in document order.
func (el *element) walk(fn func(*element)) {
	fn(el)
	for i := range el.Children {
		el.Children[i].walk(fn)
	}
}

// Attr looks an attribute up by local name, ignoring case.
func (el *element) Attr(name string) (string, bool) {
	for _, a := range el.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

func (el *element) attrString(name string) string {
	v, _ := el.Attr(name)
	return strings.TrimSpace(v)
}

func (el *element) attrFloat(name string) float64 {
	raw, ok := el.Attr(name)
	if !ok {
		return 0
	}
	v, ok := operations.ParseFloat(raw)
	if !ok {
		return 0
	}
	return v
}

func (el *element) attrQuantity() int {
	for _, name := range quantityAttrs {
		raw, ok := el.Attr(name)
		if !ok {
			continue
		}
		v, ok := operations.ParseFloat(raw)
		if !ok {
			return 1
		}
		switch {
		case v < 0:
			return 0
		case v > math.MaxInt32:
			return math.MaxInt32
		}
		return int(math.Round(v))
	}
	return 1
}
