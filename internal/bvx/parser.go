// Package bvx parses woodworking-machine export documents into projects.
//
// A document is XML with an optional header element naming the project and
// any number of Part elements, each with an Operations container whose
// direct children are machine operations:
//
//	<BVX>
//	  <Header Project="2024-118"/>
//	  <Part Name="Spant" Width="38" Height="89" Length="2400" Quantity="3">
//	    <Operations>
//	      <Saw Angle="45"/>
//	      <Drill/>
//	    </Operations>
//	  </Part>
//	</BVX>
package bvx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/Simplici0/houtcalc/internal/operations"
	"github.com/Simplici0/houtcalc/internal/project"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

const (
	partTag       = "Part"
	operationsTag = "Operations"
)

var (
	headerTags      = []string{"Header", "Job"}
	projectAttrs    = []string{"Project", "ProjectName"}
	quantityAttrs   = []string{"Quantity", "Count"}
	commentPattern  = regexp.MustCompile(`(?s)<!--(.*?)-->`)
	projectInNotice = regexp.MustCompile(`(?i)\bproject(?:naam|name|nummer|number|nr|code)?\s*[:=#]\s*([a-z0-9][a-z0-9-]*)`)
	prologEncoding  = regexp.MustCompile(`^\s*<\?xml[^>]*encoding\s*=\s*["']([^"']+)["']`)
)

// ParseError reports a document that is not well-formed XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse document: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser turns document text into a Project. The zero value uses the default
// surcharge markers and stock sizes.
type Parser struct {
	Surcharge surcharge.Evaluator
}

// Parse parses text with the default Parser.
func Parse(text string) (project.Project, error) {
	return Parser{}.Parse(text)
}

// Parse extracts the project name and all parts from text. Missing or
// unparsable attributes fall back to defaults; only malformed XML is an error.
func (p Parser) Parse(text string) (project.Project, error) {
	return p.ParseBytes([]byte(text))
}

// ParseBytes is Parse over raw upload bytes. Invalid UTF-8 is dropped unless
// the prolog declares another encoding.
func (p Parser) ParseBytes(data []byte) (project.Project, error) {
	text := string(sanitize(data))

	root, err := decode(text)
	if err != nil {
		return project.Project{}, err
	}

	proj := project.Project{
		Name:  projectName(root, text),
		Parts: make([]project.Part, 0),
	}
	root.walk(func(el *element) {
		if strings.EqualFold(el.XMLName.Local, partTag) {
			proj.Parts = append(proj.Parts, p.part(el))
		}
	})
	return proj, nil
}

func decode(text string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.CharsetReader = charset.NewReaderLabel

	var root element
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, &ParseError{Err: err}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return nil, &ParseError{Err: fmt.Errorf("unexpected second root element <%s>", t.Name.Local)}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, &ParseError{Err: errors.New("unexpected text after root element")}
			}
		}
	}
	return &root, nil
}

func sanitize(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	if m := prologEncoding.FindSubmatch(data); m != nil {
		enc := strings.ToLower(string(m[1]))
		if enc != "utf-8" && enc != "utf8" {
			return data
		}
	}
	return bytes.ToValidUTF8(data, nil)
}

func (p Parser) part(el *element) project.Part {
	part := project.Part{
		Name:     el.attrString("Name"),
		Quantity: el.attrQuantity(),
		Width:    el.attrFloat("Width"),
		Height:   el.attrFloat("Height"),
		Length:   el.attrFloat("Length"),
		Grade:    el.attrString("Grade"),
		Comment:  el.attrString("Comments"),
		Tally:    make(map[operations.Code]int),
		Sequence: make([]operations.Code, 0),
	}

	for i := range el.Children {
		container := &el.Children[i]
		if !strings.EqualFold(container.XMLName.Local, operationsTag) {
			continue
		}
		for j := range container.Children {
			op := &container.Children[j]
			code, ok := operations.Classify(op.XMLName.Local, op)
			if !ok {
				continue
			}
			part.Tally[code]++
			part.Sequence = append(part.Sequence, code)
		}
	}

	part.Surcharge = p.Surcharge.Evaluate(part.Width, part.Height, part.SurchargeText())
	return part
}

func projectName(root *element, text string) string {
	var header *element
	root.walk(func(el *element) {
		if header != nil {
			return
		}
		for _, tag := range headerTags {
			if strings.EqualFold(el.XMLName.Local, tag) {
				header = el
				return
			}
		}
	})
	if header != nil {
		for _, name := range projectAttrs {
			if v := strings.TrimSpace(header.attrString(name)); v != "" {
				return v
			}
		}
	}

	for _, m := range commentPattern.FindAllStringSubmatch(text, -1) {
		if sub := projectInNotice.FindStringSubmatch(m[1]); sub != nil {
			return sub[1]
		}
	}
	return project.PlaceholderName
}
