package dom

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// ElementSerializer writes item element trees as XML documents.
type ElementSerializer struct {
	// Indent is the number of spaces per nesting level; zero writes the
	// tree unindented.
	Indent int

	// Declaration prepends an XML declaration to each document.
	Declaration bool
}

var _ pipeline.Serializer[*etree.Element] = ElementSerializer{}

// Serialize writes each item's tree in collection order.
func (s ElementSerializer) Serialize(w io.Writer, items []*Item) error {
	for _, item := range items {
		doc := etree.NewDocument()
		if s.Declaration {
			doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		}
		doc.SetRoot(item.Unwrap().Copy())
		if s.Indent > 0 {
			doc.Indent(s.Indent)
		}
		if _, err := doc.WriteTo(w); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
	}
	return nil
}
