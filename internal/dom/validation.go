package dom

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline/validate"
)

// XMLSigNamespace is the XML Signature namespace, home of the
// ds:X509Certificate elements the certificate validation stage inspects.
const XMLSigNamespace = "http://www.w3.org/2000/09/xmldsig#"

// NewElementTextValidationStage builds a stage applying validators to the
// text content of every matching element in every item. Findings land on the
// item as status metadata; the stage itself only fails if a validator breaks.
func NewElementTextValidationStage(id, namespaceURI, name string, validators ...validate.Validator[string]) pipeline.Stage[*etree.Element] {
	vs := append([]validate.Validator[string](nil), validators...)
	return pipeline.NewIterating(id, func(ctx context.Context, item *Item) error {
		return Traverse(item, Visitor{
			Applicable: func(el *etree.Element) bool {
				return el.Tag == name && el.NamespaceURI() == namespaceURI
			},
			Visit: func(el *etree.Element, tc *TraversalContext) error {
				return applyValidators(ctx, vs, strings.TrimSpace(el.Text()), tc.Item, id)
			},
		})
	})
}

// NewAttributeValidationStage builds a stage applying validators to the
// value of the named attribute on every matching element.
func NewAttributeValidationStage(id, elementNS, elementName, attrName string, validators ...validate.Validator[string]) pipeline.Stage[*etree.Element] {
	vs := append([]validate.Validator[string](nil), validators...)
	return pipeline.NewIterating(id, func(ctx context.Context, item *Item) error {
		return Traverse(item, Visitor{
			Applicable: func(el *etree.Element) bool {
				return el.Tag == elementName && el.NamespaceURI() == elementNS
			},
			Visit: func(el *etree.Element, tc *TraversalContext) error {
				attr := el.SelectAttr(attrName)
				if attr == nil {
					return nil
				}
				return applyValidators(ctx, vs, attr.Value, tc.Item, id)
			},
		})
	})
}

// NewX509ValidationStage builds a stage parsing every ds:X509Certificate in
// every item and applying validators to the parsed certificates. A
// certificate that does not parse gets an ErrorStatus; it is an advisory
// finding like any other.
func NewX509ValidationStage(id string, validators ...validate.Validator[*x509.Certificate]) pipeline.Stage[*etree.Element] {
	vs := append([]validate.Validator[*x509.Certificate](nil), validators...)
	return pipeline.NewIterating(id, func(ctx context.Context, item *Item) error {
		return Traverse(item, Visitor{
			Applicable: func(el *etree.Element) bool {
				return el.Tag == "X509Certificate" && el.NamespaceURI() == XMLSigNamespace
			},
			Visit: func(el *etree.Element, tc *TraversalContext) error {
				cert, err := parseCertificate(el.Text())
				if err != nil {
					tc.Item.Metadata().Add(pipeline.ErrorStatus{
						Component: id,
						Message:   fmt.Sprintf("malformed X.509 certificate: %v", err),
					})
					return nil
				}
				return applyValidators(ctx, vs, cert, tc.Item, id)
			},
		})
	})
}

func parseCertificate(text string) (*x509.Certificate, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, text)
	der, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return x509.ParseCertificate(der)
}

func applyValidators[V any](ctx context.Context, vs []validate.Validator[V], value V, item pipeline.Annotated, stageID string) error {
	for _, v := range vs {
		action, err := v.Validate(ctx, value, item, stageID)
		if err != nil {
			return fmt.Errorf("validator %s: %w", v.ID(), err)
		}
		if action == validate.Done {
			return nil
		}
	}
	return nil
}
