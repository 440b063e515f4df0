package saml

import (
	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// NewRemoveOrganizationStage builds a stage stripping md:Organization
// elements everywhere, typical publish-time cleanup.
func NewRemoveOrganizationStage(id string) pipeline.Stage[*etree.Element] {
	return dom.NewElementStrippingStage(id, MetadataNamespace, "Organization")
}

// NewRemoveContactPersonStage builds a stage stripping md:ContactPerson
// elements. With no types every contact is removed; otherwise only contacts
// whose contactType is listed.
func NewRemoveContactPersonStage(id string, types ...string) pipeline.Stage[*etree.Element] {
	listed := make(map[string]struct{}, len(types))
	for _, t := range types {
		listed[t] = struct{}{}
	}
	return dom.NewTraversalStage(id, dom.Visitor{
		Applicable: func(el *etree.Element) bool {
			if el.Tag != "ContactPerson" || el.NamespaceURI() != MetadataNamespace {
				return false
			}
			if len(listed) == 0 {
				return true
			}
			_, ok := listed[el.SelectAttrValue("contactType", "")]
			return ok
		},
		Visit: func(el *etree.Element, _ *dom.TraversalContext) error {
			if parent := el.Parent(); parent != nil {
				parent.RemoveChild(el)
			}
			return nil
		},
	})
}
