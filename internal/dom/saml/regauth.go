package saml

import (
	"context"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// NewRegistrationAuthorityPopulationStage builds a stage copying the
// registrationAuthority attribute of each mdrpi:RegistrationInfo element
// into RegistrationAuthority metadata on the owning item. A RegistrationInfo
// without the attribute is an advisory finding.
func NewRegistrationAuthorityPopulationStage(id string) pipeline.Stage[*etree.Element] {
	return dom.NewTraversalStage(id, dom.Visitor{
		Applicable: func(el *etree.Element) bool {
			return el.Tag == "RegistrationInfo" && el.NamespaceURI() == RPINamespace
		},
		Visit: func(el *etree.Element, tc *dom.TraversalContext) error {
			authority := el.SelectAttrValue(attrRegistrationAuthority, "")
			if authority == "" {
				tc.Item.Metadata().Add(pipeline.ErrorStatus{
					Component: id,
					Message:   "RegistrationInfo has no registrationAuthority attribute",
				})
				return nil
			}
			tc.Item.Metadata().Add(pipeline.RegistrationAuthority{Authority: authority})
			return nil
		},
	})
}

// NewRegistrationAuthorityFilterStage builds a filtering stage removing
// items by registration authority. With keepListed true only items
// registered by one of the listed authorities survive; with false those are
// the ones removed. Items without any RegistrationAuthority metadata are
// not subject to the filter and always survive.
func NewRegistrationAuthorityFilterStage(id string, authorities []string, keepListed bool) pipeline.Stage[*etree.Element] {
	listed := make(map[string]struct{}, len(authorities))
	for _, a := range authorities {
		listed[a] = struct{}{}
	}
	return pipeline.NewFiltering(id, func(_ context.Context, item *dom.Item) (bool, error) {
		regs := pipeline.MetadataOf[pipeline.RegistrationAuthority](item.Metadata())
		if len(regs) == 0 {
			return true, nil
		}
		for _, reg := range regs {
			if _, ok := listed[reg.Authority]; ok {
				return keepListed, nil
			}
		}
		return !keepListed, nil
	})
}
