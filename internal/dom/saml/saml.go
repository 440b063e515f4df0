// Package saml implements SAML metadata specific stages: splitting and
// assembling EntitiesDescriptor aggregates, validity window handling,
// registration authority processing, and publish-time cleanup.
package saml

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
)

// SAML metadata namespaces.
const (
	// MetadataNamespace is the SAML 2.0 metadata namespace.
	MetadataNamespace = "urn:oasis:names:tc:SAML:2.0:metadata"

	// RPINamespace is the metadata registration practice information
	// namespace carrying mdrpi:RegistrationInfo.
	RPINamespace = "urn:oasis:names:tc:SAML:metadata:rpi"
)

// Attribute names used across stages.
const (
	attrEntityID              = "entityID"
	attrValidUntil            = "validUntil"
	attrRegistrationAuthority = "registrationAuthority"
)

// IsEntityDescriptor reports whether el is an md:EntityDescriptor.
func IsEntityDescriptor(el *etree.Element) bool {
	return el.Tag == "EntityDescriptor" && el.NamespaceURI() == MetadataNamespace
}

// IsEntitiesDescriptor reports whether el is an md:EntitiesDescriptor.
func IsEntitiesDescriptor(el *etree.Element) bool {
	return el.Tag == "EntitiesDescriptor" && el.NamespaceURI() == MetadataNamespace
}

// parseDateTime parses an xsd:dateTime attribute value. SAML metadata uses
// timezone-qualified timestamps; RFC 3339 parsing covers fractional seconds.
func parseDateTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing dateTime %q: %w", value, err)
	}
	return t, nil
}

// formatDateTime renders a timestamp the way metadata consumers expect,
// UTC with second precision.
func formatDateTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
