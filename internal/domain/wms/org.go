package wms

import "strings"

const (
	// UsernamePrefix is prepended to the lowercased org to build the grant username.
	UsernamePrefix = "sdtadmin@"
	// FacilitySuffix is appended to the uppercased org to build the facility id.
	FacilitySuffix = "-DM1"
)

// Org is the tenant code of a WMS customer environment.
type Org string

// NewOrg trims surrounding whitespace from raw.
func NewOrg(raw string) Org {
	return Org(strings.TrimSpace(raw))
}

// IsEmpty reports whether the org carries no code.
func (o Org) IsEmpty() bool {
	return strings.TrimSpace(string(o)) == ""
}

// Username returns the password-grant username for the org.
func (o Org) Username() string {
	return UsernamePrefix + strings.ToLower(string(o))
}

// Organization returns the upstream organization header value.
func (o Org) Organization() string {
	return strings.ToUpper(string(o))
}

// FacilityID returns the derived facility/location identifier.
func (o Org) FacilityID() string {
	return o.Organization() + FacilitySuffix
}

func (o Org) String() string {
	return string(o)
}
