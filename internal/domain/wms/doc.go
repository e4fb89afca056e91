// Package wms holds the domain model for the Manhattan warehouse management
// system bridge: organization codes, the work-order query language and the
// port through which the application talks to the upstream platform.
package wms
