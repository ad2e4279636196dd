// Package uid generates identifiers: snowflake numbers for stored records and
// UUID strings for correlation IDs.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates positive, roughly time ordered int64 identifiers.
type NumberID interface {
	Generate() int64
}
