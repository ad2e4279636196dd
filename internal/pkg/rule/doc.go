// Package rule implements the form validators.
//
// Each validator inspects one value and, on failure, writes exactly one code into
// the request's errstore.Store under the given key. Validators never return
// errors. Every rule except Required is a no-op on an empty value, so a field is
// only rejected for being blank when Required is applied to it explicitly.
//
// Several rules may target the same key; the caller orders them and the last
// failing rule wins.
package rule
