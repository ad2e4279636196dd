// Package validator checks struct tags on module dependencies and message
// payloads. Form fields submitted by users go through the rule package instead,
// which reports codes rather than prose.
package validator
