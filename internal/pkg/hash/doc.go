// Package hash hashes and verifies user passwords. Only the hash is stored;
// verification compares plaintext input against it.
package hash
