// Package clock provides a replaceable time source. Auth key expiry and
// throttling read the time through Clocker.
package clock
