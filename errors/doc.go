/*
Package errors provides semantic error types for CapStore operations.

The package defines sentinel errors for matching with errors.Is, typed
errors carrying the reflect.Type context needed to diagnose a failure,
and helper predicates:

	comp, err := capstore.GetRequired[Renderer](c)
	if errors.IsNotFound(err) {
	    // the error message enumerates the registration types present
	}

Usage errors (nil capabilities, invalid registration types, spent
builders) and invariant violations (duplicate primaries) are distinct
families so callers can handle programming mistakes and data mistakes
differently.
*/
package errors
