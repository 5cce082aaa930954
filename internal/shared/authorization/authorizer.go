package authorization

// Authorizer answers policy questions for a principal.
type Authorizer interface {
	Authorize(p Principal, resource, action string) (bool, error)
	CapabilitiesFor(p Principal) (Capabilities, error)
}
