package models

// Actor is the authenticated party performing a request, extracted from the
// bearer token by the authentication middleware.
type Actor struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

func (a *Actor) HasCapability(capability string) bool {
	if a == nil {
		return false
	}
	for _, c := range a.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
