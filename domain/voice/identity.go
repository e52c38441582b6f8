package voice

import "fmt"

// Identity is an opaque handle referencing a previously enrolled target
// voice profile held by the external transformation service.
type Identity string

// NewIdentity creates an Identity with validation
func NewIdentity(id string) (Identity, error) {
	if id == "" {
		return "", fmt.Errorf("voice identity is required")
	}
	return Identity(id), nil
}

func (id Identity) String() string {
	return string(id)
}
