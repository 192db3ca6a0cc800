package orders

import (
	"strings"

	"github.com/google/uuid"
)

// NewOrderID returns an identifier in the form ORD- plus 8 uppercase
// hex characters.
func NewOrderID() string {
	return "ORD-" + IDSuffix()
}

// IDSuffix returns the shared 8-character uppercase suffix used by order
// and reservation identifiers.
func IDSuffix() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
