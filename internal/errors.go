package internal

import "fmt"

// GatewayError is the unified failure shape returned by Gateway operations.
// Status 400 is reserved for client-side validation, 408 for the
// client-enforced timeout; any other value mirrors the remote response status.
type GatewayError struct {
	Message string
	Status  int
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("caption service error %d: %s", e.Status, e.Message)
}
