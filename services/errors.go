package services

import "fmt"

// ShiftEndedError rejects a write against a shift whose end marker is set.
// Annotations and the start timestamp are exempt; everything else on an
// ended shift is immutable through this layer.
type ShiftEndedError struct {
	ShiftId string
}

func (e *ShiftEndedError) Error() string {
	return fmt.Sprintf("shift %s has ended and can no longer be updated", e.ShiftId)
}
