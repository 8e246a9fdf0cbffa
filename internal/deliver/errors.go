package deliver

import "fmt"

// DeliveryError tags a sink failure so callers can report it and move
// on; one sink failing never affects the Brief or the other sink.
type DeliveryError struct {
	Sink string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Sink, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
