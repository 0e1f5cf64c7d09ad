package geocoder

import "fmt"

// ExhaustedError reports that no fallback candidate produced an acceptable match.
type ExhaustedError struct {
	Address    string
	Candidates int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("geocoder: no acceptable result for address %q after %d candidates", e.Address, e.Candidates)
}

// TransportError reports that the provider could not be reached or answered
// with something that could not be decoded.
type TransportError struct {
	Address string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("geocoder: request for address %q failed: %v", e.Address, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
