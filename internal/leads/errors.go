package leads

import "errors"

// ErrMalformedBody is returned when the request body is not a JSON object
// (or a JSON string holding one).
var ErrMalformedBody = errors.New("leads: malformed request body")
