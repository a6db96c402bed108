package leads

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Lead is one persisted program application. Rows are append-only.
type Lead struct {
	ID        string    `json:"id"`
	Service   string    `json:"service"`
	Price     string    `json:"price"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Submission is the typed request body. Absent fields are empty strings.
type Submission struct {
	Service  string
	Price    string
	FullName string
	Email    string
}

// opaqueString accepts any JSON value. Strings are kept verbatim, null becomes
// "", and every other value is kept as its JSON text.
type opaqueString string

func (s *opaqueString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = opaqueString(v)
		return nil
	}
	*s = opaqueString(b)
	return nil
}

// ParseSubmission decodes a save-lead body. The body may be a JSON object or a
// JSON string whose contents are a JSON object. An empty body, null, or an
// empty encoded string is treated as {}. Keys are matched exactly; anything
// other than service, price, fullName and email is ignored.
func ParseSubmission(body []byte) (Submission, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return Submission{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		trimmed = bytes.TrimSpace([]byte(inner))
	}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Submission{}, nil
	}
	if trimmed[0] != '{' {
		return Submission{}, fmt.Errorf("%w: expected JSON object", ErrMalformedBody)
	}

	// A map keeps key matching case-sensitive; struct tags would not.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Submission{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	var sub Submission
	for key, dst := range map[string]*string{
		"service":  &sub.Service,
		"price":    &sub.Price,
		"fullName": &sub.FullName,
		"email":    &sub.Email,
	} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var field opaqueString
		if err := field.UnmarshalJSON(v); err != nil {
			return Submission{}, fmt.Errorf("%w: %s: %v", ErrMalformedBody, key, err)
		}
		*dst = string(field)
	}
	return sub, nil
}
