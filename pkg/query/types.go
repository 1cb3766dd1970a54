package query

import "fmt"

// Path is the endpoint path appended to the configured base URL.
const Path = "/api/query"

// Request is the entire body posted to the answering endpoint.
type Request struct {
	Query string `json:"query"`
}

// Response is the payload the endpoint returns on success and on error.
type Response struct {
	Response string `json:"response"`
}

// wireResponse distinguishes an absent "response" field from an empty one.
type wireResponse struct {
	Response *string `json:"response"`
}

// Kind classifies how a request settled.
type Kind int

const (
	// Answered means a 2xx status with a readable response field.
	Answered Kind = iota
	// ServerError means the endpoint replied with a non-2xx status.
	ServerError
	// TransportError means no response was received at all.
	TransportError
	// Malformed means a 2xx status whose body could not be read as a Response.
	Malformed
)

func (k Kind) String() string {
	switch k {
	case Answered:
		return "answered"
	case ServerError:
		return "server-error"
	case TransportError:
		return "transport-error"
	case Malformed:
		return "malformed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Answered, ServerError, TransportError, Malformed} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("query: unknown outcome kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Outcome is the terminal result of exactly one request.
type Outcome struct {
	Kind Kind
	// Text is the body's "response" field, when one was present.
	Text string
	// Status is the HTTP status code; zero for transport failures.
	Status int
	// Err carries the transport or decode failure, if any.
	Err error
}
