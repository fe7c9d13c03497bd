package matchapi

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindValidation
	KindServer
	KindNetwork
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is the single error shape every call of the client returns.
// Message is meant to be shown to the user as is.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrTimeout) and friends match on the kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(kindSentinel)
	return ok && Kind(k) == e.Kind
}

type kindSentinel Kind

func (k kindSentinel) Error() string {
	return Kind(k).String() + " error"
}

var (
	ErrAuth       error = kindSentinel(KindAuth)
	ErrValidation error = kindSentinel(KindValidation)
	ErrServer     error = kindSentinel(KindServer)
	ErrNetwork    error = kindSentinel(KindNetwork)
	ErrTimeout    error = kindSentinel(KindTimeout)
	ErrUnknown    error = kindSentinel(KindUnknown)
)

var (
	ErrMissingToken = &Error{Kind: KindAuth, Message: "Not authenticated"}
	ErrNoVotes      = &Error{Kind: KindValidation, Message: "votes are required"}
	ErrNoSessionID  = &Error{Kind: KindValidation, Message: "session_id is required"}
)

// KindOf returns KindUnknown for errors that did not come from this package.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}
