package domain

// ErrorKind is the closed set of failure categories surfaced to clients.
// Transport layers translate a kind into a status code and message.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidArgument
	KindUnauthenticated
	KindForbidden
	KindAlreadyExists
	KindNotFound
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}
