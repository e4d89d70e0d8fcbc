package api

import (
	"errors"
	"net/http"

	"github.com/tidwall/gjson"
)

// Kind classifies a failed call.
type Kind int

const (
	KindGeneric Kind = iota
	KindUnauthorized
	KindNotFound
	KindInvalidRequest
	KindServer
	KindConnectivity
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindInvalidRequest:
		return "invalid_request"
	case KindServer:
		return "server"
	case KindConnectivity:
		return "connectivity"
	default:
		return "generic"
	}
}

const (
	MsgUnauthorized   = "Unauthorized: Please log in again."
	MsgNotFound       = "Resource not found."
	MsgInvalidRequest = "Invalid request data."
	MsgServer         = "Server error. Please try again later."
	MsgConnectivity   = "Unable to connect to the server. Ensure the server is running and the SSL certificate is trusted."
	MsgGeneric        = "An error occurred while communicating with the server."
)

// Error is the only error type the gateway hands to callers.
// Status is 0 when no HTTP response was received.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Details holds the server's field validation messages for 400 responses, if any.
	Details []string
}

func (e *Error) Error() string { return e.Message }

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// classify maps a non-2xx response onto the fixed taxonomy.
func classify(status int, body []byte) *Error {
	switch status {
	case 0:
		return &Error{Kind: KindConnectivity, Message: MsgConnectivity}
	case http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Status: status, Message: MsgUnauthorized}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: MsgNotFound}
	case http.StatusBadRequest:
		e := &Error{Kind: KindInvalidRequest, Status: status, Message: MsgInvalidRequest}
		if msg := serverMessage(body); msg != "" {
			e.Message = msg
		}
		e.Details = fieldMessages(body)
		return e
	case http.StatusInternalServerError:
		return &Error{Kind: KindServer, Status: status, Message: MsgServer}
	default:
		e := &Error{Kind: KindGeneric, Status: status, Message: MsgGeneric}
		// 409 and friends still carry a useful message for the caller to surface
		if msg := serverMessage(body); msg != "" {
			e.Details = []string{msg}
		}
		return e
	}
}

func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "message").String()
}

// fieldMessages flattens {"errors": {"Field": ["msg", ...]}} (or a plain array) into a list.
func fieldMessages(body []byte) []string {
	if !gjson.ValidBytes(body) {
		return nil
	}
	var out []string
	var walk func(v gjson.Result)
	walk = func(v gjson.Result) {
		switch {
		case v.IsArray() || v.IsObject():
			v.ForEach(func(_, item gjson.Result) bool {
				walk(item)
				return true
			})
		case v.String() != "":
			out = append(out, v.String())
		}
	}
	walk(gjson.GetBytes(body, "errors"))
	return out
}
