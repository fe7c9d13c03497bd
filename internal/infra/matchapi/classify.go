package matchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-resty/resty/v2"
)

const codeConnAborted = "ECONNABORTED"

// Failure is everything known about a failed call.
// Response is nil when no HTTP response arrived.
type Failure struct {
	Response    *FailureResponse
	RequestSent bool
	Code        string
	Message     string
}

type FailureResponse struct {
	Status int
	Body   map[string]any
}

// Classify never returns nil: every failure maps to exactly one kind.
func Classify(f Failure) *Error {
	if f.Response != nil {
		msg := responseMessage(f.Response)
		if f.Response.Status < 400 && f.Message != "" {
			msg = "Invalid response: " + f.Message
		}
		return &Error{
			Kind:    kindByStatus(f.Response.Status),
			Status:  f.Response.Status,
			Message: msg,
		}
	}

	if f.RequestSent {
		if f.Code == codeConnAborted {
			return &Error{Kind: KindTimeout, Message: "Request timeout"}
		}
		return &Error{Kind: KindNetwork, Message: "No response from server"}
	}

	msg := f.Message
	if msg == "" {
		msg = "Request error"
	}
	return &Error{Kind: KindUnknown, Message: msg}
}

func kindByStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status >= 400 && status < 500:
		return KindValidation
	case status >= 500 && status < 600:
		return KindServer
	default:
		return KindUnknown
	}
}

// error wins over detail; msg is what the matching backend actually sends.
// Structured values, e.g. a list of validation errors, are shown as JSON.
func responseMessage(r *FailureResponse) string {
	for _, field := range []string{"error", "detail", "msg"} {
		switch v := r.Body[field].(type) {
		case nil:
		case string:
			if v != "" {
				return v
			}
		default:
			if raw, err := json.Marshal(v); err == nil {
				return string(raw)
			}
		}
	}
	return fmt.Sprintf("HTTP %d", r.Status)
}

// FailureFromResty turns the outcome of a resty call into a Failure.
// failed is false when the call succeeded.
func FailureFromResty(resp *resty.Response, err error) (f Failure, failed bool) {
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return Failure{Message: err.Error()}, true
		case isTimeout(err):
			return Failure{RequestSent: true, Code: codeConnAborted}, true
		case resp != nil && resp.StatusCode() != 0:
			// The response arrived but its body could not be decoded.
			return Failure{
				Response: &FailureResponse{
					Status: resp.StatusCode(),
					Body:   decodeBody(resp.Body()),
				},
				RequestSent: true,
				Message:     err.Error(),
			}, true
		default:
			return Failure{RequestSent: true, Message: err.Error()}, true
		}
	}

	if resp == nil {
		return Failure{}, true
	}
	if !resp.IsError() {
		return Failure{}, false
	}

	return Failure{
		Response: &FailureResponse{
			Status: resp.StatusCode(),
			Body:   decodeBody(resp.Body()),
		},
		RequestSent: true,
	}, true
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}

func decodeBody(raw []byte) map[string]any {
	body := map[string]any{}
	if len(raw) == 0 {
		return body
	}
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}
