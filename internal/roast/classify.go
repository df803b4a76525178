package roast

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
)

type rule struct {
	kind    ErrorKind
	needles []string
}

// rules are tried top to bottom against the lowercased error text.
var rules = []rule{
	{KindConfig, []string{"api key", "api_key", "apikey", "credential", "unauthenticated", "permission_denied"}},
	{KindConnection, []string{"connection refused", "no such host", "dial tcp", "connection reset", "network is unreachable", "i/o timeout", "failed to fetch", "cannot connect"}},
	{KindRateLimited, []string{"429", "too many requests", "rate limit", "resource_exhausted", "quota"}},
	{KindServer, []string{"500", "502", "503", "504", "internal server error", "server error", "bad gateway", "unavailable"}},
	{KindUnexpectedFormat, []string{"unexpected response format", "invalid character", "cannot unmarshal", "unexpected end of json"}},
	{KindSafetyBlocked, []string{"safety", "blocked", "prohibited_content"}},
}

// Classify maps an error to an ErrorKind. Typed errors keep their kind,
// transport failures are ConnectionError, and anything else is matched by
// substring in priority order.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var re *Error
	if errors.As(err, &re) && re.Kind != KindNone && re.Kind != KindUnknown {
		return re.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnection
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindConnection
	}

	return classifyText(err.Error())
}

func classifyText(text string) ErrorKind {
	text = strings.ToLower(text)
	for _, r := range rules {
		for _, n := range r.needles {
			if strings.Contains(text, n) {
				return r.kind
			}
		}
	}
	return KindUnknown
}

// FailureFrom converts err into a Failure with a user-facing message.
func FailureFrom(err error) Result {
	kind := Classify(err)
	return Failure(kind, messageFor(kind, err))
}

func messageFor(kind ErrorKind, err error) string {
	switch kind {
	case KindValidation:
		return MsgInputRequired
	case KindConfig:
		return MsgConfig
	case KindConnection:
		return MsgConnection
	case KindRateLimited:
		return MsgRateLimited
	case KindServer:
		return MsgServer
	case KindUnexpectedFormat:
		return MsgUnexpectedFormat
	case KindSafetyBlocked:
		return MsgSafetyBlocked
	}

	var re *Error
	if errors.As(err, &re) && re.Msg != "" {
		return re.Msg
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return MsgUnknown
}
