package roast

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed submission. The order of the constants is the
// order in which Classify tries them.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindConfig
	KindConnection
	KindRateLimited
	KindServer
	KindUnexpectedFormat
	KindSafetyBlocked
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindValidation:
		return "ValidationError"
	case KindConfig:
		return "ConfigError"
	case KindConnection:
		return "ConnectionError"
	case KindRateLimited:
		return "RateLimited"
	case KindServer:
		return "ServerError"
	case KindUnexpectedFormat:
		return "UnexpectedFormat"
	case KindSafetyBlocked:
		return "SafetyBlocked"
	default:
		return "Unknown"
	}
}

// Messages shown to the user for each kind. Unknown failures carry the raw
// error text instead.
const (
	MsgInputRequired    = "Oru tragedy engilum para... (Say at least one tragedy...)"
	MsgConfig           = "API key is missing. Set GEMINI_API_KEY and restart."
	MsgConnection       = "Cannot connect to server. Make sure the backend is running."
	MsgRateLimited      = "Too many requests. Please try again later."
	MsgServer           = "Server error. Please try again in a moment."
	MsgUnexpectedFormat = "Unexpected response format"
	MsgSafetyBlocked    = "That one got blocked by the safety filter. Try a different tragedy."
	MsgUnknown          = "Something went wrong. Please try again."
)

// Request is one submission.
type Request struct {
	Text string `json:"userInput"`
}

// NewRequest trims text and rejects it when nothing is left.
func NewRequest(text string) (Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Request{}, &Error{Kind: KindValidation, Msg: "input required"}
	}
	return Request{Text: text}, nil
}

// Result is the terminal outcome of one submission: either Success with the
// generated text or Failure with a kind and a displayable message.
type Result struct {
	Text    string
	Kind    ErrorKind
	Message string
}

func Success(text string) Result {
	return Result{Text: text, Kind: KindNone}
}

func Failure(kind ErrorKind, message string) Result {
	if kind == KindNone {
		kind = KindUnknown
	}
	return Result{Kind: kind, Message: message}
}

func (r Result) OK() bool {
	return r.Kind == KindNone
}

func (r Result) String() string {
	if r.OK() {
		return r.Text
	}
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

// Error is a failure whose kind is already known, typically because it was
// derived from an HTTP status or a provider's safety verdict.
type Error struct {
	Kind   ErrorKind
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Status != 0 {
		fmt.Fprintf(&b, "status %d: ", e.Status)
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		if e.Msg != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// StatusError maps a non-2xx HTTP status to an Error. Statuses without a fixed
// meaning are classified from msg.
func StatusError(status int, msg string) *Error {
	e := &Error{Status: status, Msg: msg}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case status >= 500:
		e.Kind = KindServer
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindConfig
	default:
		e.Kind = classifyText(msg)
	}
	return e
}
