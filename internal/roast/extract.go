package roast

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// extractor pulls the generated text out of one known response shape.
type extractor struct {
	name  string
	match func(payload gjson.Result) (string, bool)
}

func stringField(field string) func(gjson.Result) (string, bool) {
	return func(payload gjson.Result) (string, bool) {
		v := payload.Get(field)
		if v.Type != gjson.String || v.Str == "" {
			return "", false
		}
		return v.Str, true
	}
}

var extractors = []extractor{
	{
		name: "success+roast",
		match: func(payload gjson.Result) (string, bool) {
			if !payload.Get("success").Bool() {
				return "", false
			}
			return stringField("roast")(payload)
		},
	},
	{name: "roast", match: stringField("roast")},
	{name: "message", match: stringField("message")},
	{name: "response", match: stringField("response")},
}

// Extract returns the generated text from a response body. Known shapes are
// tried in order; a valid payload matching none of them is returned
// serialized. Bodies that are not JSON fail with UnexpectedFormat. An
// explicit "success": false, or a bare {"error": ...} payload, fails with the
// payload's error text.
func Extract(body []byte) (string, error) {
	if len(strings.TrimSpace(string(body))) == 0 || !gjson.ValidBytes(body) {
		return "", NewError(KindUnexpectedFormat, MsgUnexpectedFormat, nil)
	}

	payload := gjson.ParseBytes(body)

	if ok := payload.Get("success"); ok.Exists() && !ok.Bool() {
		if msg := payload.Get("error").String(); msg != "" {
			return "", payloadError(msg)
		}
		return "", NewError(KindUnexpectedFormat, MsgUnexpectedFormat, nil)
	}

	if payload.IsObject() {
		for _, ex := range extractors {
			if text, ok := ex.match(payload); ok {
				return text, nil
			}
		}
		if msg, ok := stringField("error")(payload); ok {
			return "", payloadError(msg)
		}
	}

	return strings.TrimSpace(string(pretty.Pretty(body))), nil
}

// payloadError reports an error carried in a 2xx body. Text that names no
// known failure is still the backend's failure, so it counts as ServerError.
func payloadError(msg string) *Error {
	kind := classifyText(msg)
	if kind == KindUnknown {
		kind = KindServer
	}
	return &Error{Kind: kind, Msg: msg}
}
