package roast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKnownShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"success+roast", `{"success":true,"roast":"Ayyo, pen alla, ninte future aanu poyathu."}`, "Ayyo, pen alla, ninte future aanu poyathu."},
		{"roast", `{"roast":"Classic."}`, "Classic."},
		{"message", `{"message":"Not even your alarm believes in you."}`, "Not even your alarm believes in you."},
		{"response", `{"response":"Tragic, but predictable."}`, "Tragic, but predictable."},
		{"success+roast wins over message", `{"message":"ignored","success":true,"roast":"picked"}`, "picked"},
		{"empty roast falls through", `{"roast":"","message":"fallback text"}`, "fallback text"},
		{"non-string roast falls through", `{"roast":42,"response":"numbers are not roasts"}`, "numbers are not roasts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractUnknownShapeSerializes(t *testing.T) {
	body := `{"data":{"text":"somewhere else"},"ok":1}`

	got, err := Extract([]byte(body))

	require.NoError(t, err)
	assert.JSONEq(t, body, got)
	assert.Contains(t, got, "\n")
}

func TestExtractSuccessFalse(t *testing.T) {
	_, err := Extract([]byte(`{"success":false,"error":"Too many requests (429)"}`))
	assert.Equal(t, KindRateLimited, Classify(err))

	_, err = Extract([]byte(`{"success":false}`))
	assert.Equal(t, KindUnexpectedFormat, Classify(err))

	_, err = Extract([]byte(`{"success":false,"error":"Failed to generate roast"}`))
	assert.Equal(t, KindServer, Classify(err))
}

func TestExtractErrorPayload(t *testing.T) {
	text, err := Extract([]byte(`{"error":"Failed to generate roast"}`))
	require.Error(t, err)
	assert.Empty(t, text)
	assert.Equal(t, KindServer, Classify(err))

	_, err = Extract([]byte(`{"error":"Roast blocked by the safety filter"}`))
	assert.Equal(t, KindSafetyBlocked, Classify(err))

	// a roast next to an error field still wins
	text, err = Extract([]byte(`{"roast":"Nice try.","error":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, "Nice try.", text)
}

func TestExtractInvalidBody(t *testing.T) {
	for _, body := range []string{"", "   ", "<html>502 Bad Gateway</html>", `{"roast":`} {
		_, err := Extract([]byte(body))
		require.Error(t, err, body)
		assert.Equal(t, KindUnexpectedFormat, Classify(err), body)
	}
}
