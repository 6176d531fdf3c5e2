package gemini

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

// apiErrorPattern matches the SDK's "Error 429, Message: ..., Status: ..." rendering
var apiErrorPattern = regexp.MustCompile(`(?s)Error \d+, Message: (.*?), Status: `)

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ErrorMessage extracts a human readable message from a remote failure.
// It understands a JSON {"error":{"message":...}} envelope embedded anywhere
// in the text and the SDK's own error rendering; anything else is returned
// unchanged. It never panics.
func ErrorMessage(err error) (msg string) {
	if err == nil {
		return ""
	}

	raw := err.Error()
	defer func() {
		if recover() != nil {
			msg = raw
		}
	}()

	var unwrapped string
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		unwrapped = strings.TrimSpace(apiErr.Message)
		if nested, ok := envelopeMessage(unwrapped); ok {
			unwrapped = nested
		}
	} else if m, ok := envelopeMessage(raw); ok {
		unwrapped = m
	} else if m := apiErrorPattern.FindStringSubmatch(raw); len(m) == 2 && strings.TrimSpace(m[1]) != "" {
		unwrapped = strings.TrimSpace(m[1])
		if nested, ok := envelopeMessage(unwrapped); ok {
			unwrapped = nested
		}
	}
	if unwrapped == "" {
		return raw
	}

	// keep a local prefix such as "frame generation failed at index 3"
	var prefixed interface{ Prefix() string }
	if errors.As(err, &prefixed) && prefixed.Prefix() != "" {
		return prefixed.Prefix() + ": " + unwrapped
	}
	return unwrapped
}

// envelopeMessage finds the first decodable JSON object carrying error.message
func envelopeMessage(text string) (string, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		var env errorEnvelope
		if err := dec.Decode(&env); err == nil && strings.TrimSpace(env.Error.Message) != "" {
			return strings.TrimSpace(env.Error.Message), true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}
