package radiance

import (
	"errors"
	"strings"
)

// these functions are only exported when running tests

var ParseResolution = parseResolution

// Tokens reads every header token of data.
func Tokens(data string, capacity int) ([]string, error) {
	tr := newTokenReader(strings.NewReader(data), capacity)
	var tokens []string
	for {
		token, err := tr.Next()
		if errors.Is(err, ErrEndOfStream) {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token)
	}
}
