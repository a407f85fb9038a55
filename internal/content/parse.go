package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 is returned for content files that are not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("content is not valid UTF-8")
	// ErrTrailingData is returned when a JSON value is followed by more input.
	ErrTrailingData = errors.New("unexpected data after top-level JSON value")
	// ErrNotObject is returned when the top-level JSON value is not an object.
	ErrNotObject = errors.New("top-level JSON value must be an object")
)

// Parse decodes one content file. Numbers are kept as json.Number so that
// they render in templates exactly as written.
func Parse(data []byte) (Record, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: %w", io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrNotObject, kindOf(v))
	}
	return Record(obj), nil
}
