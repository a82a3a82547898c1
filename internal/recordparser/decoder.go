package recordparser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrUndecodable is returned by Decoder.Decode when a line is not valid UTF-8
// and no fallback encoding is configured.
var ErrUndecodable = errors.New("line is not valid UTF-8")

// Decoder turns raw line bytes into text.
// Valid UTF-8 is used as is; anything else goes through the fallback encoding.
type Decoder struct {
	name     string
	fallback encoding.Encoding
}

// NewDecoder returns a Decoder for the named fallback encoding.
// Accepted names are "latin-1" or "iso-8859-1", "windows-1252" or "cp1252",
// and "none".
func NewDecoder(fallback string) (*Decoder, error) {
	d := &Decoder{name: strings.ToLower(fallback)}

	switch d.name {
	case "latin-1", "iso-8859-1":
		d.fallback = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		d.fallback = charmap.Windows1252
	case "none", "":
		d.name = "none"
	default:
		return nil, fmt.Errorf("unsupported fallback encoding: %s", fallback)
	}

	return d, nil
}

// Decode converts one line of raw bytes to a string.
func (d *Decoder) Decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	if d.fallback == nil {
		return "", ErrUndecodable
	}

	decoded, err := d.fallback.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%s decode: %w", d.name, err)
	}

	return string(decoded), nil
}

// Name returns the fallback encoding name.
func (d *Decoder) Name() string {
	return d.name
}
