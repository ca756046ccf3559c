package otp

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DecodeSource reads source text in a given character encoding and returns
// it as a UTF-8 string. enc is an IANA charset name such as "ISO-8859-1",
// "windows-1252" or "UTF-16BE". An empty name or "UTF-8" pass the input
// through unchanged.
func DecodeSource(r io.Reader, enc string) (string, error) {
	if enc == "" || strings.EqualFold(enc, "utf-8") || strings.EqualFold(enc, "utf8") {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	e, err := ianaindex.IANA.Encoding(enc)
	if err != nil {
		return "", fmt.Errorf("OCP source encoding %q: %w", enc, err)
	}
	if e == nil {
		return "", fmt.Errorf("OCP source encoding %q is not supported", enc)
	}
	b, err := io.ReadAll(transform.NewReader(r, e.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("cannot decode OCP source as %s: %w", enc, err)
	}
	tracer().Debugf("decoded %d bytes of %s source", len(b), enc)
	return string(b), nil
}
