package delimited

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Decode wraps r so that it yields UTF-8 when the source is in the named
// charset. Labels follow the WHATWG encoding index ("utf-8", "windows-1250",
// "iso-8859-2", "utf-16le", ...). UTF-8 and the empty label return r as is.
func Decode(r io.Reader, charset string) (io.Reader, error) {
	label := strings.ToLower(strings.TrimSpace(charset))
	switch label {
	case "", "utf-8", "utf8":
		return r, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("source encoding %q: %w", charset, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// CheckEncoding reports whether Decode accepts charset.
func CheckEncoding(charset string) error {
	_, err := Decode(nil, charset)
	return err
}
