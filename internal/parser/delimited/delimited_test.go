package delimited

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

// TestSanitize_NoQuoteIsIdentity checks that without a quote token the line
// is returned unchanged, whatever the escape argument says.
func TestSanitize_NoQuoteIsIdentity(t *testing.T) {
	t.Parallel()

	lines := []string{"", "a,b", `"a","b"`, `x\"y`, "  spaced , fields  ", "ünïcödé|€"}
	for _, line := range lines {
		if got := Sanitize(line, "", ""); got != line {
			t.Fatalf("Sanitize(%q) = %q, want identity", line, got)
		}
		if got := Sanitize(line, "", `\`); got != line {
			t.Fatalf("Sanitize(%q) with escape only = %q, want identity", line, got)
		}
	}
}

// TestSanitize_RemovesEveryQuote asserts the output never contains the quote
// token, including mid-field occurrences.
func TestSanitize_RemovesEveryQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		quote  string
		escape string
		want   string
	}{
		{name: "edges", line: `"a@x.com","active"`, quote: `"`, want: "a@x.com,active"},
		{name: "mid field", line: `ab"cd,e`, quote: `"`, want: "abcd,e"},
		{name: "multi-char quote", line: `<<a>>,b<<`, quote: "<<", want: "a>>,b"},
		{name: "escape after quote", line: `"a\,b","c"`, quote: `"`, escape: `\`, want: "a,b,c"},
		{name: "escape only touches after quote removal", line: `'it''s',x`, quote: `'`, escape: "s", want: "it,x"},
		{name: "no occurrences", line: "plain,line", quote: `"`, want: "plain,line"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Sanitize(tt.line, tt.quote, tt.escape)
			if got != tt.want {
				t.Fatalf("Sanitize(%q, %q, %q) = %q, want %q", tt.line, tt.quote, tt.escape, got, tt.want)
			}
			if strings.Contains(got, tt.quote) {
				t.Fatalf("output %q still contains quote %q", got, tt.quote)
			}
		})
	}
}

func TestSplit_KeepsEmptyFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line  string
		delim rune
		want  []string
	}{
		{"a,b,c", ',', []string{"a", "b", "c"}},
		{"a,,c", ',', []string{"a", "", "c"}},
		{",", ',', []string{"", ""}},
		{"", ',', []string{""}},
		{"a,b,", ',', []string{"a", "b", ""}},
		{"x\ty", '\t', []string{"x", "y"}},
		{"1§2§3", '§', []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		if got := Split(tt.line, tt.delim); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("Split(%q, %q) = %#v, want %#v", tt.line, tt.delim, got, tt.want)
		}
	}
}

// TestSplit_RoundTrip re-joins split fields and expects the original line.
func TestSplit_RoundTrip(t *testing.T) {
	t.Parallel()

	lines := []string{"", "a", "a,b", ",,", "a@x.com,active", " lead,trail ", "a,,b,,,c"}
	for _, line := range lines {
		fields := Split(line, ',')
		if got := strings.Join(fields, ","); got != line {
			t.Fatalf("join(Split(%q)) = %q", line, got)
		}
	}
}

// TestValidate_Boundary pins the exact boundary: len == max(idx) passes,
// len == max(idx)-1 fails.
func TestValidate_Boundary(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ match, update int }{{1, 1}, {1, 2}, {2, 1}, {3, 7}, {7, 3}} {
		need := tc.match
		if tc.update > need {
			need = tc.update
		}
		ok := make([]string, need)
		if err := Validate(ok, tc.match, tc.update); err != nil {
			t.Fatalf("Validate(len=%d, %d, %d) = %v, want nil", need, tc.match, tc.update, err)
		}
		longer := make([]string, need+3)
		if err := Validate(longer, tc.match, tc.update); err != nil {
			t.Fatalf("Validate(len=%d, %d, %d) = %v, want nil", need+3, tc.match, tc.update, err)
		}

		short := make([]string, need-1)
		err := Validate(short, tc.match, tc.update)
		if !errors.Is(err, ErrInsufficientColumns) {
			t.Fatalf("Validate(len=%d, %d, %d) = %v, want ErrInsufficientColumns", need-1, tc.match, tc.update, err)
		}
		var ic *InsufficientColumnsError
		if !errors.As(err, &ic) || ic.Have != need-1 || ic.Need != need {
			t.Fatalf("error detail = %+v", ic)
		}
	}
}

func TestField_OneBased(t *testing.T) {
	t.Parallel()

	f := []string{"a", "b", "c"}
	if Field(f, 1) != "a" || Field(f, 3) != "c" {
		t.Fatalf("Field is not 1-based")
	}
}

func readAll(t *testing.T, r io.Reader) []string {
	t.Helper()
	lr := NewLineReader(r)
	var out []string
	for lr.Next() {
		out = append(out, lr.Text())
		if lr.Line() != int64(len(out)) {
			t.Fatalf("Line() = %d, want %d", lr.Line(), len(out))
		}
	}
	if err := lr.Err(); err != nil {
		t.Fatalf("LineReader error: %v", err)
	}
	return out
}

func TestLineReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single no newline", in: "a,b", want: []string{"a,b"}},
		{name: "trailing newline", in: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf", in: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "lone cr", in: "a\rb\r", want: []string{"a", "b"}},
		{name: "lone cr no trailing", in: "a\rb", want: []string{"a", "b"}},
		{name: "mixed endings", in: "a\r\nb\rc\nd", want: []string{"a", "b", "c", "d"}},
		{name: "blank line between crs", in: "a\r\rb", want: []string{"a", "", "b"}},
		{name: "cr crlf", in: "a\r\r\nb", want: []string{"a", "", "b"}},
		{name: "blank line kept", in: "a\n\nb", want: []string{"a", "", "b"}},
		{name: "bom stripped", in: "\uFEFFa,b\nc", want: []string{"a,b", "c"}},
		{name: "bom only first line", in: "a\n\uFEFFb", want: []string{"a", "\uFEFFb"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := readAll(t, strings.NewReader(tt.in)); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("lines = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// oneByteReader hands out a single byte per Read so "\r" and a following
// "\n" arrive in separate reads.
type oneByteReader struct{ s string }

func (o *oneByteReader) Read(p []byte) (int, error) {
	if len(o.s) == 0 {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = o.s[0]
	o.s = o.s[1:]
	return 1, nil
}

func TestLineReader_CRLFSplitAcrossReads(t *testing.T) {
	t.Parallel()

	got := readAll(t, &oneByteReader{s: "k1,v1\r\nk2,v2\rk3,v3\r"})
	want := []string{"k1,v1", "k2,v2", "k3,v3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("lines = %#v, want %#v", got, want)
	}
}

func TestLineReader_LongLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 200*1024)
	got := readAll(t, strings.NewReader(long+"\nshort\n"))
	if len(got) != 2 || len(got[0]) != len(long) || got[1] != "short" {
		t.Fatalf("long line not preserved: %d lines", len(got))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLineReader_PropagatesReadError(t *testing.T) {
	t.Parallel()

	lr := NewLineReader(failingReader{})
	if lr.Next() {
		t.Fatalf("Next() = true on failing reader")
	}
	if lr.Err() == nil || !strings.Contains(lr.Err().Error(), "disk on fire") {
		t.Fatalf("Err() = %v", lr.Err())
	}
}

func TestDecode_Windows1250(t *testing.T) {
	t.Parallel()

	// "Žluťoučký" in windows-1250.
	raw := []byte{0x8E, 'l', 'u', 0x9D, 'o', 'u', 0xE8, 'k', 0xFD}
	r, err := Decode(strings.NewReader(string(raw)), "windows-1250")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got := string(b); got != "Žluťoučký" {
		t.Fatalf("decoded = %q", got)
	}
}

func TestDecode_UTF8Passthrough(t *testing.T) {
	t.Parallel()

	src := strings.NewReader("a,b")
	r, err := Decode(src, "UTF-8")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if r != io.Reader(src) {
		t.Fatalf("UTF-8 decode should return the original reader")
	}
}

func TestDecode_UnknownLabel(t *testing.T) {
	t.Parallel()

	if _, err := Decode(strings.NewReader(""), "klingon-8"); err == nil {
		t.Fatalf("expected error for unknown charset")
	}
	if err := CheckEncoding("klingon-8"); err == nil {
		t.Fatalf("CheckEncoding accepted unknown charset")
	}
	if err := CheckEncoding("ISO-8859-2"); err != nil {
		t.Fatalf("CheckEncoding(ISO-8859-2) = %v", err)
	}
}
