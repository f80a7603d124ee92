package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	CharsetUTF8    = "UTF-8"
	CharsetUTF16LE = "UTF-16LE"
	CharsetUTF16BE = "UTF-16BE"
	CharsetLatin1  = "windows-1252"
)

// sniffSize is how much of the stream is buffered for detection; the rest is
// never read ahead.
const sniffSize = 4096

var boms = []struct {
	prefix  []byte
	charset string
	dec     encoding.Encoding
}{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: CharsetUTF8},
	{prefix: []byte{0xFF, 0xFE}, charset: CharsetUTF16LE, dec: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{prefix: []byte{0xFE, 0xFF}, charset: CharsetUTF16BE, dec: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// heuristic maps chardet results to decoders. A nil decoder means pass-through.
var heuristic = map[string]encoding.Encoding{
	"UTF-8":        nil,
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// NewUTF8Reader wraps r so that it yields UTF-8 and reports the charset it
// decoded from. Only the first few kilobytes are buffered, so large files
// keep streaming.
//
// Order: BOM, valid UTF-8, chardet heuristics, then Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.dec == nil {
			_, _ = br.Discard(len(b.prefix))
			return br, b.charset, nil
		}

		return transform.NewReader(br, b.dec.NewDecoder()), b.charset, nil
	}

	if validUTF8Prefix(buf) {
		return br, CharsetUTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if dec, ok := heuristic[result.Charset]; ok {
			if dec == nil {
				return br, CharsetUTF8, nil
			}

			return transform.NewReader(br, dec.NewDecoder()), result.Charset, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), CharsetLatin1, nil
}

// RepairUTF8 returns s unchanged when it is valid UTF-8 and otherwise decodes
// it as Windows-1252. Detection only sees the head of a stream, so a Latin-1
// byte further down reaches the caller as-is.
func RepairUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, string(utf8.RuneError))
	}

	return out
}

// validUTF8Prefix tolerates a multi-byte rune cut off by the sniff window.
func validUTF8Prefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}

	if len(buf) < sniffSize {
		return false
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return true
		}
	}

	return false
}
