package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/finances/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	const text = "title,type,value,category\nCafé,outcome,3.50,Alimentação\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	type testCase struct {
		name        string
		input       []byte
		wantCharset string
	}

	tests := []testCase{
		{name: "UTF8Passthrough", input: []byte(text), wantCharset: encoding.CharsetUTF8},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, text...), wantCharset: encoding.CharsetUTF8},
		{name: "UTF16LE", input: utf16le, wantCharset: encoding.CharsetUTF16LE},
		{name: "Latin1", input: latin1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, text, string(got))

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}
		})
	}
}

func TestNewUTF8Reader_LargeUTF8(t *testing.T) {
	// Multi-byte runes straddle the sniff window boundary.
	text := strings.Repeat("Alimentação,", 1000)

	r, charset, err := encoding.NewUTF8Reader(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, text, string(got))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	r, _, err := encoding.NewUTF8Reader(strings.NewReader(""))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepairUTF8(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().String("Alimentação")
	require.NoError(t, err)

	assert.Equal(t, "Alimentação", encoding.RepairUTF8(latin1))
	assert.Equal(t, "Alimentação", encoding.RepairUTF8("Alimentação"))
	assert.Equal(t, "Food", encoding.RepairUTF8("Food"))
}
