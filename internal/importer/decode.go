package importer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts uploaded file bytes to text.
// A UTF-8 BOM is stripped, UTF-16 is decoded when a BOM announces it, and
// bytes that are not valid UTF-8 are read as ISO-8859-1. CRLF line endings
// become "\n".
func Decode(data []byte) (string, error) {
	var (
		dec  *encoding.Decoder
		name string
	)

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE):
		dec, name = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		dec, name = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), "utf-16be"
	case !utf8.Valid(data):
		dec, name = charmap.ISO8859_1.NewDecoder(), "iso-8859-1"
	}

	if dec != nil {
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", name, err)
		}
		data = out
	}

	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
