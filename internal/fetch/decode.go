package fetch

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// textTypes are the sniffed types accepted as markup or stylesheet text.
// HTML, XML and CSS all descend from text/plain in the mimetype tree.
var textTypes = []string{"text/html", "application/xhtml+xml", "text/plain"}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// decodeText rejects binary data and converts the rest to UTF-8.
func decodeText(data []byte, contentType string) (string, error) {
	if err := sniff(data); err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	enc, name := encodingFor(data, contentType)
	if enc == nil {
		return string(data), nil
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("failed to decode %s content: %w", name, err)
	}
	return string(out), nil
}

func sniff(data []byte) error {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		for _, t := range textTypes {
			if m.Is(t) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: detected %s", ErrNotHTML, detected.String())
}

// encodingFor picks the encoding of data. A BOM or a charset in contentType
// is authoritative, then a <meta> declaration, then valid UTF-8, then the
// chardet guess. A nil encoding means data is already UTF-8.
func encodingFor(data []byte, contentType string) (encoding.Encoding, string) {
	enc, name, certain := charset.DetermineEncoding(data, contentType)
	if certain {
		return enc, name
	}
	if utf8.Valid(data) {
		return nil, "utf-8"
	}
	// DetermineEncoding answers windows-1252 when it found no declaration.
	if name != "windows-1252" {
		return enc, name
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return enc, name
	}
	guessed, err := htmlindex.Get(result.Charset)
	if err != nil {
		return enc, name
	}
	if canonical, err := htmlindex.Name(guessed); err == nil {
		return guessed, canonical
	}
	return guessed, result.Charset
}
