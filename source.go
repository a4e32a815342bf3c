// (c) Copyright revmark's authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package revmark

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultCharset is assumed for source files when none is configured
const DefaultCharset = "UTF-8"

// lookupCharset resolves an IANA charset name
func lookupCharset(charset string) (encoding.Encoding, error) {
	if charset == "" || strings.EqualFold(charset, DefaultCharset) || strings.EqualFold(charset, "utf8") {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeSource reads the whole source text and converts it to UTF-8. A
// leading byte order mark is dropped. UTF-8 input that does not decode is
// rejected rather than silently patched.
func DecodeSource(r io.Reader, charset string) ([]byte, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("text is not valid %s", DefaultCharset)
		}
		return raw, nil
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s text: %w", charset, err)
	}
	return text, nil
}
