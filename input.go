// Copyright 2025 easymvp
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

package jsontoken

import "unicode/utf8"

// WriteRunes UTF-8-encodes rs and writes the result, a convenience for
// callers that only have decoded text on hand.
func (t *Tokenizer) WriteRunes(rs []rune) error {
	buf := make([]byte, 0, len(rs)*utf8.UTFMax)
	var scratch [utf8.UTFMax]byte
	for _, r := range rs {
		n := utf8.EncodeRune(scratch[:], r)
		buf = append(buf, scratch[:n]...)
	}
	return t.Write(buf)
}

// WriteAny accepts a []byte, a string, or a []rune and dispatches to the
// matching typed Write variant. It exists for callers that embed the
// tokenizer behind a generic interface and only learn the concrete input
// type at runtime; typed callers should prefer Write/WriteString/WriteRunes
// directly. Anything else fails with InputTypeError.
func (t *Tokenizer) WriteAny(v any) error {
	switch x := v.(type) {
	case []byte:
		return t.Write(x)
	case string:
		return t.WriteString(x)
	case []rune:
		return t.WriteRunes(x)
	default:
		if t.poisoned != nil {
			return t.poisoned
		}
		err := &InputTypeError{Got: v}
		t.poisoned = err
		return err
	}
}
