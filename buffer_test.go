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

import "testing"

func TestGrowableBuffer(t *testing.T) {
	b := newGrowableBuffer()
	b.appendSlice([]byte("hello "))
	b.appendByte('w')
	b.appendSlice([]byte("orld"))
	if got := b.String(); got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}
	if got := b.Len(); got != 11 {
		t.Errorf("expected length 11, got %d", got)
	}
	b.reset()
	if got := b.String(); got != "" {
		t.Errorf("expected empty after reset, got %q", got)
	}
}

func TestFixedCapacityBufferFlushesOnOverflow(t *testing.T) {
	b := newFixedCapacityBuffer(4)
	b.appendSlice([]byte("abcd"))
	b.appendByte('e') // overflows the 4-byte window, flushing "abcd" first
	if got := b.String(); got != "abcde" {
		t.Errorf("expected %q, got %q", "abcde", got)
	}
	if got := b.Len(); got != 5 {
		t.Errorf("expected length 5, got %d", got)
	}
}

func TestFixedCapacityBufferAppendSliceAcrossBoundary(t *testing.T) {
	b := newFixedCapacityBuffer(3)
	b.appendSlice([]byte("abcdefgh"))
	if got := b.String(); got != "abcdefgh" {
		t.Errorf("expected %q, got %q", "abcdefgh", got)
	}
}

// TestFixedCapacityEquivalence checks that for any buffer size, the
// emitted token values equal those produced with the non-buffered default.
func TestFixedCapacityEquivalence(t *testing.T) {
	input := `{"greeting":"hello, world! a bit of unicode: éèê and an emoji 😀","n":12345.6789e10}`
	for _, stringSize := range []int{0, 1, 5, 8, 64} {
		for _, numberSize := range []int{0, 2, 16} {
			base := tokenizeAll(t, input, nil)
			got := tokenizeAll(t, input, []Option{WithStringBufferSize(stringSize), WithNumberBufferSize(numberSize)})
			if len(base) != len(got) {
				t.Fatalf("size (%d,%d): got %d tokens, want %d", stringSize, numberSize, len(got), len(base))
			}
			for i := range base {
				if !tokensEqual(base[i], got[i]) {
					t.Errorf("size (%d,%d): token %d mismatch: %+v vs %+v", stringSize, numberSize, i, base[i], got[i])
				}
			}
		}
	}
}

func tokenizeAll(t *testing.T, input string, opts []Option) []Token {
	t.Helper()
	tok, tokens := collect(t, opts...)
	if err := tok.WriteString(input); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := tok.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	return *tokens
}

func tokensEqual(a, b Token) bool {
	if a.Kind != b.Kind || a.Offset != b.Offset {
		return false
	}
	av, aok := a.Value.(NumberValue)
	bv, bok := b.Value.(NumberValue)
	if aok != bok {
		return false
	}
	if aok {
		return av.Float64() == bv.Float64()
	}
	return a.Value == b.Value
}
