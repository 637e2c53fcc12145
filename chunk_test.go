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

// chunkInputs exercises every sub-machine: structural tokens, keywords,
// whitespace, a multi-byte UTF-8 character, a surrogate pair, escapes, and
// a number with a full exponent.
var chunkInputs = []string{
	`[]`,
	`[0,1,-1]`,
	`[6.02e23, 6.02e+23, 6.02e-23, 0e23]`,
	`{"name":"hello world"}`,
	`"aéb"`,
	"[\"😀\",\"\\uD83D\\uDE00\"]",
	`{"ok":true,"no":false,"nil":null}`,
	`  {  "key"  :  123  }  `,
	`"escapes: \" \\ \/ \b \f \n \r \t end"`,
	`[1,2,3,4,5,6,7,8,9,10]`,
}

// byteSplits cuts s at the given ascending byte offsets and returns the
// resulting pieces in order.
func byteSplits(s string, cutPoints []int) [][]byte {
	chunks := make([][]byte, 0, len(cutPoints)+1)
	prev := 0
	for _, c := range cutPoints {
		chunks = append(chunks, []byte(s[prev:c]))
		prev = c
	}
	chunks = append(chunks, []byte(s[prev:]))
	return chunks
}

func tokenizeChunks(t *testing.T, chunks [][]byte) []Token {
	t.Helper()
	tok, tokens := collect(t)
	for _, c := range chunks {
		if err := tok.Write(c); err != nil {
			t.Fatalf("Write(%q): %v", c, err)
		}
	}
	if err := tok.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	return *tokens
}

// TestChunkInvariance checks that splitting the input anywhere — including
// inside a multi-byte UTF-8 character, a \uXXXX escape, a number, or a
// keyword — never changes the token sequence versus feeding the whole
// input as one chunk.
func TestChunkInvariance(t *testing.T) {
	for _, input := range chunkInputs {
		t.Run(input, func(t *testing.T) {
			whole := tokenizeChunks(t, [][]byte{[]byte(input)})

			// Every single byte-offset split point, one at a time.
			for cut := 1; cut < len(input); cut++ {
				split := tokenizeChunks(t, byteSplits(input, []int{cut}))
				if !tokenSequencesEqual(whole, split) {
					t.Fatalf("cut at %d: got %v, want %v", cut, split, whole)
				}
			}

			// Every byte split into its own 1-byte chunk: the maximal
			// stress case for cross-chunk resumption.
			perByte := make([][]byte, len(input))
			for i := range input {
				perByte[i] = []byte{input[i]}
			}
			split := tokenizeChunks(t, perByte)
			if !tokenSequencesEqual(whole, split) {
				t.Fatalf("per-byte split: got %v, want %v", split, whole)
			}
		})
	}
}

func tokenSequencesEqual(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !tokensEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// TestValidInputNeverErrors checks that a valid RFC 8259 JSON text never
// produces an error, regardless of chunking.
func TestValidInputNeverErrors(t *testing.T) {
	for _, input := range chunkInputs {
		t.Run(input, func(t *testing.T) {
			tok, _ := collect(t)
			if err := tok.WriteString(input); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := tok.End(); err != nil {
				t.Fatalf("End: %v", err)
			}
		})
	}
}

// TestOffsetMonotonicityAcrossChunks checks that token offsets never
// regress, even when every byte arrives in its own chunk.
func TestOffsetMonotonicityAcrossChunks(t *testing.T) {
	for _, input := range chunkInputs {
		t.Run(input, func(t *testing.T) {
			perByte := make([][]byte, len(input))
			for i := range input {
				perByte[i] = []byte{input[i]}
			}
			tokens := tokenizeChunks(t, perByte)
			for i := 1; i < len(tokens); i++ {
				if tokens[i].Offset < tokens[i-1].Offset {
					t.Fatalf("offset regressed at token %d: %v", i, tokens)
				}
			}
		})
	}
}
