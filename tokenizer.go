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

// Package jsontoken implements a streaming, single-pass JSON tokenizer.
//
// A Tokenizer consumes UTF-8 byte chunks of arbitrary size via Write and
// emits lexical tokens to a caller-supplied sink as soon as each is
// recognized, without ever materializing the whole input. It is meant to
// be embedded inside a higher-level value parser that stacks tokens into
// objects and arrays; this package knows nothing of nesting.
package jsontoken

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

type tokenizerState int

const (
	stateStart tokenizerState = iota

	stateTrue1
	stateTrue2
	stateTrue3

	stateFalse1
	stateFalse2
	stateFalse3
	stateFalse4

	stateNull1
	stateNull2
	stateNull3

	stateStringDefault
	stateStringIncompleteChar
	stateStringAfterBackslash
	stateStringUnicode1
	stateStringUnicode2
	stateStringUnicode3
	stateStringUnicode4

	stateNumberAfterInitialMinus
	stateNumberAfterInitialZero
	stateNumberAfterInitialNonZero
	stateNumberAfterFullStop
	stateNumberAfterDecimal
	stateNumberAfterE
	stateNumberAfterEAndSign
	stateNumberAfterEAndDigit
)

var stateNames = map[tokenizerState]string{
	stateStart:                      "START",
	stateTrue1:                      "TRUE1",
	stateTrue2:                      "TRUE2",
	stateTrue3:                      "TRUE3",
	stateFalse1:                     "FALSE1",
	stateFalse2:                     "FALSE2",
	stateFalse3:                     "FALSE3",
	stateFalse4:                     "FALSE4",
	stateNull1:                      "NULL1",
	stateNull2:                      "NULL2",
	stateNull3:                      "NULL3",
	stateStringDefault:              "STRING_DEFAULT",
	stateStringIncompleteChar:       "STRING_INCOMPLETE_CHAR",
	stateStringAfterBackslash:       "STRING_AFTER_BACKSLASH",
	stateStringUnicode1:             "STRING_UNICODE_DIGIT_1",
	stateStringUnicode2:             "STRING_UNICODE_DIGIT_2",
	stateStringUnicode3:             "STRING_UNICODE_DIGIT_3",
	stateStringUnicode4:             "STRING_UNICODE_DIGIT_4",
	stateNumberAfterInitialMinus:    "NUMBER_AFTER_INITIAL_MINUS",
	stateNumberAfterInitialZero:     "NUMBER_AFTER_INITIAL_ZERO",
	stateNumberAfterInitialNonZero:  "NUMBER_AFTER_INITIAL_NON_ZERO",
	stateNumberAfterFullStop:        "NUMBER_AFTER_FULL_STOP",
	stateNumberAfterDecimal:         "NUMBER_AFTER_DECIMAL",
	stateNumberAfterE:               "NUMBER_AFTER_E",
	stateNumberAfterEAndSign:        "NUMBER_AFTER_E_AND_SIGN",
	stateNumberAfterEAndDigit:       "NUMBER_AFTER_E_AND_DIGIT",
}

func (s tokenizerState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Tokenizer is a byte-at-a-time deterministic finite state machine. One
// instance is single-use per stream and is not safe for concurrent use;
// Write must not be re-entered while a previous Write's sink callback is
// still executing.
type Tokenizer struct {
	opts Options

	state tokenizerState

	stringBuf        bufferedString
	numberBuf        bufferedString
	tokenStartOffset int

	unicodeValue     uint32
	highSurrogate    uint32
	hasHighSurrogate bool

	splitChar            [4]byte
	splitBytesInSequence int
	splitBytesRemaining  int

	consumed int64
	writing  bool
	poisoned error
}

// New creates a Tokenizer configured by opts.
func New(opts ...Option) *Tokenizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	t := &Tokenizer{opts: o}
	t.stringBuf = newStringBuffer(o.StringBufferSize)
	t.numberBuf = newNumberBuffer(o.NumberBufferSize)
	return t
}

// Offset reports the cumulative number of bytes consumed so far; emitted
// token offsets never exceed this value.
func (t *Tokenizer) Offset() int64 { return t.consumed }

func (t *Tokenizer) numberParseFunc() NumberParseFunc {
	if t.opts.NumberParseFunc != nil {
		return t.opts.NumberParseFunc
	}
	return defaultNumberParseFunc(t.opts.NumberMode)
}

func (t *Tokenizer) emit(kind TokenKind, value any, offset int) {
	t.opts.Sink(Token{Kind: kind, Value: value, Offset: offset})
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexDigitValue(b byte) uint32 {
	switch {
	case b >= '0' && b <= '9':
		return uint32(b - '0')
	case b >= 'a' && b <= 'f':
		return uint32(b-'a') + 10
	default:
		return uint32(b-'A') + 10
	}
}

// leadByteSequenceLength classifies a UTF-8 lead byte's total sequence
// length: 194-223 -> 2, <=239 -> 3, else -> 4. Bytes
// 128-193 and 245-255 are not valid lead bytes but are not rejected:
// 128-193 fall into the 3-byte case and 245-255 into the 4-byte case,
// matching the original tokenizer's lenient behavior.
func leadByteSequenceLength(b byte) int {
	switch {
	case b >= 194 && b <= 223:
		return 2
	case b <= 239:
		return 3
	default:
		return 4
	}
}

// Write ingests one chunk of the input stream. It must not be called again
// until it returns, and must not be called after a previous call or End
// returned an error.
func (t *Tokenizer) Write(p []byte) error {
	if t.poisoned != nil {
		return t.poisoned
	}
	if t.writing {
		return ErrReentrantWrite
	}
	t.writing = true
	defer func() { t.writing = false }()

	err := t.write(p)
	if err != nil {
		t.poisoned = err
		t.opts.Logger.Debug("jsontoken: tokenizer poisoned", zap.Error(err), zap.String("state", t.state.String()))
	}
	t.consumed += int64(len(p))
	return err
}

// WriteString is a convenience wrapper equivalent to Write([]byte(s)).
func (t *Tokenizer) WriteString(s string) error {
	return t.Write([]byte(s))
}

// End finalizes the stream. It succeeds only when state is START or a
// terminal number state, flushing any pending number first.
func (t *Tokenizer) End() error {
	if t.poisoned != nil {
		return t.poisoned
	}
	switch t.state {
	case stateStart:
		return nil
	case stateNumberAfterInitialZero, stateNumberAfterInitialNonZero, stateNumberAfterDecimal, stateNumberAfterEAndDigit:
		if err := t.emitNumber(t.tokenStartOffset); err != nil {
			t.poisoned = err
			return err
		}
		t.state = stateStart
		return nil
	default:
		err := &IncompleteInputError{State: t.state.String()}
		t.poisoned = err
		return err
	}
}

func (t *Tokenizer) absOffset(i int) int {
	return int(t.consumed) + i
}

func (t *Tokenizer) unexpected(p []byte, i int) error {
	return &UnexpectedByteError{Byte: p[i], Pos: i, State: t.state.String()}
}

//nolint:gocyclo // a dense per-byte dispatch switch is the natural shape for a state machine like this.
func (t *Tokenizer) write(p []byte) error {
	i := 0
	for i < len(p) {
		b := p[i]
		switch t.state {

		case stateStart:
			switch {
			case isWhitespace(b):
				i++
			case b == '{':
				t.emit(LeftBrace, "{", t.absOffset(i))
				i++
			case b == '}':
				t.emit(RightBrace, "}", t.absOffset(i))
				i++
			case b == '[':
				t.emit(LeftBracket, "[", t.absOffset(i))
				i++
			case b == ']':
				t.emit(RightBracket, "]", t.absOffset(i))
				i++
			case b == ':':
				t.emit(Colon, ":", t.absOffset(i))
				i++
			case b == ',':
				t.emit(Comma, ",", t.absOffset(i))
				i++
			case b == 't':
				t.tokenStartOffset = t.absOffset(i)
				t.state = stateTrue1
				i++
			case b == 'f':
				t.tokenStartOffset = t.absOffset(i)
				t.state = stateFalse1
				i++
			case b == 'n':
				t.tokenStartOffset = t.absOffset(i)
				t.state = stateNull1
				i++
			case b == '"':
				t.tokenStartOffset = t.absOffset(i)
				t.stringBuf.reset()
				t.state = stateStringDefault
				i++
			case b == '0':
				t.tokenStartOffset = t.absOffset(i)
				t.numberBuf.reset()
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterInitialZero
				i++
			case b >= '1' && b <= '9':
				t.tokenStartOffset = t.absOffset(i)
				t.numberBuf.reset()
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterInitialNonZero
				i++
			case b == '-':
				t.tokenStartOffset = t.absOffset(i)
				t.numberBuf.reset()
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterInitialMinus
				i++
			default:
				return t.unexpected(p, i)
			}

		case stateTrue1:
			if b != 'r' {
				return t.unexpected(p, i)
			}
			t.state = stateTrue2
			i++
		case stateTrue2:
			if b != 'u' {
				return t.unexpected(p, i)
			}
			t.state = stateTrue3
			i++
		case stateTrue3:
			if b != 'e' {
				return t.unexpected(p, i)
			}
			t.emit(True, true, t.tokenStartOffset)
			t.state = stateStart
			i++

		case stateFalse1:
			if b != 'a' {
				return t.unexpected(p, i)
			}
			t.state = stateFalse2
			i++
		case stateFalse2:
			if b != 'l' {
				return t.unexpected(p, i)
			}
			t.state = stateFalse3
			i++
		case stateFalse3:
			if b != 's' {
				return t.unexpected(p, i)
			}
			t.state = stateFalse4
			i++
		case stateFalse4:
			if b != 'e' {
				return t.unexpected(p, i)
			}
			t.emit(False, false, t.tokenStartOffset)
			t.state = stateStart
			i++

		case stateNull1:
			if b != 'u' {
				return t.unexpected(p, i)
			}
			t.state = stateNull2
			i++
		case stateNull2:
			if b != 'l' {
				return t.unexpected(p, i)
			}
			t.state = stateNull3
			i++
		case stateNull3:
			if b != 'l' {
				return t.unexpected(p, i)
			}
			t.emit(Null, nil, t.tokenStartOffset)
			t.state = stateStart
			i++

		case stateStringDefault:
			switch {
			case b == '"':
				t.emit(String, t.stringBuf.String(), t.tokenStartOffset)
				t.state = stateStart
				i++
			case b == '\\':
				t.state = stateStringAfterBackslash
				i++
			case b >= 0x20 && b < 0x80:
				t.stringBuf.appendByte(b)
				i++
			case b >= 0x80:
				seqLen := leadByteSequenceLength(b)
				if seqLen <= len(p)-i {
					t.stringBuf.appendSlice(p[i : i+seqLen])
					i += seqLen
				} else {
					avail := len(p) - i
					copy(t.splitChar[:avail], p[i:])
					t.splitBytesInSequence = seqLen
					t.splitBytesRemaining = seqLen - avail
					i = len(p)
					t.state = stateStringIncompleteChar
				}
			default:
				return t.unexpected(p, i)
			}

		case stateStringIncompleteChar:
			avail := len(p) - i
			need := t.splitBytesRemaining
			filled := t.splitBytesInSequence - t.splitBytesRemaining
			if avail >= need {
				copy(t.splitChar[filled:t.splitBytesInSequence], p[i:i+need])
				t.stringBuf.appendSlice(t.splitChar[:t.splitBytesInSequence])
				i += need
				t.splitBytesRemaining = 0
				t.state = stateStringDefault
			} else {
				copy(t.splitChar[filled:filled+avail], p[i:])
				t.splitBytesRemaining -= avail
				i = len(p)
			}

		case stateStringAfterBackslash:
			switch b {
			case '"':
				t.stringBuf.appendByte('"')
				t.state = stateStringDefault
			case '\\':
				t.stringBuf.appendByte('\\')
				t.state = stateStringDefault
			case '/':
				t.stringBuf.appendByte('/')
				t.state = stateStringDefault
			case 'b':
				t.stringBuf.appendByte(0x08)
				t.state = stateStringDefault
			case 'f':
				t.stringBuf.appendByte(0x0C)
				t.state = stateStringDefault
			case 'n':
				t.stringBuf.appendByte(0x0A)
				t.state = stateStringDefault
			case 'r':
				t.stringBuf.appendByte(0x0D)
				t.state = stateStringDefault
			case 't':
				t.stringBuf.appendByte(0x09)
				t.state = stateStringDefault
			case 'u':
				t.unicodeValue = 0
				t.state = stateStringUnicode1
			default:
				return t.unexpected(p, i)
			}
			i++

		case stateStringUnicode1, stateStringUnicode2, stateStringUnicode3:
			if !isHexDigit(b) {
				return t.unexpected(p, i)
			}
			t.unicodeValue = t.unicodeValue*16 + hexDigitValue(b)
			t.state++
			i++

		case stateStringUnicode4:
			if !isHexDigit(b) {
				return t.unexpected(p, i)
			}
			t.unicodeValue = t.unicodeValue*16 + hexDigitValue(b)
			t.completeUnicodeEscape()
			t.state = stateStringDefault
			i++

		case stateNumberAfterInitialMinus:
			switch {
			case b == '0':
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterInitialZero
				i++
			case b >= '1' && b <= '9':
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterInitialNonZero
				i++
			default:
				return t.unexpected(p, i)
			}

		case stateNumberAfterInitialZero:
			switch {
			case b == '.':
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterFullStop
				i++
			case b == 'e' || b == 'E':
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterE
				i++
			default:
				if err := t.emitNumber(t.tokenStartOffset); err != nil {
					return err
				}
				t.state = stateStart
			}

		case stateNumberAfterInitialNonZero:
			switch {
			case isDigit(b):
				t.numberBuf.appendByte(b)
				i++
			case b == '.':
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterFullStop
				i++
			case b == 'e' || b == 'E':
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterE
				i++
			default:
				if err := t.emitNumber(t.tokenStartOffset); err != nil {
					return err
				}
				t.state = stateStart
			}

		case stateNumberAfterFullStop:
			if !isDigit(b) {
				return t.unexpected(p, i)
			}
			t.numberBuf.appendByte(b)
			t.state = stateNumberAfterDecimal
			i++

		case stateNumberAfterDecimal:
			switch {
			case isDigit(b):
				t.numberBuf.appendByte(b)
				i++
			case b == 'e' || b == 'E':
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterE
				i++
			default:
				if err := t.emitNumber(t.tokenStartOffset); err != nil {
					return err
				}
				t.state = stateStart
			}

		case stateNumberAfterE:
			switch {
			case b == '+' || b == '-':
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterEAndSign
				i++
			case isDigit(b):
				t.numberBuf.appendByte(b)
				t.state = stateNumberAfterEAndDigit
				i++
			default:
				return t.unexpected(p, i)
			}

		case stateNumberAfterEAndSign:
			if !isDigit(b) {
				return t.unexpected(p, i)
			}
			t.numberBuf.appendByte(b)
			t.state = stateNumberAfterEAndDigit
			i++

		case stateNumberAfterEAndDigit:
			if isDigit(b) {
				t.numberBuf.appendByte(b)
				i++
			} else {
				if err := t.emitNumber(t.tokenStartOffset); err != nil {
					return err
				}
				t.state = stateStart
			}

		default:
			return t.unexpected(p, i)
		}
	}
	return nil
}

// completeUnicodeEscape handles the fourth hex digit of a \uXXXX escape,
// including surrogate-pair pairing.
func (t *Tokenizer) completeUnicodeEscape() {
	v := t.unicodeValue
	if !t.hasHighSurrogate {
		if v >= 0xD800 && v <= 0xDBFF {
			t.highSurrogate = v
			t.hasHighSurrogate = true
			return
		}
		t.appendRune(rune(v))
		return
	}

	// A high surrogate is pending.
	if v >= 0xDC00 && v <= 0xDFFF {
		cp := 0x10000 + (t.highSurrogate-0xD800)*0x400 + (v - 0xDC00)
		t.appendRune(rune(cp))
	} else {
		// Lone high surrogate: emitted alone, and the code unit that follows
		// it is dropped from the pairing logic rather than re-evaluated on
		// its own. utf8.EncodeRune cannot encode a surrogate code point and
		// writes U+FFFD instead, so the string receives U+FFFD here; no
		// error is raised.
		t.appendRune(rune(t.highSurrogate))
	}
	t.hasHighSurrogate = false
}

func (t *Tokenizer) appendRune(r rune) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	t.stringBuf.appendSlice(buf[:n])
}

func (t *Tokenizer) emitNumber(offset int) error {
	literal := t.numberBuf.String()
	value, err := t.numberParseFunc()(literal)
	if err != nil {
		return err
	}
	t.emit(Number, value, offset)
	return nil
}
