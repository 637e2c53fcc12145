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

import "go.uber.org/zap"

// Sink is invoked once per recognized token, in strict lexical order. The
// default sink is a no-op; an enclosing value parser installs its own via
// WithSink.
type Sink func(Token)

// Options configures a Tokenizer at construction time.
type Options struct {
	// StringBufferSize selects fixed-capacity mode for the string store
	// when greater than 4; otherwise the store grows without bound.
	StringBufferSize int
	// NumberBufferSize selects fixed-capacity mode for the number store
	// when greater than 0; otherwise the store grows without bound.
	NumberBufferSize int
	// NumberMode picks the built-in number conversion when
	// NumberParseFunc is nil.
	NumberMode NumberMode
	// NumberParseFunc overrides number conversion entirely.
	NumberParseFunc NumberParseFunc
	// Sink receives every recognized token.
	Sink Sink
	// Logger receives diagnostic-only logs: it is never required for
	// correct tokenization and defaults to a no-op logger.
	Logger *zap.Logger
}

// Option mutates an Options in place; used by New to assemble configuration
// through a functional-options chain instead of a long constructor signature.
type Option func(*Options)

// WithStringBufferSize sets Options.StringBufferSize.
func WithStringBufferSize(n int) Option {
	return func(o *Options) { o.StringBufferSize = n }
}

// WithNumberBufferSize sets Options.NumberBufferSize.
func WithNumberBufferSize(n int) Option {
	return func(o *Options) { o.NumberBufferSize = n }
}

// WithNumberMode sets Options.NumberMode.
func WithNumberMode(mode NumberMode) Option {
	return func(o *Options) { o.NumberMode = mode }
}

// WithNumberParseFunc installs a custom number-conversion hook, overriding
// NumberMode.
func WithNumberParseFunc(fn NumberParseFunc) Option {
	return func(o *Options) { o.NumberParseFunc = fn }
}

// WithSink installs the token sink.
func WithSink(sink Sink) Option {
	return func(o *Options) { o.Sink = sink }
}

// WithLogger installs a diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func defaultOptions() Options {
	return Options{
		StringBufferSize: 0,
		NumberBufferSize: 0,
		NumberMode:       NumberModeFloat64,
		Sink:             func(Token) {},
		Logger:           zap.NewNop(),
	}
}

func newStringBuffer(size int) bufferedString {
	if size > 4 {
		return newFixedCapacityBuffer(size)
	}
	return newGrowableBuffer()
}

func newNumberBuffer(size int) bufferedString {
	if size > 0 {
		return newFixedCapacityBuffer(size)
	}
	return newGrowableBuffer()
}
