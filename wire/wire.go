// Copyright (C) 2024 tracekit contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package wire decodes the apitrace container's scalar primitives — varints,
// signed varints, length-prefixed strings, and fixed-width values — from a
// frame.Source.
package wire

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/tracekit/apitrace/frame"
)

// Kind categorizes the errors this package can produce, beyond whatever a
// frame.Source read already failed with.
type Kind int

const (
	// ConversionError means a decoded byte sequence could not be
	// interpreted as the requested type (e.g. invalid UTF-8).
	ConversionError Kind = iota
	// ProtocolError means a value violated a structural invariant of the
	// wire format itself (e.g. a varint wider than 64 bits).
	ProtocolError
)

func (k Kind) String() string {
	switch k {
	case ConversionError:
		return "ConversionError"
	case ProtocolError:
		return "ProtocolError"
	default:
		return "Unknown"
	}
}

// Error is returned by this package's decoders for failures that are not
// already a *frame.Error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wire: %s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("wire: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func badVarint(err error) error {
	return &Error{Kind: ProtocolError, Err: err}
}

func badString(err error) error {
	return &Error{Kind: ConversionError, Err: err}
}

// maxVarintBytes bounds how many continuation bytes Varint will consume
// before declaring the stream malformed; 10 bytes cover a full 64-bit
// varint with LEB128's 7-bits-per-byte encoding.
const maxVarintBytes = 10

// Varint reads an unsigned LEB128 varint: each byte contributes its low 7
// bits, most significant group first is false (LEB128 is little-endian in
// group order), and the high bit of each byte signals "more groups follow".
//
// Per the container's resilient-tail convention, reaching a clean
// end-of-stream before any byte is read yields 0 without error: the wire
// uses this as an implicit terminator for the property list and open-call
// tail. EOF after at least one continuation byte has been consumed is a
// genuine truncated varint and is reported as an error.
func Varint(s *frame.Source) (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < maxVarintBytes; i++ {
		b, err := s.ReadByte()
		if err != nil {
			if err == io.EOF && i == 0 {
				return 0, nil
			}
			if err == io.EOF {
				return 0, &frame.Error{Kind: frame.InsufficientData, Err: frame.ErrInsufficientData}
			}
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, badVarint(fmt.Errorf("varint exceeds %d bytes", maxVarintBytes))
}

// signedTag distinguishes the sign of a SignedVarint's magnitude. It is
// read as its own leading byte, not folded into the varint's bit pattern
// (zig-zag encoding is not used here). The two values are the same type
// tags the value-union wire format uses for TypeSint/TypeUint (see package
// value), not an independent 0/1 flag — a signed varint's sign byte is
// literally a one-value value-union tag.
type signedTag uint8

const (
	tagSint signedTag = 3
	tagUint signedTag = 4
)

// SignedVarint reads a one-byte sign tag followed by an unsigned varint
// magnitude. Per the container's resilient-tail convention, reaching a
// clean end-of-stream while reading the tag byte yields 0 without error,
// mirroring how a truncated property list or call-detail stream is treated
// as an implicit terminator rather than a hard failure.
func SignedVarint(s *frame.Source) (int64, error) {
	tagByte, err := s.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, err
	}
	mag, err := Varint(s)
	if err != nil {
		return 0, err
	}
	switch signedTag(tagByte) {
	case tagSint:
		if mag > 1<<63 {
			return 0, badVarint(fmt.Errorf("signed varint magnitude %d overflows int64", mag))
		}
		return -int64(mag), nil
	case tagUint:
		if mag > 1<<63-1 {
			return 0, badVarint(fmt.Errorf("signed varint magnitude %d overflows int64", mag))
		}
		return int64(mag), nil
	default:
		return 0, badVarint(fmt.Errorf("unexpected signed-varint tag byte %d", tagByte))
	}
}

// String reads a varint length followed by that many bytes, validated as
// UTF-8. A zero length, or a clean end-of-stream before the length varint,
// returns "" with no error, per the container's resilient-tail convention
// for property-list and call-detail termination.
func String(s *frame.Source) (string, error) {
	n, err := Varint(s)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf, err := s.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", badString(fmt.Errorf("invalid UTF-8 in %d-byte string", n))
	}
	return string(buf), nil
}

// Uint8 reads a single unsigned byte.
func Uint8(s *frame.Source) (uint8, error) { return s.Uint8() }

// Uint16 reads a 2-byte little-endian unsigned integer.
func Uint16(s *frame.Source) (uint16, error) { return s.Uint16() }

// Uint32 reads a 4-byte little-endian unsigned integer.
func Uint32(s *frame.Source) (uint32, error) { return s.Uint32() }

// Uint64 reads an 8-byte little-endian unsigned integer.
func Uint64(s *frame.Source) (uint64, error) { return s.Uint64() }

// Float32 reads a 4-byte little-endian IEEE-754 float.
func Float32(s *frame.Source) (float32, error) { return s.Float32() }

// Float64 reads an 8-byte little-endian IEEE-754 float.
func Float64(s *frame.Source) (float64, error) { return s.Float64() }

// Bytes returns n freshly-read raw bytes.
func Bytes(s *frame.Source, n int) ([]byte, error) { return s.ReadBytes(n) }
