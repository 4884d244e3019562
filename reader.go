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

// Package apitrace reads the apitrace container format: a Snappy-framed,
// self-describing binary log of graphics API calls (OpenGL, EGL, Direct3D)
// captured for later replay or offline analysis. It reconstructs each call
// as a structured Call value without attempting to reissue the calls
// against a real driver.
package apitrace

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/tracekit/apitrace/frame"
	"github.com/tracekit/apitrace/sig"
	"github.com/tracekit/apitrace/wire"
)

// currentReaderVersion is the highest container format version this
// package understands. Open rejects any trace whose min_reader_version
// exceeds it, per the container's forward-compatibility contract.
const currentReaderVersion = 6

// Options configures a Reader beyond what's recorded in the trace itself.
type Options struct {
	// StrictTail is recorded on the Reader, but no reading path consults
	// it: a clean end-of-stream mid-call (or mid-property-list) is treated
	// as an implicit terminator whatever its value. Off by default.
	StrictTail bool

	// MaxEvents bounds how many ENTER/LEAVE events NextCall will consume
	// across its lifetime before refusing to read further, as a safety
	// valve against a pathological or adversarial trace with an unbounded
	// run of unmatched ENTER events. Zero means unbounded.
	MaxEvents uint64

	// DecodeBacktraces controls whether CALL_BACKTRACE details are
	// attached to Call.Backtrace. The details are parsed, and their frames
	// allocated, either way; when false they are discarded after parsing.
	// Defaults to true.
	DecodeBacktraces bool
}

// DefaultOptions returns the Options a plain Open(path) uses.
func DefaultOptions() Options {
	return Options{DecodeBacktraces: true}
}

// Reader parses one apitrace container. It owns its underlying file
// exclusively and keeps no internal goroutines or channels: spec's
// concurrency model is "one parser per trace, driven synchronously by its
// caller" (package sig and value are likewise free of shared global
// state), so a Reader is only as concurrency-safe as calling its methods
// from a single goroutine at a time.
type Reader struct {
	src     *frame.Source
	session uuid.UUID
	opts    Options

	version          uint64
	minReaderVersion uint64

	properties     map[string]string
	propertiesRead bool

	tables sig.Tables

	open       []*openCall
	nextNumber uint64
	eventCount uint64

	drained bool
}

// openCall tracks a call between its ENTER and LEAVE events.
type openCall struct {
	number   uint64
	threadID uint16
	sig      *sig.Function
}

// Open opens path with the default Options.
func Open(path string) (*Reader, error) {
	return OpenOptions(path, DefaultOptions())
}

// OpenOptions opens path with explicit Options.
func OpenOptions(path string, opts Options) (*Reader, error) {
	src, err := frame.Open(path)
	if err != nil {
		return nil, reclassifyOpenError(err)
	}
	r := &Reader{
		src:     src,
		session: uuid.New(),
		opts:    opts,
	}
	ver, err := wire.Varint(r.src)
	if err != nil {
		src.Close()
		return nil, r.fromLowerError(err)
	}
	minVer, err := wire.Varint(r.src)
	if err != nil {
		src.Close()
		return nil, r.fromLowerError(err)
	}
	r.version = ver
	r.minReaderVersion = minVer
	if ver > currentReaderVersion {
		src.Close()
		return nil, r.wrap(InvalidHeader, r.src.Position(), errUnsupportedVersion(ver))
	}
	if minVer > ver {
		src.Close()
		return nil, r.wrap(InvalidHeader, r.src.Position(), errUnsupportedMinReaderVersion(minVer, ver))
	}
	return r, nil
}

func reclassifyOpenError(err error) *Error {
	ferr, ok := err.(*frame.Error)
	if !ok {
		return &Error{Kind: Io, Err: err}
	}
	switch ferr.Kind {
	case frame.InvalidHeader:
		return &Error{Kind: InvalidHeader, Err: ferr}
	default:
		return &Error{Kind: Io, Err: ferr}
	}
}

// errUnsupportedVersion reports a trace whose own format version exceeds
// what this reader understands (spec §6.1: version must be <= 6).
func errUnsupportedVersion(v uint64) error {
	return &versionError{version: v}
}

// errUnsupportedMinReaderVersion reports a trace that declares a
// min_reader_version above its own version, violating spec §6.1's
// invariant that min_reader_version <= version.
func errUnsupportedMinReaderVersion(minVer, ver uint64) error {
	return &versionError{minReaderVersion: minVer, version: ver, minExceedsVersion: true}
}

type versionError struct {
	version           uint64
	minReaderVersion  uint64
	minExceedsVersion bool
}

func (e *versionError) Error() string {
	if e.minExceedsVersion {
		return "trace declares min_reader_version " + strconv.FormatUint(e.minReaderVersion, 10) +
			" exceeding its own version " + strconv.FormatUint(e.version, 10)
	}
	return "trace version " + strconv.FormatUint(e.version, 10) +
		" exceeds what this reader supports, up to " + strconv.Itoa(currentReaderVersion)
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.src.Close()
}

// SessionID identifies this Reader for the lifetime of the process; it has
// no relation to anything recorded in the trace itself.
func (r *Reader) SessionID() uuid.UUID {
	return r.session
}

// Version returns the trace format version the capturing tool wrote.
func (r *Reader) Version() uint64 { return r.version }

// MinReaderVersion returns the minimum reader version required to decode
// this trace correctly.
func (r *Reader) MinReaderVersion() uint64 { return r.minReaderVersion }

// Signatures returns the function/enum/struct/bitmask dictionaries
// populated so far. Entries keep appearing as NextCall consumes more of the
// stream; a signature referenced by a call that hasn't been read yet won't
// be present.
func (r *Reader) Signatures() *sig.Tables {
	return &r.tables
}

// ReadProperties reads the trace's key/value property list once, caching
// the result for subsequent calls. The property list and the call stream
// share the same forward-only cursor, so NextCall reads the list itself
// first if it has not been read yet.
func (r *Reader) ReadProperties() (map[string]string, error) {
	if r.propertiesRead {
		return r.properties, nil
	}
	props := make(map[string]string)
	for {
		key, err := wire.String(r.src)
		if err != nil {
			return nil, r.fromLowerError(err)
		}
		if key == "" {
			break
		}
		val, err := wire.String(r.src)
		if err != nil {
			return nil, r.fromLowerError(err)
		}
		props[key] = val
	}
	r.properties = props
	r.propertiesRead = true
	return props, nil
}
