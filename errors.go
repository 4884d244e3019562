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

package apitrace

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tracekit/apitrace/frame"
	"github.com/tracekit/apitrace/value"
	"github.com/tracekit/apitrace/wire"
)

// ErrorKind categorizes every error this package's public API can return.
// These are a stable, closed set: a caller can safely switch on Kind
// without a default case ever silently swallowing a new value, the way
// ion.TypeError's callers rely on Type being closed.
type ErrorKind int

const (
	Io ErrorKind = iota
	InvalidHeader
	DecompressionError
	InsufficientData
	ConversionError
	ProtocolError
	NoCallAvailable
)

func (k ErrorKind) String() string {
	switch k {
	case Io:
		return "Io"
	case InvalidHeader:
		return "InvalidHeader"
	case DecompressionError:
		return "DecompressionError"
	case InsufficientData:
		return "InsufficientData"
	case ConversionError:
		return "ConversionError"
	case ProtocolError:
		return "ProtocolError"
	case NoCallAvailable:
		return "NoCallAvailable"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every Reader method. Session carries
// the producing Reader's identity so that errors collected from several
// concurrently-driven Readers (one per trace, per the container's
// single-threaded-per-parser model) can be attributed in an aggregated log.
type Error struct {
	Kind    ErrorKind
	Pos     frame.Position
	Session uuid.UUID
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("apitrace[%s]: %s at %+v: %s", e.Session, e.Kind, e.Pos, e.Err)
	}
	return fmt.Sprintf("apitrace[%s]: %s at %+v", e.Session, e.Kind, e.Pos)
}

func (e *Error) Unwrap() error { return e.Err }

func (r *Reader) wrap(kind ErrorKind, pos frame.Position, err error) *Error {
	return &Error{Kind: kind, Pos: pos, Session: r.session, Err: err}
}

// noCallAvailable reports that NextCall has nothing left to return: the
// byte stream is exhausted and every previously open call has already been
// drained.
func (r *Reader) noCallAvailable() *Error {
	return r.wrap(NoCallAvailable, r.src.Position(), nil)
}

// fromLowerError reclassifies an error surfaced by frame, wire, or value
// into the stable ErrorKind taxonomy this package promises. Errors that
// don't originate from one of those packages (a caller-supplied io error,
// for instance) fall back to Io.
func (r *Reader) fromLowerError(err error) *Error {
	pos := r.src.Position()
	var ferr *frame.Error
	if errors.As(err, &ferr) {
		switch ferr.Kind {
		case frame.InvalidHeader:
			return r.wrap(InvalidHeader, pos, ferr)
		case frame.DecompressionError:
			return r.wrap(DecompressionError, pos, ferr)
		case frame.InsufficientData:
			return r.wrap(InsufficientData, pos, ferr)
		default:
			return r.wrap(Io, pos, ferr)
		}
	}
	var werr *wire.Error
	if errors.As(err, &werr) {
		switch werr.Kind {
		case wire.ConversionError:
			return r.wrap(ConversionError, pos, werr)
		default:
			return r.wrap(ProtocolError, pos, werr)
		}
	}
	var verr *value.Error
	if errors.As(err, &verr) {
		return r.wrap(ProtocolError, pos, verr)
	}
	var terr *value.TypeError
	if errors.As(err, &terr) {
		return r.wrap(ProtocolError, pos, terr)
	}
	return r.wrap(Io, pos, err)
}
