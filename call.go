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
	"fmt"
	"io"

	"github.com/tracekit/apitrace/sig"
	"github.com/tracekit/apitrace/value"
	"github.com/tracekit/apitrace/wire"
)

var errMaxEventsExceeded = fmt.Errorf("maximum event count exceeded")

func errUnknownEvent(tagByte byte) error {
	return fmt.Errorf("unknown event tag %d", tagByte)
}

func errUnknownDetail(tagByte byte) error {
	return fmt.Errorf("unknown call-detail tag %d", tagByte)
}

// eventTag mirrors the container's Event enum (spec §4.5): every top-level
// record in the call stream is either an ENTER, starting a new call, or a
// LEAVE, completing the open call with the matching call_number.
type eventTag uint8

const (
	eventEnter eventTag = 0
	eventLeave eventTag = 1
)

// detailTag mirrors the container's CallDetail enum: once a LEAVE event
// identifies which call is completing, its argument/return/backtrace data
// arrives as a sequence of these, terminated by detailEnd.
type detailTag uint8

const (
	detailEnd       detailTag = 0
	detailArg       detailTag = 1
	detailRet       detailTag = 2
	detailThread    detailTag = 3
	detailBacktrace detailTag = 4
	detailFlags     detailTag = 5
)

// Call is one fully assembled function call.
type Call struct {
	// Number is the call's position in ENTER order, starting at 0. Because
	// LEAVE events can complete calls out of ENTER order (spec §4.5,
	// interleaved threads), Number is the only stable way to recover the
	// order calls actually began in.
	Number    uint64
	ThreadID  uint16
	Sig       *sig.Function
	Args      []value.Value
	Ret       *value.Value
	Backtrace []BacktraceFrame

	// Flags is Sig.Flag, extended (bitwise OR) by any explicit CALL_FLAGS
	// detail present in the stream. Most calls never carry one;
	// Flags equals Sig.Flag in that case.
	Flags sig.Flag

	// Incomplete is set when the stream ended before this call's LEAVE
	// record was complete: either no LEAVE arrived and the call was emitted
	// by the end-of-stream drain, or its LEAVE detail stream ended without
	// detailEnd. Args/Ret/Backtrace reflect whatever was readable before the
	// stream ran out (spec §4.5's resilient-tail rule).
	Incomplete bool
}

// BacktraceFrame is one frame of a CALL_BACKTRACE detail, supplementing the
// base call contract (spec's Open Question on CALL_BACKTRACE handling):
// rather than discarding it, a fully decoded backtrace is attached to the
// call it belongs to.
type BacktraceFrame struct {
	Module     string
	Function   string
	Filename   string
	LineNumber int64
	Offset     uint64
}

// NextCall returns the next completed call. Calls are returned in LEAVE
// order, which need not match ENTER order when multiple threads interleave
// (spec §4.5, scenario S3); Call.Number recovers ENTER order when needed.
//
// When the trace ends with calls that opened but never received a LEAVE,
// NextCall drains them in ENTER order, each marked Incomplete, before
// finally returning an *Error with Kind NoCallAvailable.
func (r *Reader) NextCall() (*Call, error) {
	if !r.propertiesRead {
		if _, err := r.ReadProperties(); err != nil {
			return nil, err
		}
	}
	if r.drained {
		if len(r.open) == 0 {
			return nil, r.noCallAvailable()
		}
		return r.drainOldest(), nil
	}
	for {
		if r.opts.MaxEvents != 0 && r.eventCount >= r.opts.MaxEvents {
			return nil, r.wrap(ProtocolError, r.src.Position(), errMaxEventsExceeded)
		}
		tagByte, err := r.src.ReadByte()
		if err != nil {
			if err == io.EOF {
				r.drained = true
				if len(r.open) == 0 {
					return nil, r.noCallAvailable()
				}
				return r.drainOldest(), nil
			}
			return nil, r.fromLowerError(err)
		}
		r.eventCount++
		switch eventTag(tagByte) {
		case eventEnter:
			if err := r.handleEnter(); err != nil {
				return nil, err
			}
		case eventLeave:
			call, err := r.handleLeave()
			if err != nil {
				return nil, err
			}
			return call, nil
		default:
			return nil, r.wrap(ProtocolError, r.src.Position(), errUnknownEvent(tagByte))
		}
	}
}

// drainOldest emits the longest-open call, unconditionally marked
// Incomplete, without consuming any further bytes: there is nothing left
// to read.
func (r *Reader) drainOldest() *Call {
	oc := r.open[0]
	r.open = r.open[1:]
	return &Call{
		Number:     oc.number,
		ThreadID:   oc.threadID,
		Sig:        oc.sig,
		Flags:      oc.sig.Flag,
		Incomplete: true,
	}
}

func (r *Reader) handleEnter() error {
	tid, err := wire.Varint(r.src)
	if err != nil {
		return r.fromLowerError(err)
	}
	id, err := wire.Varint(r.src)
	if err != nil {
		return r.fromLowerError(err)
	}
	fn := r.tables.Functions.Get(int(id))
	if fn == nil {
		fn, err = r.readFunctionSignature(int(id))
		if err != nil {
			return err
		}
		r.tables.Functions.Set(fn)
	}
	r.open = append(r.open, &openCall{
		number:   r.nextNumber,
		threadID: uint16(tid),
		sig:      fn,
	})
	r.nextNumber++
	return nil
}

func (r *Reader) readFunctionSignature(id int) (*sig.Function, error) {
	name, err := wire.String(r.src)
	if err != nil {
		return nil, r.fromLowerError(err)
	}
	numArgs, err := wire.Varint(r.src)
	if err != nil {
		return nil, r.fromLowerError(err)
	}
	argNames := make([]string, 0, numArgs)
	for i := uint64(0); i < numArgs; i++ {
		arg, err := wire.String(r.src)
		if err != nil {
			return nil, r.fromLowerError(err)
		}
		argNames = append(argNames, arg)
	}
	return &sig.Function{
		ID:          id,
		Name:        name,
		ArgNames:    argNames,
		Flag:        sig.ClassifyFunction(name),
		API:         sig.DeriveAPI(name),
		FirstSeenAt: r.src.Position(),
	}, nil
}

// handleLeave completes the open call with the matching call_number. A
// LEAVE whose call_number has no open call means the trace was truncated
// at the head: rather than dropping the LEAVE, a default Call is
// synthesized and its details are still consumed into it.
func (r *Reader) handleLeave() (*Call, error) {
	number, err := wire.Varint(r.src)
	if err != nil {
		return nil, r.fromLowerError(err)
	}
	idx := -1
	for i, oc := range r.open {
		if oc.number == number {
			idx = i
			break
		}
	}
	var call *Call
	if idx == -1 {
		call = &Call{Number: number}
	} else {
		oc := r.open[idx]
		r.open = append(r.open[:idx], r.open[idx+1:]...)
		call = &Call{
			Number:   oc.number,
			ThreadID: oc.threadID,
			Sig:      oc.sig,
			Flags:    oc.sig.Flag,
		}
	}
	for {
		tagByte, err := r.src.ReadByte()
		if err != nil {
			if err == io.EOF {
				call.Incomplete = true
				return call, nil
			}
			return nil, r.fromLowerError(err)
		}
		switch detailTag(tagByte) {
		case detailEnd:
			return call, nil
		case detailArg:
			v, err := value.Decode(r.src, &r.tables)
			if err != nil {
				return nil, r.fromLowerError(err)
			}
			call.Args = append(call.Args, v)
		case detailRet:
			v, err := value.Decode(r.src, &r.tables)
			if err != nil {
				return nil, r.fromLowerError(err)
			}
			call.Ret = &v
		case detailThread:
			newTid, err := wire.Uint16(r.src)
			if err != nil {
				return nil, r.fromLowerError(err)
			}
			call.ThreadID = newTid
		case detailBacktrace:
			frames, err := r.readBacktrace()
			if err != nil {
				return nil, err
			}
			if r.opts.DecodeBacktraces {
				call.Backtrace = frames
			}
		case detailFlags:
			extra, err := wire.Uint16(r.src)
			if err != nil {
				return nil, r.fromLowerError(err)
			}
			call.Flags |= sig.Flag(extra)
		default:
			return nil, r.wrap(ProtocolError, r.src.Position(), errUnknownDetail(tagByte))
		}
	}
}
