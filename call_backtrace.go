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

	"github.com/tracekit/apitrace/wire"
)

// backtraceDetailTag mirrors the container's BacktraceDetail enum. A
// CALL_BACKTRACE's frames are never implemented upstream beyond this tag
// set (no wire shape for the frame count or the frame separator is
// documented), so the count-prefixed, End-terminated-frame encoding below
// is this reader's own resolution of that gap: self-delimiting, and
// shaped like every other tagged record in the container.
type backtraceDetailTag uint8

const (
	backtraceEnd        backtraceDetailTag = 0
	backtraceModule     backtraceDetailTag = 1
	backtraceFunction   backtraceDetailTag = 2
	backtraceFilename   backtraceDetailTag = 3
	backtraceLinenumber backtraceDetailTag = 4
	backtraceOffset     backtraceDetailTag = 5
)

// readBacktrace reads one CALL_BACKTRACE detail: a varint frame count
// followed by that many frames, each a run of backtraceDetailTag fields
// terminated by backtraceEnd.
func (r *Reader) readBacktrace() ([]BacktraceFrame, error) {
	n, err := wire.Varint(r.src)
	if err != nil {
		return nil, r.fromLowerError(err)
	}
	frames := make([]BacktraceFrame, 0, n)
	for i := uint64(0); i < n; i++ {
		frame, err := r.readBacktraceFrame()
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

func (r *Reader) readBacktraceFrame() (BacktraceFrame, error) {
	var frame BacktraceFrame
	for {
		tagByte, err := r.src.ReadByte()
		if err != nil {
			if err == io.EOF {
				return frame, nil
			}
			return BacktraceFrame{}, r.fromLowerError(err)
		}
		switch backtraceDetailTag(tagByte) {
		case backtraceEnd:
			return frame, nil
		case backtraceModule:
			frame.Module, err = wire.String(r.src)
		case backtraceFunction:
			frame.Function, err = wire.String(r.src)
		case backtraceFilename:
			frame.Filename, err = wire.String(r.src)
		case backtraceLinenumber:
			frame.LineNumber, err = wire.SignedVarint(r.src)
		case backtraceOffset:
			frame.Offset, err = wire.Uint64(r.src)
		default:
			return BacktraceFrame{}, r.wrap(ProtocolError, r.src.Position(), errUnknownBacktraceDetail(tagByte))
		}
		if err != nil {
			return BacktraceFrame{}, r.fromLowerError(err)
		}
	}
}

func errUnknownBacktraceDetail(tagByte byte) error {
	return fmt.Errorf("unknown backtrace-detail tag %d", tagByte)
}
