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
	"encoding/binary"
	"os"
	"testing"

	"github.com/klauspost/compress/snappy"
)

// traceBuilder assembles a well-formed apitrace payload byte by byte, the
// way a capture tool would write one, so tests exercise Reader the same way
// frame_test.go exercises frame.Source: against a real (if small)
// container rather than mocked internals.
type traceBuilder struct {
	buf []byte
}

func (b *traceBuilder) varint(v uint64) *traceBuilder {
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], v)
	b.buf = append(b.buf, tmp[:n]...)
	return b
}

func (b *traceBuilder) uint16(v uint16) *traceBuilder {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *traceBuilder) uint64(v uint64) *traceBuilder {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *traceBuilder) str(s string) *traceBuilder {
	b.varint(uint64(len(s)))
	b.buf = append(b.buf, s...)
	return b
}

func (b *traceBuilder) byte(v byte) *traceBuilder {
	b.buf = append(b.buf, v)
	return b
}

// property appends one key/value pair to a not-yet-terminated property list.
func (b *traceBuilder) property(key, val string) *traceBuilder {
	return b.str(key).str(val)
}

// endProperties appends the empty-key terminator ReadProperties looks for.
func (b *traceBuilder) endProperties() *traceBuilder {
	return b.str("")
}

// enterNewFunction appends an ENTER event defining function id for the
// first time: the calling thread id, then the function signature (id,
// name, declared arg names).
func (b *traceBuilder) enterNewFunction(id uint64, name string, args []string, threadID uint16) *traceBuilder {
	b.byte(byte(eventEnter)).varint(uint64(threadID)).varint(id).str(name).varint(uint64(len(args)))
	for _, a := range args {
		b.str(a)
	}
	return b
}

// enterKnownFunction appends an ENTER event referencing a previously
// interned function id.
func (b *traceBuilder) enterKnownFunction(id uint64, threadID uint16) *traceBuilder {
	return b.byte(byte(eventEnter)).varint(uint64(threadID)).varint(id)
}

func (b *traceBuilder) argUint(v uint64) *traceBuilder {
	return b.byte(byte(detailArg)).byte(byte(tagUint)).varint(v)
}

func (b *traceBuilder) argString(s string) *traceBuilder {
	return b.byte(byte(detailArg)).byte(byte(tagString)).str(s)
}

func (b *traceBuilder) leave(callNumber uint64) *traceBuilder {
	return b.byte(byte(eventLeave)).varint(callNumber)
}

func (b *traceBuilder) detailEnd() *traceBuilder {
	return b.byte(byte(detailEnd))
}

// wireTag constants duplicated from package value: value's tag bytes are
// part of the wire contract, not an implementation detail, so a test in
// this package is free to know them without importing value's unexported
// names.
const (
	tagNull   = 0
	tagUint   = 4
	tagString = 7
	tagArray  = 11
)

func writeTraceFile(t *testing.T, version, minReaderVersion uint64, body []byte) string {
	t.Helper()
	var b traceBuilder
	b.varint(version).varint(minReaderVersion)
	b.buf = append(b.buf, body...)

	comp := snappy.Encode(nil, b.buf)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(comp)))
	data := append([]byte{'a', 't'}, lenBuf[:]...)
	data = append(data, comp...)

	f, err := os.CreateTemp(t.TempDir(), "apitrace-*.trace")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

// S1: empty property list, one call with one argument and no return.
func TestOneCallOneArgNoReturn(t *testing.T) {
	var b traceBuilder
	b.endProperties()
	b.enterNewFunction(0, "glClear", []string{"mask"}, 1)
	b.leave(0)
	b.argUint(0x4000)
	b.detailEnd()

	path := writeTraceFile(t, 2, 1, b.buf)
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	props, err := r.ReadProperties()
	if err != nil {
		t.Fatal(err)
	}
	if len(props) != 0 {
		t.Fatalf("want no properties, got %v", props)
	}

	call, err := r.NextCall()
	if err != nil {
		t.Fatal(err)
	}
	if call.Sig.Name != "glClear" || len(call.Args) != 1 || call.Incomplete {
		t.Fatalf("got %+v", call)
	}
	if got, ok := call.Args[0].AsUint(); !ok || got != 0x4000 {
		t.Fatalf("arg: got %d, %v", got, ok)
	}

	if _, err := r.NextCall(); err == nil {
		t.Fatal("want NoCallAvailable, got nil")
	} else if aerr, ok := err.(*Error); !ok || aerr.Kind != NoCallAvailable {
		t.Fatalf("want NoCallAvailable, got %v", err)
	}
}

// S2: a function signature interned once, then referenced by id on a
// second, later call.
func TestSignatureBackReference(t *testing.T) {
	var b traceBuilder
	b.endProperties()
	b.enterNewFunction(5, "glBindTexture", []string{"target", "texture"}, 1)
	b.leave(0)
	b.argUint(0x0DE1).argUint(7)
	b.detailEnd()
	b.enterKnownFunction(5, 1)
	b.leave(1)
	b.argUint(0x0DE1).argUint(9)
	b.detailEnd()

	path := writeTraceFile(t, 2, 1, b.buf)
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.ReadProperties(); err != nil {
		t.Fatal(err)
	}

	first, err := r.NextCall()
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.NextCall()
	if err != nil {
		t.Fatal(err)
	}
	if first.Sig != second.Sig {
		t.Fatalf("want the same *sig.Function for both calls, got %p and %p", first.Sig, second.Sig)
	}
	if second.Number != first.Number+1 {
		t.Fatalf("want sequential Number, got %d then %d", first.Number, second.Number)
	}
}

// S3: two threads interleave ENTER/LEAVE; LEAVE order need not match ENTER
// order, but each thread's own calls still complete with the right args.
func TestInterleavedThreads(t *testing.T) {
	var b traceBuilder
	b.endProperties()
	b.enterNewFunction(1, "glFuncA", nil, 10)
	b.enterNewFunction(2, "glFuncB", nil, 20)
	b.leave(1).detailEnd()
	b.leave(0).detailEnd()

	path := writeTraceFile(t, 2, 1, b.buf)
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.ReadProperties(); err != nil {
		t.Fatal(err)
	}

	firstOut, err := r.NextCall()
	if err != nil {
		t.Fatal(err)
	}
	secondOut, err := r.NextCall()
	if err != nil {
		t.Fatal(err)
	}
	if firstOut.Sig.Name != "glFuncB" || firstOut.ThreadID != 20 {
		t.Fatalf("want glFuncB/thread 20 first, got %+v", firstOut)
	}
	if secondOut.Sig.Name != "glFuncA" || secondOut.ThreadID != 10 {
		t.Fatalf("want glFuncA/thread 10 second, got %+v", secondOut)
	}
	if firstOut.Number != 1 || secondOut.Number != 0 {
		t.Fatalf("want Number to reflect ENTER order (1 then 0), got %d then %d", firstOut.Number, secondOut.Number)
	}
}

// S4: the trace ends mid-call; NextCall drains the open call as Incomplete
// instead of failing.
func TestTruncatedTailDrainsIncomplete(t *testing.T) {
	var b traceBuilder
	b.endProperties()
	b.enterNewFunction(0, "glDrawArrays", []string{"mode"}, 1)
	b.byte(byte(eventLeave)).varint(0)
	// Stream ends here: no detail bytes at all, not even detailEnd.

	path := writeTraceFile(t, 2, 1, b.buf)
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.ReadProperties(); err != nil {
		t.Fatal(err)
	}

	call, err := r.NextCall()
	if err != nil {
		t.Fatal(err)
	}
	if !call.Incomplete || call.Sig.Name != "glDrawArrays" {
		t.Fatalf("got %+v", call)
	}

	if _, err := r.NextCall(); err == nil {
		t.Fatal("want NoCallAvailable, got nil")
	}
}

// S4 variant: the trace ends with an ENTER that never received a LEAVE at
// all; it still drains as Incomplete once the stream is exhausted.
func TestUnmatchedEnterDrainsIncomplete(t *testing.T) {
	var b traceBuilder
	b.endProperties()
	b.enterNewFunction(0, "glBegin", []string{"mode"}, 1)

	path := writeTraceFile(t, 2, 1, b.buf)
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.ReadProperties(); err != nil {
		t.Fatal(err)
	}

	call, err := r.NextCall()
	if err != nil {
		t.Fatal(err)
	}
	if !call.Incomplete || call.Sig.Name != "glBegin" || len(call.Args) != 0 {
		t.Fatalf("got %+v", call)
	}
}

// S5: a mixed-type array argument decodes each element per its own tag.
func TestMixedTypeArrayArgument(t *testing.T) {
	var b traceBuilder
	b.endProperties()
	b.enterNewFunction(0, "glFuncArr", []string{"values"}, 1)
	b.leave(0)
	b.byte(byte(detailArg))
	b.byte(tagArray) // see package value's wireTag
	b.varint(2)
	b.byte(byte(tagUint)).varint(3)
	b.byte(byte(tagString)).str("hi")
	b.detailEnd()

	path := writeTraceFile(t, 2, 1, b.buf)
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.ReadProperties(); err != nil {
		t.Fatal(err)
	}

	call, err := r.NextCall()
	if err != nil {
		t.Fatal(err)
	}
	if len(call.Args) != 1 || len(call.Args[0].Array) != 2 {
		t.Fatalf("got %+v", call)
	}
	if got, ok := call.Args[0].Array[0].AsUint(); !ok || got != 3 {
		t.Fatalf("element 0: got %d, %v", got, ok)
	}
	if got, ok := call.Args[0].Array[1].AsString(); !ok || got != "hi" {
		t.Fatalf("element 1: got %q, %v", got, ok)
	}
}

// S6: an unrecognized tag byte inside a value is a fatal ProtocolError, not
// a silently skipped byte.
func TestUnknownValueTagIsProtocolError(t *testing.T) {
	var b traceBuilder
	b.endProperties()
	b.enterNewFunction(0, "glBadArg", []string{"x"}, 1)
	b.leave(0)
	b.byte(byte(detailArg)).byte(0xEE)
	b.detailEnd()

	path := writeTraceFile(t, 2, 1, b.buf)
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.ReadProperties(); err != nil {
		t.Fatal(err)
	}

	_, err = r.NextCall()
	if err == nil {
		t.Fatal("want error, got nil")
	}
	aerr, ok := err.(*Error)
	if !ok || aerr.Kind != ProtocolError {
		t.Fatalf("want ProtocolError, got %v", err)
	}
}

func TestOpenRejectsUnsupportedVersion(t *testing.T) {
	path := writeTraceFile(t, currentReaderVersion+1, 1, nil)
	_, err := Open(path)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	aerr, ok := err.(*Error)
	if !ok || aerr.Kind != InvalidHeader {
		t.Fatalf("want InvalidHeader, got %v", err)
	}
}

func TestOpenRejectsUnsupportedMinReaderVersion(t *testing.T) {
	path := writeTraceFile(t, 3, 5, nil)
	_, err := Open(path)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	aerr, ok := err.(*Error)
	if !ok || aerr.Kind != InvalidHeader {
		t.Fatalf("want InvalidHeader, got %v", err)
	}
}

func TestCallFlagsDetailMergesWithSignatureFlags(t *testing.T) {
	var b traceBuilder
	b.endProperties()
	b.enterNewFunction(0, "someCustomFunc", nil, 1)
	b.leave(0)
	b.byte(byte(detailFlags)).uint16(8) // FlagRender
	b.detailEnd()

	path := writeTraceFile(t, 2, 1, b.buf)
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.ReadProperties(); err != nil {
		t.Fatal(err)
	}

	call, err := r.NextCall()
	if err != nil {
		t.Fatal(err)
	}
	if call.Flags&8 == 0 {
		t.Fatalf("want FlagRender set via CALL_FLAGS detail, got %v", call.Flags)
	}
}

func TestSessionIDIsStableAndUnique(t *testing.T) {
	path := writeTraceFile(t, 1, 1, []byte{0})
	r1, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r1.Close()
	r2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r2.Close()

	if r1.SessionID() != r1.SessionID() {
		t.Fatal("SessionID should be stable across calls")
	}
	if r1.SessionID() == r2.SessionID() {
		t.Fatal("want distinct sessions for distinct Readers")
	}
}
