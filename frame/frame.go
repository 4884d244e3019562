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

// Package frame implements the apitrace container: a two-byte "at" magic
// followed by a sequence of 32-bit-length-prefixed raw-Snappy chunks. It
// exposes the decompressed bytes as a forward-only cursor that looks
// seamless across chunk boundaries.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/snappy"
)

// magic is the two-byte header every apitrace container begins with.
var magic = [2]byte{'a', 't'}

// Kind categorizes the errors Source can produce. Downstream packages
// (apitrace) fold these into apitrace.Error; frame itself only needs to
// distinguish them so callers can decide what's fatal.
type Kind int

const (
	// Io wraps an unmodified error from the underlying os.File.
	Io Kind = iota
	// InvalidHeader means the file did not begin with the "at" magic.
	InvalidHeader
	// DecompressionError means Snappy rejected a chunk.
	DecompressionError
	// InsufficientData means EOF arrived before dst could be filled.
	InsufficientData
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "Io"
	case InvalidHeader:
		return "InvalidHeader"
	case DecompressionError:
		return "DecompressionError"
	case InsufficientData:
		return "InsufficientData"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by Source's methods.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("frame: %s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("frame: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(k Kind, err error) *Error { return &Error{Kind: k, Err: err} }

// ErrInsufficientData is returned (wrapped in an *Error) whenever a read_into
// call can only partially fill its destination before the stream ends.
var ErrInsufficientData = errors.New("insufficient data")

// Position is a monotone clock over the decoded byte stream: the offset of
// the chunk currently being consumed in the underlying file, plus the
// offset within that chunk's decompressed cache. Package sig records it as
// each signature's FirstSeenAt.
type Position struct {
	ChunkOffset int64
	InChunkPos  int
}

// Less reports whether p occurred strictly before q in the stream.
func (p Position) Less(q Position) bool {
	if p.ChunkOffset != q.ChunkOffset {
		return p.ChunkOffset < q.ChunkOffset
	}
	return p.InChunkPos < q.InChunkPos
}

// Source is a forward-only byte cursor over an apitrace container.
//
// Source owns its decompression cache exclusively; it is not safe for
// concurrent use from multiple goroutines (see spec §5 — the unit of
// parallelism is a whole parser, never shared state inside one).
type Source struct {
	file *os.File

	// mem and memPos back an OpenMmap source instead of file: when mem is
	// non-nil, chunk headers and compressed payloads are sliced directly out
	// of mem rather than read from file.
	mem    []byte
	memPos int

	cache       []byte // decompressed bytes of the chunk currently being read
	cachePos    int    // read cursor within cache
	chunkOffset int64  // file offset of the chunk header currently loaded

	compressed []byte // scratch buffer for the compressed chunk payload
}

// Open opens path, validates the container magic, and returns a Source
// positioned at the start of the logical byte stream (just past the magic).
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(Io, err)
	}
	var hdr [2]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		f.Close()
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, newError(InvalidHeader, fmt.Errorf("file too short for magic"))
		}
		return nil, newError(Io, err)
	}
	if hdr != magic {
		f.Close()
		return nil, newError(InvalidHeader, fmt.Errorf("got magic %q, want %q", hdr, magic))
	}
	return &Source{file: f}, nil
}

// Close releases the underlying file descriptor, or unmaps the container if
// it was opened with OpenMmap.
func (s *Source) Close() error {
	if s.mem != nil {
		mem := s.mem
		s.mem = nil
		return munmap(mem)
	}
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

func (s *Source) cacheRemaining() int {
	return len(s.cache) - s.cachePos
}

// loadNextChunk reads the next u32-LE length-prefixed Snappy chunk and
// decompresses it, overwriting the cache in place (no concatenation, per
// spec §4.1).
func (s *Source) loadNextChunk() error {
	if s.mem != nil {
		return s.loadNextChunkMem()
	}
	s.chunkOffset = s.curFileOffset()
	var lenBuf [4]byte
	if _, err := io.ReadFull(s.file, lenBuf[:]); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return newError(InsufficientData, ErrInsufficientData)
		}
		return newError(Io, err)
	}
	clen := binary.LittleEndian.Uint32(lenBuf[:])
	if cap(s.compressed) < int(clen) {
		s.compressed = make([]byte, clen)
	}
	s.compressed = s.compressed[:clen]
	if _, err := io.ReadFull(s.file, s.compressed); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return newError(InsufficientData, ErrInsufficientData)
		}
		return newError(Io, err)
	}
	return s.decompressInto(s.compressed)
}

// loadNextChunkMem is loadNextChunk's counterpart for an OpenMmap source:
// the compressed payload is sliced directly out of mem, with no copy.
func (s *Source) loadNextChunkMem() error {
	s.chunkOffset = int64(s.memPos)
	if s.memPos == len(s.mem) {
		return io.EOF
	}
	if len(s.mem)-s.memPos < 4 {
		return newError(InsufficientData, ErrInsufficientData)
	}
	clen := binary.LittleEndian.Uint32(s.mem[s.memPos : s.memPos+4])
	s.memPos += 4
	if len(s.mem)-s.memPos < int(clen) {
		return newError(InsufficientData, ErrInsufficientData)
	}
	payload := s.mem[s.memPos : s.memPos+int(clen)]
	s.memPos += int(clen)
	return s.decompressInto(payload)
}

// decompressInto decompresses a raw-Snappy payload into s.cache, reusing its
// backing array across chunks where possible.
func (s *Source) decompressInto(payload []byte) error {
	dlen, err := snappy.DecodedLen(payload)
	if err != nil {
		return newError(DecompressionError, err)
	}
	if cap(s.cache) < dlen {
		s.cache = make([]byte, dlen)
	}
	s.cache = s.cache[:dlen]
	out, err := snappy.Decode(s.cache, payload)
	if err != nil {
		return newError(DecompressionError, err)
	}
	s.cache = out
	s.cachePos = 0
	return nil
}

// curFileOffset returns the file's current seek position, used to stamp
// chunkOffset when a new chunk header is about to be read.
func (s *Source) curFileOffset() int64 {
	off, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return off
}

// ReadInto fills dst entirely, pulling and decompressing chunks as needed.
// If the container ends with dst only partially filled, ReadInto returns
// an *Error with Kind InsufficientData.
func (s *Source) ReadInto(dst []byte) error {
	for len(dst) > 0 {
		if s.cacheRemaining() == 0 {
			if err := s.loadNextChunk(); err != nil {
				if err == io.EOF {
					return newError(InsufficientData, ErrInsufficientData)
				}
				return err
			}
		}
		n := copy(dst, s.cache[s.cachePos:])
		s.cachePos += n
		dst = dst[n:]
	}
	return nil
}

// ReadByte reads a single byte, satisfying io.ByteReader. It reports
// io.EOF (unwrapped) when the stream is cleanly exhausted between chunks,
// so that callers implementing resilient-tail semantics (spec §4.2, §4.5)
// can distinguish "no more data at all" from a mid-record truncation.
func (s *Source) ReadByte() (byte, error) {
	if s.cacheRemaining() == 0 {
		if err := s.loadNextChunk(); err != nil {
			if err == io.EOF {
				return 0, io.EOF
			}
			return 0, err
		}
	}
	b := s.cache[s.cachePos]
	s.cachePos++
	return b, nil
}

// Uint8 reads a single little-endian byte as an unsigned integer.
func (s *Source) Uint8() (uint8, error) {
	b, err := s.ReadByte()
	return b, err
}

// Uint16 reads a 2-byte little-endian unsigned integer.
func (s *Source) Uint16() (uint16, error) {
	var b [2]byte
	if err := s.ReadInto(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// Uint32 reads a 4-byte little-endian unsigned integer.
func (s *Source) Uint32() (uint32, error) {
	var b [4]byte
	if err := s.ReadInto(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// Uint64 reads an 8-byte little-endian unsigned integer.
func (s *Source) Uint64() (uint64, error) {
	var b [8]byte
	if err := s.ReadInto(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Float32 reads a 4-byte little-endian IEEE-754 float.
func (s *Source) Float32() (float32, error) {
	u, err := s.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// Float64 reads an 8-byte little-endian IEEE-754 float.
func (s *Source) Float64() (float64, error) {
	u, err := s.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// ReadBytes returns a freshly-allocated slice of n raw bytes.
func (s *Source) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := s.ReadInto(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Position returns the reader's current position in the logical stream.
func (s *Source) Position() Position {
	return Position{ChunkOffset: s.chunkOffset, InChunkPos: s.cachePos}
}

// AtEOF reports whether the stream has been cleanly exhausted: the cache is
// drained and the underlying file has no further chunks. It peeks ahead by
// attempting to load the next chunk, so it should only be used at event
// boundaries where doing so is safe (spec §4.5's end-of-stream checks).
func (s *Source) AtEOF() bool {
	if s.cacheRemaining() > 0 {
		return false
	}
	err := s.loadNextChunk()
	if err == nil {
		return false
	}
	return err == io.EOF
}
