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

// Package sig holds the apitrace container's four signature dictionaries
// (function, enum, struct, bitmask) and the call-flag classifier consulted
// the moment a function signature is interned for the first time.
package sig

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"github.com/tracekit/apitrace/frame"
)

// Position is a re-export of frame.Position: each signature records the
// Position at which it was first defined (FirstSeenAt), on the same clock
// as the byte source itself. The dictionaries are indexed by id.
type Position = frame.Position

// Function is a function signature: its name, declared argument names, the
// call-flag classification computed the moment it was first interned, and
// the derived graphics API family (a feature this package adds beyond the
// bare wire contract; see DerivedAPI).
type Function struct {
	ID          int
	Name        string
	ArgNames    []string
	Flag        Flag
	API         DerivedAPI
	FirstSeenAt Position
}

// EnumValue is one named constant inside an EnumSignature.
type EnumValue struct {
	Name  string
	Value int64
}

// Enum is an enum signature: a set of named integer constants sharing one
// dictionary id.
type Enum struct {
	ID          int
	Values      []EnumValue
	FirstSeenAt Position

	fingerprint     uint64
	fingerprintDone bool
}

// Fingerprint returns a content hash of e's member names and values,
// computed once and cached. Two Enum signatures with the same Fingerprint
// are extremely likely to carry the same members in the same order; this
// lets a cross-trace comparison tool short-circuit full-content comparisons.
func (e *Enum) Fingerprint() uint64 {
	if !e.fingerprintDone {
		e.fingerprint = fingerprintEnum(e)
		e.fingerprintDone = true
	}
	return e.fingerprint
}

// Struct is a struct signature: an ordered set of member names sharing one
// dictionary id.
type Struct struct {
	ID          int
	Name        string
	MemberNames []string
	FirstSeenAt Position

	fingerprint     uint64
	fingerprintDone bool
}

// Fingerprint returns a content hash of s's name and member names.
func (s *Struct) Fingerprint() uint64 {
	if !s.fingerprintDone {
		s.fingerprint = fingerprintStruct(s)
		s.fingerprintDone = true
	}
	return s.fingerprint
}

// BitmaskFlag is one named bit (or bit group) inside a BitmaskSignature.
type BitmaskFlag struct {
	Name  string
	Value uint64
}

// Bitmask is a bitmask signature: a set of named bit values sharing one
// dictionary id.
type Bitmask struct {
	ID          int
	Flags       []BitmaskFlag
	FirstSeenAt Position

	fingerprint     uint64
	fingerprintDone bool
}

// Fingerprint returns a content hash of b's flag names and values.
func (b *Bitmask) Fingerprint() uint64 {
	if !b.fingerprintDone {
		b.fingerprint = fingerprintBitmask(b)
		b.fingerprintDone = true
	}
	return b.fingerprint
}

// fingerprintSeed is siphash's k1 key; it is fixed (rather than, say,
// derived from a signature's id) because Fingerprint values are compared
// across Table instances — via Table.Contains, even across independently
// opened traces — so two equal signature bodies must always hash
// identically regardless of where they were interned.
const fingerprintSeed uint64 = 0

func fingerprintEnum(e *Enum) uint64 {
	var buf []byte
	for _, v := range e.Values {
		buf = append(buf, v.Name...)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.Value))
	}
	return siphash.Hash(0, fingerprintSeed, buf)
}

func fingerprintStruct(s *Struct) uint64 {
	buf := []byte(s.Name)
	for _, m := range s.MemberNames {
		buf = append(buf, m...)
	}
	return siphash.Hash(0, fingerprintSeed, buf)
}

func fingerprintBitmask(b *Bitmask) uint64 {
	var buf []byte
	for _, f := range b.Flags {
		buf = append(buf, f.Name...)
		buf = binary.LittleEndian.AppendUint64(buf, f.Value)
	}
	return siphash.Hash(0, fingerprintSeed, buf)
}
