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

// Package value decodes apitrace's tagged value union: every call argument
// and return value is one of a fixed set of kinds, dispatched off a single
// leading type-tag byte.
package value

import (
	"fmt"
	"strings"

	"github.com/tracekit/apitrace/frame"
	"github.com/tracekit/apitrace/sig"
	tkutf8 "github.com/tracekit/apitrace/utf8"
	"github.com/tracekit/apitrace/wire"
)

// maxDisplayRunes bounds how much of a KindString value's content String
// shows inline. Blob arguments for texture uploads and shader sources
// routinely carry megabytes of text; a one-line display format has no use
// showing all of it.
const maxDisplayRunes = 200

// truncateRunes returns s unchanged if it holds at most maxDisplayRunes
// runes, otherwise the first maxDisplayRunes runes followed by an ellipsis
// marker. tkutf8.ValidStringLength gives the total rune count in one SWAR
// pass so the common case (short strings) never falls into the
// byte-by-byte decode loop below.
func truncateRunes(s string) string {
	if tkutf8.ValidStringLength([]byte(s)) <= maxDisplayRunes {
		return s
	}
	count := 0
	for i := range s {
		if count == maxDisplayRunes {
			return s[:i] + "..."
		}
		count++
	}
	return s
}

// Kind identifies which field of a Value is populated. Value is a closed
// sum type: callers switch on Kind rather than type-asserting, and there is
// no way to construct a Value outside this package with a Kind the decoder
// doesn't also produce.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindUint
	KindSint
	KindFloat32
	KindFloat64
	KindString
	KindBlob
	KindEnum
	KindBitmask
	KindArray
	KindStruct
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindUint:
		return "Uint"
	case KindSint:
		return "Sint"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindBlob:
		return "Blob"
	case KindEnum:
		return "Enum"
	case KindBitmask:
		return "Bitmask"
	case KindArray:
		return "Array"
	case KindStruct:
		return "Struct"
	case KindOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// wireTag mirrors the container's Type enum (spec §4.4). Repr and Wstring
// are recognized tags with no supported decoding: any occurrence is a
// ProtocolError, per the container's own documented gap around them.
type wireTag uint8

const (
	tagNull wireTag = iota
	tagFalse
	tagTrue
	tagSint
	tagUint
	tagFloat
	tagDouble
	tagString
	tagBlob
	tagEnum
	tagBitmask
	tagArray
	tagStruct
	tagOpaque
	tagRepr
	tagWstring
)

// Value is a single decoded call argument or return value.
//
// It is a plain struct with a Kind discriminant rather than an interface
// hierarchy: spec §9 calls for a closed tagged union, and a Go interface
// with unexported methods would still let external packages hold (if not
// construct) an open-ended set of implementations. A switch on Kind is the
// complete, enumerable set of cases a caller needs to handle.
type Value struct {
	Kind Kind

	Bool    bool
	Uint    uint64
	Sint    int64
	Float32 float32
	Float64 float64
	Str     string
	Blob    []byte
	Opaque  uint64

	EnumSig      *sig.Enum
	EnumValue    int64
	BitmaskSig   *sig.Bitmask
	BitmaskValue uint64

	Array []Value

	StructSig     *sig.Struct
	StructMembers []Value
}

// Kind is reported in TypeError exactly as it names a Value.Kind, so a
// caller's "wanted uint, found string" message reads the same whichever
// field failed the check.
type TypeError struct {
	Wanted Kind
	Found  Kind
	Func   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("value: %s: wanted %s, found %s", e.Func, e.Wanted, e.Found)
}

func wrongKind(fn string, wanted, found Kind) error {
	return &TypeError{Wanted: wanted, Found: found, Func: fn}
}

// AsUint returns v's value as a uint64 and true if v.Kind is KindUint,
// otherwise (0, false).
func (v Value) AsUint() (uint64, bool) {
	if v.Kind != KindUint {
		return 0, false
	}
	return v.Uint, true
}

// MustUint is AsUint, except it returns a *TypeError instead of ok=false.
func (v Value) MustUint() (uint64, error) {
	if v.Kind != KindUint {
		return 0, wrongKind("MustUint", KindUint, v.Kind)
	}
	return v.Uint, nil
}

// AsSint returns v's value as an int64 and true if v.Kind is KindSint.
func (v Value) AsSint() (int64, bool) {
	if v.Kind != KindSint {
		return 0, false
	}
	return v.Sint, true
}

// AsString returns v's value as a string and true if v.Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// String renders v for display: a human-readable approximation, not a wire
// format. Enum and bitmask values show their matching member names when the
// referenced signature accounts for every set bit or the exact value,
// falling back to the raw number otherwise.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindUint:
		return fmt.Sprintf("%d", v.Uint)
	case KindSint:
		return fmt.Sprintf("%d", v.Sint)
	case KindFloat32:
		return fmt.Sprintf("%g", v.Float32)
	case KindFloat64:
		return fmt.Sprintf("%g", v.Float64)
	case KindString:
		return fmt.Sprintf("%q", truncateRunes(v.Str))
	case KindBlob:
		return fmt.Sprintf("blob(%d bytes)", len(v.Blob))
	case KindEnum:
		return v.enumString()
	case KindBitmask:
		return v.bitmaskString()
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, elem := range v.Array {
			parts[i] = elem.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindStruct:
		name := "struct"
		if v.StructSig != nil {
			name = v.StructSig.Name
		}
		parts := make([]string, len(v.StructMembers))
		for i, m := range v.StructMembers {
			parts[i] = m.String()
		}
		return fmt.Sprintf("%s{%s}", name, strings.Join(parts, ", "))
	case KindOpaque:
		return fmt.Sprintf("opaque(0x%x)", v.Opaque)
	default:
		return "?"
	}
}

func (v Value) enumString() string {
	if v.EnumSig != nil {
		for _, ev := range v.EnumSig.Values {
			if ev.Value == v.EnumValue {
				return ev.Name
			}
		}
	}
	return fmt.Sprintf("%d", v.EnumValue)
}

func (v Value) bitmaskString() string {
	if v.BitmaskSig == nil || v.BitmaskValue == 0 {
		return fmt.Sprintf("0x%x", v.BitmaskValue)
	}
	var names []string
	remaining := v.BitmaskValue
	for _, f := range v.BitmaskSig.Flags {
		if f.Value != 0 && remaining&f.Value == f.Value {
			names = append(names, f.Name)
			remaining &^= f.Value
		}
	}
	if remaining != 0 || len(names) == 0 {
		return fmt.Sprintf("0x%x", v.BitmaskValue)
	}
	return strings.Join(names, "|")
}

// Error is returned when a tag byte does not correspond to any decodable
// variant, including the Repr and Wstring tags. It is always
// fatal to the surrounding call per spec §4.4/§4.5: an unrecognized value
// shape means the reader and writer have drifted, and nothing downstream of
// it in the stream can be trusted.
type Error struct {
	Pos frame.Position
	Tag uint8
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("value: at %+v: tag %d: %s", e.Pos, e.Tag, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Decode reads one value from s, consulting tables to resolve the Enum,
// Bitmask, and Struct signatures that enum/bitmask/struct-typed values
// reference by id. An id not yet in tables is followed by the signature's
// full body, which is read and interned before the value's own payload; an
// id already present is a back-reference and reuses the interned entry
// (spec §4.3/§4.4).
func Decode(s *frame.Source, tables *sig.Tables) (Value, error) {
	tagByte, err := wire.Uint8(s)
	if err != nil {
		return Value{}, err
	}
	pos := s.Position()
	switch wireTag(tagByte) {
	case tagNull:
		return Value{Kind: KindNull}, nil
	case tagFalse:
		return Value{Kind: KindBool, Bool: false}, nil
	case tagTrue:
		return Value{Kind: KindBool, Bool: true}, nil
	case tagUint:
		n, err := wire.Varint(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindUint, Uint: n}, nil
	case tagSint:
		n, err := wire.Varint(s)
		if err != nil {
			return Value{}, err
		}
		if n > 1<<63 {
			return Value{}, &Error{Pos: pos, Tag: tagByte, Err: fmt.Errorf("sint magnitude %d overflows int64", n)}
		}
		return Value{Kind: KindSint, Sint: -int64(n)}, nil
	case tagFloat:
		f, err := wire.Float32(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindFloat32, Float32: f}, nil
	case tagDouble:
		f, err := wire.Float64(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindFloat64, Float64: f}, nil
	case tagString:
		str, err := wire.String(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Str: str}, nil
	case tagBlob:
		n, err := wire.Varint(s)
		if err != nil {
			return Value{}, err
		}
		b, err := wire.Bytes(s, int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBlob, Blob: b}, nil
	case tagEnum:
		return decodeEnum(s, tables)
	case tagBitmask:
		return decodeBitmask(s, tables)
	case tagArray:
		return decodeArray(s, tables)
	case tagStruct:
		return decodeStruct(s, tables)
	case tagOpaque:
		n, err := wire.Varint(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindOpaque, Opaque: n}, nil
	case tagRepr, tagWstring:
		return Value{}, &Error{Pos: pos, Tag: tagByte, Err: fmt.Errorf("%s values are not a documented wire shape", wireTag(tagByte).String())}
	default:
		return Value{}, &Error{Pos: pos, Tag: tagByte, Err: fmt.Errorf("unknown value tag")}
	}
}

func (t wireTag) String() string {
	if t == tagRepr {
		return "Repr"
	}
	return "Wstring"
}

// decodeEnum reads an enum-typed value: an enum-sig (§4.3, first definition
// or back-reference by id) followed by the signed value actually chosen for
// this occurrence.
func decodeEnum(s *frame.Source, tables *sig.Tables) (Value, error) {
	id, err := wire.Varint(s)
	if err != nil {
		return Value{}, err
	}
	e := tables.Enums.Get(int(id))
	if e == nil {
		e, err = readEnumSignature(s, int(id))
		if err != nil {
			return Value{}, err
		}
		tables.Enums.Set(e)
	}
	chosen, err := wire.SignedVarint(s)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindEnum, EnumSig: e, EnumValue: chosen}, nil
}

func readEnumSignature(s *frame.Source, id int) (*sig.Enum, error) {
	n, err := wire.Varint(s)
	if err != nil {
		return nil, err
	}
	values := make([]sig.EnumValue, 0, n)
	for i := uint64(0); i < n; i++ {
		name, err := wire.String(s)
		if err != nil {
			return nil, err
		}
		val, err := wire.SignedVarint(s)
		if err != nil {
			return nil, err
		}
		values = append(values, sig.EnumValue{Name: name, Value: val})
	}
	return &sig.Enum{ID: id, Values: values, FirstSeenAt: s.Position()}, nil
}

// decodeBitmask reads a bitmask-typed value: a bitmask-sig followed by the
// raw bit pattern actually set for this occurrence.
func decodeBitmask(s *frame.Source, tables *sig.Tables) (Value, error) {
	id, err := wire.Varint(s)
	if err != nil {
		return Value{}, err
	}
	b := tables.Bitmasks.Get(int(id))
	if b == nil {
		b, err = readBitmaskSignature(s, int(id))
		if err != nil {
			return Value{}, err
		}
		tables.Bitmasks.Set(b)
	}
	bits, err := wire.Varint(s)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindBitmask, BitmaskSig: b, BitmaskValue: bits}, nil
}

func readBitmaskSignature(s *frame.Source, id int) (*sig.Bitmask, error) {
	n, err := wire.Varint(s)
	if err != nil {
		return nil, err
	}
	flags := make([]sig.BitmaskFlag, 0, n)
	for i := uint64(0); i < n; i++ {
		name, err := wire.String(s)
		if err != nil {
			return nil, err
		}
		val, err := wire.Varint(s)
		if err != nil {
			return nil, err
		}
		flags = append(flags, sig.BitmaskFlag{Name: name, Value: val})
	}
	return &sig.Bitmask{ID: id, Flags: flags, FirstSeenAt: s.Position()}, nil
}

func decodeArray(s *frame.Source, tables *sig.Tables) (Value, error) {
	n, err := wire.Varint(s)
	if err != nil {
		return Value{}, err
	}
	elems := make([]Value, 0, n)
	for i := uint64(0); i < n; i++ {
		elem, err := Decode(s, tables)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}
	return Value{Kind: KindArray, Array: elems}, nil
}

func decodeStruct(s *frame.Source, tables *sig.Tables) (Value, error) {
	id, err := wire.Varint(s)
	if err != nil {
		return Value{}, err
	}
	st := tables.Structs.Get(int(id))
	if st == nil {
		st, err = readStructSignature(s, int(id))
		if err != nil {
			return Value{}, err
		}
		tables.Structs.Set(st)
	}
	members := make([]Value, 0, len(st.MemberNames))
	for range st.MemberNames {
		m, err := Decode(s, tables)
		if err != nil {
			return Value{}, err
		}
		members = append(members, m)
	}
	return Value{Kind: KindStruct, StructSig: st, StructMembers: members}, nil
}

func readStructSignature(s *frame.Source, id int) (*sig.Struct, error) {
	name, err := wire.String(s)
	if err != nil {
		return nil, err
	}
	n, err := wire.Varint(s)
	if err != nil {
		return nil, err
	}
	memberNames := make([]string, 0, n)
	for i := uint64(0); i < n; i++ {
		m, err := wire.String(s)
		if err != nil {
			return nil, err
		}
		memberNames = append(memberNames, m)
	}
	return &sig.Struct{ID: id, Name: name, MemberNames: memberNames, FirstSeenAt: s.Position()}, nil
}
