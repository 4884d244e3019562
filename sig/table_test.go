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

package sig

import "testing"

func TestFunctionsSparseGrowth(t *testing.T) {
	var fns Functions
	fns.Set(&Function{ID: 5, Name: "glClear"})
	if fns.Len() != 6 {
		t.Fatalf("got len %d, want 6", fns.Len())
	}
	if fns.Get(5).Name != "glClear" {
		t.Fatalf("got %v", fns.Get(5))
	}
	if fns.Get(2) != nil {
		t.Fatalf("want nil at unset id 2, got %v", fns.Get(2))
	}
	if fns.Get(100) != nil {
		t.Fatalf("want nil for out-of-range id")
	}
}

func TestFunctionsAllSkipsUnset(t *testing.T) {
	var fns Functions
	fns.Set(&Function{ID: 0, Name: "a"})
	fns.Set(&Function{ID: 3, Name: "b"})
	all := fns.All()
	if len(all) != 2 {
		t.Fatalf("got %d functions, want 2", len(all))
	}
}

func TestEnumFingerprintStable(t *testing.T) {
	e1 := &Enum{ID: 1, Values: []EnumValue{{"GL_ONE", 1}, {"GL_TWO", 2}}}
	e2 := &Enum{ID: 7, Values: []EnumValue{{"GL_ONE", 1}, {"GL_TWO", 2}}}
	if e1.Fingerprint() != e2.Fingerprint() {
		t.Fatal("identical enum bodies at different ids should fingerprint equal")
	}
	e3 := &Enum{ID: 2, Values: []EnumValue{{"GL_ONE", 1}, {"GL_THREE", 3}}}
	if e1.Fingerprint() == e3.Fingerprint() {
		t.Fatal("different enum bodies should not fingerprint equal")
	}
}

func TestEnumsContains(t *testing.T) {
	var a, b Enums
	a.Set(&Enum{ID: 0, Values: []EnumValue{{"X", 1}}})
	b.Set(&Enum{ID: 0, Values: []EnumValue{{"X", 1}}})
	if !a.Contains(&b) {
		t.Fatal("want a to contain b (identical bodies)")
	}
	b.Set(&Enum{ID: 1, Values: []EnumValue{{"Y", 2}}})
	if a.Contains(&b) {
		t.Fatal("want a to not contain b (b has an extra id)")
	}
}

func TestStructFingerprint(t *testing.T) {
	s1 := &Struct{ID: 0, Name: "GLMatrix", MemberNames: []string{"a", "b"}}
	s2 := &Struct{ID: 9, Name: "GLMatrix", MemberNames: []string{"a", "b"}}
	if s1.Fingerprint() != s2.Fingerprint() {
		t.Fatal("identical struct bodies should fingerprint equal regardless of id")
	}
}

func TestBitmaskFingerprint(t *testing.T) {
	b1 := &Bitmask{ID: 0, Flags: []BitmaskFlag{{"GL_A", 1}, {"GL_B", 2}}}
	b2 := &Bitmask{ID: 0, Flags: []BitmaskFlag{{"GL_A", 1}, {"GL_B", 4}}}
	if b1.Fingerprint() == b2.Fingerprint() {
		t.Fatal("different flag values should not fingerprint equal")
	}
}
