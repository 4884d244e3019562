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

import "unicode"

// DerivedAPI is an informational guess at which graphics API a function
// signature belongs to, derived once from the function's name the first
// time it's interned. It is never consulted while parsing: a malformed or
// ambiguous name still decodes fine with API left at APIUnknown.
type DerivedAPI int

const (
	APIUnknown DerivedAPI = iota
	APIGL
	APIEGL
	APIDirectX
)

func (a DerivedAPI) String() string {
	switch a {
	case APIGL:
		return "GL"
	case APIEGL:
		return "EGL"
	case APIDirectX:
		return "DirectX"
	default:
		return "Unknown"
	}
}

// DeriveAPI guesses a function's graphics API family from its name prefix:
// wgl followed by an uppercase rune, or a glX, CGL or gl prefix, counts as
// GL; an egl prefix followed by an uppercase rune counts as EGL; and the
// Direct3D/DXGI family of prefixes (Direct, D3D, Create and the COM
// interface prefixes) counts as DirectX.
// Everything else is APIUnknown.
func DeriveAPI(name string) DerivedAPI {
	switch {
	case hasPrefixUpper(name, "wgl"):
		return APIGL
	case hasPrefixUpper(name, "egl"):
		return APIEGL
	case startsWithAny(name, "glX", "CGL", "gl"):
		return APIGL
	case startsWithAny(name, "Direct", "D3D", "Create", "IDirect", "ID3D", "IDXGI", "ID2D1"):
		return APIDirectX
	default:
		return APIUnknown
	}
}

// hasPrefixUpper reports whether name starts with prefix followed by an
// uppercase rune, the convention wgl/egl entry points use to distinguish
// themselves from unrelated identifiers that merely start the same way.
func hasPrefixUpper(name, prefix string) bool {
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return false
	}
	r := rune(name[len(prefix)])
	return unicode.IsUpper(r)
}

func startsWithAny(name string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(name) >= len(p) && name[:len(p)] == p {
			return true
		}
	}
	return false
}
