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

import (
	"sort"
	"testing"
)

func TestCallFlagTableIsSorted(t *testing.T) {
	if !sort.SliceIsSorted(callFlagTable, func(i, j int) bool {
		return callFlagTable[i].name < callFlagTable[j].name
	}) {
		t.Fatal("callFlagTable is not sorted alphabetically")
	}
}

func TestClassifyFunctionExactTable(t *testing.T) {
	cases := []struct {
		name string
		want Flag
	}{
		{"glGetError", FlagNoSideEffects},
		{"IDirect3DDevice9::Present", FlagSwapbuffers},
		{"wglSwapBuffers", FlagSwapbuffers},
		{"glPushDebugGroup", FlagMarker | FlagMarkerPush},
		{"NotARealFunction", 0},
	}
	for _, c := range cases {
		got := ClassifyFunction(c.name)
		if got != c.want {
			t.Errorf("ClassifyFunction(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestClassifyFunctionGLDrawFamily(t *testing.T) {
	cases := []string{
		"glDrawArrays",
		"glDrawElements",
		"glDrawRangeElements",
		"glMultiDrawArrays",
	}
	for _, name := range cases {
		if got := ClassifyFunction(name); got != FlagRender {
			t.Errorf("ClassifyFunction(%q) = %d, want FlagRender", name, got)
		}
	}
}

func TestClassifyFunctionGLFramebufferBind(t *testing.T) {
	if got := ClassifyFunction("glBindFramebuffer"); got != FlagSwapRendertarget {
		t.Errorf("got %d, want FlagSwapRendertarget", got)
	}
}

func TestClassifyFunctionGLGetQueries(t *testing.T) {
	if got := ClassifyFunction("glGetFloatv"); got != FlagNoSideEffects {
		t.Errorf("got %d, want FlagNoSideEffects", got)
	}
}

func TestClassifyFunctionD3DDrawFamily(t *testing.T) {
	if got := ClassifyFunction("ID3D11DeviceContext::DrawIndexed"); got != FlagRender {
		t.Errorf("got %d, want FlagRender", got)
	}
}

func TestClassifyFunctionUnrecognized(t *testing.T) {
	if got := ClassifyFunction("eglCreateContext"); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
