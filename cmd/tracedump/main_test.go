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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tracekit/apitrace"
)

func TestLoadConfigDefaultsWithNoPath(t *testing.T) {
	opts, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if opts != apitrace.DefaultOptions() {
		t.Fatalf("got %+v, want defaults", opts)
	}
}

func TestLoadConfigOverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "strictTail: true\nmaxEvents: 100\ndecodeBacktraces: false\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.StrictTail || opts.MaxEvents != 100 || opts.DecodeBacktraces {
		t.Fatalf("got %+v", opts)
	}
}

func TestLoadConfigRejectsMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("want error, got nil")
	}
}

func TestRenderFlattensCallForDisplay(t *testing.T) {
	call := &apitrace.Call{}
	rec := render(call)
	if rec.Function != "" || rec.Incomplete {
		t.Fatalf("got %+v for an empty call", rec)
	}
}
