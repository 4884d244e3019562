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

//go:build linux

package frame

import (
	"fmt"
	"math"
	"os"
	"syscall"
)

// OpenMmap behaves like Open, except the container is memory-mapped
// read-only rather than read through buffered os.File calls. This avoids a
// copy for traces that are read start-to-finish exactly once, which is the
// common case for a replay tool scanning an entire capture.
//
// The returned Source must be closed with Close to unmap the file.
func OpenMmap(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(Io, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, newError(Io, err)
	}
	if info.Size() < 2 {
		return nil, newError(InvalidHeader, fmt.Errorf("file too short for magic"))
	}
	if info.Size() > math.MaxInt {
		return nil, newError(Io, fmt.Errorf("mapped file size %d exceeds max integer", info.Size()))
	}
	mem, err := syscall.Mmap(int(f.Fd()), 0, int(info.Size()), syscall.PROT_READ, syscall.MAP_PRIVATE)
	if err != nil {
		return nil, newError(Io, err)
	}
	if mem[0] != magic[0] || mem[1] != magic[1] {
		syscall.Munmap(mem)
		return nil, newError(InvalidHeader, fmt.Errorf("got magic %q, want %q", mem[:2], magic))
	}
	return &Source{mem: mem, memPos: 2}, nil
}

func munmap(mem []byte) error {
	return syscall.Munmap(mem)
}
