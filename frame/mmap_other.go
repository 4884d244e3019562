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

//go:build !linux

package frame

import "fmt"

// OpenMmap is only implemented on GOOS=linux; elsewhere callers should fall
// back to Open.
func OpenMmap(path string) (*Source, error) {
	return nil, newError(Io, fmt.Errorf("frame: OpenMmap is not supported on this platform"))
}

func munmap(mem []byte) error {
	return nil
}
