/*
Copyright © 2026 the surftrim authors.
This file is part of surftrim.

surftrim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

surftrim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with surftrim.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command surftrim is a command-line interface for the surftrim
// surface-trimming engine.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/surftrim/surftrimutil"
)

func main() {
	if err := surftrimutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
