// SPDX-License-Identifier: MPL-2.0

package main

import cmd "fmake/cmd/fmake"

func main() {
	cmd.Execute()
}
