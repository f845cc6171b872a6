// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/bjoernbethge/infinibuild/cmd/infinibuild"

func main() {
	cmd.Execute()
}
