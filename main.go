// SPDX-License-Identifier: MPL-2.0

// Command osgilaunch launches an Equinox OSGi framework from a classpath.
package main

import cmd "github.com/lauritziu/maven-osgi-plugin/cmd/osgilaunch"

func main() {
	cmd.Execute()
}
