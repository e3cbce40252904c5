// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the osgilaunch command tree.
package cmd
