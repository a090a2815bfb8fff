// Package scripts embeds the Risor scripts shipped with catkin.
package scripts

import "embed"

//go:embed *.risor
var FS embed.FS
