// Package usermgr provides embedded runtime resources for the usermgr CLI.
package usermgr

import (
	_ "embed"
	"strings"
)

//go:embed banner.txt
var rawBanner string

// Banner is the ASCII-art title shown above the interactive menu.
var Banner = strings.TrimRight(rawBanner, "\n")
