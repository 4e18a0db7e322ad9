// Backdrop - effective background resolution for layered scenes
//
// Backdrop determines the single solid colour that visually sits behind a
// node in a layered scene document, so contrast can be checked against what
// the node actually renders on.
package main

import (
	"github.com/jmylchreest/backdrop/internal/cli"
)

func main() {
	cli.Execute()
}
