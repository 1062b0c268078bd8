package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ylchen07/jflow/internal/ui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, ui.FailStyle.Render("Error: "+err.Error()))
		}
		os.Exit(1)
	}
}
