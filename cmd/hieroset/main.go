/*
Command hieroset renders hieroglyphic inscriptions to PNG images.

Inscriptions are read as JSON trees (see package input/restree):

   hieroset render inscription.json -o inscription.png
   hieroset check inscription.json
   hieroset params

Settings are read from a TOML file given with --config:

   [hieroset]
   font    = "NewGardinerSMP.ttf"
   catalog = "signs.toml"
   unitpx  = 64

   [trace]
   "hieroset.typeset" = "Debug"

Every parameter of package core/parameters may be set in section [hieroset].

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
)

// tracer traces with key 'hieroset.cli'.
func tracer() tracing.Trace {
	return tracing.Select("hieroset.cli")
}

func main() {
	initDisplay()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		for _, msg := range userMessages(err) {
			pterm.Error.Println(msg)
		}
		os.Exit(1)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
