// Command hellotriangle runs one of the Hello Triangle tutorial variants in
// an OpenGL 3.3 core window.
//
// Usage:
//
//	hellotriangle [options]
//
// Examples:
//
//	hellotriangle                          # first-triangle
//	hellotriangle -variant two-programs    # a built-in variant
//	hellotriangle -config my.toml          # a variant file on disk
//	hellotriangle -list                    # list built-in variants
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/shadercheck"
	"github.com/gogpu/shadercheck/app"
	"github.com/gogpu/shadercheck/diag"
	"github.com/gogpu/shadercheck/tutorial"
)

var (
	variant = flag.String("variant", "first-triangle", "built-in variant to run")
	config  = flag.String("config", "", "variant file to run instead of a built-in one")
	list    = flag.Bool("list", false, "list built-in variants and exit")
	strict  = flag.Bool("strict", false, "exit instead of rendering when a shader fails")
	maxLog  = flag.Int("max-log", shadercheck.DefaultMaxLogLength, "maximum diagnostic log length in bytes")
	verbose = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *list {
		for _, name := range tutorial.BuiltinNames() {
			fmt.Println(name)
		}
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var (
		v   *tutorial.Variant
		err error
	)
	if *config != "" {
		v, err = tutorial.LoadFile(*config)
	} else {
		v, err = tutorial.Builtin(*variant)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := shadercheck.Options{MaxLogLength: *maxLog, Policy: shadercheck.PolicyContinue}
	if *strict {
		opts.Policy = shadercheck.PolicyAbort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = app.Run(ctx, app.Config{
		Variant: v,
		Sink:    diag.Writer(os.Stdout),
		Options: opts,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: hellotriangle [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nVariants:\n")
	for _, name := range tutorial.BuiltinNames() {
		fmt.Fprintf(os.Stderr, "  %s\n", name)
	}
}
