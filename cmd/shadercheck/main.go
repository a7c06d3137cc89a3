// Command shadercheck compiles and links WGSL shader stages without a GPU
// and prints the diagnostics a driver would.
//
// Usage:
//
//	shadercheck [options] <vertex.wgsl> [fragment.wgsl]
//
// Examples:
//
//	shadercheck triangle.wgsl              # one file holding both entry points
//	shadercheck vs.wgsl fs.wgsl            # separate stage files
//	shadercheck -strict vs.wgsl fs.wgsl    # exit 1 on any failure
//	shadercheck -glsl triangle.wgsl        # print the GLSL 330 translation
//	shadercheck -watch triangle.wgsl       # re-check on every save
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/shadercheck"
	"github.com/gogpu/shadercheck/diag"
	"github.com/gogpu/shadercheck/offline"
)

var (
	maxLog   = flag.Int("max-log", shadercheck.DefaultMaxLogLength, "maximum diagnostic log length in bytes")
	strict   = flag.Bool("strict", false, "exit with status 1 when a stage fails to compile or the program fails to link")
	color    = flag.String("color", "auto", "colorize diagnostics: auto, always or never")
	emitGLSL = flag.Bool("glsl", false, "print the GLSL 330 core translation of each stage")
	validate = flag.Bool("validate", false, "run naga IR validation after lowering")
	watch    = flag.Bool("watch", false, "re-check whenever an input file changes")
	verbose  = flag.Bool("v", false, "verbose logging")
	version  = flag.Bool("version", false, "print version")
)

const shadercheckVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("shadercheck version %s\n", shadercheckVersion)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "Error: expected one or two input files")
		usage()
		os.Exit(2)
	}
	in := inputs{vertex: args[0], fragment: args[0]}
	if len(args) == 2 {
		in.fragment = args[1]
	}

	mode, err := diag.ParseColorMode(*color)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	c := &checker{
		sink:   diag.Console(os.Stderr, mode),
		out:    os.Stdout,
		opts:   shadercheck.Options{MaxLogLength: *maxLog, Policy: shadercheck.PolicyContinue},
		naga:   offline.Options{Validate: *validate, Warnings: true},
		glsl:   *emitGLSL,
		logger: slog.Default(),
	}

	if *watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watchInputs(ctx, c, in); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ok, err := c.check(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok && *strict {
		os.Exit(1)
	}
}

type inputs struct {
	vertex, fragment string
}

func (in inputs) files() []string {
	if in.vertex == in.fragment {
		return []string{in.vertex}
	}
	return []string{in.vertex, in.fragment}
}

// checker runs one compile and link pass over the inputs.
type checker struct {
	sink   shadercheck.Sink
	out    io.Writer
	opts   shadercheck.Options
	naga   offline.Options
	glsl   bool
	logger *slog.Logger
}

// check reports whether both stages compiled and the program linked.
// Diagnostics go to the sink; only I/O problems are returned as errors.
func (c *checker) check(in inputs) (bool, error) {
	vs, err := os.ReadFile(in.vertex)
	if err != nil {
		return false, fmt.Errorf("reading vertex stage: %w", err)
	}
	fs, err := os.ReadFile(in.fragment)
	if err != nil {
		return false, fmt.Errorf("reading fragment stage: %w", err)
	}

	stages := []shadercheck.StageSource{
		{Kind: shadercheck.StageVertex, Source: string(vs)},
		{Kind: shadercheck.StageFragment, Source: string(fs)},
	}
	prog, err := shadercheck.Build(offline.New(c.naga), c.sink, c.opts, stages...)
	if err != nil {
		return false, err
	}
	defer prog.Close()

	ok := prog.OK()
	c.logger.Debug("checked shader program",
		"vertex", in.vertex, "fragment", in.fragment,
		"vertex_ok", prog.Stages[0].Result.OK, "fragment_ok", prog.Stages[1].Result.OK,
		"link_ok", prog.Link.OK)

	if ok && c.glsl {
		tb := offline.New(c.naga)
		for _, s := range stages {
			code, err := tb.Translate(s.Kind, s.Source)
			if err != nil {
				return false, err
			}
			fmt.Fprintf(c.out, "// %s\n%s\n", s.Kind, code)
		}
	}
	return ok, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shadercheck [options] <vertex.wgsl> [fragment.wgsl]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shadercheck triangle.wgsl            Check a file with both entry points\n")
	fmt.Fprintf(os.Stderr, "  shadercheck -strict vs.wgsl fs.wgsl  Fail the exit status on errors\n")
	fmt.Fprintf(os.Stderr, "  shadercheck -glsl triangle.wgsl      Print the GLSL translation\n")
}
