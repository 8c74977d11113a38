package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"bmpfx/convert"
	"bmpfx/filter"
	"bmpfx/inspect"
	"bmpfx/mangle"
	"bmpfx/parallel"
)

type CLI struct {
	Jobs      int    `help:"Number of files processed at once. Zero uses one job per CPU." default:"1"`
	LogLevel  string `help:"Minimum level of logged messages" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `help:"Log output format" enum:"text,json" default:"text"`

	Apply   mangle.CLICmd  `cmd:"" help:"Apply filters to every bitmap in a folder"`
	Convert convert.CLICmd `cmd:"" help:"Convert pictures between BMP and other formats"`
	Info    inspect.CLICmd `cmd:"" help:"Log the header information of every bitmap in a folder"`
}

func newLogHandler(w io.Writer, format, level string) (slog.Handler, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.NewJSONHandler(w, opts), nil
	}
	return slog.NewTextHandler(w, opts), nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("bmpfx"),
		kong.Description("Decode, filter and re-encode BMP pictures in bulk."),
		kong.UsageOnError(),
		kong.Vars{"filters": strings.Join(filter.Names(), ", ")},
	)

	handler, err := newLogHandler(os.Stderr, cli.LogFormat, cli.LogLevel)
	kctx.FatalIfErrorf(err)
	slog.SetDefault(slog.New(handler))

	pool := parallel.Start(cli.Jobs)
	slog.Debug("running", "command", kctx.Command(), "jobs", pool.Workers())

	err = kctx.Run(pool)
	kctx.FatalIfErrorf(err)
}
