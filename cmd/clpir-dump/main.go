// clpir-dump prints the log events of a CLP IR stream.
//
// The input may be a raw IR stream or any container clpir.Open understands
// (zst, gz, tar.gz, zip, xz, lz4, s2). Events are written to stdout as JSON
// lines; --stats prints a stream summary instead.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	_ "time/tzdata"

	"github.com/arloliu/clpir"
	"github.com/arloliu/clpir/ir"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		cfg              dumpConfig
		verbose          bool
		supportedVersion string
	)

	flagSet := pflag.NewFlagSet("clpir-dump", pflag.ContinueOnError)
	flagSet.BoolVar(&cfg.stats, "stats", false, "print a stream summary instead of events")
	flagSet.IntVar(&cfg.limit, "limit", 0, "stop after this many events (0 = all)")
	flagSet.IntVar(&cfg.top, "top", 10, "number of logtypes listed by --stats")
	flagSet.BoolVar(&cfg.raw, "raw", false, "print logtypes and variables instead of rendered messages")
	flagSet.StringVar(&supportedVersion, "supported-version", ir.ProtocolVersion, "newest protocol version to accept")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log decoding details to stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if flagSet.NArg() != 1 {
		printHelp(flagSet)
		return errors.New("expected exactly one input file")
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path := flagSet.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	logger.Debug("input loaded", slog.String("path", path), slog.Int("bytes", len(data)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stream, err := clpir.Open(ctx, data,
		clpir.WithLogger(logger),
		clpir.WithSupportedVersion(supportedVersion),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	return dump(ctx, out, stream, cfg)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `clpir-dump prints the log events of a CLP IR stream.

The input may be an uncompressed IR stream or a zst, gz, tar.gz, zip, xz,
lz4 or s2 container holding one. Each event is printed as one JSON object.

Usage:
  clpir-dump [flags] FILE

Examples:
  # Print every event with its rendered message
  clpir-dump app.clp.zst

  # Print the first 20 events without rendering
  clpir-dump --raw --limit 20 app.clp.zst

  # Summarize the stream
  clpir-dump --stats logs.tar.gz

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
