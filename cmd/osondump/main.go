// osondump inspects and produces OSON and VECTOR images.
//
// decode reads an image (raw, hex text, optionally compressed), detects its
// kind from the magic bytes and renders the decoded value as JSON, YAML or
// CBOR diagnostic notation. encode reads a JSON document and writes the
// matching OSON image, or a float64 VECTOR image with --vector.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/arloliu/oson/format"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the flags shared by the subcommands.
type options struct {
	input       string
	hex         bool
	compression string
	output      string
	compact     bool
	digest      bool
	verbose     bool
	vector      bool
}

func (o *options) addCommonFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.input, "input", "i", "", "read from this file instead of stdin")
	flagSet.BoolVar(&o.hex, "hex", false, "image bytes are hex text")
	flagSet.StringVar(&o.compression, "compression", "none", "image compression: none, zstd, s2 or lz4")
	flagSet.BoolVarP(&o.verbose, "verbose", "v", false, "log debug records to stderr")
}

func (o *options) compressionType() (format.CompressionType, error) {
	ct, ok := format.ParseCompressionType(o.compression)
	if !ok {
		return 0, fmt.Errorf("unknown compression %q (want none, zstd, s2 or lz4)", o.compression)
	}

	return ct, nil
}

func (o *options) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errors.New("missing command")
	}

	switch args[0] {
	case "decode":
		return runDecode(args[1:], stdin, stdout, stderr)
	case "encode":
		return runEncode(args[1:], stdin, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// parseFlags parses args into flagSet. The second result is false when help
// was requested and printed.
func parseFlags(flagSet *pflag.FlagSet, args []string) (bool, error) {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}

		return false, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return false, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	return true, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `osondump decodes and encodes OSON and VECTOR images.

Usage:
  osondump decode [--input FILE] [--hex] [--compression none|zstd|s2|lz4]
                  [--output json|yaml|cbor] [--compact] [--digest] [--verbose]
  osondump encode [--input FILE] [--vector] [--hex]
                  [--compression none|zstd|s2|lz4] [--verbose]

decode detects the image kind from its magic bytes: FF 4A 5A for OSON,
DB for VECTOR. encode reads JSON; with --vector the input must be an
array of numbers and a float64 VECTOR image is written.
`)
}
