package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/arloliu/oson"
	"github.com/arloliu/oson/blob"
	"github.com/arloliu/oson/compress"
	"github.com/arloliu/oson/value"
)

func runEncode(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("osondump encode", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	opts.addCommonFlags(flagSet)
	flagSet.BoolVar(&opts.vector, "vector", false, "write a float64 VECTOR image from a JSON array of numbers")

	ok, err := parseFlags(flagSet, args)
	if !ok {
		return err
	}

	ct, err := opts.compressionType()
	if err != nil {
		return err
	}

	logger := opts.logger(stderr)

	input, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}
	doc, err := value.FromJSON(input)
	if err != nil {
		return fmt.Errorf("parse JSON input: %w", err)
	}

	var image []byte
	if opts.vector {
		vec, err := vectorFromJSON(doc)
		if err != nil {
			return err
		}
		image, err = oson.EncodeVector(vec)
		if err != nil {
			return fmt.Errorf("encode VECTOR: %w", err)
		}
	} else {
		encoder, err := blob.NewOSONEncoder()
		if err != nil {
			return err
		}
		image, err = encoder.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode OSON: %w", err)
		}
		logger.Debug("field names collected",
			"count", encoder.FieldNameCount(),
			"hash_collision", encoder.HasNameCollision(),
		)
	}

	out, stats, err := compress.CompressWithStats(ct, image)
	if err != nil {
		return err
	}
	logger.Debug("image encoded",
		"kind", oson.DetectImage(image),
		"compression", stats.Algorithm,
		"image_size", stats.OriginalSize,
		"output_size", stats.CompressedSize,
		"space_savings", fmt.Sprintf("%.1f%%", stats.SpaceSavings()),
	)

	if opts.hex {
		_, err = fmt.Fprintln(stdout, hex.EncodeToString(out))
		return err
	}

	_, err = stdout.Write(out)

	return err
}

// vectorFromJSON converts a JSON array of numbers into a float64 vector.
func vectorFromJSON(doc value.Value) (value.Vector, error) {
	if doc.Kind() != value.KindArray {
		return value.Vector{}, fmt.Errorf("--vector input must be a JSON array, got %s", doc.Kind())
	}

	elems := doc.Elements()
	vals := make([]float64, len(elems))
	for i, e := range elems {
		if e.Kind() != value.KindNumber {
			return value.Vector{}, fmt.Errorf("--vector element %d is %s, not a number", i, e.Kind())
		}

		d, err := e.AsDecimal()
		if err != nil {
			return value.Vector{}, fmt.Errorf("--vector element %d: %w", i, err)
		}
		if vals[i], err = d.Float64(); err != nil {
			return value.Vector{}, fmt.Errorf("--vector element %d: %w", i, err)
		}
	}

	return value.Float64Vector(vals), nil
}
