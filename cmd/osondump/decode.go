package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"

	"github.com/arloliu/oson"
	"github.com/arloliu/oson/blob"
	"github.com/arloliu/oson/compress"
	"github.com/arloliu/oson/value"
)

func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("osondump decode", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	opts.addCommonFlags(flagSet)
	flagSet.StringVarP(&opts.output, "output", "o", "json", "render as json, yaml or cbor (diagnostic notation)")
	flagSet.BoolVarP(&opts.compact, "compact", "c", false, "single-line JSON output")
	flagSet.BoolVar(&opts.digest, "digest", false, "log the BLAKE3 digest of the image")

	ok, err := parseFlags(flagSet, args)
	if !ok {
		return err
	}

	render, err := rendererFor(opts.output)
	if err != nil {
		return err
	}

	logger := opts.logger(stderr)

	image, err := loadImage(&opts, stdin, logger)
	if err != nil {
		return err
	}

	if opts.digest {
		sum := blake3.Sum256(image)
		logger.Info("image digest", "blake3", hex.EncodeToString(sum[:]), "size", len(image))
	}

	v, err := decodeImage(image, logger)
	if err != nil {
		return err
	}

	return render(stdout, v, opts.compact)
}

// loadImage reads the input and undoes the hex and compression layers.
func loadImage(opts *options, stdin io.Reader, logger *slog.Logger) ([]byte, error) {
	ct, err := opts.compressionType()
	if err != nil {
		return nil, err
	}

	data, err := readInput(opts.input, stdin)
	if err != nil {
		return nil, err
	}
	if opts.hex {
		if data, err = decodeHex(data); err != nil {
			return nil, err
		}
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, err
	}
	image, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s decompression: %w", ct, err)
	}
	if len(image) == 0 {
		return nil, errors.New("empty input: expected an OSON or VECTOR image")
	}

	logger.Debug("image loaded", "compression", ct, "input_size", len(data), "image_size", len(image))

	return image, nil
}

// decodeImage decodes an OSON or VECTOR image by its magic bytes. Vectors
// are returned as vector values.
func decodeImage(image []byte, logger *slog.Logger) (value.Value, error) {
	kind := oson.DetectImage(image)

	switch kind {
	case oson.ImageOSON:
		decoder, err := blob.NewOSONDecoder(image)
		if err != nil {
			return value.Value{}, err
		}

		v, err := decoder.Decode()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode OSON: %w", err)
		}

		header := decoder.Header()
		logger.Debug("decoded image",
			"kind", kind,
			"version", header.Version,
			"flags", fmt.Sprintf("0x%04x", uint16(header.Flags)),
			"field_names", len(decoder.FieldNames()),
			"tree_size", header.TreeSegSize,
		)

		return v, nil
	case oson.ImageVector:
		vec, err := oson.DecodeVector(image)
		if err != nil {
			return value.Value{}, fmt.Errorf("decode VECTOR: %w", err)
		}

		logger.Debug("decoded image",
			"kind", kind,
			"format", vec.Format,
			"sparse", vec.Sparse,
			"dimensions", vec.Dimensions(),
		)

		return value.FromVector(vec), nil
	default:
		return value.Value{}, fmt.Errorf("unrecognized image: leading bytes % x", image[:min(len(image), 3)])
	}
}
