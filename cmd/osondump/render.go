package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/oson/endian"
	"github.com/arloliu/oson/format"
	"github.com/arloliu/oson/value"
)

type renderFunc func(w io.Writer, v value.Value, compact bool) error

func rendererFor(output string) (renderFunc, error) {
	switch output {
	case "json":
		return renderJSON, nil
	case "yaml":
		return renderYAML, nil
	case "cbor":
		return renderCBOR, nil
	default:
		return nil, fmt.Errorf("unknown output %q (want json, yaml or cbor)", output)
	}
}

// renderJSON writes v as JSON with a trailing newline. Unless compact is
// set the output is indented by two spaces.
func renderJSON(w io.Writer, v value.Value, compact bool) error {
	output, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if !compact {
		var indented bytes.Buffer
		if err := json.Indent(&indented, output, "", "  "); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		output = indented.Bytes()
	}

	_, err = fmt.Fprintln(w, string(output))

	return err
}

// renderYAML writes v as a YAML document. Object field order is kept.
func renderYAML(w io.Writer, v value.Value, _ bool) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(yamlNode(v)); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}

	return encoder.Close()
}

func yamlScalar(tag, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}

// yamlNumber leaves the tag to the resolver, so "1" stays an integer and
// "1.5" a float without an explicit tag in the output.
func yamlNumber(text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: text}
}

func yamlNode(v value.Value) *yaml.Node {
	switch v.Kind() {
	case value.KindNull:
		return yamlScalar("!!null", "null")
	case value.KindBool:
		return yamlScalar("!!bool", strconv.FormatBool(v.AsBool()))
	case value.KindNumber:
		return yamlNumber(v.AsNumber())
	case value.KindFloat32:
		return yamlNumber(yamlFloat(float64(v.AsFloat32()), 32))
	case value.KindFloat64:
		return yamlNumber(yamlFloat(v.AsFloat64(), 64))
	case value.KindString:
		return yamlScalar("!!str", v.AsString())
	case value.KindBytes:
		return yamlScalar("!!binary", base64.StdEncoding.EncodeToString(v.AsBytes()))
	case value.KindDateTime:
		return yamlScalar("!!timestamp", v.AsTime().Format(time.RFC3339Nano))
	case value.KindID:
		return yamlScalar("!!str", hex.EncodeToString(v.AsBytes()))
	case value.KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.Elements() {
			node.Content = append(node.Content, yamlNode(e))
		}

		return node
	case value.KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.Fields() {
			node.Content = append(node.Content, yamlScalar("!!str", f.Name), yamlNode(f.Value))
		}

		return node
	case value.KindVector:
		return yamlVector(v.AsVector())
	default:
		return yamlScalar("!!null", "null")
	}
}

func yamlFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, bitSize)
	}
}

func yamlVector(vec value.Vector) *yaml.Node {
	bitSize := 64
	if vec.Format == format.VectorFloat32 {
		bitSize = 32
	}

	elems := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, f := range vec.Float64s() {
		elems.Content = append(elems.Content, yamlNumber(yamlFloat(f, bitSize)))
	}
	if !vec.Sparse {
		return elems
	}

	indices := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, idx := range vec.Indices {
		indices.Content = append(indices.Content, yamlScalar("!!int", strconv.FormatUint(uint64(idx), 10)))
	}

	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
		yamlScalar("!!str", "numDimensions"), yamlScalar("!!int", strconv.FormatUint(uint64(vec.NumDimensions), 10)),
		yamlScalar("!!str", "indices"), indices,
		yamlScalar("!!str", "values"), elems,
	}}
}

// cborEncMode writes date-times as tag 0 RFC 3339 strings.
var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.EncOptions{
		Time:    cbor.TimeRFC3339Nano,
		TimeTag: cbor.EncTagRequired,
	}.EncMode()
	if err != nil {
		panic("osondump: cbor encoder initialization failed: " + err.Error())
	}
}

// renderCBOR writes v as CBOR diagnostic notation.
func renderCBOR(w io.Writer, v value.Value, _ bool) error {
	data, err := cborEncMode.Marshal(cborValue{v})
	if err != nil {
		return fmt.Errorf("encode CBOR: %w", err)
	}

	notation, err := cbor.Diagnose(data)
	if err != nil {
		return fmt.Errorf("diagnose CBOR: %w", err)
	}

	_, err = fmt.Fprintln(w, notation)

	return err
}

// cborValue marshals a value tree keeping object field order. Numbers are
// written as integers when they fit and as tag 4 decimal fractions otherwise.
type cborValue struct {
	v value.Value
}

const (
	cborMajorArray = 4
	cborMajorMap   = 5
)

func (c cborValue) MarshalCBOR() ([]byte, error) {
	v := c.v

	switch v.Kind() {
	case value.KindNull:
		return cborEncMode.Marshal(nil)
	case value.KindBool:
		return cborEncMode.Marshal(v.AsBool())
	case value.KindNumber:
		return marshalCBORNumber(v)
	case value.KindFloat32:
		return cborEncMode.Marshal(v.AsFloat32())
	case value.KindFloat64:
		return cborEncMode.Marshal(v.AsFloat64())
	case value.KindString:
		return cborEncMode.Marshal(v.AsString())
	case value.KindBytes, value.KindID:
		return cborEncMode.Marshal(v.AsBytes())
	case value.KindDateTime:
		return cborEncMode.Marshal(v.AsTime())
	case value.KindArray:
		elems := v.Elements()
		out := appendCBORHead(nil, cborMajorArray, uint64(len(elems)))
		for _, e := range elems {
			b, err := cborValue{e}.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}

		return out, nil
	case value.KindObject:
		fields := v.Fields()
		out := appendCBORHead(nil, cborMajorMap, uint64(len(fields)))
		for _, f := range fields {
			key, err := cborEncMode.Marshal(f.Name)
			if err != nil {
				return nil, err
			}
			b, err := cborValue{f.Value}.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			out = append(append(out, key...), b...)
		}

		return out, nil
	case value.KindVector:
		return marshalCBORVector(v.AsVector())
	default:
		return nil, fmt.Errorf("cbor: unsupported kind %s", v.Kind())
	}
}

func marshalCBORNumber(v value.Value) ([]byte, error) {
	if i, err := strconv.ParseInt(v.AsNumber(), 10, 64); err == nil {
		return cborEncMode.Marshal(i)
	}

	d, err := v.AsDecimal()
	if err != nil {
		return nil, fmt.Errorf("cbor: number %q: %w", v.AsNumber(), err)
	}

	mantissa := new(big.Int).Set(&d.Coeff)
	if d.Negative {
		mantissa.Neg(mantissa)
	}

	return cborEncMode.Marshal(cbor.Tag{Number: 4, Content: []any{int64(d.Exponent), mantissa}})
}

func marshalCBORVector(vec value.Vector) ([]byte, error) {
	var elems any
	switch vec.Format {
	case format.VectorFloat32:
		elems = vec.Float32
	case format.VectorFloat64:
		elems = vec.Float64
	case format.VectorInt8:
		elems = vec.Int8
	default:
		elems = vec.Binary
	}
	if !vec.Sparse {
		return cborEncMode.Marshal(elems)
	}

	out := appendCBORHead(nil, cborMajorMap, 3)
	for _, kv := range []struct {
		key string
		val any
	}{
		{"numDimensions", vec.NumDimensions},
		{"indices", vec.Indices},
		{"values", elems},
	} {
		key, err := cborEncMode.Marshal(kv.key)
		if err != nil {
			return nil, err
		}
		val, err := cborEncMode.Marshal(kv.val)
		if err != nil {
			return nil, err
		}
		out = append(append(out, key...), val...)
	}

	return out, nil
}

// appendCBORHead appends the initial byte and argument of a CBOR data item.
func appendCBORHead(dst []byte, major byte, n uint64) []byte {
	engine := endian.GetBigEndianEngine()
	major <<= 5

	switch {
	case n < 24:
		return append(dst, major|byte(n))
	case n <= math.MaxUint8:
		return append(dst, major|24, byte(n))
	case n <= math.MaxUint16:
		return engine.AppendUint16(append(dst, major|25), uint16(n))
	case n <= math.MaxUint32:
		return engine.AppendUint32(append(dst, major|26), uint32(n))
	default:
		return engine.AppendUint64(append(dst, major|27), n)
	}
}
