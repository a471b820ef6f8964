package blob

import (
	"fmt"
	"time"

	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/internal/options"
	"github.com/arloliu/oson/section"
)

// DefaultMaxDepth is the default nesting limit enforced by the OSON decoder.
const DefaultMaxDepth = 4096

// OSONConfig holds the settings shared by OSONEncoder and OSONDecoder.
//
// The same option values configure both sides, so a program can keep one
// option slice for its encode and decode calls.
type OSONConfig struct {
	maxFieldNameSize int
	location         *time.Location
	maxDepth         int
}

// NewOSONConfig returns a config with the default settings: field names up
// to 65535 bytes, calendar fields in time.Local and a nesting limit of
// DefaultMaxDepth.
func NewOSONConfig() *OSONConfig {
	return &OSONConfig{
		maxFieldNameSize: section.MaxLongFieldNameSize,
		location:         time.Local,
		maxDepth:         DefaultMaxDepth,
	}
}

// MaxFieldNameSize returns the longest accepted field name in bytes.
func (c *OSONConfig) MaxFieldNameSize() int {
	return c.maxFieldNameSize
}

// Location returns the calendar zone of plain date and timestamp values.
func (c *OSONConfig) Location() *time.Location {
	return c.location
}

// MaxDepth returns the decoder nesting limit.
func (c *OSONConfig) MaxDepth() int {
	return c.maxDepth
}

func (c *OSONConfig) setMaxFieldNameSize(n int) error {
	switch n {
	case section.MaxShortFieldNameSize, section.MaxLongFieldNameSize:
		c.maxFieldNameSize = n
		return nil
	default:
		return fmt.Errorf("%w: max field name size %d, want %d or %d",
			errs.ErrInvalidValue, n, section.MaxShortFieldNameSize, section.MaxLongFieldNameSize)
	}
}

func (c *OSONConfig) setMaxDepth(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: max depth %d", errs.ErrInvalidValue, n)
	}
	c.maxDepth = n

	return nil
}

// OSONEncoderOption represents a functional option for configuring an OSONEncoder.
type OSONEncoderOption = options.Option[*OSONConfig]

// OSONDecoderOption represents a functional option for configuring an OSONDecoder.
// It is the same type as OSONEncoderOption.
type OSONDecoderOption = options.Option[*OSONConfig]

// WithMaxFieldNameSize limits field names to n bytes. Only 255 and 65535 are
// accepted; with 255 the encoder never writes a long field name segment.
func WithMaxFieldNameSize(n int) OSONEncoderOption {
	return options.New(func(c *OSONConfig) error {
		return c.setMaxFieldNameSize(n)
	})
}

// WithLocation sets the calendar zone used for plain date and timestamp
// values. A nil loc selects time.Local.
func WithLocation(loc *time.Location) OSONEncoderOption {
	return options.NoError(func(c *OSONConfig) {
		c.location = loc
		if c.location == nil {
			c.location = time.Local
		}
	})
}

// WithMaxDepth sets the maximum container nesting the decoder accepts.
func WithMaxDepth(n int) OSONDecoderOption {
	return options.New(func(c *OSONConfig) error {
		return c.setMaxDepth(n)
	})
}
