package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalidDocument is returned when a decoded document fails validation.
var ErrInvalidDocument = errors.New("invalid document")

// FormatFromPath picks YAML for .yaml/.yml paths and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat accepts "json" or "yaml" (case-insensitive); empty selects fallback.
func ParseFormat(s string, fallback Format) (Format, error) {
	switch strings.ToLower(s) {
	case "":
		return fallback, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown document format %q", s)
	}
}

// Decode reads and validates a document.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml document: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json document: %w", err)
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode writes a document.
func Encode(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateBaseRequest, BaseRequest{})
	v.RegisterStructValidation(validateStatRequest, StatRequest{})
	return v
}

// Validate checks field ranges and the fields each request kind needs.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}

func validateBaseRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(BaseRequest)
	switch req.Type {
	case KindStop:
		validateCoord(sl, req.Latitude, req.Longitude)
	case KindBus:
		if len(req.Stops) == 0 {
			sl.ReportError(req.Stops, "Stops", "stops", "required", "")
		}
	}
}

func validateStatRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(StatRequest)
	switch req.Type {
	case KindStop, KindBus:
		if req.Name == "" {
			sl.ReportError(req.Name, "Name", "name", "required", "")
		}
	case KindRoute:
		if req.From == "" {
			sl.ReportError(req.From, "From", "from", "required", "")
		}
		if req.To == "" {
			sl.ReportError(req.To, "To", "to", "required", "")
		}
	case KindNearby:
		validateCoord(sl, req.Latitude, req.Longitude)
		if req.Radius <= 0 {
			sl.ReportError(req.Radius, "Radius", "radius", "gt", "0")
		}
	}
}

func validateCoord(sl validator.StructLevel, lat, lon *float64) {
	switch {
	case lat == nil:
		sl.ReportError(lat, "Latitude", "latitude", "required", "")
	case !(*lat >= -90 && *lat <= 90):
		sl.ReportError(*lat, "Latitude", "latitude", "latitude", "")
	}
	switch {
	case lon == nil:
		sl.ReportError(lon, "Longitude", "longitude", "required", "")
	case !(*lon >= -180 && *lon <= 180):
		sl.ReportError(*lon, "Longitude", "longitude", "longitude", "")
	}
}
