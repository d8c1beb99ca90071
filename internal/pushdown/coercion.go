package pushdown

import (
	"strconv"
	"time"

	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// XSD datatype IRIs the coercion function recognizes (spec §4.4 step 3:
// "integer, long, float, double, boolean, string, date, timestamp").
const (
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDLong     = "http://www.w3.org/2001/XMLSchema#long"
	XSDFloat    = "http://www.w3.org/2001/XMLSchema#float"
	XSDDouble   = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
	XSDDate     = "http://www.w3.org/2001/XMLSchema#date"
	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
)

// Coerce is the single coercion function spec §9 design notes requires:
// every FILTER and VALUES pushdown path must route through it, so a value
// that can't be coerced fails the same way regardless of which analysis
// produced it. column names the target for the error; schemaHint, when
// non-empty, is used in place of an empty datatype (e.g. a source's
// reported column type, for VALUES literals that carry no RDF datatype).
// A non-empty datatype outside the recognized set is not replaced and
// fails coercion.
func Coerce(column string, value any, datatype, schemaHint string) (any, error) {
	effective := datatype
	if effective == "" {
		effective = schemaHint
	}

	switch effective {
	case XSDInteger, XSDLong:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case float64:
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, srvErrors.NewCoercionFailedError(column, effective, value)
			}
			return n, nil
		}
	case XSDFloat, XSDDouble:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, srvErrors.NewCoercionFailedError(column, effective, value)
			}
			return f, nil
		}
	case XSDBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, srvErrors.NewCoercionFailedError(column, effective, value)
			}
			return b, nil
		}
	case XSDDate:
		if s, ok := value.(string); ok {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return nil, srvErrors.NewCoercionFailedError(column, effective, value)
			}
			return t, nil
		}
		if t, ok := value.(time.Time); ok {
			return t, nil
		}
	case XSDDateTime:
		if s, ok := value.(string); ok {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, srvErrors.NewCoercionFailedError(column, effective, value)
			}
			return t, nil
		}
		if t, ok := value.(time.Time); ok {
			return t, nil
		}
	case XSDString, "":
		switch v := value.(type) {
		case string:
			return v, nil
		}
	}

	return nil, srvErrors.NewCoercionFailedError(column, effective, value)
}
