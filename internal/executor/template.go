package executor

import (
	"fmt"
	"strings"

	"github.com/fluree/vg-engine/internal/models"
)

// templateColumns extracts the `{col}` placeholders from an R2RML
// rr:template string, in left-to-right order, so callers can compute the
// column projection spec §4.6.1 step 4 requires before issuing a scan.
func templateColumns(template string) []string {
	var cols []string
	for {
		start := strings.IndexByte(template, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(template[start:], '}')
		if end < 0 {
			break
		}
		cols = append(cols, template[start+1:start+end])
		template = template[start+end+1:]
	}
	return cols
}

// expandTemplate substitutes each `{col}` placeholder in template with
// row's value for that column, producing the subject/object IRI the
// template describes (spec §4.6.1 step 6, R2RML rr:template semantics).
func expandTemplate(template string, row Row) (string, error) {
	var b strings.Builder
	rest := template
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated template placeholder in %q", template)
		}
		col := rest[start+1 : start+end]
		v, ok := row[col]
		if !ok {
			return "", fmt.Errorf("template column %q absent from row", col)
		}
		b.WriteString(fmt.Sprint(v))
		rest = rest[start+end+1:]
	}
	return b.String(), nil
}

// reverseTemplate inverts expandTemplate: given an rr:template string and
// an IRI produced from it, recovers each `{col}` placeholder's value by
// matching the template's literal segments against value in order. It
// fails (ok=false) when value doesn't match the template's literal
// structure, or when two placeholders are adjacent with no literal
// separator to anchor the split on.
func reverseTemplate(template, value string) (cols map[string]string, ok bool) {
	names := templateColumns(template)
	if len(names) == 0 {
		return nil, value == template
	}

	var literals []string
	rest := template
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			literals = append(literals, rest)
			break
		}
		literals = append(literals, rest[:start])
		end := strings.IndexByte(rest[start:], '}')
		rest = rest[start+end+1:]
	}

	if !strings.HasPrefix(value, literals[0]) {
		return nil, false
	}
	value = value[len(literals[0]):]

	out := make(map[string]string, len(names))
	for i, col := range names {
		sep := literals[i+1]
		if sep == "" {
			if i != len(names)-1 {
				return nil, false
			}
			out[col] = value
			value = ""
			continue
		}
		idx := strings.Index(value, sep)
		if idx < 0 {
			return nil, false
		}
		out[col] = value[:idx]
		value = value[idx+len(sep):]
	}
	if value != "" {
		return nil, false
	}
	return out, true
}

// termFromColumn binds a scanned column value into an RDF term, applying
// the object map's datatype hint if present or inferring one from the
// row value's Go type otherwise (spec §4.6.1 step 6: "coerced to RDF term
// via the datatype hint or inferred type").
func termFromColumn(value any, datatype string) models.Term {
	if value == nil {
		return models.Term{}
	}
	if datatype != "" {
		return models.NewLiteral(fmt.Sprint(value), datatype)
	}
	switch v := value.(type) {
	case string:
		return models.NewLiteral(v, "")
	case bool:
		return models.NewLiteral(fmt.Sprint(v), "http://www.w3.org/2001/XMLSchema#boolean")
	case int, int32, int64:
		return models.NewLiteral(fmt.Sprint(v), "http://www.w3.org/2001/XMLSchema#integer")
	case float32, float64:
		return models.NewLiteral(fmt.Sprint(v), "http://www.w3.org/2001/XMLSchema#double")
	default:
		return models.NewLiteral(fmt.Sprint(v), "")
	}
}
