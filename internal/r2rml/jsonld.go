package r2rml

import (
	"encoding/json"
	"fmt"
)

// parseJSONLD parses the restricted flavor of JSON-LD R2RML documents use in
// practice: a top-level array (or single object) of node objects, an
// "@context" mapping terms to full IRIs, "@id"/"@type" for subject/rdf:type,
// and otherwise plain term: value-or-object(-array) properties. Nested
// objects without "@id" become anonymous blank nodes, mirroring Turtle's
// `[ ... ]` property lists.
func parseJSONLD(src string) (*tripleStore, error) {
	var doc any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON-LD: %w", err)
	}

	store := newTripleStore()
	context := map[string]string{}
	blankCounter := 0
	freshBlank := func() node {
		blankCounter++
		return blankNode(fmt.Sprintf("_b%d", blankCounter))
	}

	// resolveTerm expands a JSON-LD term or compact IRI against the
	// document's @context, falling back to the bare term if it already
	// looks like a full IRI.
	resolveTerm := func(term string) string {
		if expanded, ok := context[term]; ok {
			return expanded
		}
		return expandCompact(term, context)
	}

	var walkNode func(v any) (node, error)

	walkValue := func(prop string, v any) ([]statement, error) {
		var stmts []statement
		switch val := v.(type) {
		case []any:
			for _, item := range val {
				n, err := walkNode(item)
				if err != nil {
					return nil, err
				}
				stmts = append(stmts, statement{predicate: prop, object: n})
			}
		default:
			n, err := walkNode(val)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, statement{predicate: prop, object: n})
		}
		return stmts, nil
	}

	walkNode = func(v any) (node, error) {
		switch val := v.(type) {
		case string:
			// A string that expands via a registered @context prefix (e.g.
			// "ex:Person") is a compact IRI reference, not a literal value;
			// anything else (plain strings, full "scheme://..." IRIs with
			// no matching prefix) stays a literal.
			if expanded, ok := expandIfCompact(val, context); ok {
				return iriNode(expanded), nil
			}
			return literalNode(val), nil
		case map[string]any:
			if ctx, ok := val["@context"].(map[string]any); ok {
				for k, v := range ctx {
					if s, ok := v.(string); ok {
						context[k] = s
					}
				}
			}
			var subject node
			if id, ok := val["@id"].(string); ok {
				subject = iriNode(resolveTerm(id))
			} else {
				subject = freshBlank()
			}
			if typ, ok := val["@type"].(string); ok {
				store.add(subject, rdfType, iriNode(resolveTerm(typ)))
			}
			for key, propVal := range val {
				if key == "@id" || key == "@type" || key == "@context" {
					continue
				}
				predicate := resolveTerm(key)
				stmts, err := walkValue(predicate, propVal)
				if err != nil {
					return node{}, err
				}
				for _, st := range stmts {
					store.add(subject, st.predicate, st.object)
				}
			}
			return subject, nil
		default:
			return node{}, fmt.Errorf("unsupported JSON-LD node value %T", v)
		}
	}

	switch top := doc.(type) {
	case []any:
		for _, item := range top {
			if _, err := walkNode(item); err != nil {
				return nil, err
			}
		}
	case map[string]any:
		if graph, ok := top["@graph"].([]any); ok {
			if ctx, ok := top["@context"].(map[string]any); ok {
				for k, v := range ctx {
					if s, ok := v.(string); ok {
						context[k] = s
					}
				}
			}
			for _, item := range graph {
				if _, err := walkNode(item); err != nil {
					return nil, err
				}
			}
		} else if _, err := walkNode(top); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("expected a JSON-LD document, got %T", doc)
	}

	return store, nil
}

// expandCompact expands a "prefix:local" compact IRI using the @context's
// prefix definitions, or returns the term unchanged if it carries no colon
// or isn't a registered prefix.
func expandCompact(term string, context map[string]string) string {
	if expanded, ok := expandIfCompact(term, context); ok {
		return expanded
	}
	return term
}

// expandIfCompact expands term if its prefix is registered in context,
// reporting ok=false otherwise (including terms with no colon at all).
func expandIfCompact(term string, context map[string]string) (string, bool) {
	for i := 0; i < len(term); i++ {
		if term[i] == ':' {
			prefix, local := term[:i], term[i+1:]
			if ns, ok := context[prefix]; ok {
				return ns + local, true
			}
			return "", false
		}
	}
	return "", false
}
