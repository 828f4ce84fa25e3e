package markers

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/fixkit/fixkit/internal/errors"
)

// TagParser parses the fixkit struct-tag micro-grammar using
// alecthomas/participle, e.g. `spy`, `spy,inject`, `spy,name=db`.
type TagParser struct {
	parser *participle.Parser[tagSpec]
}

// tagSpec represents the root of a parsed fixkit tag
type tagSpec struct {
	Items []*tagItem `parser:"(@@ (',' @@)*)?"`
}

// tagItem is a single marker ident or key=value parameter
type tagItem struct {
	Key   string  `parser:"@Ident"`
	Value *string `parser:"('=' @(Ident | String | Number))?"`
}

// ParsedTag is the result of parsing one member's fixkit tag
type ParsedTag struct {
	Markers Set               // marker kinds present on the member
	Params  map[string]string // named parameters such as name=db
	Raw     string            // original tag text
}

// NewTagParser creates a new tag parser
func NewTagParser() *TagParser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
		{Name: "Punct", Pattern: `[,=]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser := participle.MustBuild[tagSpec](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
	)

	return &TagParser{parser: parser}
}

// ParseTag parses a fixkit tag value into its marker set and parameters
func (p *TagParser) ParseTag(tag string) (*ParsedTag, error) {
	parsed := &ParsedTag{
		Markers: NewSet(),
		Params:  make(map[string]string),
		Raw:     tag,
	}
	if strings.TrimSpace(tag) == "" {
		return parsed, nil
	}

	spec, err := p.parser.ParseString("", tag)
	if err != nil {
		return nil, errors.Wrapf(errors.IntrospectionErrorCode, err, "invalid fixkit tag '%s'", tag)
	}

	for _, item := range spec.Items {
		if item.Value != nil {
			parsed.Params[item.Key] = unquote(*item.Value)
			continue
		}

		kind, err := ParseKind(item.Key)
		if err != nil {
			return nil, errors.Newf(errors.IntrospectionErrorCode, "unknown marker '%s' in fixkit tag '%s'", item.Key, tag).
				WithSuggestion("valid markers are: spy, mock, captor, inject")
		}
		if parsed.Markers.Has(kind) {
			return nil, errors.Newf(errors.IntrospectionErrorCode, "duplicate marker '%s' in fixkit tag '%s'", kind, tag)
		}
		parsed.Markers.kinds[kind] = struct{}{}
	}

	return parsed, nil
}

// unquote strips surrounding double quotes from tag string values
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' {
		if unquoted, err := strconv.Unquote(s); err == nil {
			return unquoted
		}
	}
	return s
}
