package blog

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// FrontMatter is the typed metadata block of a post. The known fields cover
// everything the site reads; anything else found in a stored document is kept
// in Extra, in document order, so a decode/encode cycle never drops or
// re-types data.
type FrontMatter struct {
	Title   string
	Date    string // ISO 8601 date, e.g. "2024-01-31"
	Summary string
	Tags    []string
	Draft   bool

	// Extra holds unknown front matter fields in their original order.
	Extra []ExtraField
}

// ExtraField is a single unknown front matter key/value pair.
type ExtraField struct {
	Key   string
	Value any
}

// DecodeDocument splits a raw document into its front matter and body. A
// document with no leading metadata block decodes to an empty FrontMatter and
// the raw input as body. An opened-but-unterminated block, or a block that is
// not valid YAML, fails with a *ParseError.
func DecodeDocument(raw []byte) (*FrontMatter, string, error) {
	data := bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	if !bytes.HasPrefix(data, []byte(frontMatterDelim+"\n")) &&
		!bytes.HasPrefix(data, []byte(frontMatterDelim+"\r\n")) {
		return &FrontMatter{}, string(raw), nil
	}

	rest := data[bytes.IndexByte(data, '\n')+1:]
	block, body, ok := cutFrontMatterBlock(rest)
	if !ok {
		return nil, "", &ParseError{Msg: "unterminated front matter block"}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, "", &ParseError{Msg: err.Error()}
	}

	fm := &FrontMatter{}
	if len(doc.Content) > 0 {
		if err := fm.fromNode(doc.Content[0]); err != nil {
			return nil, "", err
		}
	}

	// Exactly one line terminator separates the closing delimiter from the
	// body; it belongs to the document framing, not the body itself.
	if after, ok := strings.CutPrefix(body, "\r\n"); ok {
		body = after
	} else {
		body = strings.TrimPrefix(body, "\n")
	}
	return fm, body, nil
}

// cutFrontMatterBlock finds the closing delimiter line in rest and returns the
// YAML block and everything after the delimiter line.
func cutFrontMatterBlock(rest []byte) (block []byte, body string, ok bool) {
	for i := 0; i <= len(rest); {
		lineEnd := bytes.IndexByte(rest[i:], '\n')
		var line []byte
		if lineEnd < 0 {
			line = rest[i:]
			lineEnd = len(rest) - i
		} else {
			line = rest[i : i+lineEnd]
		}
		if string(bytes.TrimRight(line, "\r")) == frontMatterDelim {
			return rest[:i], string(rest[min(i+lineEnd+1, len(rest)):]), true
		}
		if i+lineEnd >= len(rest) {
			break
		}
		i += lineEnd + 1
	}
	return nil, "", false
}

// fromNode fills the front matter from a YAML mapping node, preserving the
// document order of unknown keys.
func (fm *FrontMatter) fromNode(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &ParseError{Msg: fmt.Sprintf("front matter is not a mapping (got %s)", nodeKind(node))}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return &ParseError{Msg: fmt.Sprintf("front matter key: %v", err)}
		}
		if err := fm.setField(key, valNode); err != nil {
			return err
		}
	}
	return nil
}

func (fm *FrontMatter) setField(key string, val *yaml.Node) error {
	switch key {
	case "title":
		return decodeScalarString(key, val, &fm.Title)
	case "date":
		var raw string
		if err := decodeScalarString(key, val, &raw); err != nil {
			return err
		}
		fm.Date = normalizeDate(raw)
		return nil
	case "summary":
		return decodeScalarString(key, val, &fm.Summary)
	case "tags":
		return decodeTags(val, &fm.Tags)
	case "draft":
		var b bool
		if err := val.Decode(&b); err != nil {
			// tolerate "true"/"false" stored as strings
			var s string
			if serr := val.Decode(&s); serr != nil {
				return &ParseError{Msg: fmt.Sprintf("draft: %v", err)}
			}
			b = strings.EqualFold(strings.TrimSpace(s), "true")
		}
		fm.Draft = b
		return nil
	default:
		var v any
		if err := val.Decode(&v); err != nil {
			return &ParseError{Msg: fmt.Sprintf("%s: %v", key, err)}
		}
		fm.Extra = append(fm.Extra, ExtraField{Key: key, Value: v})
		return nil
	}
}

func decodeScalarString(key string, val *yaml.Node, out *string) error {
	if err := val.Decode(out); err != nil {
		// dates and similar scalars may resolve to non-string tags; fall back
		// to the literal scalar value
		if val.Kind == yaml.ScalarNode {
			*out = val.Value
			return nil
		}
		return &ParseError{Msg: fmt.Sprintf("%s: %v", key, err)}
	}
	return nil
}

// decodeTags accepts either a YAML sequence of strings or a single
// comma-separated scalar. An empty set decodes to nil.
func decodeTags(val *yaml.Node, out *[]string) error {
	var tags []string
	if err := val.Decode(&tags); err != nil {
		var s string
		if serr := val.Decode(&s); serr != nil {
			return &ParseError{Msg: fmt.Sprintf("tags: %v", err)}
		}
		tags = SplitTags(s)
	}
	if len(tags) == 0 {
		tags = nil
	}
	*out = tags
	return nil
}

// SplitTags parses a comma-separated tag string: entries are trimmed and
// empty ones dropped. Returns nil for no tags.
func SplitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// normalizeDate coerces a stored date value to the canonical ISO form when it
// is recognizable; otherwise the original value is kept verbatim.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", raw); err == nil {
		return raw
	}
	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.Format("2006-01-02")
	}
	return raw
}

// EncodeDocument serializes the front matter and body into a document that
// DecodeDocument reproduces exactly. Known fields are written in a fixed
// order, extra fields after them in their recorded order, so encoding the
// same post twice yields byte-identical output.
func EncodeDocument(fm *FrontMatter, body string) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	if err := appendMapEntry(root, "title", fm.Title); err != nil {
		return nil, err
	}
	if err := appendMapEntry(root, "date", fm.Date); err != nil {
		return nil, err
	}
	if err := appendMapEntry(root, "summary", fm.Summary); err != nil {
		return nil, err
	}
	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}
	if err := appendMapEntry(root, "tags", tags); err != nil {
		return nil, err
	}
	if err := appendMapEntry(root, "draft", fm.Draft); err != nil {
		return nil, err
	}
	for _, f := range fm.Extra {
		if err := appendMapEntry(root, f.Key, f.Value); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	buf.WriteString(frontMatterDelim + "\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
	}
	return buf.Bytes(), nil
}

func appendMapEntry(m *yaml.Node, key string, value any) error {
	var keyNode, valNode yaml.Node
	if err := keyNode.Encode(key); err != nil {
		return fmt.Errorf("encode key %q: %w", key, err)
	}
	if err := valNode.Encode(value); err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	// keep empty sequences inline ([]) rather than a dangling block
	if valNode.Kind == yaml.SequenceNode && len(valNode.Content) == 0 {
		valNode.Style = yaml.FlowStyle
	}
	m.Content = append(m.Content, &keyNode, &valNode)
	return nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "document"
	}
}
