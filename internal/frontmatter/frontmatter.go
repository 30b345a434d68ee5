// Package frontmatter reads and writes the YAML metadata block at the top
// of a Markdown page.
//
// A block starts with a "---" line at the very top of the payload and ends
// at the next "---" line. Keys this package does not know are kept in
// FrontMatter.Extra and written back unchanged.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/verilib/internal/errors"
)

// Marker delimits the metadata block.
const Marker = "---"

// Display controls whether and how a page is published.
type Display string

const (
	// DisplayVisible publishes the page and links it (default).
	DisplayVisible Display = "visible"
	// DisplayHidden publishes the page without linking it from other pages.
	DisplayHidden Display = "hidden"
	// DisplayNoIndex publishes the page without listing it on the index.
	DisplayNoIndex Display = "no-index"
	// DisplayNever does not publish the page.
	DisplayNever Display = "never"
)

// IsValid reports whether d is a known mode. The empty mode is valid and
// means visible.
func (d Display) IsValid() bool {
	switch d {
	case "", DisplayVisible, DisplayHidden, DisplayNoIndex, DisplayNever:
		return true
	}
	return false
}

// UnmarshalYAML rejects unknown display modes.
func (d *Display) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if !Display(s).IsValid() {
		return fmt.Errorf("line %d: unknown display %q (want visible, hidden, no-index or never)", node.Line, s)
	}
	*d = Display(s)
	return nil
}

// FrontMatter is the metadata block of a page.
type FrontMatter struct {
	Display         Display  `yaml:"display,omitempty"`
	Title           string   `yaml:"title,omitempty"`
	Layout          string   `yaml:"layout,omitempty"`
	DocumentationOf string   `yaml:"documentation_of,omitempty"`
	Data            any      `yaml:"data,omitempty"`
	RedirectFrom    []string `yaml:"redirect_from,omitempty"`
	// Extra holds every key not listed above.
	Extra map[string]any `yaml:",inline"`
}

// Split separates the raw metadata block from the content. found is false
// when the payload has no complete block; content is then the whole payload.
// offset is the byte offset of the first metadata line.
func Split(b []byte) (raw, content []byte, offset int, found bool) {
	first, rest, ok := cutLine(b)
	if !ok && len(first) == 0 {
		return nil, b, 0, false
	}
	if !isMarker(first) {
		return nil, b, 0, false
	}
	offset = len(b) - len(rest)

	pos := offset
	for {
		line, next, more := cutLine(b[pos:])
		if isMarker(line) {
			return b[offset:pos], next, offset, true
		}
		if !more {
			return nil, b, 0, false
		}
		pos = len(b) - len(next)
	}
}

// cutLine splits off the first line of b. The returned line excludes the
// line terminator; more reports whether a terminator was found.
func cutLine(b []byte) (line, rest []byte, more bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

func isMarker(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r")) == Marker
}

// Parse splits b and decodes its metadata block. A payload without a block
// returns a nil FrontMatter and b unchanged. An empty block returns an empty
// FrontMatter.
func Parse(b []byte) (*FrontMatter, []byte, error) {
	raw, content, offset, found := Split(b)
	if !found {
		return nil, b, nil
	}
	fm := &FrontMatter{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fm, content, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, nil, parseError(err, offset)
	}
	if len(node.Content) == 0 {
		return fm, content, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return fm, content, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, nil, parseError(fmt.Errorf("line %d: front matter must be a mapping", root.Line), offset)
	}
	if err := root.Decode(fm); err != nil {
		return nil, nil, parseError(err, offset)
	}
	return fm, content, nil
}

func parseError(err error, offset int) error {
	return errors.WrapWithDetails(errors.EFrontMatter, "invalid front matter: "+err.Error(), err,
		map[string]string{
			"offset": fmt.Sprintf("%d", offset),
			"marker": Marker,
		})
}

// Marshal encodes fm as YAML without markers.
func Marshal(fm *FrontMatter) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, errors.Wrap(errors.EFrontMatter, "failed to encode front matter", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.EFrontMatter, "failed to encode front matter", err)
	}
	return buf.Bytes(), nil
}

// Dump attaches fm to content. A nil fm returns content unchanged.
func Dump(fm *FrontMatter, content []byte) ([]byte, error) {
	if fm == nil {
		return content, nil
	}
	body, err := Marshal(fm)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(body) + len(content) + 2*len(Marker) + 2)
	buf.WriteString(Marker)
	buf.WriteByte('\n')
	buf.Write(body)
	buf.WriteString(Marker)
	buf.WriteByte('\n')
	buf.Write(content)
	return buf.Bytes(), nil
}
