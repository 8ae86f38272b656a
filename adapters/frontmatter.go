package adapters

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoFrontmatter indicates a file that should carry YAML frontmatter but
// does not start with a --- delimited block.
var ErrNoFrontmatter = errors.New("no YAML frontmatter found")

// splitFrontmatter separates a "---\n<yaml>\n---\n<body>" document into its
// decoded frontmatter map and trimmed body.
func splitFrontmatter(content string) (map[string]any, string, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return nil, "", ErrNoFrontmatter
	}

	rest := normalized[len("---\n"):]
	var head, body string
	if idx := strings.Index(rest, "\n---\n"); idx >= 0 {
		head = rest[:idx]
		body = rest[idx+len("\n---\n"):]
	} else if strings.HasSuffix(rest, "\n---") {
		head = strings.TrimSuffix(rest, "\n---")
	} else {
		return nil, "", ErrNoFrontmatter
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return nil, "", fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}
	return meta, strings.TrimSpace(body), nil
}

// frontmatter builds a YAML frontmatter block with stable key order.
// yaml.v3 map marshaling sorts keys, which would scramble the field order
// the target tools expect, so keys are encoded in insertion order instead.
type frontmatter struct {
	keys   []string
	values map[string]any
}

func newFrontmatter() *frontmatter {
	return &frontmatter{values: map[string]any{}}
}

func (f *frontmatter) set(key string, value any) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// render produces the full document: frontmatter block followed by the body.
func (f *frontmatter) render(body string) (string, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range f.keys {
		var kn, vn yaml.Node
		kn.SetString(k)
		if err := vn.Encode(f.values[k]); err != nil {
			return "", fmt.Errorf("failed to encode frontmatter field %q: %w", k, err)
		}
		node.Content = append(node.Content, &kn, &vn)
	}

	out, err := yaml.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	return fmt.Sprintf("---\n%s---\n%s\n", out, body), nil
}

// stringField returns meta[key] as a string, tolerating absent keys.
func stringField(meta map[string]any, key string) string {
	if v, ok := meta[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// toolList normalizes a tools value that may be a comma-separated string or a
// YAML sequence into a slice of tool names.
func toolList(v any) []string {
	switch t := v.(type) {
	case string:
		var tools []string
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tools = append(tools, part)
			}
		}
		return tools
	case []any:
		var tools []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				tools = append(tools, s)
			} else {
				tools = append(tools, fmt.Sprintf("%v", item))
			}
		}
		return tools
	case []string:
		return t
	}
	return nil
}
