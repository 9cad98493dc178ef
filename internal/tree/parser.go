package tree

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

// envelopeKey marks a document as an envelope rather than a bare tree.
const envelopeKey = "treeforge"

// SupportedVersions is the semver constraint envelope versions must meet.
const SupportedVersions = "^1"

// Parse decodes a YAML or JSON layout document. Any structural problem is
// returned as a *ConfigurationError.
func Parse(data []byte) (*Document, error) {
	root, err := decodeNode(data)
	if err != nil {
		return nil, err
	}

	if issues := checkNode(root, ""); len(issues) > 0 {
		return nil, issueError(issues)
	}

	result, err := validateSchema(root)
	if err != nil {
		return nil, &ConfigurationError{Reason: "schema validation failed", Err: err}
	}
	if !result.Valid {
		return nil, issueError(result.Issues)
	}

	return convertDocument(root)
}

// ParseFile reads a layout document from disk and parses it.
func ParseFile(path string) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading layout %s: %w", path, err)
	}
	return doc, nil
}

// decodeNode unmarshals data and returns the top-level content node.
func decodeNode(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigurationError{Reason: "parsing YAML", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, configErr("", "document is empty")
	}
	return doc.Content[0], nil
}

// checkNode finds what the schema cannot see once YAML is decoded into
// plain values: aliases, which could make the tree share or repeat nodes,
// and duplicate mapping keys.
func checkNode(n *yaml.Node, path string) []ValidationIssue {
	var issues []ValidationIssue
	switch n.Kind {
	case yaml.AliasNode:
		issues = append(issues, ValidationIssue{
			Path:    "/" + path,
			Message: fmt.Sprintf("line %d: aliases are not supported", n.Line),
		})
	case yaml.MappingNode:
		seen := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			p := joinPath(path, key.Value)
			if key.Kind != yaml.ScalarNode {
				issues = append(issues, ValidationIssue{
					Path:    "/" + path,
					Message: fmt.Sprintf("line %d: mapping keys must be plain names", key.Line),
				})
				continue
			}
			if tag := key.ShortTag(); tag == "!!merge" || tag == "!!null" {
				issues = append(issues, ValidationIssue{
					Path:    "/" + path,
					Message: fmt.Sprintf("line %d: %s key %q is not a name", key.Line, tag, key.Value),
				})
				continue
			}
			if line, dup := seen[key.Value]; dup {
				issues = append(issues, ValidationIssue{
					Path:    "/" + p,
					Message: fmt.Sprintf("line %d: %q already defined at line %d", key.Line, key.Value, line),
				})
				continue
			}
			seen[key.Value] = key.Line
			issues = append(issues, checkNode(val, p)...)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			issues = append(issues, checkNode(item, fmt.Sprintf("%s/%d", path, i))...)
		}
	}
	return issues
}

// issueError folds validation issues into a single ConfigurationError
// anchored at the most specific one. A oneOf over node kinds reports a type
// mismatch for every branch, so the deepest issue names the offending entry,
// and among issues at the same path a non-type keyword names the rule that
// the matching branch broke.
func issueError(issues []ValidationIssue) *ConfigurationError {
	first := issues[0]
	for _, issue := range issues[1:] {
		if moreSpecific(issue, first) {
			first = issue
		}
	}
	reason := first.Message
	if len(issues) > 1 {
		reason = printer.Sprintf("%s (and %d more)", reason, len(issues)-1)
	}
	return &ConfigurationError{Path: strings.TrimPrefix(first.Path, "/"), Reason: reason}
}

func moreSpecific(a, b ValidationIssue) bool {
	if len(a.Path) != len(b.Path) {
		return len(a.Path) > len(b.Path)
	}
	return b.Keyword == "type" && a.Keyword != "type"
}

// convertDocument turns a schema-valid node into a Document.
func convertDocument(root *yaml.Node) (*Document, error) {
	if root.Kind != yaml.MappingNode {
		return nil, configErr("", "top level must be a mapping, got %s", root.ShortTag())
	}

	doc := &Document{}
	treeNode := root
	if version := mappingValue(root, envelopeKey); version != nil {
		if err := checkVersion(version.Value); err != nil {
			return nil, err
		}
		doc.Version = version.Value
		if r := mappingValue(root, "root"); r != nil {
			doc.Root = r.Value
		}
		treeNode = mappingValue(root, "tree")
		if treeNode == nil {
			return nil, configErr("", "envelope has no tree")
		}
	}

	entries, err := convertDir(treeNode, "")
	if err != nil {
		return nil, err
	}
	doc.Tree = entries
	return doc, nil
}

// checkVersion verifies that an envelope version is one this build reads.
func checkVersion(raw string) error {
	v, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return &ConfigurationError{Path: envelopeKey, Reason: fmt.Sprintf("bad format version %q", raw), Err: err}
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !c.Check(v) {
		return configErr(envelopeKey, "format version %s is not supported (want %s)", v, SupportedVersions)
	}
	return nil
}

func convertDir(m *yaml.Node, path string) ([]Entry, error) {
	if m.Kind != yaml.MappingNode {
		return nil, configErr(path, "expected a mapping, got %s", m.ShortTag())
	}

	entries := make([]Entry, 0, len(m.Content)/2)
	seen := make(map[string]bool, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		name := key.Value
		p := joinPath(path, name)

		if err := ValidateName(name); err != nil {
			return nil, &ConfigurationError{Path: p, Reason: "bad entry name", Err: err}
		}
		if seen[name] {
			return nil, configErr(p, "duplicate name %q", name)
		}
		seen[name] = true

		node, err := convertNode(val, p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: name, Node: node})
	}
	return entries, nil
}

func convertNode(n *yaml.Node, path string) (*Node, error) {
	switch n.Kind {
	case yaml.MappingNode:
		children, err := convertDir(n, path)
		if err != nil {
			return nil, err
		}
		return Dir(children...), nil

	case yaml.SequenceNode:
		names := make([]string, 0, len(n.Content))
		for i, item := range n.Content {
			if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
				return nil, configErr(fmt.Sprintf("%s[%d]", path, i), "file names must be strings, got %s", item.ShortTag())
			}
			names = append(names, item.Value)
		}
		if err := validateFileNames(names, path); err != nil {
			return nil, err
		}
		return Files(names...), nil

	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return File(), nil
		}
		return nil, configErr(path, "line %d: %s value is neither a directory, a file list nor an empty file", n.Line, n.ShortTag())

	default:
		return nil, configErr(path, "line %d: unsupported YAML node", n.Line)
	}
}

// mappingValue returns the value stored under key in a mapping node.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
