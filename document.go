package sblint

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one key/value pair of a mapping, in source order.
type Entry struct {
	Key   string
	Value any
}

// Mapping is an ordered mapping that preserves duplicate keys. Nested YAML
// mappings decode into Mapping so that key order and repeats survive for the
// duplicate checks.
type Mapping []Entry

// Get returns the value of the first entry with the given key.
func (m Mapping) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// MarshalYAML renders the mapping in entry order.
func (m Mapping) MarshalYAML() (any, error) { return mappingNode(m) }

// Document is a raw SBUILD descriptor: the top-level entries in source order
// plus the original text, kept for line-number lookup.
type Document struct {
	Entries []Entry
	Source  string
}

// ParseDocument decodes src into a Document. The YAML is decoded through
// yaml.Node so that key order and duplicate keys are preserved; rejecting
// duplicates is the validator's job, not the parser's.
func ParseDocument(src []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("empty document, expected a mapping")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping document")
	}
	entries := make([]Entry, 0, len(top.Content)/2)
	for i := 0; i+1 < len(top.Content); i += 2 {
		entries = append(entries, Entry{Key: top.Content[i].Value, Value: nodeToValue(top.Content[i+1])})
	}
	return &Document{Entries: entries, Source: string(src)}, nil
}

// nodeToValue converts a yaml.Node into plain Go values: Mapping for
// mappings, []any for sequences, and scalars by tag.
func nodeToValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.MappingNode:
		m := make(Mapping, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m = append(m, Entry{Key: n.Content[i].Value, Value: nodeToValue(n.Content[i+1])})
		}
		return m
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			arr = append(arr, nodeToValue(c))
		}
		return arr
	case yaml.AliasNode:
		if n.Alias != nil {
			return nodeToValue(n.Alias)
		}
		return nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!str", "!", "":
			return n.Value
		case "!!null":
			return nil
		case "!!bool":
			if n.Value == "true" {
				return true
			}
			if n.Value == "false" {
				return false
			}
			return n.Value
		case "!!int":
			if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
				return i
			}
			return n.Value
		case "!!float":
			if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
				return f
			}
			return n.Value
		default:
			return n.Value
		}
	default:
		return nil
	}
}

// LineOf returns the 1-based line of the nth textual occurrence of key
// (nth is 1-based) in the original source, or 0 when not found. Locations
// are recovered by key search over the text, so they follow what the author
// wrote rather than what the parser resolved.
func (d *Document) LineOf(key string, nth int) int {
	if nth < 1 {
		nth = 1
	}
	seen, last := 0, 0
	for i, line := range strings.Split(d.Source, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), key+":") {
			seen++
			last = i + 1
			if seen == nth {
				return last
			}
		}
	}
	// Fewer textual matches than sightings (flow-style mappings collapse onto
	// one line); fall back to the last match.
	return last
}
