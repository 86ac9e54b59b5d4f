package sblint

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the validated descriptor: an ordered field-name -> value mapping
// containing only fields accepted by the registry. It is assembled once by
// Validate and immutable afterwards.
type Config struct {
	entries Mapping
}

func (c *Config) set(key string, v any) {
	c.entries = append(c.entries, Entry{Key: key, Value: v})
}

// Get returns the validated value for a field. Absence means the field was
// not present or failed its shape check; callers treat that as policy, not
// as an error.
func (c *Config) Get(key string) (any, bool) { return c.entries.Get(key) }

// Fields returns the accepted field names in source order.
func (c *Config) Fields() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Key
	}
	return out
}

// Len reports the number of accepted fields.
func (c *Config) Len() int { return len(c.entries) }

// ExecFragment returns the named shell fragment from the x_exec block.
func (c *Config) ExecFragment(name string) (string, bool) {
	raw, ok := c.Get("x_exec")
	if !ok {
		return "", false
	}
	m, ok := raw.(Mapping)
	if !ok {
		return "", false
	}
	v, ok := m.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// ExecShell returns the shell declared in x_exec, defaulting to bash.
func (c *Config) ExecShell() string {
	if s, ok := c.ExecFragment("shell"); ok {
		return s
	}
	return "bash"
}

// YAML marshals the config back to normalized YAML, field order preserved,
// prefixed with a generated-by comment. Used for in-place rewrites.
func (c *Config) YAML() ([]byte, error) {
	body, err := yaml.Marshal(c.entries)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return append([]byte("# normalized by sblint v"+Version+"\n"), body...), nil
}

// mappingNode builds an ordered yaml mapping node; nested Mapping values
// recurse, everything else goes through the default encoder.
func mappingNode(m Mapping) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
		v, err := valueNode(e.Value)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, k, v)
	}
	return n, nil
}

func valueNode(v any) (*yaml.Node, error) {
	if m, ok := v.(Mapping); ok {
		return mappingNode(m)
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}
