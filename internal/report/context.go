package report

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Context is a string-keyed map that remembers insertion order. Later writes
// for an existing key overwrite the value but keep the original position.
type Context struct {
	keys   []string
	values map[string]interface{}
}

func NewContext() *Context {
	return &Context{
		values: make(map[string]interface{}),
	}
}

func (c *Context) Set(key string, value interface{}) {
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// SetAll merges a plain map. Plain maps carry no order, so keys are applied
// sorted to keep the result deterministic.
func (c *Context) SetAll(m map[string]interface{}) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		c.Set(key, m[key])
	}
}

func (c *Context) Get(key string) (interface{}, bool) {
	value, ok := c.values[key]
	return value, ok
}

func (c *Context) Len() int {
	return len(c.keys)
}

func (c *Context) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

func (c *Context) Clone() *Context {
	clone := NewContext()
	for _, key := range c.keys {
		clone.Set(key, c.values[key])
	}
	return clone
}

// MarshalJSON emits entries in insertion order.
func (c *Context) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		valueJSON, err := json.Marshal(c.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
