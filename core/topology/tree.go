package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Node types written to network.json.
const (
	TypeSite = "site"
	TypePlan = "plan"
)

// Node is one shaping hierarchy element.
type Node struct {
	DownloadBandwidthMbps float64
	UploadBandwidthMbps   float64
	Type                  string
	Children              *Tree

	// keys this package does not manage, kept verbatim in file order
	extraKeys []string
	extra     map[string]json.RawMessage
}

// NewNode creates a node with symmetric bandwidth and no children.
func NewNode(bandwidthMbps float64, nodeType string) *Node {
	return &Node{
		DownloadBandwidthMbps: bandwidthMbps,
		UploadBandwidthMbps:   bandwidthMbps,
		Type:                  nodeType,
		Children:              NewTree(),
	}
}

// Tree is an ordered mapping from node name to node. The root of network.json
// is a Tree, and so is every node's children.
type Tree struct {
	names []string
	nodes map[string]*Node
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]*Node)}
}

// Len returns the number of nodes at this level.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Names returns the node names at this level in order.
func (t *Tree) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Get returns the node with the given name at this level.
func (t *Tree) Get(name string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.nodes[name]
	return n, ok
}

// Add appends a node at this level. It returns false if the name is taken.
func (t *Tree) Add(name string, n *Node) bool {
	if _, ok := t.nodes[name]; ok {
		return false
	}
	if n.Children == nil {
		n.Children = NewTree()
	}
	t.names = append(t.names, name)
	t.nodes[name] = n
	return true
}

// Find searches the whole tree depth-first for a node name.
func (t *Tree) Find(name string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	if n, ok := t.nodes[name]; ok {
		return n, true
	}
	for _, k := range t.names {
		if n, ok := t.nodes[k].Children.Find(name); ok {
			return n, true
		}
	}
	return nil, false
}

// MarshalJSON writes the nodes in insertion order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if t != nil {
		for i, name := range t.names {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, name); err != nil {
				return nil, err
			}
			b, err := t.nodes[name].MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", name, err)
			}
			buf.Write(b)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads nodes keeping the file order.
func (t *Tree) UnmarshalJSON(data []byte) error {
	*t = Tree{nodes: make(map[string]*Node)}

	return decodeObject(data, func(key string, raw json.RawMessage) error {
		n := &Node{}
		if err := n.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("node %s: %w", key, err)
		}
		if !t.Add(key, n) {
			return fmt.Errorf("duplicate node name %s", key)
		}
		return nil
	})
}

// MarshalJSON writes the managed keys first, then any preserved ones.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	fields := []struct {
		key   string
		value any
	}{
		{"downloadBandwidthMbps", n.DownloadBandwidthMbps},
		{"uploadBandwidthMbps", n.UploadBandwidthMbps},
		{"type", n.Type},
		{"children", n.Children},
	}
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, f.key); err != nil {
			return nil, err
		}
		b, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}

	for _, k := range n.extraKeys {
		buf.WriteByte(',')
		if err := writeKey(&buf, k); err != nil {
			return nil, err
		}
		buf.Write(n.extra[k])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a node, keeping unmanaged keys for the next write.
func (n *Node) UnmarshalJSON(data []byte) error {
	*n = Node{Children: NewTree()}

	return decodeObject(data, func(key string, raw json.RawMessage) error {
		switch key {
		case "downloadBandwidthMbps":
			return json.Unmarshal(raw, &n.DownloadBandwidthMbps)
		case "uploadBandwidthMbps":
			return json.Unmarshal(raw, &n.UploadBandwidthMbps)
		case "type":
			return json.Unmarshal(raw, &n.Type)
		case "children":
			if string(bytes.TrimSpace(raw)) == "null" {
				return nil
			}
			return n.Children.UnmarshalJSON(raw)
		default:
			if n.extra == nil {
				n.extra = make(map[string]json.RawMessage)
			}
			if _, seen := n.extra[key]; !seen {
				n.extraKeys = append(n.extraKeys, key)
			}
			n.extra[key] = raw
			return nil
		}
	})
}

// decodeObject walks the members of a JSON object in order.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}
