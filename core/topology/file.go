package topology

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"shaper-sync/core/utils"
)

// Load reads network.json. A missing or empty file is an empty tree.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewTree(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read topology %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewTree(), nil
	}

	tree := NewTree()
	if err := json.Unmarshal(data, tree); err != nil {
		return nil, fmt.Errorf("failed to parse topology %s: %w", path, err)
	}
	return tree, nil
}

// Encode writes the tree with 4-space indentation.
func Encode(w io.Writer, tree *Tree) error {
	data, err := json.MarshalIndent(tree, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Save writes network.json atomically.
func Save(path string, tree *Tree) error {
	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, tree)
	})
}
