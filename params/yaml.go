package params

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML 从 YAML 映射节点解码参数树
func (t *Tree) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("参数树第 %d 行: %w", node.Line, err)
	}
	tree, err := TreeFromMap(raw)
	if err != nil {
		return fmt.Errorf("参数树第 %d 行: %w", node.Line, err)
	}
	*t = tree
	return nil
}

// MarshalYAML 编码为 YAML
func (t Tree) MarshalYAML() (any, error) {
	return t.toAny(), nil
}

func (t Tree) toAny() map[string]any {
	out := make(map[string]any, len(t))
	for k, v := range t {
		out[k] = v.toAny()
	}
	return out
}

func (v Value) toAny() any {
	switch v.kind {
	case KindScalar:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.flag
	case KindSequence:
		items := make([]any, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.toAny()
		}
		return items
	case KindMapping:
		return v.tree.toAny()
	}
	return nil
}
