// Package params 提供修饰值使用的参数树：标量、字符串、布尔、序列、映射以及"未设置"。
// 未设置表示"使用库缺省值"，不能参与数值计算。
package params

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind 参数值类型
type Kind uint8

// 参数值类型常量定义
const (
	KindUnset    Kind = iota // 未设置
	KindScalar               // 数值
	KindString               // 字符串
	KindBool                 // 布尔
	KindSequence             // 序列
	KindMapping              // 映射
)

// String 类型名称
func (k Kind) String() string {
	return [...]string{"unset", "scalar", "string", "bool", "sequence", "mapping"}[k]
}

// Value 参数值
type Value struct {
	kind Kind
	num  float64
	str  string
	flag bool
	seq  []Value
	tree Tree
}

// Tree 参数树
type Tree map[string]Value

// Unset 未设置
func Unset() Value { return Value{} }

// Scalar 数值
func Scalar(v float64) Value { return Value{kind: KindScalar, num: v} }

// String 字符串
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool 布尔
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Sequence 序列
func Sequence(items ...Value) Value { return Value{kind: KindSequence, seq: items} }

// Floats 数值序列
func Floats(vs []float64) Value {
	items := make([]Value, len(vs))
	for i, v := range vs {
		items[i] = Scalar(v)
	}
	return Sequence(items...)
}

// Mapping 映射
func Mapping(t Tree) Value { return Value{kind: KindMapping, tree: t} }

// Kind 值类型
func (v Value) Kind() Kind { return v.kind }

// IsSet 是否已设置
func (v Value) IsSet() bool { return v.kind != KindUnset }

// Float 取数值，布尔值按 0/1 处理
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindScalar:
		return v.num, true
	case KindBool:
		if v.flag {
			return 1, true
		}
		return 0, true
	}
	return math.NaN(), false
}

// Str 取字符串
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Bool 取布尔
func (v Value) Bool() (bool, bool) { return v.flag, v.kind == KindBool }

// Seq 取序列
func (v Value) Seq() ([]Value, bool) { return v.seq, v.kind == KindSequence }

// Floats 取数值序列
func (v Value) Floats() ([]float64, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	out := make([]float64, len(v.seq))
	for i, item := range v.seq {
		f, ok := item.Float()
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Tree 取映射
func (v Value) Tree() (Tree, bool) { return v.tree, v.kind == KindMapping }

// Equal 深度比较
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.flag == o.flag
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return v.tree.Equal(o.tree)
	}
	return true
}

// GoString 调试输出
func (v Value) GoString() string { return v.text() }

func (v Value) text() string {
	switch v.kind {
	case KindScalar:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.str)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, item := range v.seq {
			parts[i] = item.text()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		return v.tree.String()
	}
	return "unset"
}

// Keys 排序后的键
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup 按路径查找
func (t Tree) Lookup(path ...string) (Value, bool) {
	cur := t
	for i, key := range path {
		v, ok := cur[key]
		if !ok {
			return Value{}, false
		}
		if i == len(path)-1 {
			return v, true
		}
		if cur, ok = v.Tree(); !ok {
			return Value{}, false
		}
	}
	return Value{}, false
}

// Float 按路径取数值
func (t Tree) Float(path ...string) (float64, bool) {
	v, ok := t.Lookup(path...)
	if !ok {
		return math.NaN(), false
	}
	return v.Float()
}

// Equal 深度比较
func (t Tree) Equal(o Tree) bool {
	if len(t) != len(o) {
		return false
	}
	for k, v := range t {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Clone 深度复制
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = v.clone()
	}
	return out
}

func (v Value) clone() Value {
	switch v.kind {
	case KindSequence:
		items := make([]Value, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.clone()
		}
		v.seq = items
	case KindMapping:
		v.tree = v.tree.Clone()
	}
	return v
}

// String 稳定的文本形式（键排序）
func (t Tree) String() string {
	parts := make([]string, 0, len(t))
	for _, k := range t.Keys() {
		parts = append(parts, k+": "+t[k].text())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FromAny 从通用数据（YAML/JSON 解码结果）转换
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Unset(), nil
	case Value:
		return x, nil
	case float64:
		return Scalar(x), nil
	case float32:
		return Scalar(float64(x)), nil
	case int:
		return Scalar(float64(x)), nil
	case int64:
		return Scalar(float64(x)), nil
	case uint64:
		return Scalar(float64(x)), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case []float64:
		return Floats(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return Sequence(items...), nil
	case map[string]any:
		t, err := TreeFromMap(x)
		if err != nil {
			return Value{}, err
		}
		return Mapping(t), nil
	case Tree:
		return Mapping(x), nil
	}
	return Value{}, fmt.Errorf("不支持的参数类型 %T", raw)
}

// TreeFromMap 从通用映射转换
func TreeFromMap(m map[string]any) (Tree, error) {
	t := make(Tree, len(m))
	for k, raw := range m {
		v, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		t[k] = v
	}
	return t, nil
}
