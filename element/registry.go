package element

import (
	"errors"
	"fmt"
	"sort"

	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// Config 元件类型的静态配置
type Config struct {
	Type           types.ComponentType // 元件类型
	Commodity      types.Commodity     // 能源介质
	Disconnectable bool                // 是否允许端口悬空
	Conserving     bool                // 是否为守恒节点（端口间流量守恒、势相等）
	Defaults       params.Tree         // 缺省参数，未设置值表示使用库缺省
}

// GetConfig 静态配置
func (config *Config) GetConfig() *Config { return config }

// Face 元件类型实现接口
type Face interface {
	GetConfig() *Config // 静态配置
	Build(b *Builder)   // 按参数声明端口、变量与方程
}

// ElementList 元件类型注册表
// 键：元件类型名
// 值：元件类型实现
var ElementList = map[types.ComponentType]Face{}

// AddElement 注册元件类型
// 参数eleType: 元件类型名，必须唯一
// 参数face: 元件类型实现
// 返回：注册的元件类型名
// 注意：重复注册会直接 panic
func AddElement(eleType types.ComponentType, face Face) types.ComponentType {
	if _, ok := ElementList[eleType]; ok {
		panic(fmt.Sprintf("元件重复注册: %s", eleType))
	}
	ElementList[eleType] = face
	return eleType
}

// Types 已注册的元件类型（排序）
func Types() []types.ComponentType {
	list := make([]types.ComponentType, 0, len(ElementList))
	for t := range ElementList {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// Lookup 查找元件类型
func Lookup(eleType types.ComponentType) (Face, bool) {
	face, ok := ElementList[eleType]
	return face, ok
}

// New 根据元件类型构造元件实例
// 参数eleType: 已注册的元件类型
// 参数name: 元件名称，同时作为变量名前缀
// 参数modifiers: 修饰值；标量覆盖缺省参数，映射修改端口变量或元件变量的属性
// 返回：处于 constructed 阶段的元件，出错时返回 ConfigurationError 或 ReferenceError
func New(eleType types.ComponentType, name string, modifiers params.Tree) (*Component, error) {
	face, ok := ElementList[eleType]
	if !ok {
		return nil, types.Configf(name, "", "未注册的元件类型 %q", eleType)
	}
	config := face.GetConfig()
	for _, key := range modifiers.Keys() {
		value := modifiers[key]
		def, declared := config.Defaults[key]
		switch {
		case value.Kind() == params.KindMapping:
			if declared && def.Kind() != params.KindMapping {
				return nil, types.Configf(name, key, "参数不能是映射")
			}
		case !declared:
			return nil, types.Configf(name, key, "未声明的参数")
		case def.Kind() == params.KindMapping:
			return nil, types.Configf(name, key, "变量属性必须是映射")
		}
	}

	merged := params.Merge(config.Defaults, modifiers)
	scalars, mappings := params.Split(merged)
	explicit, _ := params.Split(modifiers)

	comp := newComponent(name, config, scalars)
	b := &Builder{comp: comp, explicit: explicit}
	face.Build(b)
	if b.err != nil {
		return nil, b.err
	}
	if err := applyAttributes(comp, mappings); err != nil {
		return nil, err
	}
	for _, port := range comp.ports {
		if !port.Complete() {
			return nil, types.Configf(name, port.Name, "端口变量不完整")
		}
	}
	if err := comp.Advance(StageConstructed); err != nil {
		return nil, err
	}
	return comp, nil
}

// applyAttributes 将映射修饰值应用到端口变量或元件变量
func applyAttributes(comp *Component, mappings params.Tree) error {
	for _, key := range mappings.Keys() {
		tree, _ := mappings[key].Tree()
		if port, ok := comp.Port(key); ok {
			for _, name := range tree.Keys() {
				if _, ok := port.Kind.VariableKind(name); !ok {
					return types.Configf(comp.Name, types.JoinPath(key, name), "端口没有该变量")
				}
				if err := applyVariable(comp, port.Local(name), tree[name]); err != nil {
					return err
				}
			}
			continue
		}
		if _, ok := comp.vars[key]; !ok {
			return types.Configf(comp.Name, key, "未声明的端口或变量")
		}
		if err := applyVariable(comp, key, mappings[key]); err != nil {
			return err
		}
	}
	return nil
}

// applyVariable 应用 min/max/nominal/fixed 属性
func applyVariable(comp *Component, local string, value params.Value) error {
	attrs, ok := value.Tree()
	if !ok {
		return types.Configf(comp.Name, local, "变量属性必须是映射")
	}
	v := comp.vars[local]
	for _, key := range attrs.Keys() {
		attr := attrs[key]
		if !attr.IsSet() {
			continue
		}
		f, ok := attr.Float()
		if !ok {
			return types.Configf(comp.Name, types.JoinPath(local, key), "属性不是数值: %s", attr.Kind())
		}
		switch key {
		case "min":
			v.Apply(symbolic.WithMin(f))
		case "max":
			v.Apply(symbolic.WithMax(f))
		case "nominal":
			v.Apply(symbolic.WithNominal(f))
		case "fixed":
			v.Apply(symbolic.WithFixed(f))
		default:
			return types.Configf(comp.Name, types.JoinPath(local, key), "未知变量属性")
		}
	}
	if err := v.Validate(); err != nil {
		var ce *types.ConfigurationError
		if errors.As(err, &ce) {
			ce.Asset, ce.Path = comp.Name, local
		}
		return err
	}
	return nil
}
