// Package element 定义元件、端口与元件类型注册表。
// 每种物理元件在 element/<类型> 包中实现并在 init 中注册，通过 New 按类型名构造。
package element

import (
	"math"

	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// Stage 元件生命周期阶段
type Stage uint8

// 生命周期阶段常量定义，只允许向前推进
const (
	StageDeclared    Stage = iota // 已声明
	StageConstructed              // 方程已固定
	StageConnected                // 已加入耦合方程
	StageFlattened                // 已交给求解器
)

// String 阶段名称
func (s Stage) String() string {
	return [...]string{"declared", "constructed", "connected", "flattened"}[s]
}

// Derived 构造时计算的派生常量
type Derived struct {
	Name  string
	Value float64
}

// Component 元件实例，独占其变量；端口按局部名引用变量
type Component struct {
	Name           string              // 元件名称
	Type           types.ComponentType // 元件类型
	Disconnectable bool                // 是否允许端口悬空
	Conserving     bool                // 是否为守恒节点
	Params         params.Tree         // 合并后的参数

	derived   []Derived
	ports     []*Port
	portIndex map[string]*Port
	vars      map[string]*symbolic.Variable
	varOrder  []string
	equations []symbolic.Equation
	stage     Stage
}

func newComponent(name string, config *Config, tree params.Tree) *Component {
	return &Component{
		Name:           name,
		Type:           config.Type,
		Disconnectable: config.Disconnectable,
		Conserving:     config.Conserving,
		Params:         tree,
		portIndex:      map[string]*Port{},
		vars:           map[string]*symbolic.Variable{},
	}
}

// ID 局部名对应的全局变量名
func (c *Component) ID(local string) string { return c.Name + "." + local }

// Sym 局部名对应的符号
func (c *Component) Sym(local string) symbolic.Sym { return symbolic.Sym(c.ID(local)) }

// Ports 按声明顺序返回端口
func (c *Component) Ports() []*Port { return c.ports }

// Port 按名称查找端口
func (c *Component) Port(name string) (*Port, bool) {
	p, ok := c.portIndex[name]
	return p, ok
}

// Variable 按局部名查找变量
func (c *Component) Variable(local string) (*symbolic.Variable, bool) {
	v, ok := c.vars[local]
	return v, ok
}

// Variables 按声明顺序返回变量
func (c *Component) Variables() []*symbolic.Variable {
	out := make([]*symbolic.Variable, len(c.varOrder))
	for i, local := range c.varOrder {
		out[i] = c.vars[local]
	}
	return out
}

// Locals 按声明顺序返回变量局部名
func (c *Component) Locals() []string { return c.varOrder }

// Equations 元件方程
func (c *Component) Equations() []symbolic.Equation { return c.equations }

// DerivedValues 派生常量（计算顺序）
func (c *Component) DerivedValues() []Derived { return c.derived }

// Float 读取派生常量或数值参数，未设置时返回 false
func (c *Component) Float(name string) (float64, bool) {
	for _, d := range c.derived {
		if d.Name == name {
			return d.Value, true
		}
	}
	if v, ok := c.Params[name]; ok {
		return v.Float()
	}
	return math.NaN(), false
}

// Bool 读取布尔参数
func (c *Component) Bool(name string) bool {
	b, _ := c.Params[name].Bool()
	return b
}

// Stage 当前阶段
func (c *Component) Stage() Stage { return c.stage }

// Advance 推进到下一阶段，不允许回退或跳跃
func (c *Component) Advance(to Stage) error {
	if to != c.stage+1 {
		return types.Configf(c.Name, "", "阶段不能从 %s 转到 %s", c.stage, to)
	}
	c.stage = to
	return nil
}
