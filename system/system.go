// Package system 将连接好的元件展平为一个方程组与变量表。
package system

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"heatnet/element"
	"heatnet/graph"
	"heatnet/symbolic"
	"heatnet/types"
)

// Options 装配选项
type Options struct {
	Disconnected             []string // 断开的管道
	HeatLossDisconnectedPipe bool     // 断开的管道仍计热损
	Logger                   *zap.Logger
}

// Parameter 展平后的参数
type Parameter struct {
	Name  string
	Value float64
}

// System 展平的方程组
type System struct {
	Equations  []symbolic.Equation
	Variables  []*symbolic.Variable             // 按名称排序
	Roles      map[types.ComponentType][]string // 元件类型 → 元件名称
	Parameters []Parameter                      // 按名称排序

	index map[string]int
}

// Variable 按全名查找变量
func (sys *System) Variable(name string) (*symbolic.Variable, bool) {
	i, ok := sys.index[name]
	if !ok {
		return nil, false
	}
	return sys.Variables[i], true
}

// Parameter 按全名查找参数
func (sys *System) Parameter(name string) (float64, bool) {
	i := sort.Search(len(sys.Parameters), func(i int) bool { return sys.Parameters[i].Name >= name })
	if i < len(sys.Parameters) && sys.Parameters[i].Name == name {
		return sys.Parameters[i].Value, true
	}
	return 0, false
}

// assembler 单次装配的状态
type assembler struct {
	graph  *graph.Graph
	opts   Options
	logger *zap.Logger
	sys    *System
}

// Assemble 装配：变量收集 → 尺度解析 → 耦合方程 → 管道热损 → 引用检查
func Assemble(g *graph.Graph, opts Options) (*System, error) {
	a := &assembler{
		graph:  g,
		opts:   opts,
		logger: opts.Logger,
		sys: &System{
			Roles: g.Roles(),
			index: map[string]int{},
		},
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	for _, c := range g.Components {
		if c.Stage() != element.StageConstructed {
			return nil, types.Configf(c.Name, "", "元件处于 %s 阶段，不能再次装配", c.Stage())
		}
	}
	a.collect()
	if err := a.resolveNominals(); err != nil {
		return nil, err
	}
	for _, c := range g.Components {
		a.sys.Equations = append(a.sys.Equations, c.Equations()...)
	}
	steps := []func() error{a.couple, a.conserve, a.pipeHeatLoss, a.checkReferences}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	// 全部步骤成功后才推进阶段，失败的装配不改变元件状态
	for _, c := range g.Components {
		if err := c.Advance(element.StageConnected); err != nil {
			return nil, err
		}
		if err := c.Advance(element.StageFlattened); err != nil {
			return nil, err
		}
	}
	a.logger.Info("装配完成",
		zap.Int("components", len(g.Components)),
		zap.Int("equations", len(a.sys.Equations)),
		zap.Int("variables", len(a.sys.Variables)),
	)
	return a.sys, nil
}

// collect 复制元件变量并收集参数
func (a *assembler) collect() {
	sys := a.sys
	for _, c := range a.graph.Components {
		for _, v := range c.Variables() {
			sys.Variables = append(sys.Variables, v.Clone())
		}
		seen := map[string]bool{}
		for _, d := range c.DerivedValues() {
			seen[d.Name] = true
			sys.Parameters = append(sys.Parameters, Parameter{Name: c.ID(d.Name), Value: d.Value})
		}
		for _, key := range c.Params.Keys() {
			if seen[key] {
				continue
			}
			if value, ok := c.Float(key); ok {
				sys.Parameters = append(sys.Parameters, Parameter{Name: c.ID(key), Value: value})
			}
		}
	}
	sort.Slice(sys.Variables, func(i, j int) bool { return sys.Variables[i].Name < sys.Variables[j].Name })
	sort.Slice(sys.Parameters, func(i, j int) bool { return sys.Parameters[i].Name < sys.Parameters[j].Name })
	for i, v := range sys.Variables {
		sys.index[v.Name] = i
	}
}

// lookup 端口变量，找不到时返回引用错误
func (a *assembler) lookup(m graph.Member, name string) (*symbolic.Variable, error) {
	v, ok := a.sys.Variable(m.ID(name))
	if !ok {
		return nil, &types.ReferenceError{Component: m.Component.Name, Symbol: m.ID(name)}
	}
	return v, nil
}

// checkReferences 所有方程引用的变量都必须在变量表中
func (a *assembler) checkReferences() error {
	for i, eq := range a.sys.Equations {
		for _, s := range eq.Symbols() {
			if _, ok := a.sys.index[s]; !ok {
				return fmt.Errorf("方程 %d (%s): %w", i, eq.Origin, &types.ReferenceError{Component: eq.Origin, Symbol: s})
			}
		}
	}
	return nil
}
