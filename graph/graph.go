// Package graph 将元件端口按连接线分组为物理节点，并检查连接的合法性。
package graph

import (
	"sort"

	"heatnet/element"
	"heatnet/symbolic"
	"heatnet/types"
)

// Member 节点上的一个端口
type Member struct {
	Component *element.Component
	Port      *element.Port
	Direction types.Direction // 该端口在连接上的方向
}

// Sign 以流入元件为正的符号
func (m Member) Sign() float64 { return m.Direction.Sign() }

// ID 端口变量的全局名
func (m Member) ID(variable string) string { return m.Component.ID(m.Port.Local(variable)) }

// Sym 端口变量符号
func (m Member) Sym(variable string) symbolic.Sym { return symbolic.Sym(m.ID(variable)) }

// Node 物理连接点，对应一条线
type Node struct {
	Wire    types.WireID
	Kind    element.PortKind
	Members []Member
}

// Joint 守恒元件及其已定向的端口
type Joint struct {
	Component *element.Component
	Members   []Member
}

// Graph 连接处理
type Graph struct {
	Components []*element.Component // 按名称排序
	Nodes      []Node               // 按线路升序
	Joints     []Joint              // 按名称排序
	Dangling   []types.PortRef      // 可断开元件的悬空端口

	index map[string]*element.Component
}

// NewGraph 创建图
func NewGraph(components []*element.Component, topo *types.Topology) (graph *Graph, err error) {
	graph = &Graph{index: make(map[string]*element.Component, len(components))}
	err = graph.Init(components, topo)
	return graph, err
}

// Component 按名称查找元件
func (graph *Graph) Component(name string) (*element.Component, bool) {
	c, ok := graph.index[name]
	return c, ok
}

// Init 初始化
func (graph *Graph) Init(components []*element.Component, topo *types.Topology) error {
	for _, c := range components {
		if _, ok := graph.index[c.Name]; ok {
			return types.Configf(c.Name, "", "元件名称重复")
		}
		graph.index[c.Name] = c
		graph.Components = append(graph.Components, c)
	}
	sort.Slice(graph.Components, func(i, j int) bool { return graph.Components[i].Name < graph.Components[j].Name })

	oriented := map[string]Member{} // 端口键 → 已定向端口
	for _, wid := range topo.WireIDs() {
		refs := topo.Wires[wid]
		if len(refs) < 2 {
			return types.Configf(firstComponent(refs), "", "线路 %d 只连接了 %d 个端口", wid, len(refs))
		}
		node := Node{Wire: wid}
		for _, ref := range refs {
			member, err := graph.resolve(ref)
			if err != nil {
				return err
			}
			if _, ok := oriented[ref.Key()]; ok {
				return types.Configf(ref.Component, ref.Port, "端口连接到多条线路")
			}
			if node.Kind == "" {
				node.Kind = member.Port.Kind
			} else if node.Kind != member.Port.Kind {
				return types.Configf(ref.Component, ref.Port, "端口类型 %s 与线路类型 %s 不一致", member.Port.Kind, node.Kind)
			}
			oriented[ref.Key()] = member
			node.Members = append(node.Members, member)
		}
		graph.Nodes = append(graph.Nodes, node)
	}

	for _, c := range graph.Components {
		var joint *Joint
		if c.Conserving {
			joint = &Joint{Component: c}
		}
		for _, port := range c.Ports() {
			ref := types.PortRef{Component: c.Name, Port: port.Name, Direction: port.Direction}
			member, ok := oriented[ref.Key()]
			if !ok {
				if !c.Disconnectable {
					return types.Configf(c.Name, port.Name, "端口未连接")
				}
				graph.Dangling = append(graph.Dangling, ref)
				continue
			}
			if joint != nil {
				joint.Members = append(joint.Members, member)
			}
		}
		if joint != nil {
			graph.Joints = append(graph.Joints, *joint)
		}
	}
	return nil
}

// resolve 解析端口引用并确定方向：元件端口自带方向时以其为准，节点端口取连接上的方向
func (graph *Graph) resolve(ref types.PortRef) (Member, error) {
	c, ok := graph.index[ref.Component]
	if !ok {
		return Member{}, types.Configf(ref.Component, ref.Port, "元件不存在")
	}
	port, ok := c.Port(ref.Port)
	if !ok {
		return Member{}, types.Configf(ref.Component, ref.Port, "端口不存在")
	}
	dir := port.Direction
	switch {
	case dir == types.DirectionFree && ref.Direction == types.DirectionFree:
		return Member{}, types.Configf(ref.Component, ref.Port, "节点端口缺少方向")
	case dir == types.DirectionFree:
		dir = ref.Direction
	case ref.Direction != types.DirectionFree && ref.Direction != dir:
		return Member{}, types.Configf(ref.Component, ref.Port, "连接方向 %s 与端口方向 %s 不一致", ref.Direction, dir)
	}
	return Member{Component: c, Port: port, Direction: dir}, nil
}

func firstComponent(refs []types.PortRef) string {
	if len(refs) == 0 {
		return ""
	}
	return refs[0].Component
}

// Roles 按元件类型分组的元件名称（排序）
func (graph *Graph) Roles() map[types.ComponentType][]string {
	roles := map[types.ComponentType][]string{}
	for _, c := range graph.Components {
		roles[c.Type] = append(roles[c.Type], c.Name)
	}
	return roles
}
