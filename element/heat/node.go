package heat

import (
	"heatnet/element"
	"heatnet/types"
)

// NodeType 定义元件
var NodeType = element.AddElement(types.TypeNode, &Node{
	&element.Config{
		Type:       types.TypeNode,
		Commodity:  types.CommodityHeat,
		Conserving: true,
		Defaults:   element.JointDefaults(),
	},
})

// Node 热网节点：n 个端口 HeatConn[1..n]
type Node struct{ *element.Config }

func (Node) Build(b *element.Builder) { b.BuildJoint("Heat", element.PortHeat) }
