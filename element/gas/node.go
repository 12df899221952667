package gas

import (
	"heatnet/element"
	"heatnet/types"
)

// NodeType 定义元件
var NodeType = element.AddElement(types.TypeGasNode, &Node{
	&element.Config{
		Type:       types.TypeGasNode,
		Commodity:  types.CommodityGas,
		Conserving: true,
		Defaults:   element.JointDefaults(),
	},
})

// Node 燃气节点：n 个端口 GasConn[1..n]
type Node struct{ *element.Config }

func (Node) Build(b *element.Builder) { b.BuildJoint("Gas", element.PortGas) }
