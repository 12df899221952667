package electricity

import (
	"heatnet/element"
	"heatnet/types"
)

// NodeType 定义元件
var NodeType = element.AddElement(types.TypeElectricityNode, &Node{
	&element.Config{
		Type:       types.TypeElectricityNode,
		Commodity:  types.CommodityElectricity,
		Conserving: true,
		Defaults:   element.JointDefaults(),
	},
})

// Node 母线：n 个端口 ElectricityConn[1..n]
type Node struct{ *element.Config }

func (Node) Build(b *element.Builder) { b.BuildJoint("Electricity", element.PortElectricity) }
