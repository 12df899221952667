package esdl

import (
	"sort"

	"heatnet/element"
	"heatnet/types"
)

// portPrefix 各介质端口名前缀
var portPrefix = map[types.Commodity]string{
	types.CommodityHeat:        "Heat",
	types.CommodityGas:         "Gas",
	types.CommodityElectricity: "Electricity",
}

// jointTypes 节点类元件
var jointTypes = map[types.ComponentType]bool{
	types.TypeNode:            true,
	types.TypeGasNode:         true,
	types.TypeElectricityNode: true,
}

// PortName 两端口元件的端口名，如 HeatIn、GasOut
func PortName(commodity types.Commodity, kind PortKind) string {
	if kind == PortOut {
		return portPrefix[commodity] + "Out"
	}
	return portPrefix[commodity] + "In"
}

type endpointKey struct{ port, target string }

// Topology 由资产端口连接生成元件端口拓扑，每个资产连接对应一条线。
// 节点的端口按先入口后出口、逐个连接编号为 XConn[1..n]。
func Topology(doc *Document, converted []Converted) (*types.Topology, error) {
	byAsset := make(map[string]Converted, len(converted))
	for _, conv := range converted {
		byAsset[conv.Asset.ID] = conv
	}

	endpoints := map[endpointKey]types.PortRef{}
	for _, conv := range converted {
		a := conv.Asset
		prefix := portPrefix[doc.Commodity(a)]
		if !jointTypes[conv.Type] {
			for _, p := range a.Ports {
				ref := types.PortRef{Component: conv.Name, Port: PortName(doc.Commodity(a), p.Kind), Direction: p.Kind.Direction()}
				for _, target := range p.ConnectedTo {
					endpoints[endpointKey{p.ID, target}] = ref
				}
			}
			continue
		}
		i := 0
		for _, kind := range []PortKind{PortIn, PortOut} {
			for _, p := range a.Ports {
				if p.Kind != kind {
					continue
				}
				for _, target := range p.ConnectedTo {
					i++
					endpoints[endpointKey{p.ID, target}] = types.PortRef{
						Component: conv.Name,
						Port:      element.JointPort(prefix, i),
						Direction: kind.Direction(),
					}
				}
			}
		}
	}

	ids := make([]string, 0, len(byAsset))
	for id := range byAsset {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	topo := types.NewTopology()
	seen := map[endpointKey]bool{}
	for _, id := range ids {
		a := byAsset[id].Asset
		for _, p := range a.Ports {
			for _, target := range p.ConnectedTo {
				key := endpointKey{min(p.ID, target), max(p.ID, target)}
				if seen[key] {
					continue
				}
				seen[key] = true
				from := endpoints[endpointKey{p.ID, target}]
				to, ok := endpoints[endpointKey{target, p.ID}]
				if !ok {
					owner, _ := doc.PortOwner(target)
					conv, converted := byAsset[owner.ID]
					if !converted || jointTypes[conv.Type] {
						return nil, types.Configf(a.ID, "ports."+p.ID, "连接 %s 不对称", target)
					}
					to = types.PortRef{
						Component: conv.Name,
						Port:      PortName(doc.Commodity(owner), portKind(owner, target)),
						Direction: portKind(owner, target).Direction(),
					}
				}
				if _, err := topo.Connect(from, to); err != nil {
					return nil, err
				}
			}
		}
	}
	return topo, nil
}

// portKind 资产端口方向
func portKind(a *Asset, portID string) PortKind {
	for _, p := range a.Ports {
		if p.ID == portID {
			return p.Kind
		}
	}
	return PortIn
}
