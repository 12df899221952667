package system

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"heatnet/element"
	"heatnet/types"
)

// aliases 别名分组（并查集）：同一连接上的同名变量，守恒元件各端口的势变量
type aliases struct {
	parent map[string]string
}

func (s *aliases) find(x string) string {
	for {
		p, ok := s.parent[x]
		if !ok || p == x {
			return x
		}
		if gp, ok := s.parent[p]; ok {
			s.parent[x] = gp
		}
		x = p
	}
}

func (s *aliases) union(x, y string) {
	rx, ry := s.find(x), s.find(y)
	if rx == ry {
		return
	}
	if rx > ry {
		rx, ry = ry, rx
	}
	s.parent[ry] = rx
}

// resolveNominals 显式尺度优先；未显式给出的变量取同组显式尺度的几何平均，否则为 1
func (a *assembler) resolveNominals() error {
	set := &aliases{parent: map[string]string{}}
	for _, node := range a.graph.Nodes {
		if len(node.Members) < 2 {
			continue
		}
		for _, m := range node.Members[1:] {
			for _, name := range node.Kind.Variables() {
				set.union(node.Members[0].ID(name), m.ID(name))
			}
		}
	}
	for _, joint := range a.graph.Joints {
		for i := 1; i < len(joint.Members); i++ {
			kind := joint.Members[0].Port.Kind
			for _, name := range kind.Variables() {
				if vk, _ := kind.VariableKind(name); vk == element.VariablePotential {
					set.union(joint.Members[0].ID(name), joint.Members[i].ID(name))
				}
			}
		}
	}

	explicit := map[string][]float64{}
	for _, v := range a.sys.Variables {
		if v.NominalSet() {
			root := set.find(v.Name)
			explicit[root] = append(explicit[root], v.Nominal)
		}
	}
	for _, v := range a.sys.Variables {
		if !v.NominalSet() {
			v.Nominal = types.DefaultNominal
			if values, ok := explicit[set.find(v.Name)]; ok {
				v.Nominal = groupNominal(values)
			}
		}
		if !types.IsUsable(v.Nominal) || v.Nominal <= 0 {
			return types.Configf("", v.Name, "尺度必须为有限正数，得到 %g", v.Nominal)
		}
	}
	return nil
}

// groupNominal 各值相同时原样取用，否则取几何平均
func groupNominal(values []float64) float64 {
	if floats.Min(values) == floats.Max(values) {
		return values[0]
	}
	logs := make([]float64, len(values))
	for i, x := range values {
		logs[i] = math.Log(x)
	}
	return math.Exp(stat.Mean(logs, nil))
}
