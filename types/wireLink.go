package types

import (
	"slices"
	"sort"
)

// WireID 连接线标识，一条线代表一个物理连接点
type WireID int

// Direction 端口流向约定
type Direction int8

// 端口流向常量定义
const (
	DirectionFree Direction = 0  // 未定向（节点端口，由拓扑确定）
	DirectionIn   Direction = 1  // 正流量流入元件
	DirectionOut  Direction = -1 // 正流量流出元件
)

// Sign 以"流入元件"为正的符号
func (d Direction) Sign() float64 {
	if d == DirectionOut {
		return -1
	}
	return 1
}

// String 方向名称
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	default:
		return "free"
	}
}

// PortRef 端口引用，按名称引用而不持有元件
type PortRef struct {
	Component string    // 元件名称
	Port      string    // 端口名称
	Direction Direction // 端口在该连接上的方向
}

// Key 端口唯一键
func (p PortRef) Key() string {
	return p.Component + "." + p.Port
}

// Topology 端口连接关系
type Topology struct {
	Wires     map[WireID][]PortRef // 记录线连接的端口
	PortWire  map[string]WireID    // 端口所在的线
	WireCount WireID               // 自增数量
}

// NewTopology 初始化
func NewTopology() *Topology {
	return &Topology{
		Wires:    make(map[WireID][]PortRef),
		PortWire: make(map[string]WireID),
	}
}

// AddWire 添加线路
func (t *Topology) AddWire() WireID {
	t.WireCount++
	t.Wires[t.WireCount] = make([]PortRef, 0, 2)
	return t.WireCount
}

// AddWireList 将端口挂到线路上，端口已在其他线路上时返回已占用的线路
func (t *Topology) AddWireList(wid WireID, ref PortRef) (WireID, bool) {
	if _, ok := t.Wires[wid]; !ok {
		return wid, false
	}
	if old, ok := t.PortWire[ref.Key()]; ok {
		return old, old == wid
	}
	t.PortWire[ref.Key()] = wid
	t.Wires[wid] = append(t.Wires[wid], ref)
	return wid, true
}

// Connect 新建一条线连接两个端口
func (t *Topology) Connect(a, b PortRef) (WireID, error) {
	wid := t.AddWire()
	for _, ref := range []PortRef{a, b} {
		if old, ok := t.AddWireList(wid, ref); !ok {
			t.DeleteWire(wid)
			return old, Configf(ref.Component, ref.Port, "端口已连接到线路 %d", old)
		}
	}
	return wid, nil
}

// DeleteWire 删除线路
func (t *Topology) DeleteWire(wid WireID) {
	for _, ref := range t.Wires[wid] {
		if t.PortWire[ref.Key()] == wid {
			delete(t.PortWire, ref.Key())
		}
	}
	delete(t.Wires, wid)
}

// WireIDs 按升序返回所有线路
func (t *Topology) WireIDs() []WireID {
	ids := make([]WireID, 0, len(t.Wires))
	for wid := range t.Wires {
		ids = append(ids, wid)
	}
	slices.Sort(ids)
	return ids
}

// Connected 端口是否已连接
func (t *Topology) Connected(component, port string) bool {
	_, ok := t.PortWire[component+"."+port]
	return ok
}

// Components 返回拓扑中出现的元件名称（排序）
func (t *Topology) Components() []string {
	set := map[string]struct{}{}
	for _, refs := range t.Wires {
		for _, ref := range refs {
			set[ref.Component] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
