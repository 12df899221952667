package element

import (
	"slices"

	"heatnet/types"
)

// PortKind 端口类型，决定端口携带的变量集合
type PortKind string

// 端口类型常量定义
const (
	PortHeat        PortKind = "heat"        // 热网端口
	PortGas         PortKind = "gas"         // 燃气端口
	PortElectricity PortKind = "electricity" // 电网端口
)

// VariableKind 端口变量的耦合方式
type VariableKind uint8

const (
	VariableFlow      VariableKind = iota // 流量型：连接处按方向守恒
	VariablePotential                     // 势型：连接处相等
)

// kindVariable 端口变量定义
type kindVariable struct {
	Name string
	Kind VariableKind
}

// portKindList 端口类型注册表，变量顺序即耦合方程的生成顺序
var portKindList = map[PortKind][]kindVariable{
	PortHeat: {
		{"Heat", VariableFlow},
		{"Q", VariableFlow},
		{"H", VariablePotential},
	},
	PortGas: {
		{"Q", VariableFlow},
		{"mass_flow", VariableFlow},
		{"Hydraulic_power", VariableFlow},
		{"Q_shadow", VariablePotential},
	},
	PortElectricity: {
		{"Power", VariableFlow},
		{"I", VariableFlow},
		{"V", VariablePotential},
	},
}

// Valid 是否为已知类型
func (k PortKind) Valid() bool {
	_, ok := portKindList[k]
	return ok
}

// Variables 该类型端口的变量名（有序）
func (k PortKind) Variables() []string {
	list := portKindList[k]
	names := make([]string, len(list))
	for i, v := range list {
		names[i] = v.Name
	}
	return names
}

// VariableKind 变量的耦合方式
func (k PortKind) VariableKind(name string) (VariableKind, bool) {
	for _, v := range portKindList[k] {
		if v.Name == name {
			return v.Kind, true
		}
	}
	return 0, false
}

// Port 端口：对所属元件变量的非拥有引用（按局部名）
type Port struct {
	Name      string          // 端口名称
	Kind      PortKind        // 端口类型
	Direction types.Direction // 正向流量方向
	vars      []string        // 变量名（不含端口前缀）
}

// NewPort 创建空端口
func NewPort(name string, kind PortKind, dir types.Direction) (*Port, error) {
	if !kind.Valid() {
		return nil, types.Configf("", name, "未知端口类型 %q", kind)
	}
	return &Port{Name: name, Kind: kind, Direction: dir}, nil
}

// AddVariable 向端口加入变量，只允许端口类型声明的变量
func (p *Port) AddVariable(name string) error {
	if _, ok := p.Kind.VariableKind(name); !ok {
		return types.Configf("", types.JoinPath(p.Name, name), "%s 端口不允许变量 %q", p.Kind, name)
	}
	if slices.Contains(p.vars, name) {
		return types.Configf("", types.JoinPath(p.Name, name), "端口变量重复")
	}
	p.vars = append(p.vars, name)
	return nil
}

// Variables 端口变量名（不含端口前缀）
func (p *Port) Variables() []string { return slices.Clone(p.vars) }

// Local 端口变量在元件内的局部名
func (p *Port) Local(name string) string { return p.Name + "." + name }

// Complete 端口变量集合是否与类型声明一致
func (p *Port) Complete() bool {
	return len(p.vars) == len(portKindList[p.Kind])
}
