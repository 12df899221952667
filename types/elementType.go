package types

// ComponentType 元件类型标签，同时作为求解侧按角色分组的键（如 "demand"、"pipe"）
type ComponentType string

// 元件类型常量定义
const (
	TypeUnknown ComponentType = ""

	// 热网
	TypePipe   ComponentType = "pipe"
	TypePump   ComponentType = "pump"
	TypeSource ComponentType = "source"
	TypeDemand ComponentType = "demand"
	TypeBuffer ComponentType = "buffer"
	TypeNode   ComponentType = "node"

	// 燃气网
	TypeGasPipe        ComponentType = "gas_pipe"
	TypeGasNode        ComponentType = "gas_node"
	TypeGasDemand      ComponentType = "gas_demand"
	TypeGasSource      ComponentType = "gas_source"
	TypeGasTankStorage ComponentType = "gas_tank_storage"

	// 电网
	TypeElectricityCable  ComponentType = "electricity_cable"
	TypeElectricityNode   ComponentType = "electricity_node"
	TypeElectricityDemand ComponentType = "electricity_demand"
	TypeElectricitySource ComponentType = "electricity_source"
)

// String 返回类型标签
func (t ComponentType) String() string {
	if t == TypeUnknown {
		return "unknown"
	}
	return string(t)
}

// Commodity 能源介质
type Commodity string

// 能源介质常量定义
const (
	CommodityHeat        Commodity = "heat"
	CommodityGas         Commodity = "gas"
	CommodityElectricity Commodity = "electricity"
)
