package gas

import (
	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// terminalDefaults 单端口燃气元件的缺省参数
func terminalDefaults() params.Tree {
	return params.Tree{
		"Q_nominal": params.Scalar(types.DefaultNominal),
		"density":   params.Scalar(types.DefaultGasDensity),
	}
}

// terminal 声明单端口及其流量变量 Q，返回质量流量尺度
func terminal(b *element.Builder, name string, dir types.Direction) (port *element.Port, massNominal float64) {
	qNominal := b.Positive("Q_nominal")
	density := b.Positive("density")
	massNominal = qNominal * density

	port = b.Port(name, element.PortGas, dir)
	b.Tune(port.Local("Q"), symbolic.WithNominal(qNominal))
	b.Tune(port.Local("mass_flow"), symbolic.WithNominal(massNominal))
	q := b.Variable("Q", symbolic.WithNominal(qNominal))
	b.Equation(symbolic.Sub(b.Sym(port.Local("Q")), q), qNominal)
	b.Equation(symbolic.Sub(b.Sym(port.Local("Q")), symbolic.Div(b.Sym(port.Local("mass_flow")), symbolic.Const(density))), qNominal)
	return port, massNominal
}

// DemandType 定义元件
var DemandType = element.AddElement(types.TypeGasDemand, &Demand{
	&element.Config{
		Type:      types.TypeGasDemand,
		Commodity: types.CommodityGas,
		Defaults:  terminalDefaults(),
	},
})

// Demand 燃气用户
type Demand struct{ *element.Config }

func (Demand) Build(b *element.Builder) {
	port, massNominal := terminal(b, "GasIn", types.DirectionIn)
	mass := b.Variable("Gas_demand_mass_flow", symbolic.WithMin(0), symbolic.WithNominal(massNominal))
	b.Equation(symbolic.Sub(b.Sym(port.Local("mass_flow")), mass), massNominal)
}

// SourceType 定义元件
var SourceType = element.AddElement(types.TypeGasSource, &Source{
	&element.Config{
		Type:      types.TypeGasSource,
		Commodity: types.CommodityGas,
		Defaults:  terminalDefaults(),
	},
})

// Source 气源
type Source struct{ *element.Config }

func (Source) Build(b *element.Builder) {
	port, massNominal := terminal(b, "GasOut", types.DirectionOut)
	mass := b.Variable("Gas_source_mass_flow", symbolic.WithMin(0), symbolic.WithNominal(massNominal))
	b.Equation(symbolic.Sub(b.Sym(port.Local("mass_flow")), mass), massNominal)
}

// TankStorageType 定义元件
var TankStorageType = element.AddElement(types.TypeGasTankStorage, &TankStorage{
	&element.Config{
		Type:      types.TypeGasTankStorage,
		Commodity: types.CommodityGas,
		Defaults: params.Merge(terminalDefaults(), params.Tree{
			"volume":       params.Unset(),
			"storage_time": params.Scalar(3600),
		}),
	},
})

// TankStorage 储气罐：der(Stored_gas_mass) = Gas_tank_flow
type TankStorage struct{ *element.Config }

func (TankStorage) Build(b *element.Builder) {
	port, massNominal := terminal(b, "GasIn", types.DirectionIn)
	storedNominal := massNominal * b.Positive("storage_time")
	opts := []symbolic.Option{symbolic.WithMin(0), symbolic.WithNominal(storedNominal)}
	if b.IsSet("volume") {
		// 最大储量 = 容积 × 密度
		opts = append(opts, symbolic.WithMax(b.Positive("volume")*b.Positive("density")))
	}
	stored := b.Variable("Stored_gas_mass", opts...)
	flow := b.Variable("Gas_tank_flow", symbolic.WithNominal(massNominal))
	b.Equation(symbolic.Sub(symbolic.DerOf(stored), flow), massNominal)
	b.Equation(symbolic.Sub(b.Sym(port.Local("mass_flow")), flow), massNominal)
}
