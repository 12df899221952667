package electricity

import (
	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// DemandType 定义元件
var DemandType = element.AddElement(types.TypeElectricityDemand, &Demand{
	&element.Config{
		Type:      types.TypeElectricityDemand,
		Commodity: types.CommodityElectricity,
		Defaults:  electricDefaults(params.Tree{"Power_nominal": params.Unset()}),
	},
})

// Demand 用电负荷
type Demand struct{ *element.Config }

func (Demand) Build(b *element.Builder) {
	current, voltage := scale(b)
	power := b.Derive("Power_nominal", current*voltage)
	in := port(b, "ElectricityIn", types.DirectionIn, current, voltage)
	demand := b.Variable("Electricity_demand", symbolic.WithMin(0), symbolic.WithNominal(power))
	b.Equation(symbolic.Sub(b.Sym(in.Local("Power")), demand), power)
}

// SourceType 定义元件
var SourceType = element.AddElement(types.TypeElectricitySource, &Source{
	&element.Config{
		Type:      types.TypeElectricitySource,
		Commodity: types.CommodityElectricity,
		Defaults:  electricDefaults(params.Tree{"Power_nominal": params.Unset()}),
	},
})

// Source 电源
type Source struct{ *element.Config }

func (Source) Build(b *element.Builder) {
	current, voltage := scale(b)
	power := b.Derive("Power_nominal", current*voltage)
	out := port(b, "ElectricityOut", types.DirectionOut, current, voltage)
	source := b.Variable("Electricity_source", symbolic.WithMin(0), symbolic.WithNominal(power))
	b.Equation(symbolic.Sub(b.Sym(out.Local("Power")), source), power)
}
