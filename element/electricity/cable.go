// Package electricity 电网元件：电缆、母线、用电负荷与电源
package electricity

import (
	"math"

	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// electricDefaults 电网元件公共缺省参数（NAYY 4x50 SE 电缆）
func electricDefaults(extra params.Tree) params.Tree {
	return params.Merge(params.Tree{
		"max_current":     params.Scalar(142),
		"max_voltage":     params.Scalar(1000),
		"min_voltage":     params.Scalar(230),
		"nominal_current": params.Unset(),
		"nominal_voltage": params.Unset(),
	}, extra)
}

// scale 派生额定电流与额定电压
func scale(b *element.Builder) (current, voltage float64) {
	maxCurrent := b.Positive("max_current")
	maxVoltage := b.Positive("max_voltage")
	minVoltage := b.Positive("min_voltage")
	if b.Err() == nil && minVoltage > maxVoltage {
		b.Fail("min_voltage", "最低电压 %g 高于最高电压 %g", minVoltage, maxVoltage)
	}
	current = b.Derive("nominal_current", maxCurrent/2)
	voltage = b.Derive("nominal_voltage", (maxVoltage+minVoltage)/2)
	return current, voltage
}

// port 声明电网端口并设置尺度
func port(b *element.Builder, name string, dir types.Direction, current, voltage float64) *element.Port {
	p := b.Port(name, element.PortElectricity, dir)
	b.Tune(p.Local("I"), symbolic.WithNominal(current))
	b.Tune(p.Local("V"), symbolic.WithNominal(voltage), symbolic.WithMin(b.Float("min_voltage")))
	b.Tune(p.Local("Power"), symbolic.WithNominal(current*voltage))
	return p
}

// CableType 定义元件
var CableType = element.AddElement(types.TypeElectricityCable, &Cable{
	&element.Config{
		Type:      types.TypeElectricityCable,
		Commodity: types.CommodityElectricity,
		Defaults: electricDefaults(params.Tree{
			"length":                 params.Scalar(1),
			"resistance_coefficient": params.Scalar(types.DefaultResistanceCoefficient),
			"r":                      params.Unset(),
		}),
	},
})

// Cable 电缆：线性压降 V_out = V_in − r·I，电流守恒，功率损耗 Power_loss
type Cable struct{ *element.Config }

func (Cable) Build(b *element.Builder) {
	current, voltage := scale(b)
	length := b.NonNegative("length")
	r := b.Derive("r", b.NonNegative("resistance_coefficient")*length)

	in := port(b, "ElectricityIn", types.DirectionIn, current, voltage)
	out := port(b, "ElectricityOut", types.DirectionOut, current, voltage)
	loss := b.Variable("Power_loss", symbolic.WithNominal(voltage*current))

	dropNominal := math.Sqrt(voltage * r * current)
	if dropNominal <= 0 {
		dropNominal = voltage
	}
	b.Equation(symbolic.Sub(b.Sym(out.Local("V")),
		symbolic.Sub(b.Sym(in.Local("V")), symbolic.Scale(r, b.Sym(in.Local("I"))))), dropNominal)
	b.Equation(symbolic.Sub(b.Sym(in.Local("I")), b.Sym(out.Local("I"))), current)
	b.Equation(symbolic.Sub(b.Sym(out.Local("Power")),
		symbolic.Sub(b.Sym(in.Local("Power")), loss)), voltage*current)
}
