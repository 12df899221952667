// Package gas 燃气网元件：管道、节点、用户、气源与储气罐
package gas

import (
	"math"

	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// PipeType 定义元件
var PipeType = element.AddElement(types.TypeGasPipe, &Pipe{
	&element.Config{
		Type:      types.TypeGasPipe,
		Commodity: types.CommodityGas,
		Defaults: params.Tree{
			"v_max":                   params.Scalar(15),
			"density":                 params.Scalar(types.DefaultGasDensity), // g/m3
			"rho":                     params.Unset(),
			"diameter":                params.Unset(),
			"area":                    params.Unset(),
			"Q_nominal":               params.Unset(),
			"pressure":                params.Scalar(16e5),
			"id_mapping_carrier":      params.Scalar(-1),
			"nominal_head":            params.Scalar(types.DefaultNominalHead),
			"length":                  params.Unset(),
			"resistance_coefficient":  params.Scalar(types.DefaultResistanceCoefficient),
			"r":                       params.Unset(),
			"nominal_head_loss":       params.Unset(),
			"friction_factor":         params.Scalar(types.DefaultFrictionFactor),
			"Hydraulic_power_nominal": params.Unset(),
		},
	},
})

// Pipe 燃气管道。压损为线性占位模型，水力功率尺度取
// rho·ff·max(length,1)·π·area/diameter/2·velocity³，同样是占位公式。
type Pipe struct{ *element.Config }

func (Pipe) Build(b *element.Builder) {
	vMax := b.Positive("v_max")
	density := b.Positive("density")
	rho := b.Derive("rho", density)
	diameter := b.Positive("diameter")
	area := b.Derive("area", 0.25*math.Pi*diameter*diameter)
	qNominal := b.Derive("Q_nominal", vMax/2*area)
	pressure := b.Positive("pressure")
	b.Float("id_mapping_carrier")

	nominalHead := b.Positive("nominal_head")
	length := b.NonNegative("length")
	r := b.Derive("r", b.NonNegative("resistance_coefficient")*length)
	b.Derive("nominal_head_loss", math.Sqrt(qNominal*r*nominalHead))

	ff := b.Positive("friction_factor")
	velocity := qNominal / area
	powerNominal := b.Derive("Hydraulic_power_nominal",
		rho*ff*math.Max(length, 1)*math.Pi*area/diameter/2*math.Pow(velocity, 3))

	in := b.Port("GasIn", element.PortGas, types.DirectionIn)
	out := b.Port("GasOut", element.PortGas, types.DirectionOut)
	for _, port := range []*element.Port{in, out} {
		b.Tune(port.Local("Q"), symbolic.WithNominal(qNominal))
		b.Tune(port.Local("mass_flow"), symbolic.WithNominal(qNominal*density))
		b.Tune(port.Local("Hydraulic_power"), symbolic.WithNominal(powerNominal))
	}

	// 长度为零时 r 为零，压损尺度退回缺省值
	dHNominal := qNominal * r
	if dHNominal <= 0 {
		dHNominal = types.DefaultNominal
	}
	b.Variable("dH", symbolic.WithNominal(dHNominal))
	q := b.Variable("Q", symbolic.WithNominal(qNominal))
	power := b.Variable("Hydraulic_power", symbolic.WithMin(0), symbolic.WithNominal(powerNominal))

	inSym := func(v string) symbolic.Sym { return b.Sym(in.Local(v)) }
	outSym := func(v string) symbolic.Sym { return b.Sym(out.Local(v)) }

	// 流量守恒
	b.Equation(symbolic.Sub(inSym("Q"), outSym("Q")), qNominal)
	b.Equation(symbolic.Sub(q, outSym("Q")), qNominal)
	b.Equation(symbolic.Sub(inSym("Q"), symbolic.Div(inSym("mass_flow"), symbolic.Const(density))), qNominal)
	b.Equation(symbolic.Sub(inSym("mass_flow"), outSym("mass_flow")), qNominal*density)
	// 影子流量：固定偏移用于消除方向符号的退化
	b.Equation(symbolic.Sub(outSym("Q_shadow"), symbolic.Sub(inSym("Q_shadow"), symbolic.Const(types.ShadowOffset))), 1)
	// 水力功率
	b.Equation(symbolic.Sub(power, symbolic.Sub(inSym("Hydraulic_power"), outSym("Hydraulic_power"))),
		math.Sqrt(pressure*qNominal*powerNominal))
}
