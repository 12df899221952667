package element

import (
	"math"

	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// HeatDefaults 热网元件公共缺省参数，extra 中的同名项覆盖
func HeatDefaults(extra params.Tree) params.Tree {
	return params.Merge(params.Tree{
		"rho":          params.Scalar(types.DefaultHeatDensity),
		"cp":           params.Scalar(types.DefaultHeatCapacity),
		"Q_nominal":    params.Scalar(types.DefaultNominal),
		"T_supply":     params.Unset(),
		"T_return":     params.Unset(),
		"dT":           params.Unset(),
		"Heat_nominal": params.Unset(),
		"nominal_head": params.Scalar(types.DefaultNominalHead),
	}, extra)
}

// HeatScale 派生供回水温差与热流尺度 Heat_nominal = cp·rho·|dT|·Q_nominal。
// 温度制度未给出时 dT 取缺省温差。
func (b *Builder) HeatScale(qNominal float64) float64 {
	rho, cp := b.Positive("rho"), b.Positive("cp")
	dT := types.DefaultDeltaTemperature
	if b.IsSet("T_supply") && b.IsSet("T_return") {
		dT = b.Float("T_supply") - b.Float("T_return")
	}
	dT = b.Derive("dT", dT)
	return b.Derive("Heat_nominal", cp*rho*math.Abs(dT)*qNominal)
}

// HeatTwoPort 声明 HeatIn/HeatOut 两个热网端口与内部流量 Q，
// 并加入两端流量相等及与 Q 相等的方程
func (b *Builder) HeatTwoPort(qNominal, heatNominal float64, q ...symbolic.Option) symbolic.Sym {
	for _, name := range []string{"HeatIn", "HeatOut"} {
		dir := types.DirectionIn
		if name == "HeatOut" {
			dir = types.DirectionOut
		}
		port := b.Port(name, PortHeat, dir)
		b.Tune(port.Local("Q"), symbolic.WithNominal(qNominal))
		b.Tune(port.Local("Heat"), symbolic.WithNominal(heatNominal))
	}
	sym := b.Variable("Q", append([]symbolic.Option{symbolic.WithNominal(qNominal)}, q...)...)
	b.Equation(symbolic.Sub(b.Sym("HeatIn.Q"), sym), qNominal)
	b.Equation(symbolic.Sub(b.Sym("HeatOut.Q"), b.Sym("HeatIn.Q")), qNominal)
	return sym
}

// HeadEquation 压头变化方程 dH = HeatOut.H − HeatIn.H
func (b *Builder) HeadEquation(dH symbolic.Sym, nominalHead float64) {
	b.Equation(symbolic.Sub(dH, symbolic.Sub(b.Sym("HeatOut.H"), b.Sym("HeatIn.H"))), nominalHead)
}
