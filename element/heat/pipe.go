// Package heat 热网元件：管道、水泵、热源、热用户、储热罐与节点
package heat

import (
	"math"

	"heatnet/element"
	"heatnet/params"
	"heatnet/physics"
	"heatnet/symbolic"
	"heatnet/types"
)

// PipeType 定义元件
var PipeType = element.AddElement(types.TypePipe, &Pipe{
	&element.Config{
		Type:           types.TypePipe,
		Commodity:      types.CommodityHeat,
		Disconnectable: true,
		Defaults: element.HeatDefaults(params.Tree{
			"length":      params.Scalar(1),
			"diameter":    params.Scalar(1),
			"v_nominal":   params.Scalar(1),
			"temperature": params.Unset(),
			"area":        params.Unset(),
			"Q_nominal":   params.Unset(),
			// 热损参数，未设置时使用库缺省值
			"insulation_thickness":    params.Unset(),
			"conductivity_insulation": params.Unset(),
			"conductivity_subsoil":    params.Unset(),
			"depth":                   params.Unset(),
			"h_surface":               params.Unset(),
			"pipe_pair_distance":      params.Unset(),
			"T_ground":                params.Scalar(types.DefaultGroundTemperature),
			"U_1":                     params.Unset(),
			"U_2":                     params.Unset(),
			"heat_loss":               params.Unset(),
			"has_control_valve":       params.Bool(false),
			"friction_factor":         params.Scalar(types.DefaultFrictionFactor),
		}),
	},
})

// Pipe 热网管道。管道热损方程依赖运行时的断开状态，由装配器生成。
type Pipe struct{ *element.Config }

func (Pipe) Build(b *element.Builder) {
	length := b.NonNegative("length")
	diameter := b.Positive("diameter")
	b.Positive("friction_factor")
	b.Bool("has_control_valve")
	area := b.Derive("area", 0.25*math.Pi*diameter*diameter)
	qNominal := b.Derive("Q_nominal", area*b.Positive("v_nominal"))
	heatNominal := b.HeatScale(qNominal)
	nominalHead := b.Positive("nominal_head")

	loss := pipeHeatLoss(b, diameter, length)

	b.HeatTwoPort(qNominal, heatNominal)
	dH := b.Variable("dH", symbolic.WithMax(0), symbolic.WithNominal(nominalHead))
	lossNominal := heatNominal
	if loss > 0 {
		lossNominal = loss
	}
	b.Variable("Heat_loss", symbolic.WithNominal(lossNominal))
	b.HeadEquation(dH, nominalHead)
}

// pipeHeatLoss 派生 U 值与热损功率。未给出温度制度时热损为 0。
func pipeHeatLoss(b *element.Builder, diameter, length float64) float64 {
	hp := physics.DefaultHeatLoss(diameter)
	if list, ok := b.Floats("insulation_thickness"); ok {
		hp.InsulationThickness = list
		hp.ConductivityInsulation = nil
		for range list {
			hp.ConductivityInsulation = append(hp.ConductivityInsulation, physics.DefaultConductivityInsulation)
		}
	}
	if list, ok := b.Floats("conductivity_insulation"); ok {
		hp.ConductivityInsulation = list
	}
	hp.ConductivitySubsoil = b.FloatOr("conductivity_subsoil", hp.ConductivitySubsoil)
	hp.Depth = b.FloatOr("depth", hp.Depth)
	hp.HSurface = b.FloatOr("h_surface", hp.HSurface)
	hp.PipeDistance = b.FloatOr("pipe_pair_distance", hp.PipeDistance)
	if b.Err() != nil {
		return 0
	}
	u1, u2, err := physics.UValues(hp)
	if err != nil {
		b.Fail("insulation_thickness", "%v", err)
		return 0
	}
	u1, u2 = b.Derive("U_1", u1), b.Derive("U_2", u2)

	temperature, known := 0.0, false
	switch {
	case b.IsSet("temperature"):
		temperature, known = b.Float("temperature"), true
	case b.IsSet("T_supply"):
		temperature, known = b.Float("T_supply"), true
	}
	if !known {
		return b.Derive("heat_loss", 0)
	}
	dT, _ := b.DerivedValue("dT")
	if b.IsSet("T_return") && temperature == b.Float("T_return") {
		dT = -dT
	}
	return b.Derive("heat_loss", physics.HeatLoss(u1, u2, length, temperature, b.Float("T_ground"), dT))
}
