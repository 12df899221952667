package heat

import (
	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// DemandType 定义元件
var DemandType = element.AddElement(types.TypeDemand, &Demand{
	&element.Config{
		Type:      types.TypeDemand,
		Commodity: types.CommodityHeat,
		Defaults:  element.HeatDefaults(params.Tree{}),
	},
})

// Demand 热用户：从流经的热水取走热量 Heat_demand ≥ 0
type Demand struct{ *element.Config }

func (Demand) Build(b *element.Builder) {
	qNominal := b.Positive("Q_nominal")
	heatNominal := b.HeatScale(qNominal)
	nominalHead := b.Positive("nominal_head")

	b.HeatTwoPort(qNominal, heatNominal)
	heat := b.Variable("Heat_demand", symbolic.WithMin(0), symbolic.WithNominal(heatNominal))
	dH := b.Variable("dH", symbolic.WithMax(0), symbolic.WithNominal(nominalHead))
	b.Equation(symbolic.Sub(b.Sym("HeatOut.Heat"), symbolic.Sub(b.Sym("HeatIn.Heat"), heat)), heatNominal)
	b.HeadEquation(dH, nominalHead)
}
