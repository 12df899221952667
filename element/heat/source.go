package heat

import (
	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// SourceType 定义元件
var SourceType = element.AddElement(types.TypeSource, &Source{
	&element.Config{
		Type:      types.TypeSource,
		Commodity: types.CommodityHeat,
		Defaults:  element.HeatDefaults(params.Tree{}),
	},
})

// Source 热源：向流经的热水注入热量 Heat_source ≥ 0
type Source struct{ *element.Config }

func (Source) Build(b *element.Builder) {
	qNominal := b.Positive("Q_nominal")
	heatNominal := b.HeatScale(qNominal)
	nominalHead := b.Positive("nominal_head")

	b.HeatTwoPort(qNominal, heatNominal)
	heat := b.Variable("Heat_source", symbolic.WithMin(0), symbolic.WithNominal(heatNominal))
	dH := b.Variable("dH", symbolic.WithMin(0), symbolic.WithNominal(nominalHead))
	b.Equation(symbolic.Sub(b.Sym("HeatOut.Heat"), symbolic.Add(b.Sym("HeatIn.Heat"), heat)), heatNominal)
	b.HeadEquation(dH, nominalHead)
}
