package heat

import (
	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// PumpType 定义元件
var PumpType = element.AddElement(types.TypePump, &Pump{
	&element.Config{
		Type:      types.TypePump,
		Commodity: types.CommodityHeat,
		Defaults:  element.HeatDefaults(params.Tree{}),
	},
})

// Pump 水泵：抬升压头，热流直通
type Pump struct{ *element.Config }

func (Pump) Build(b *element.Builder) {
	qNominal := b.Positive("Q_nominal")
	heatNominal := b.HeatScale(qNominal)
	nominalHead := b.Positive("nominal_head")

	b.HeatTwoPort(qNominal, heatNominal)
	dH := b.Variable("dH", symbolic.WithMin(0), symbolic.WithNominal(nominalHead))
	b.Equation(symbolic.Sub(b.Sym("HeatOut.Heat"), b.Sym("HeatIn.Heat")), heatNominal)
	b.HeadEquation(dH, nominalHead)
}
