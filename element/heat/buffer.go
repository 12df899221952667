package heat

import (
	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// BufferType 定义元件
var BufferType = element.AddElement(types.TypeBuffer, &Buffer{
	&element.Config{
		Type:      types.TypeBuffer,
		Commodity: types.CommodityHeat,
		Defaults: element.HeatDefaults(params.Tree{
			"init_Heat":           params.Scalar(0),
			"heat_loss_coeff":     params.Scalar(1e-6), // 每秒损失的储热比例
			"storage_time":        params.Scalar(3600),
			"Stored_heat_nominal": params.Unset(),
		}),
	},
})

// Buffer 储热罐：der(Stored_heat) = Heat_buffer − Heat_loss
type Buffer struct{ *element.Config }

func (Buffer) Build(b *element.Builder) {
	qNominal := b.Positive("Q_nominal")
	heatNominal := b.HeatScale(qNominal)
	nominalHead := b.Positive("nominal_head")
	b.NonNegative("init_Heat")
	coeff := b.NonNegative("heat_loss_coeff")
	storedNominal := b.Derive("Stored_heat_nominal", heatNominal*b.Positive("storage_time"))

	b.HeatTwoPort(qNominal, heatNominal)
	stored := b.Variable("Stored_heat", symbolic.WithMin(0), symbolic.WithNominal(storedNominal))
	heat := b.Variable("Heat_buffer", symbolic.WithNominal(heatNominal))
	loss := b.Variable("Heat_loss", symbolic.WithMin(0), symbolic.WithNominal(heatNominal))

	b.Equation(symbolic.Sub(symbolic.DerOf(stored), symbolic.Sub(heat, loss)), heatNominal)
	b.Equation(symbolic.Sub(loss, symbolic.Scale(coeff, stored)), heatNominal)
	b.Equation(symbolic.Sub(heat, symbolic.Sub(b.Sym("HeatIn.Heat"), b.Sym("HeatOut.Heat"))), heatNominal)
	b.Equation(symbolic.Sub(b.Sym("HeatOut.H"), b.Sym("HeatIn.H")), nominalHead)
}
