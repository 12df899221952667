package electricity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
)

func TestCable(t *testing.T) {
	comp, err := element.New(CableType, "c", params.Tree{"length": params.Scalar(1000)})
	require.NoError(t, err)
	assert.False(t, comp.Disconnectable)

	current, _ := comp.Float("nominal_current")
	voltage, _ := comp.Float("nominal_voltage")
	assert.Equal(t, 71.0, current)
	assert.Equal(t, 615.0, voltage)

	env := symbolic.Propagate(comp.Equations(), symbolic.Env{
		"c.ElectricityIn.V":     400,
		"c.ElectricityIn.I":     100,
		"c.ElectricityIn.Power": 40000,
		"c.Power_loss":          100,
	})
	assert.InDelta(t, 400-1e-3*100, env["c.ElectricityOut.V"], 1e-9)
	assert.InDelta(t, 100, env["c.ElectricityOut.I"], 1e-9)
	assert.InDelta(t, 39900, env["c.ElectricityOut.Power"], 1e-6)

	v, _ := comp.Variable("ElectricityIn.V")
	assert.Equal(t, 230.0, v.Min)
}

func TestCableZeroLength(t *testing.T) {
	comp, err := element.New(CableType, "c", params.Tree{"length": params.Scalar(0)})
	require.NoError(t, err)
	assert.Len(t, comp.Equations(), 3)
}

func TestVoltageRangeInverted(t *testing.T) {
	_, err := element.New(DemandType, "d", params.Tree{"min_voltage": params.Scalar(2000)})
	assert.Error(t, err)
}

func TestTerminals(t *testing.T) {
	demand, err := element.New(DemandType, "d", params.Tree{
		"Electricity_demand": params.Mapping(params.Tree{"max": params.Scalar(5000)}),
	})
	require.NoError(t, err)
	v, _ := demand.Variable("Electricity_demand")
	assert.Equal(t, 5000.0, v.Max)

	source, err := element.New(SourceType, "s", nil)
	require.NoError(t, err)
	env := symbolic.Propagate(source.Equations(), symbolic.Env{"s.Electricity_source": 300})
	assert.InDelta(t, 300, env["s.ElectricityOut.Power"], 1e-9)

	node, err := element.New(NodeType, "bus", params.Tree{"n": params.Scalar(4)})
	require.NoError(t, err)
	assert.Len(t, node.Ports(), 4)
}
