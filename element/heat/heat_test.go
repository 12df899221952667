package heat

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatnet/element"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// checkComponent 检查尺度为有限正数且方程不引用外部变量
func checkComponent(t *testing.T, comp *element.Component) {
	t.Helper()
	for _, v := range comp.Variables() {
		assert.True(t, v.Nominal > 0 && !math.IsInf(v.Nominal, 0), "变量 %s 尺度错误: %g", v.Name, v.Nominal)
	}
	for _, eq := range comp.Equations() {
		for _, s := range eq.Symbols() {
			local, ok := strings.CutPrefix(s, comp.Name+".")
			require.True(t, ok, "方程 %s 引用了外部变量 %s", eq, s)
			_, ok = comp.Variable(local)
			assert.True(t, ok, "方程 %s 引用了未声明变量 %s", eq, s)
		}
	}
}

func pipeModifiers() params.Tree {
	return params.Tree{
		"length":      params.Scalar(500),
		"diameter":    params.Scalar(0.2),
		"temperature": params.Scalar(70),
		"T_supply":    params.Scalar(70),
		"T_return":    params.Scalar(40),
	}
}

func TestPipe(t *testing.T) {
	comp, err := element.New(PipeType, "pipe_1", pipeModifiers())
	require.NoError(t, err)
	checkComponent(t, comp)
	assert.True(t, comp.Disconnectable)

	area, _ := comp.Float("area")
	assert.InDelta(t, math.Pi*0.04/4, area, 1e-12)
	qn, _ := comp.Float("Q_nominal")
	assert.InDelta(t, area, qn, 1e-12)
	hn, _ := comp.Float("Heat_nominal")
	assert.InDelta(t, 4200*988*30*qn, hn, 1e-6)
	loss, _ := comp.Float("heat_loss")
	assert.Greater(t, loss, 0.0)

	dH, _ := comp.Variable("dH")
	assert.Equal(t, 0.0, dH.Max)

	// 流量守恒
	env := symbolic.Propagate(comp.Equations(), symbolic.Env{"pipe_1.HeatIn.Q": 0.02})
	assert.InDelta(t, 0.02, env["pipe_1.HeatOut.Q"], 1e-12)
	assert.InDelta(t, 0.02, env["pipe_1.Q"], 1e-12)
}

func TestPipeReturnLoss(t *testing.T) {
	supply, err := element.New(PipeType, "supply", pipeModifiers())
	require.NoError(t, err)
	mod := pipeModifiers()
	mod["temperature"] = params.Scalar(40)
	ret, err := element.New(PipeType, "supply_ret", mod)
	require.NoError(t, err)

	a, _ := supply.Float("heat_loss")
	b, _ := ret.Float("heat_loss")
	assert.Less(t, b, a)
}

func TestPipeNoRegime(t *testing.T) {
	comp, err := element.New(PipeType, "p", params.Tree{"diameter": params.Scalar(0.1)})
	require.NoError(t, err)
	loss, ok := comp.Float("heat_loss")
	require.True(t, ok)
	assert.Equal(t, 0.0, loss)
	dT, _ := comp.Float("dT")
	assert.Equal(t, types.DefaultDeltaTemperature, dT)
}

func TestPipeInsulationLayers(t *testing.T) {
	mod := pipeModifiers()
	mod["insulation_thickness"] = params.Floats([]float64{0.05, 0.02})
	mod["conductivity_insulation"] = params.Floats([]float64{0.03, 0.04})
	_, err := element.New(PipeType, "p", mod)
	require.NoError(t, err)

	mod["conductivity_insulation"] = params.Floats([]float64{0.03})
	_, err = element.New(PipeType, "p", mod)
	var ce *types.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "insulation_thickness", ce.Path)
}

func TestEqualTemperaturesRejected(t *testing.T) {
	mod := pipeModifiers()
	mod["T_return"] = params.Scalar(70)
	_, err := element.New(DemandType, "d", params.Tree{"T_supply": params.Scalar(70), "T_return": params.Scalar(70)})
	var ce *types.ConfigurationError
	assert.True(t, errors.As(err, &ce), "温差为零应报错: %v", err)
	_, err = element.New(PipeType, "p", mod)
	assert.Error(t, err)
}

func TestDemandAndSource(t *testing.T) {
	demand, err := element.New(DemandType, "d", params.Tree{
		"Q_nominal":   params.Scalar(0.01),
		"Heat_demand": params.Mapping(params.Tree{"max": params.Scalar(100)}),
	})
	require.NoError(t, err)
	checkComponent(t, demand)
	v, _ := demand.Variable("Heat_demand")
	assert.Equal(t, 100.0, v.Max)
	assert.Equal(t, 0.0, v.Min)

	// 热平衡：入口热流 10，需求 4，出口 6
	env := symbolic.Propagate(demand.Equations(), symbolic.Env{"d.HeatIn.Heat": 10, "d.Heat_demand": 4})
	assert.InDelta(t, 6, env["d.HeatOut.Heat"], 1e-9)

	source, err := element.New(SourceType, "s", nil)
	require.NoError(t, err)
	checkComponent(t, source)
	env = symbolic.Propagate(source.Equations(), symbolic.Env{"s.HeatIn.Heat": 10, "s.Heat_source": 4})
	assert.InDelta(t, 14, env["s.HeatOut.Heat"], 1e-9)
}

func TestPumpAndBuffer(t *testing.T) {
	pump, err := element.New(PumpType, "pump", nil)
	require.NoError(t, err)
	checkComponent(t, pump)
	dH, _ := pump.Variable("dH")
	assert.Equal(t, 0.0, dH.Min)

	buffer, err := element.New(BufferType, "buf", params.Tree{
		"Stored_heat": params.Mapping(params.Tree{"min": params.Scalar(0), "max": params.Scalar(1e9)}),
		"init_Heat":   params.Scalar(0),
	})
	require.NoError(t, err)
	checkComponent(t, buffer)
	v, _ := buffer.Variable("Stored_heat")
	assert.Equal(t, 1e9, v.Max)

	found := false
	for _, eq := range buffer.Equations() {
		if strings.Contains(eq.String(), "der(buf.Stored_heat)") {
			found = true
		}
	}
	assert.True(t, found, "缺少储热导数方程")
}

func TestNode(t *testing.T) {
	node, err := element.New(NodeType, "j", params.Tree{"n": params.Scalar(3)})
	require.NoError(t, err)
	require.Len(t, node.Ports(), 3)
	assert.Equal(t, "HeatConn[3]", node.Ports()[2].Name)
	assert.Equal(t, types.DirectionFree, node.Ports()[0].Direction)
	assert.True(t, node.Conserving)
	assert.Empty(t, node.Equations())

	_, err = element.New(NodeType, "j", params.Tree{"n": params.Scalar(1.5)})
	assert.Error(t, err)
}

// TestPipeNominalProperty 任意几何参数下尺度均为有限正数
func TestPipeNominalProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("管道尺度为有限正数", prop.ForAll(
		func(diameter, length float64) bool {
			mod := pipeModifiers()
			mod["diameter"] = params.Scalar(diameter)
			mod["length"] = params.Scalar(length)
			comp, err := element.New(PipeType, "p", mod)
			if err != nil {
				return false
			}
			for _, v := range comp.Variables() {
				if !(v.Nominal > 0) || math.IsInf(v.Nominal, 0) {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0.02, 1.2),
		gen.Float64Range(0, 5000),
	))

	properties.TestingRun(t)
}
