package system

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/floats"

	"heatnet/element"
	"heatnet/element/heat"
	"heatnet/graph"
	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

func newComponent(t *testing.T, eleType types.ComponentType, name string, mod params.Tree) *element.Component {
	t.Helper()
	comp, err := element.New(eleType, name, mod)
	require.NoError(t, err)
	return comp
}

func link(t *testing.T, topo *types.Topology, from, to string) {
	t.Helper()
	a := strings.SplitN(from, ".", 2)
	b := strings.SplitN(to, ".", 2)
	_, err := topo.Connect(
		types.PortRef{Component: a[0], Port: a[1], Direction: types.DirectionOut},
		types.PortRef{Component: b[0], Port: b[1], Direction: types.DirectionIn},
	)
	require.NoError(t, err)
}

func headNominal(value float64) params.Value {
	return params.Mapping(params.Tree{"H": params.Mapping(params.Tree{"nominal": params.Scalar(value)})})
}

// network 热源 → 供水管 → 节点 → 两个用户 → 节点 → 回水管 → 热源
func network(t *testing.T) *graph.Graph {
	comps := []*element.Component{
		newComponent(t, heat.SourceType, "source", nil),
		newComponent(t, heat.PipeType, "pipe", params.Tree{
			"length":      params.Scalar(100),
			"diameter":    params.Scalar(0.2),
			"temperature": params.Scalar(70),
			"T_supply":    params.Scalar(70),
			"T_return":    params.Scalar(40),
			"HeatOut":     headNominal(10),
		}),
		newComponent(t, heat.NodeType, "joint", params.Tree{"n": params.Scalar(3)}),
		newComponent(t, heat.DemandType, "demand_a", params.Tree{"HeatIn": headNominal(1000)}),
		newComponent(t, heat.DemandType, "demand_b", nil),
		newComponent(t, heat.NodeType, "joint_ret", params.Tree{"n": params.Scalar(3)}),
		newComponent(t, heat.PipeType, "pipe_ret", nil),
	}
	topo := types.NewTopology()
	link(t, topo, "source.HeatOut", "pipe.HeatIn")
	link(t, topo, "pipe.HeatOut", "joint.HeatConn[1]")
	link(t, topo, "joint.HeatConn[2]", "demand_a.HeatIn")
	link(t, topo, "joint.HeatConn[3]", "demand_b.HeatIn")
	link(t, topo, "demand_a.HeatOut", "joint_ret.HeatConn[1]")
	link(t, topo, "demand_b.HeatOut", "joint_ret.HeatConn[2]")
	link(t, topo, "joint_ret.HeatConn[3]", "pipe_ret.HeatIn")
	link(t, topo, "pipe_ret.HeatOut", "source.HeatIn")
	g, err := graph.NewGraph(comps, topo)
	require.NoError(t, err)
	return g
}

func TestAssemble(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	g := network(t)
	sys, err := Assemble(g, Options{Logger: zap.New(core)})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("装配完成").Len())

	// 变量按名称排序，尺度均为有限正数
	for i, v := range sys.Variables {
		if i > 0 {
			assert.Less(t, sys.Variables[i-1].Name, v.Name)
		}
		assert.True(t, v.Nominal > 0 && !math.IsInf(v.Nominal, 0), "变量 %s 尺度错误: %g", v.Name, v.Nominal)
	}
	// 方程不引用变量表以外的变量
	for _, eq := range sys.Equations {
		for _, s := range eq.Symbols() {
			_, ok := sys.Variable(s)
			assert.True(t, ok, "方程 %s 引用了未知变量 %s", eq, s)
		}
	}
	for _, c := range g.Components {
		assert.Equal(t, element.StageFlattened, c.Stage())
	}
	assert.Equal(t, []string{"demand_a", "demand_b"}, sys.Roles[types.TypeDemand])
	assert.Equal(t, []string{"joint", "joint_ret"}, sys.Roles[types.TypeNode])

	area, ok := sys.Parameter("pipe.area")
	require.True(t, ok)
	assert.InDelta(t, math.Pi*0.01, area, 1e-12)
	_, ok = sys.Parameter("pipe.missing")
	assert.False(t, ok)

	// 同一组元件不能装配两次
	_, err = Assemble(g, Options{})
	var cfgErr *types.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestFlowConservation(t *testing.T) {
	sys, err := Assemble(network(t), Options{})
	require.NoError(t, err)

	env := symbolic.Propagate(sys.Equations, symbolic.Env{
		"source.HeatOut.Q":  0.1,
		"demand_a.HeatIn.Q": 0.04,
	})
	assert.InDelta(t, 0.1, env["pipe.HeatIn.Q"], 1e-12)
	assert.InDelta(t, 0.1, env["pipe.HeatOut.Q"], 1e-12)
	assert.InDelta(t, 0.1, env["joint.HeatConn[1].Q"], 1e-12)
	assert.InDelta(t, 0.06, env["demand_b.HeatIn.Q"], 1e-12)
	assert.InDelta(t, 0.1, env["pipe_ret.HeatOut.Q"], 1e-12)
	assert.InDelta(t, 0.1, env["source.HeatIn.Q"], 1e-12)
}

func TestNominalResolution(t *testing.T) {
	sys, err := Assemble(network(t), Options{})
	require.NoError(t, err)

	pipeHeat, _ := sys.Variable("pipe.HeatOut.Heat")
	jointHeat, _ := sys.Variable("joint.HeatConn[1].Heat")
	assert.False(t, jointHeat.NominalSet())
	assert.Equal(t, pipeHeat.Nominal, jointHeat.Nominal)

	// 节点势变量与两侧显式尺度 10、1000 同组，取几何平均
	for _, name := range []string{"joint.HeatConn[1].H", "joint.HeatConn[2].H", "joint.HeatConn[3].H", "demand_b.HeatIn.H"} {
		v, ok := sys.Variable(name)
		require.True(t, ok)
		assert.InEpsilon(t, 100, v.Nominal, 1e-12, name)
	}
	explicit, _ := sys.Variable("demand_a.HeatIn.H")
	assert.Equal(t, 1000.0, explicit.Nominal)

	// 无别名的变量使用缺省尺度
	free, _ := sys.Variable("joint_ret.HeatConn[1].H")
	assert.Equal(t, 1.0, free.Nominal)
}

func TestNominalMultiMemberWire(t *testing.T) {
	comps := []*element.Component{
		newComponent(t, heat.PipeType, "pipe", params.Tree{"HeatOut": headNominal(10)}),
		newComponent(t, heat.PipeType, "pipe_a", nil),
		newComponent(t, heat.PipeType, "pipe_b", nil),
	}
	topo := types.NewTopology()
	wid := topo.AddWire()
	for _, ref := range []types.PortRef{
		{Component: "pipe", Port: "HeatOut", Direction: types.DirectionOut},
		{Component: "pipe_a", Port: "HeatIn", Direction: types.DirectionIn},
		{Component: "pipe_b", Port: "HeatIn", Direction: types.DirectionIn},
	} {
		_, ok := topo.AddWireList(wid, ref)
		require.True(t, ok)
	}
	g, err := graph.NewGraph(comps, topo)
	require.NoError(t, err)

	sys, err := Assemble(g, Options{})
	require.NoError(t, err)
	for _, name := range []string{"pipe_a.HeatIn.H", "pipe_b.HeatIn.H"} {
		v, ok := sys.Variable(name)
		require.True(t, ok)
		assert.False(t, v.NominalSet(), name)
		assert.Equal(t, 10.0, v.Nominal, name)
	}
}

func TestPipeHeatLoss(t *testing.T) {
	sys, err := Assemble(network(t), Options{})
	require.NoError(t, err)
	loss, _ := sys.Parameter("pipe.heat_loss")
	require.Greater(t, loss, 0.0)

	env := symbolic.Propagate(sys.Equations, symbolic.Env{"pipe.HeatIn.Heat": 5e5})
	assert.InEpsilon(t, loss, env["pipe.Heat_loss"], 1e-12)
	assert.InEpsilon(t, 5e5-loss, env["pipe.HeatOut.Heat"], 1e-12)
}

func TestDisconnectedPipe(t *testing.T) {
	tests := []struct {
		name     string
		keepLoss bool
		lossZero bool
	}{
		{"断开管道无热损", false, true},
		{"断开管道保留热损", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := Assemble(network(t), Options{Disconnected: []string{"pipe"}, HeatLossDisconnectedPipe: tt.keepLoss})
			require.NoError(t, err)
			env := symbolic.Propagate(sys.Equations, symbolic.Env{})
			assert.InDelta(t, 0, env["pipe.Q"], 1e-12)
			if tt.lossZero {
				assert.InDelta(t, 0, env["pipe.Heat_loss"], 1e-12)
			} else {
				assert.Greater(t, env["pipe.Heat_loss"], 0.0)
			}
		})
	}
}

func TestDisconnectedUnknown(t *testing.T) {
	tests := []struct {
		name string
		pipe string
	}{
		{"不存在", "ghost"},
		{"不是管道", "demand_a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(network(t), Options{Disconnected: []string{tt.pipe}})
			var cfgErr *types.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.pipe, cfgErr.Asset)
		})
	}
}

func TestAssembleFailureKeepsStage(t *testing.T) {
	g := network(t)
	_, err := Assemble(g, Options{Disconnected: []string{"ghost"}})
	require.Error(t, err)
	for _, c := range g.Components {
		assert.Equal(t, element.StageConstructed, c.Stage(), c.Name)
	}

	// 失败后可以重新装配
	_, err = Assemble(g, Options{})
	require.NoError(t, err)
	for _, c := range g.Components {
		assert.Equal(t, element.StageFlattened, c.Stage(), c.Name)
	}
}

func TestIncidenceAndExport(t *testing.T) {
	sys, err := Assemble(network(t), Options{})
	require.NoError(t, err)

	m := sys.Incidence()
	r, c := m.Dims()
	assert.Equal(t, len(sys.Equations), r)
	assert.Equal(t, len(sys.Variables), c)
	for i, eq := range sys.Equations {
		assert.Equal(t, float64(len(eq.Symbols())), floats.Sum(m.RawRowView(i)), "方程 %s", eq)
	}

	var buf bytes.Buffer
	require.NoError(t, sys.WriteVariablesCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "name,min,max,nominal,fixed", lines[0])
	assert.Len(t, lines, len(sys.Variables)+1)

	buf.Reset()
	require.NoError(t, sys.WriteEquations(&buf))
	assert.Equal(t, len(sys.Equations), strings.Count(buf.String(), "\n"))

	_, err = sys.Residuals(symbolic.Env{})
	assert.Error(t, err)
}

func TestEmptySystem(t *testing.T) {
	g, err := graph.NewGraph(nil, types.NewTopology())
	require.NoError(t, err)
	sys, err := Assemble(g, Options{})
	require.NoError(t, err)
	assert.Empty(t, sys.Equations)
	assert.True(t, sys.Incidence().IsEmpty())
}
