package element

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

const (
	testConductor types.ComponentType = "test_conductor"
	testDangling  types.ComponentType = "test_dangling"
	testFlatEq    types.ComponentType = "test_flat"
)

// conductor 测试用两端口元件
type conductor struct{}

func (conductor) GetConfig() *Config {
	return &Config{
		Type:      testConductor,
		Commodity: types.CommodityHeat,
		Defaults: params.Tree{
			"diameter":  params.Scalar(0.1),
			"Q_nominal": params.Unset(),
			"HeatIn": params.Mapping(params.Tree{
				"Heat": params.Mapping(params.Tree{"max": params.Scalar(1), "min": params.Scalar(-1)}),
			}),
		},
	}
}

func (conductor) Build(b *Builder) {
	d := b.Positive("diameter")
	qn := b.Derive("Q_nominal", math.Pi*d*d/4)
	b.Port("HeatIn", PortHeat, types.DirectionIn)
	b.Port("HeatOut", PortHeat, types.DirectionOut)
	q := b.Variable("Q", symbolic.WithNominal(qn))
	b.Equation(symbolic.Sub(b.Sym("HeatIn.Q"), q), qn)
	b.Equation(symbolic.Sub(b.Sym("HeatOut.Q"), b.Sym("HeatIn.Q")), qn)
}

type dangling struct{}

func (dangling) GetConfig() *Config { return &Config{Type: testDangling, Defaults: params.Tree{}} }

func (dangling) Build(b *Builder) {
	b.Variable("x")
	b.Equation(symbolic.Sub(b.Sym("x"), b.Sym("y")), 1)
}

type flat struct{}

func (flat) GetConfig() *Config { return &Config{Type: testFlatEq, Defaults: params.Tree{}} }

func (flat) Build(b *Builder) {
	b.Equation(b.Variable("x"), 0)
}

func init() {
	AddElement(testConductor, conductor{})
	AddElement(testDangling, dangling{})
	AddElement(testFlatEq, flat{})
}

func TestNewMergesPortAttributes(t *testing.T) {
	comp, err := New(testConductor, "p1", params.Tree{
		"HeatIn": params.Mapping(params.Tree{"Heat": params.Mapping(params.Tree{"max": params.Scalar(5)})}),
	})
	require.NoError(t, err)

	v, ok := comp.Variable("HeatIn.Heat")
	require.True(t, ok)
	assert.Equal(t, 5.0, v.Max)
	assert.Equal(t, -1.0, v.Min)
	assert.Equal(t, "p1.HeatIn.Heat", v.Name)
	assert.Equal(t, StageConstructed, comp.Stage())
}

func TestNewDerivedAndOverride(t *testing.T) {
	comp, err := New(testConductor, "p1", nil)
	require.NoError(t, err)
	qn, ok := comp.Float("Q_nominal")
	require.True(t, ok)
	assert.InDelta(t, math.Pi*0.01/4, qn, 1e-12)

	comp, err = New(testConductor, "p1", params.Tree{"Q_nominal": params.Scalar(2)})
	require.NoError(t, err)
	qn, _ = comp.Float("Q_nominal")
	assert.Equal(t, 2.0, qn)
	v, _ := comp.Variable("Q")
	assert.Equal(t, 2.0, v.Nominal)
	assert.True(t, v.NominalSet())
}

func TestNewRejectsBadModifiers(t *testing.T) {
	cases := []struct {
		name string
		mod  params.Tree
		path string
	}{
		{"未知参数", params.Tree{"bogus": params.Scalar(1)}, "bogus"},
		{"未知端口", params.Tree{"Nope": params.Mapping(params.Tree{})}, "Nope"},
		{"未知端口变量", params.Tree{"HeatIn": params.Mapping(params.Tree{"X": params.Mapping(params.Tree{})})}, "HeatIn.X"},
		{"上下界颠倒", params.Tree{"Q": params.Mapping(params.Tree{"min": params.Scalar(3), "max": params.Scalar(1)})}, "Q"},
		{"未知属性", params.Tree{"Q": params.Mapping(params.Tree{"scale": params.Scalar(3)})}, "Q.scale"},
		{"必需量非正", params.Tree{"diameter": params.Scalar(0)}, "diameter"},
		{"尺度为零", params.Tree{"Q_nominal": params.Scalar(0)}, "Q"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(testConductor, "p1", tc.mod)
			require.Error(t, err)
			var ce *types.ConfigurationError
			require.True(t, errors.As(err, &ce), "错误类型不符: %v", err)
			assert.Equal(t, "p1", ce.Asset)
			assert.Equal(t, tc.path, ce.Path)
		})
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := New("nothing", "x", nil)
	var ce *types.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}

func TestEquationReferenceError(t *testing.T) {
	_, err := New(testDangling, "d", nil)
	var re *types.ReferenceError
	require.True(t, errors.As(err, &re), "错误类型不符: %v", err)
	assert.Equal(t, "d.y", re.Symbol)
}

func TestEquationNominalMustBePositive(t *testing.T) {
	_, err := New(testFlatEq, "f", nil)
	var ce *types.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "equation[0]", ce.Path)
}

func TestEquationsAreNormalizedAndResolved(t *testing.T) {
	comp, err := New(testConductor, "p1", nil)
	require.NoError(t, err)
	require.Len(t, comp.Equations(), 2)
	for _, eq := range comp.Equations() {
		for _, s := range eq.Symbols() {
			local := s[len("p1."):]
			_, ok := comp.Variable(local)
			assert.True(t, ok, "未解析的符号 %s", s)
		}
	}
	// 流量守恒：给定入口流量即可推出出口流量
	env := symbolic.Propagate(comp.Equations(), symbolic.Env{"p1.HeatIn.Q": 0.7})
	assert.InDelta(t, 0.7, env["p1.HeatOut.Q"], 1e-12)
	assert.InDelta(t, 0.7, env["p1.Q"], 1e-12)
}

func TestPortAddVariable(t *testing.T) {
	port, err := NewPort("GasIn", PortGas, types.DirectionIn)
	require.NoError(t, err)
	require.NoError(t, port.AddVariable("Q_shadow"))

	err = port.AddVariable("Heat")
	var ce *types.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "GasIn.Heat", ce.Path)
	assert.Error(t, port.AddVariable("Q_shadow"))
	assert.False(t, port.Complete())

	_, err = NewPort("x", "steam", types.DirectionIn)
	assert.Error(t, err)
}

func TestStageAdvance(t *testing.T) {
	comp, err := New(testConductor, "p1", nil)
	require.NoError(t, err)
	assert.Error(t, comp.Advance(StageFlattened))
	assert.Error(t, comp.Advance(StageDeclared))
	require.NoError(t, comp.Advance(StageConnected))
	require.NoError(t, comp.Advance(StageFlattened))
	assert.Error(t, comp.Advance(StageFlattened))
}

func TestAddElementDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() { AddElement(testConductor, conductor{}) })
}
