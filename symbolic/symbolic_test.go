package symbolic

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatnet/types"
)

func TestNewVariable(t *testing.T) {
	v, err := NewVariable("pipe.Q")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Nominal)
	assert.True(t, math.IsInf(v.Min, -1))
	assert.True(t, math.IsInf(v.Max, 1))
	assert.False(t, v.NominalSet())

	v, err = NewVariable("pipe.Q", WithMin(-2), WithMax(2), WithNominal(0.5), WithFixed(1))
	require.NoError(t, err)
	assert.Equal(t, 0.5, v.Nominal)
	assert.True(t, v.NominalSet())
	require.NotNil(t, v.Fixed)
	assert.Equal(t, 1.0, *v.Fixed)
}

func TestNewVariableInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"上下界颠倒", []Option{WithMin(1), WithMax(0)}},
		{"尺度为零", []Option{WithNominal(0)}},
		{"尺度为负", []Option{WithNominal(-1)}},
		{"尺度为 NaN", []Option{WithNominal(math.NaN())}},
		{"尺度为无穷", []Option{WithNominal(math.Inf(1))}},
		{"固定值为 NaN", []Option{WithFixed(math.NaN())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVariable("x", tt.opts...)
			var cfgErr *types.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "期望配置错误，得到 %v", err)
			assert.Equal(t, "x", cfgErr.Path)
		})
	}
}

func TestSymbolsAndEval(t *testing.T) {
	e := Div(Sub(Sym("a.HeatIn.Q"), Add(Sym("a.Q"), Const(1), DerOf("a.S"))), Const(2))
	assert.Equal(t, []string{"a.HeatIn.Q", "a.Q", "a.S"}, Symbols(e))

	v, err := e.Eval(Env{"a.HeatIn.Q": 7, "a.Q": 2, "der(a.S)": 0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-12)

	_, err = e.Eval(Env{"a.Q": 2})
	assert.Error(t, err)

	v, err = Sqrt(PowOf(Neg(Const(3)), 2)).Eval(nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-12)
}

func TestSubstitute(t *testing.T) {
	e := Sub(Sym("x"), Mul(Const(2), Sym("y")))
	e = Substitute(e, "y", Const(3))
	assert.Equal(t, []string{"x"}, Symbols(e))
	v, err := e.Eval(Env{"x": 6})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestPropagate(t *testing.T) {
	eqs := []Equation{
		NewEquation("p", Div(Sub(Sym("in"), Sym("out")), Const(0.5))),
		NewEquation("p", Sub(Sym("q"), Sym("out"))),
		NewEquation("p", Sub(Mul(Sym("q"), Sym("q")), Sym("sq"))),
	}
	env := Propagate(eqs, Env{"in": 3})
	assert.InDelta(t, 3.0, env["out"], 1e-12)
	assert.InDelta(t, 3.0, env["q"], 1e-12)
	// sq 只出现在非线性方程中，但关于 sq 本身是线性的
	assert.InDelta(t, 9.0, env["sq"], 1e-12)

	// 关于未知量非线性的方程不求解
	env = Propagate([]Equation{NewEquation("p", Sub(Mul(Sym("x"), Sym("x")), Const(4)))}, Env{})
	_, ok := env["x"]
	assert.False(t, ok)
}

func TestPropagateLargeNominal(t *testing.T) {
	eqs := []Equation{
		NewEquation("p", Div(Sub(Sym("x"), Const(498319.19)), Const(1.2345678e7))),
		NewEquation("p", Div(Sub(Sub(Sym("in"), Sym("out")), Sym("x")), Const(3.9e6))),
		NewEquation("p", Sub(Sym("y"), Sqrt(PowOf(Sym("x"), 2)))),
	}
	env := Propagate(eqs, Env{"in": 5e5})
	assert.InDelta(t, 498319.19, env["x"], 1e-9)
	assert.InDelta(t, 5e5-498319.19, env["out"], 1e-9)
	assert.InDelta(t, 498319.19, env["y"], 1e-9)

	// 除以未知量不是线性方程
	env = Propagate([]Equation{NewEquation("p", Sub(Div(Const(1), Sym("x")), Const(2)))}, Env{})
	_, ok := env["x"]
	assert.False(t, ok)
}

func TestEquationString(t *testing.T) {
	eq := NewEquation("p", Sub(Sym("a"), Const(1)))
	assert.Equal(t, "(a - 1) = 0", eq.String())
}
