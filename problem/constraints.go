package problem

import (
	"math"

	"heatnet/physics"
	"heatnet/symbolic"
	"heatnet/system"
	"heatnet/types"
)

// LinearHeadLoss 管道压损按额定流速处的 Darcy–Weisbach 线性化：−dH = c·Q
type LinearHeadLoss struct {
	Velocity float64 // 线性化流速 [m/s]，为零时使用 1
}

// Constraints 生成约束，摩擦系数取管道参数 friction_factor
func (l LinearHeadLoss) Constraints(sys *system.System) ([]Constraint, error) {
	velocity := l.Velocity
	if velocity == 0 {
		velocity = 1
	}
	if velocity < 0 || !types.IsUsable(velocity) {
		return nil, types.Configf("", "velocity", "线性化流速必须为有限正数，得到 %g", velocity)
	}
	var out []Constraint
	for _, name := range sys.Roles[types.TypePipe] {
		if !hasHeadLoss(sys, name) {
			continue
		}
		ff, ok := sys.Parameter(name + ".friction_factor")
		if !ok {
			return nil, types.Configf(name, "friction_factor", "管道缺少摩擦系数")
		}
		length, _ := sys.Parameter(name + ".length")
		diameter, ok := sys.Parameter(name + ".diameter")
		if !ok || diameter <= 0 {
			return nil, types.Configf(name, "diameter", "管径必须为正数")
		}
		c := physics.LinearHeadLossCoefficient(ff, length, diameter, velocity)

		dH, okH := sys.Variable(name + ".dH")
		q, okQ := sys.Variable(name + ".Q")
		if !okH || !okQ {
			return nil, &types.ReferenceError{Component: name, Symbol: name + ".dH"}
		}
		nominal := math.Sqrt(dH.Nominal * c * q.Nominal)
		expr := symbolic.Add(dH.Sym(), symbolic.Scale(c, q.Sym()))
		if nominal > 0 && types.IsUsable(nominal) {
			expr = symbolic.Div(expr, symbolic.Const(nominal))
		}
		out = append(out, Constraint{Origin: name, Expr: expr, Min: 0, Max: 0})
	}
	return out, nil
}

// checkSymbols 目标与约束只能引用方程组中的变量
func checkSymbols(sys *system.System, origin string, expr symbolic.Expr) error {
	for _, s := range symbolic.Symbols(expr) {
		if _, ok := sys.Variable(s); !ok {
			return &types.ReferenceError{Component: origin, Symbol: s}
		}
	}
	return nil
}
