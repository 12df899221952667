package system

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"heatnet/element"
	"heatnet/graph"
	"heatnet/symbolic"
)

// couple 每条线：流量变量按方向求和为零，势变量两两相等
func (a *assembler) couple() error {
	for _, node := range a.graph.Nodes {
		origin := fmt.Sprintf("wire[%d]", node.Wire)
		if err := a.balance(origin, node.Kind, node.Members); err != nil {
			return err
		}
	}
	return nil
}

// conserve 守恒元件：按连接方向对其端口写流量守恒与势相等
func (a *assembler) conserve() error {
	for _, joint := range a.graph.Joints {
		if len(joint.Members) == 0 {
			continue
		}
		kind := joint.Members[0].Port.Kind
		if err := a.balance(joint.Component.Name, kind, joint.Members); err != nil {
			return err
		}
	}
	return nil
}

// balance 对一组端口写耦合方程，变量按端口类型的声明顺序
func (a *assembler) balance(origin string, kind element.PortKind, members []graph.Member) error {
	for _, name := range kind.Variables() {
		vars := make([]*symbolic.Variable, len(members))
		nominals := make([]float64, len(members))
		for i, m := range members {
			v, err := a.lookup(m, name)
			if err != nil {
				return err
			}
			vars[i], nominals[i] = v, v.Nominal
		}
		vk, _ := kind.VariableKind(name)
		switch vk {
		case element.VariableFlow:
			terms := make([]symbolic.Expr, len(members))
			for i, m := range members {
				terms[i] = vars[i].Sym()
				if m.Sign() < 0 {
					terms[i] = symbolic.Neg(terms[i])
				}
			}
			a.emit(origin, symbolic.Sum(terms...), floats.Max(nominals))
		case element.VariablePotential:
			for i := 1; i < len(members); i++ {
				diff := symbolic.Sub(vars[0].Sym(), vars[i].Sym())
				a.emit(origin, diff, max(nominals[0], nominals[i]))
			}
		}
	}
	return nil
}

// emit 加入 expr/nominal == 0
func (a *assembler) emit(origin string, expr symbolic.Expr, nominal float64) {
	if nominal != 1 {
		expr = symbolic.Div(expr, symbolic.Const(nominal))
	}
	a.sys.Equations = append(a.sys.Equations, symbolic.NewEquation(origin, expr))
}
