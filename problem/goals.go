package problem

import (
	"heatnet/symbolic"
	"heatnet/system"
	"heatnet/types"
)

// TargetDemandGoals 每个热用户一个目标：热负荷等于给定值
type TargetDemandGoals struct {
	Targets  map[string]float64 // 热用户名称 → 目标热负荷 [W]
	Priority int
}

// Goals 生成目标，每个热用户都必须给出目标值
func (g TargetDemandGoals) Goals(sys *system.System) ([]Goal, error) {
	demands := sys.Roles[types.TypeDemand]
	known := make(map[string]bool, len(demands))
	goals := make([]Goal, 0, len(demands))
	for _, name := range demands {
		known[name] = true
		target, ok := g.Targets[name]
		if !ok {
			return nil, types.Configf(name, "target", "热用户缺少目标热负荷")
		}
		v, ok := sys.Variable(name + ".Heat_demand")
		if !ok {
			return nil, &types.ReferenceError{Component: name, Symbol: name + ".Heat_demand"}
		}
		goals = append(goals, Goal{
			Name:     name + ".target",
			Expr:     v.Sym(),
			Target:   &Range{Min: target, Max: target},
			Priority: g.priority(),
			Nominal:  v.Nominal,
		})
	}
	for name := range g.Targets {
		if !known[name] {
			return nil, types.Configf(name, "target", "目标对应的热用户不存在")
		}
	}
	return goals, nil
}

func (g TargetDemandGoals) priority() int {
	if g.Priority == 0 {
		return 1
	}
	return g.Priority
}

// MinimizeHeadLoss 最小化水泵扬程、两倍的热源扬程与管道压损之和。
// 热源扬程加倍使压头优先由水泵提供；带控制阀或长度为零的管道不计入。
type MinimizeHeadLoss struct{}

// Goals 生成目标
func (MinimizeHeadLoss) Goals(sys *system.System) ([]Goal, error) {
	var terms []symbolic.Expr
	for _, name := range sys.Roles[types.TypePump] {
		terms = append(terms, symbolic.Sym(name+".dH"))
	}
	for _, name := range sys.Roles[types.TypeSource] {
		terms = append(terms, symbolic.Scale(2, symbolic.Sym(name+".dH")))
	}
	for _, name := range sys.Roles[types.TypePipe] {
		if !hasHeadLoss(sys, name) {
			continue
		}
		// 管道 dH ≤ 0，压损为 −dH
		terms = append(terms, symbolic.Neg(symbolic.Sym(name+".dH")))
	}
	if len(terms) == 0 {
		return nil, nil
	}
	return []Goal{{
		Name:     "head_loss",
		Expr:     symbolic.Sum(terms...),
		Priority: lowestPriority,
		Nominal:  types.DefaultNominal,
	}}, nil
}

// hasHeadLoss 管道是否计入压损
func hasHeadLoss(sys *system.System, pipe string) bool {
	if valve, _ := sys.Parameter(pipe + ".has_control_valve"); valve != 0 {
		return false
	}
	length, _ := sys.Parameter(pipe + ".length")
	return length != 0
}

// MinimizeHydraulicPower 最小化燃气管道水力功率之和，长度为零的管道不计入
type MinimizeHydraulicPower struct{}

// Goals 生成目标
func (MinimizeHydraulicPower) Goals(sys *system.System) ([]Goal, error) {
	var terms []symbolic.Expr
	for _, name := range sys.Roles[types.TypeGasPipe] {
		if !hasHeadLoss(sys, name) {
			continue
		}
		terms = append(terms, symbolic.Sym(name+".Hydraulic_power"))
	}
	if len(terms) == 0 {
		return nil, nil
	}
	return []Goal{{
		Name:     "hydraulic_power",
		Expr:     symbolic.Sum(terms...),
		Priority: lowestPriority,
		Nominal:  types.DefaultNominal,
	}}, nil
}
