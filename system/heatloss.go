package system

import (
	"slices"

	"go.uber.org/zap"

	"heatnet/symbolic"
	"heatnet/types"
)

// disconnected 断开的管道集合：显式给出的管道与存在悬空端口的管道
func (a *assembler) disconnected() (map[string]bool, error) {
	set := map[string]bool{}
	for _, name := range a.opts.Disconnected {
		c, ok := a.graph.Component(name)
		if !ok {
			return nil, types.Configf(name, "", "断开的管道不存在")
		}
		if c.Type != types.TypePipe {
			return nil, types.Configf(name, "", "只有热网管道可以断开，得到 %s", c.Type)
		}
		set[name] = true
	}
	for _, ref := range a.graph.Dangling {
		if c, ok := a.graph.Component(ref.Component); ok && c.Type == types.TypePipe {
			set[ref.Component] = true
		}
	}
	return set, nil
}

// pipeHeatLoss 热网管道热平衡与热损方程。断开的管道流量为零，热损仅在允许时保留。
func (a *assembler) pipeHeatLoss() error {
	set, err := a.disconnected()
	if err != nil {
		return err
	}
	for _, c := range a.graph.Components {
		if c.Type != types.TypePipe {
			continue
		}
		heatNominal, ok := c.Float("Heat_nominal")
		if !ok {
			return types.Configf(c.Name, "Heat_nominal", "管道缺少热功率尺度")
		}
		loss, _ := c.Float("heat_loss")
		off := set[c.Name]
		if off && !a.opts.HeatLossDisconnectedPipe {
			loss = 0
		}
		heatIn, heatOut := c.Sym("HeatIn.Heat"), c.Sym("HeatOut.Heat")
		heatLoss := c.Sym("Heat_loss")
		a.emit(c.Name, symbolic.Sub(symbolic.Sub(heatIn, heatOut), heatLoss), heatNominal)
		a.emit(c.Name, symbolic.Sub(heatLoss, symbolic.Const(loss)), heatNominal)
		if off {
			qNominal, _ := c.Float("Q_nominal")
			a.emit(c.Name, c.Sym("Q"), qNominal)
		}
	}
	if len(set) > 0 {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		slices.Sort(names)
		a.logger.Debug("断开的管道", zap.Strings("pipes", names))
	}
	return nil
}
