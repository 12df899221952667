// Package physics 管道传热与水力计算
package physics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"heatnet/types"
)

// 土壤与保温层缺省值
const (
	DefaultConductivityInsulation = 0.033 // 保温层导热系数 W/(m·K)
	DefaultConductivitySubsoil    = 2.3   // 土壤导热系数 W/(m·K)
	DefaultDepth                  = 1.0   // 埋深 m
	DefaultHSurface               = 15.4  // 地表换热系数 W/(m²·K)
)

// HeatLossParams 直埋双管热损计算参数
type HeatLossParams struct {
	InnerDiameter          float64   // 内径 m
	InsulationThickness    []float64 // 各保温层厚度 m（由内向外）
	ConductivityInsulation []float64 // 各保温层导热系数
	ConductivitySubsoil    float64   // 土壤导热系数
	Depth                  float64   // 埋深
	HSurface               float64   // 地表换热系数
	PipeDistance           float64   // 供回水管中心距
}

// DefaultHeatLoss 按内径生成缺省参数：单层保温厚 0.5·d，管距 2·d
func DefaultHeatLoss(diameter float64) HeatLossParams {
	return HeatLossParams{
		InnerDiameter:          diameter,
		InsulationThickness:    []float64{0.5 * diameter},
		ConductivityInsulation: []float64{DefaultConductivityInsulation},
		ConductivitySubsoil:    DefaultConductivitySubsoil,
		Depth:                  DefaultDepth,
		HSurface:               DefaultHSurface,
		PipeDistance:           2 * diameter,
	}
}

// Validate 检查参数
func (p HeatLossParams) Validate() error {
	if len(p.InsulationThickness) != len(p.ConductivityInsulation) {
		return fmt.Errorf("保温层厚度 %d 层与导热系数 %d 层不一致", len(p.InsulationThickness), len(p.ConductivityInsulation))
	}
	if len(p.InsulationThickness) == 0 {
		return errors.New("至少需要一层保温")
	}
	check := []float64{p.InnerDiameter, p.ConductivitySubsoil, p.Depth, p.HSurface, p.PipeDistance}
	check = append(check, p.InsulationThickness...)
	check = append(check, p.ConductivityInsulation...)
	for _, v := range check {
		if !types.IsUsable(v) || v <= 0 {
			return fmt.Errorf("热损参数必须为有限正数，得到 %g", v)
		}
	}
	return nil
}

// UValues 计算直埋双管的传热系数 U1（自身）与 U2（相邻管互扰），单位 W/(m·K)
func UValues(p HeatLossParams) (u1, u2 float64, err error) {
	if err := p.Validate(); err != nil {
		return 0, 0, err
	}
	// 地表换热折算为附加埋深
	depth := p.Depth + p.ConductivitySubsoil/p.HSurface

	resistances := make([]float64, len(p.InsulationThickness))
	inner := p.InnerDiameter
	for i, thickness := range p.InsulationThickness {
		outer := inner + 2*thickness
		resistances[i] = math.Log(outer/inner) / (2 * math.Pi * p.ConductivityInsulation[i])
		inner = outer
	}
	rIns := floats.Sum(resistances)
	rSoil := math.Log(4*depth/inner) / (2 * math.Pi * p.ConductivitySubsoil)
	rMutual := math.Log(1+math.Pow(2*depth/p.PipeDistance, 2)) / (4 * math.Pi * p.ConductivitySubsoil)

	r := rSoil + rIns
	det := r*r - rMutual*rMutual
	if det <= 0 {
		return 0, 0, fmt.Errorf("热阻矩阵奇异: r=%g rm=%g", r, rMutual)
	}
	return r / det, rMutual / det, nil
}

// HeatLoss 单位时间热损 W：length·(U1−U2)·(T−T_ground) + length·U2·dT，
// dT 对供水管为供回水温差，对回水管取负
func HeatLoss(u1, u2, length, temperature, ground, dT float64) float64 {
	return length*(u1-u2)*(temperature-ground) + length*u2*dT
}

// LinearHeadLossCoefficient Darcy–Weisbach 在额定流速处的线性化系数：dH = −c·Q
func LinearHeadLossCoefficient(frictionFactor, length, diameter, vNominal float64) float64 {
	area := 0.25 * math.Pi * diameter * diameter
	return frictionFactor * length / diameter * vNominal / (2 * types.GravitationalConstant * area)
}
