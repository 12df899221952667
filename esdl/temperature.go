package esdl

import (
	"strings"

	"heatnet/types"
)

// Regime 供回水温度制度
type Regime struct {
	Supply float64
	Return float64
}

// DeltaT 供回水温差
func (r Regime) DeltaT() float64 { return r.Supply - r.Return }

// TemperatureProvider 温度制度提供者，未知时返回 false
type TemperatureProvider interface {
	Temperatures(doc *Document, a *Asset) (Regime, bool, error)
}

// CarrierTemperatures 按载体命名约定解析温度：名称含 "_ret" 的载体为回水，
// 其供水载体为去掉 "_ret" 后的同名载体
type CarrierTemperatures struct{}

// Temperatures 解析资产的温度制度
func (CarrierTemperatures) Temperatures(doc *Document, a *Asset) (Regime, bool, error) {
	var supply, ret *Carrier
	for _, p := range a.Ports {
		c, ok := doc.Carrier(p.Carrier)
		if !ok || c.Commodity != types.CommodityHeat {
			continue
		}
		base := strings.TrimSuffix(c.ID, "_ret")
		if s, ok := doc.Carrier(base); ok && supply == nil {
			supply = s
		}
		if r, ok := doc.Carrier(base + "_ret"); ok && ret == nil {
			ret = r
		}
	}
	if supply == nil || ret == nil {
		return Regime{}, false, nil
	}
	regime := Regime{Supply: supply.Temperature, Return: ret.Temperature}
	if regime.DeltaT() <= 0 {
		return regime, false, types.Configf(a.ID, "carrier", "供水温度 %g 不高于回水温度 %g", regime.Supply, regime.Return)
	}
	return regime, true, nil
}

// FixedTemperatures 所有资产使用同一温度制度
type FixedTemperatures Regime

// Temperatures 返回固定温度制度
func (f FixedTemperatures) Temperatures(*Document, *Asset) (Regime, bool, error) {
	return Regime(f), true, nil
}
