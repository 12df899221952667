package esdl

import (
	"fmt"
	"math"

	"heatnet/params"
	"heatnet/types"
)

func registerHeatRules(c *Converter) {
	c.Register(types.CommodityHeat, convertBuffer, "HeatStorage")
	c.Register(types.CommodityHeat, convertDemand, "GenericConsumer", "HeatingDemand")
	c.Register(types.CommodityHeat, convertJoint(types.TypeNode, "Joint"), "Joint")
	c.Register(types.CommodityHeat, convertPipe, "Pipe")
	c.Register(types.CommodityHeat, convertPump, "Pump")
	c.Register(types.CommodityHeat, convertSource, "GasHeater", "GenericProducer", "GeothermalSource", "ResidualHeatSource")
}

// heatModifiers 热网公共修饰值：密度、比热与供回水温度
func (c *Converter) heatModifiers(doc *Document, a *Asset, mod params.Tree) (params.Tree, error) {
	mod["rho"] = params.Scalar(c.Options.Rho)
	mod["cp"] = params.Scalar(c.Options.Cp)
	regime, ok, err := c.Temperatures.Temperatures(doc, a)
	if err != nil {
		return nil, err
	}
	if ok {
		mod["T_supply"] = params.Scalar(regime.Supply)
		mod["T_return"] = params.Scalar(regime.Return)
	}
	return mod, nil
}

func convertBuffer(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
	if err := expectType(a, "HeatStorage"); err != nil {
		return "", nil, err
	}
	capacity, err := positive(a, "capacity")
	if err != nil {
		return "", nil, err
	}
	mod := c.withConnectedQNominal(doc, a, params.Tree{
		"Stored_heat": attrs(map[string]float64{"min": 0, "max": capacity}),
		"init_Heat":   params.Scalar(0),
		"rho":         params.Scalar(c.Options.Rho),
		"cp":          params.Scalar(c.Options.Cp),
	})
	return types.TypeBuffer, mod, nil
}

func convertDemand(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
	if err := expectType(a, "GenericConsumer", "HeatingDemand"); err != nil {
		return "", nil, err
	}
	power, err := positive(a, "power")
	if err != nil {
		return "", nil, err
	}
	mod := c.withConnectedQNominal(doc, a, params.Tree{
		"Heat_demand": attrs(map[string]float64{"max": power}),
	})
	mod, err = c.heatModifiers(doc, a, mod)
	return types.TypeDemand, mod, err
}

// convertJoint 节点：连接数之和作为端口数 n
func convertJoint(eleType types.ComponentType, assetTypes ...string) Rule {
	return func(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
		if err := expectType(a, assetTypes...); err != nil {
			return "", nil, err
		}
		n := jointArity(a)
		if n == 0 {
			return "", nil, types.Configf(a.ID, "ports", "节点没有任何连接")
		}
		return eleType, params.Tree{"n": params.Scalar(float64(n))}, nil
	}
}

func convertPipe(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
	if err := expectType(a, "Pipe"); err != nil {
		return "", nil, err
	}
	diameter, err := positive(a, "innerDiameter")
	if err != nil {
		return "", nil, err
	}
	length, err := nonNegative(a, "length")
	if err != nil {
		return "", nil, err
	}
	regime, known, err := c.Temperatures.Temperatures(doc, a)
	if err != nil {
		return "", nil, err
	}

	area := math.Pi * diameter * diameter / 4
	qMax := area * c.Options.VMax
	qNominal := area * c.Options.VNominal
	c.qNominal[a.ID] = qNominal

	dT := types.DefaultDeltaTemperature
	if known {
		dT = regime.DeltaT()
	}
	hfrNominal := c.Options.Rho * c.Options.Cp * qNominal * dT
	hfrMax := c.Options.Rho * c.Options.Cp * qMax * dT * 2
	if !(hfrMax > 0) {
		return "", nil, types.Configf(a.ID, "attributes.innerDiameter", "最大热流必须为正数，得到 %g", hfrMax)
	}

	port := func() params.Value {
		return params.Mapping(params.Tree{
			"Heat": attrs(map[string]float64{"min": -hfrMax, "max": hfrMax, "nominal": hfrNominal}),
			"Q":    attrs(map[string]float64{"min": -qMax, "max": qMax}),
		})
	}
	mod := params.Tree{
		"Q_nominal":       params.Scalar(qNominal),
		"length":          params.Scalar(length),
		"diameter":        params.Scalar(diameter),
		"HeatIn":          port(),
		"HeatOut":         port(),
		"friction_factor": params.Scalar(c.Options.FrictionFactor),
	}
	if known {
		temperature := regime.Supply
		if IsReturn(a.Name) {
			temperature = regime.Return
		}
		mod["temperature"] = params.Scalar(temperature)
	}
	thickness, conductivity, err := insulation(a)
	if err != nil {
		return "", nil, err
	}
	mod["insulation_thickness"] = thickness
	mod["conductivity_insulation"] = conductivity
	mod, err = c.heatModifiers(doc, a, mod)
	return types.TypePipe, mod, err
}

// insulation 读取保温层（material.component[*]），缺失时为未设置
func insulation(a *Asset) (thickness, conductivity params.Value, err error) {
	material, ok := a.Attributes.Lookup("material", "component")
	if !ok || !material.IsSet() {
		return params.Unset(), params.Unset(), nil
	}
	layers, ok := material.Seq()
	if !ok {
		return params.Unset(), params.Unset(), types.Configf(a.ID, "attributes.material.component", "保温层必须是序列")
	}
	if len(layers) == 0 {
		return params.Unset(), params.Unset(), nil
	}
	widths := make([]float64, len(layers))
	ks := make([]float64, len(layers))
	for i, layer := range layers {
		path := fmt.Sprintf("attributes.material.component[%d]", i)
		tree, ok := layer.Tree()
		if !ok {
			return params.Unset(), params.Unset(), types.Configf(a.ID, path, "保温层必须是映射")
		}
		w, okW := tree.Float("layerWidth")
		k, okK := tree.Float("matter", "thermalConductivity")
		if !okW || !okK {
			return params.Unset(), params.Unset(), types.Configf(a.ID, path, "缺少 layerWidth 或 matter.thermalConductivity")
		}
		widths[i], ks[i] = w, k
	}
	return params.Floats(widths), params.Floats(ks), nil
}

func convertPump(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
	if err := expectType(a, "Pump"); err != nil {
		return "", nil, err
	}
	mod, err := c.heatModifiers(doc, a, c.withConnectedQNominal(doc, a, params.Tree{}))
	return types.TypePump, mod, err
}

func convertSource(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
	if err := expectType(a, "GasHeater", "GenericProducer", "GeothermalSource", "ResidualHeatSource"); err != nil {
		return "", nil, err
	}
	power, err := positive(a, "power")
	if err != nil {
		return "", nil, err
	}
	mod := c.withConnectedQNominal(doc, a, params.Tree{
		"Heat_source": attrs(map[string]float64{"min": 0, "max": power, "nominal": power / 2}),
	})
	mod, err = c.heatModifiers(doc, a, mod)
	return types.TypeSource, mod, err
}
