package esdl

import (
	"heatnet/params"
	"heatnet/types"
)

func registerElectricityRules(c *Converter) {
	c.Register(types.CommodityElectricity, convertCable, "ElectricityCable")
	c.Register(types.CommodityElectricity, convertJoint(types.TypeElectricityNode, "Bus"), "Bus")
	c.Register(types.CommodityElectricity,
		convertPowered(types.TypeElectricityDemand, "Electricity_demand", "ElectricityDemand"),
		"ElectricityDemand")
	c.Register(types.CommodityElectricity,
		convertPowered(types.TypeElectricitySource, "Electricity_source", "ElectricityProducer", "WindPark", "PVInstallation"),
		"ElectricityProducer", "WindPark", "PVInstallation")
}

// carrierVoltage 端口载体电压，未给出时返回 false
func carrierVoltage(doc *Document, a *Asset) (float64, bool) {
	for _, p := range a.Ports {
		if c, ok := doc.Carrier(p.Carrier); ok && c.Voltage > 0 {
			return c.Voltage, true
		}
	}
	return 0, false
}

func convertCable(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
	if err := expectType(a, "ElectricityCable"); err != nil {
		return "", nil, err
	}
	length, err := nonNegative(a, "length")
	if err != nil {
		return "", nil, err
	}
	mod := params.Tree{
		"length":                 params.Scalar(length),
		"resistance_coefficient": params.Scalar(c.Options.ResistanceCoefficient),
	}
	if v, ok := carrierVoltage(doc, a); ok {
		mod["max_voltage"] = params.Scalar(v)
	}
	return types.TypeElectricityCable, mod, nil
}

// convertPowered 用电负荷与电源：功率必须为正数，作为功率变量上界
func convertPowered(eleType types.ComponentType, variable string, assetTypes ...string) Rule {
	return func(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
		if err := expectType(a, assetTypes...); err != nil {
			return "", nil, err
		}
		power, err := positive(a, "power")
		if err != nil {
			return "", nil, err
		}
		mod := params.Tree{variable: attrs(map[string]float64{"min": 0, "max": power})}
		if v, ok := carrierVoltage(doc, a); ok {
			mod["max_voltage"] = params.Scalar(v)
		}
		return eleType, mod, nil
	}
}
