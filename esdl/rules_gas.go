package esdl

import (
	"math"

	"heatnet/params"
	"heatnet/types"
)

func registerGasRules(c *Converter) {
	c.Register(types.CommodityGas, convertGasPipe, "Pipe")
	c.Register(types.CommodityGas, convertJoint(types.TypeGasNode, "Joint"), "Joint")
	c.Register(types.CommodityGas, convertGasTerminal(types.TypeGasDemand, "GasDemand"), "GasDemand")
	c.Register(types.CommodityGas, convertGasTerminal(types.TypeGasSource, "GasProducer"), "GasProducer")
	c.Register(types.CommodityGas, convertGasStorage, "GasStorage")
}

// gasPressure 端口载体压力，未给出时返回 false
func gasPressure(doc *Document, a *Asset) (float64, bool) {
	for _, p := range a.Ports {
		if c, ok := doc.Carrier(p.Carrier); ok && c.Pressure > 0 {
			return c.Pressure, true
		}
	}
	return 0, false
}

func convertGasPipe(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
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
	area := 0.25 * math.Pi * diameter * diameter
	c.qNominal[a.ID] = c.Options.GasVMax / 2 * area

	mod := params.Tree{
		"diameter":               params.Scalar(diameter),
		"length":                 params.Scalar(length),
		"v_max":                  params.Scalar(c.Options.GasVMax),
		"friction_factor":        params.Scalar(c.Options.FrictionFactor),
		"resistance_coefficient": params.Scalar(c.Options.ResistanceCoefficient),
	}
	if p, ok := gasPressure(doc, a); ok {
		mod["pressure"] = params.Scalar(p)
	}
	return types.TypeGasPipe, mod, nil
}

// convertGasTerminal 燃气用户与气源
func convertGasTerminal(eleType types.ComponentType, assetType string) Rule {
	return func(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
		if err := expectType(a, assetType); err != nil {
			return "", nil, err
		}
		return eleType, c.withConnectedQNominal(doc, a, params.Tree{}), nil
	}
}

func convertGasStorage(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error) {
	if err := expectType(a, "GasStorage"); err != nil {
		return "", nil, err
	}
	volume, err := positive(a, "workingVolume")
	if err != nil {
		return "", nil, err
	}
	return types.TypeGasTankStorage, c.withConnectedQNominal(doc, a, params.Tree{
		"volume": params.Scalar(volume),
	}), nil
}
