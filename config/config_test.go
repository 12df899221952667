package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatnet/esdl"
	"heatnet/problem"
	"heatnet/types"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heatnet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
input: network.yaml
workers: 4
minimize_head_loss: true
minimize_hydraulic_power: true
disconnected: [pipe_3]
targets:
  demand_1: 1.0e+5
physics:
  friction_factor: 0.03
`)
	config, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "network.yaml", config.Input)
	assert.Equal(t, "out", config.Output)
	assert.Equal(t, 4, config.Workers)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, []string{"pipe_3"}, config.Disconnected)
	assert.Equal(t, 0.03, config.Physics.FrictionFactor)
	assert.Equal(t, esdl.DefaultOptions().VMax, config.Physics.VMax)

	p := config.ProblemConfig()
	require.Len(t, p.Goals, 3)
	assert.Equal(t, problem.TargetDemandGoals{Targets: map[string]float64{"demand_1": 1e5}}, p.Goals[0])
	assert.Equal(t, problem.MinimizeHeadLoss{}, p.Goals[1])
	assert.Equal(t, problem.MinimizeHydraulicPower{}, p.Goals[2])
	assert.Empty(t, p.Constraints)

	opts := config.AssemblyOptions(nil)
	assert.Equal(t, []string{"pipe_3"}, opts.Disconnected)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("HEATNET_INPUT", "env.yaml")
	t.Setenv("HEATNET_PHYSICS_V_MAX", "6")
	t.Setenv("HEATNET_LOG_LEVEL", "debug")
	config, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "env.yaml", config.Input)
	assert.Equal(t, 6.0, config.Physics.VMax)

	want := esdl.DefaultOptions()
	want.VMax = 6
	assert.Equal(t, want, config.ConverterOptions())

	logger, err := config.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoadFlags(t *testing.T) {
	path := writeFile(t, "input: file.yaml\nworkers: 2\n")
	fs := pflag.NewFlagSet("heatnet", pflag.ContinueOnError)
	fs.String("input", "", "")
	fs.Int("workers", 0, "")
	require.NoError(t, fs.Parse([]string{"--workers=8"}))

	config, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "file.yaml", config.Input)
	assert.Equal(t, 8, config.Workers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		config := &Config{Input: "a.yaml", Output: "out", LogLevel: "info"}
		o := esdl.DefaultOptions()
		config.Physics = Physics{
			VNominal: o.VNominal, VMax: o.VMax, GasVMax: o.GasVMax, Rho: o.Rho, Cp: o.Cp,
			FrictionFactor: o.FrictionFactor, ResistanceCoefficient: o.ResistanceCoefficient,
		}
		return config
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		path   string
	}{
		{"缺少输入", func(c *Config) { c.Input = "" }, "Input"},
		{"日志级别", func(c *Config) { c.LogLevel = "trace" }, "LogLevel"},
		{"并行数为负", func(c *Config) { c.Workers = -1 }, "Workers"},
		{"最大流速小于额定流速", func(c *Config) { c.Physics.VMax = 0.5 }, "Physics.VMax"},
		{"摩擦系数为零", func(c *Config) { c.Physics.FrictionFactor = 0 }, "Physics.FrictionFactor"},
		{"目标为负", func(c *Config) { c.Targets = map[string]float64{"d": -1} }, "Targets"},
		{"断开管道名为空", func(c *Config) { c.Disconnected = []string{""} }, "Disconnected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := config.Validate()
			var cfgErr *types.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "期望配置错误，得到 %v", err)
			assert.Equal(t, "config", cfgErr.Asset)
			assert.True(t, strings.HasPrefix(cfgErr.Path, tt.path), cfgErr.Path)
		})
	}
}
