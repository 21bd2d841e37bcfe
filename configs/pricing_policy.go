package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

// pricingPolicyFile mirrors configs/pricing_policy.yaml. Absent keys keep their defaults.
type pricingPolicyFile struct {
	Pricing struct {
		DataDrivenWeight *float64 `yaml:"data_driven_weight"`
	} `yaml:"pricing"`
	Elasticity struct {
		RidgeLambda *float64        `yaml:"ridge_lambda"`
		Bounds      *services.Range `yaml:"bounds"`
		BatchLimit  *int            `yaml:"batch_concurrency"`
	} `yaml:"elasticity"`
	Optimizer struct {
		GridSize           *int            `yaml:"grid_size"`
		GridSpan           *services.Range `yaml:"grid_span"`
		SensitivityFactors []float64       `yaml:"sensitivity_factors"`
	} `yaml:"optimizer"`
	FX struct {
		Z                  *float64 `yaml:"z"`
		DefaultHorizonDays *int     `yaml:"default_horizon_days"`
		MaxHorizonDays     *int     `yaml:"max_horizon_days"`
	} `yaml:"fx"`
}

// LoadPricingPolicy reads the pricing policy YAML. A missing file yields the defaults;
// a malformed file or invalid values are errors.
func LoadPricingPolicy(path string) (services.Policy, error) {
	policy := services.DefaultPolicy()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return policy, nil
	}
	if err != nil {
		return services.Policy{}, fmt.Errorf("read pricing policy %s: %w", path, err)
	}
	return ParsePricingPolicy(data)
}

// ParsePricingPolicy overlays the YAML document onto the default policy and validates it.
func ParsePricingPolicy(data []byte) (services.Policy, error) {
	policy := services.DefaultPolicy()

	var file pricingPolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return services.Policy{}, fmt.Errorf("parse pricing policy: %w", err)
	}

	if v := file.Pricing.DataDrivenWeight; v != nil {
		policy.DataDrivenWeight = *v
	}
	if v := file.Elasticity.RidgeLambda; v != nil {
		policy.RidgeLambda = *v
	}
	if v := file.Elasticity.Bounds; v != nil {
		policy.ElasticityBounds = *v
	}
	if v := file.Elasticity.BatchLimit; v != nil {
		policy.BatchConcurrency = *v
	}
	if v := file.Optimizer.GridSize; v != nil {
		policy.GridSize = *v
	}
	if v := file.Optimizer.GridSpan; v != nil {
		policy.GridSpan = *v
	}
	if file.Optimizer.SensitivityFactors != nil {
		policy.SensitivityFactors = file.Optimizer.SensitivityFactors
	}
	if v := file.FX.Z; v != nil {
		policy.FXZ = *v
	}
	if v := file.FX.DefaultHorizonDays; v != nil {
		policy.DefaultHorizonDays = *v
	}
	if v := file.FX.MaxHorizonDays; v != nil {
		policy.MaxHorizonDays = *v
	}

	if err := policy.Validate(); err != nil {
		return services.Policy{}, err
	}
	return policy, nil
}
