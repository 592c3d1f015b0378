// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// EnvConfigFile names the environment variable consulted when no --config flag is given.
const EnvConfigFile = "FASTCP_CONFIG"

// LoadFile loads a defaults file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .fastcp will try both YAML and HCL formats
func LoadFile(ctx context.Context, path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Options
	if strings.EqualFold(filepath.Ext(path), ".fastcp") {
		cfg, err = loadEither(ctx, path, data)
	} else {
		p := GetParser(path)
		if p == nil {
			return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
		}
		cfg, err = p.Parse(ctx, path, data)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Interface("options", cfg).Msg("loaded config file")
	return cfg, nil
}

// loadEither tries YAML first and falls back to HCL
func loadEither(ctx context.Context, path string, data []byte) (*Options, error) {
	cfg, yamlErr := (&YAMLParser{}).Parse(ctx, path, data)
	if yamlErr == nil {
		return cfg, nil
	}

	cfg, hclErr := (&HCLParser{}).Parse(ctx, path, data)
	if hclErr == nil {
		return cfg, nil
	}

	return nil, errors.Errorf("failed to parse %s as YAML (%v) or HCL: %w", filepath.Base(path), yamlErr, hclErr)
}

// ResolvePath picks the defaults file to load: the explicit flag value, then
// the environment. An empty result means no file.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return strings.TrimSpace(os.Getenv(EnvConfigFile))
}
