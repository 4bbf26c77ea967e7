// Copyright 2026 The Typewrap Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates the Configuration a run is driven by,
// following the same decode-then-Validate split the rest of the pack uses
// for its own YAML-fronted settings.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/typewrap/typewrap/typerr"
)

// GenerationFlags is a bitset of output-shaping options, preserved
// unexamined for any bit this module doesn't interpret.
type GenerationFlags uint32

const (
	FlagNone GenerationFlags = 0
	// FlagSingleFileExport concatenates every UserType into one generated
	// file instead of one file per type.
	FlagSingleFileExport GenerationFlags = 1 << iota
	// FlagCompressedOutput omits the blank separator lines writeCode would
	// otherwise emit between members.
	FlagCompressedOutput
)

func (f GenerationFlags) Has(bit GenerationFlags) bool { return f&bit != 0 }

// ModuleDescriptor is one entry of Configuration.Modules.
type ModuleDescriptor struct {
	Path      string `yaml:"path"`
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
}

// Transformation is one ordered textual type-name rewrite; the first whose
// Pattern matches wins.
type Transformation struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Configuration is the full set of recognized run options, decoded from
// YAML by Load.
type Configuration struct {
	Modules               []ModuleDescriptor `yaml:"modules"`
	Types                 []string            `yaml:"types"`
	Transformations       []Transformation    `yaml:"transformations"`
	CommonTypesNamespace  string              `yaml:"commonTypesNamespace"`
	GenerationFlags       GenerationFlags     `yaml:"generationFlags"`
	GeneratedAssemblyName string              `yaml:"generatedAssemblyName"`
	IncludedFiles         []string            `yaml:"includedFiles"`
	ReferencedAssemblies  []string            `yaml:"referencedAssemblies"`
	GeneratedPropsFileName string             `yaml:"generatedPropsFileName"`
	DisablePdbGeneration  bool                `yaml:"disablePdbGeneration"`
}

// Load reads and parses a Configuration from path, then Validates it.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, typerr.New(typerr.KindConfiguration, "Load", "", "", errors.Wrapf(err, "reading config %q", path).Error())
	}
	var c Configuration
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, typerr.New(typerr.KindConfiguration, "Load", "", "", errors.Wrapf(err, "parsing config %q", path).Error())
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the configuration is internally consistent and that
// every referenced file actually exists, fast-failing before any module is
// opened.
func (c *Configuration) Validate() error {
	if len(c.Modules) == 0 {
		return typerr.New(typerr.KindConfiguration, "Validate", "", "", "at least one module is required")
	}
	for i, m := range c.Modules {
		if m.Path == "" {
			return typerr.New(typerr.KindConfiguration, "Validate", "", "", errors.Errorf("modules[%d] has an empty path", i).Error())
		}
		if m.Name == "" {
			return typerr.New(typerr.KindConfiguration, "Validate", "", "", errors.Errorf("modules[%d] has an empty name", i).Error())
		}
	}
	if c.CommonTypesNamespace == "" {
		return typerr.New(typerr.KindConfiguration, "Validate", "", "", "commonTypesNamespace is required")
	}
	for i, t := range c.Transformations {
		if t.Pattern == "" {
			return typerr.New(typerr.KindConfiguration, "Validate", "", "", errors.Errorf("transformations[%d] has an empty pattern", i).Error())
		}
	}
	for _, f := range c.IncludedFiles {
		if _, err := os.Stat(f); err != nil {
			return typerr.New(typerr.KindConfiguration, "Validate", "", "", errors.Wrapf(err, "includedFiles entry %q", f).Error())
		}
	}
	if c.GeneratedAssemblyName == "" && len(c.ReferencedAssemblies) > 0 {
		return typerr.New(typerr.KindConfiguration, "Validate", "", "", "referencedAssemblies set without generatedAssemblyName")
	}
	return nil
}
