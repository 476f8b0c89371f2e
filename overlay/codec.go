/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Load reads an overlay file. The format follows the extension: .hcl, or
// .yaml and .yml.
func Load(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("extpoint(overlay): read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return ParseHCL(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ParseHCL decodes an overlay from HCL source. filename is used in
// diagnostics only.
func ParseHCL(src []byte, filename string) (*Overlay, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("extpoint(overlay): parse %s: %w", filename, diags)
	}
	var o Overlay
	if diags := gohcl.DecodeBody(file.Body, nil, &o); diags.HasErrors() {
		return nil, fmt.Errorf("extpoint(overlay): decode %s: %w", filename, diags)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// ParseYAML decodes an overlay from YAML. Unknown fields are rejected.
func ParseYAML(data []byte) (*Overlay, error) {
	var o Overlay
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("extpoint(overlay): decode yaml: %w", err)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// WriteHCL encodes o as HCL.
func WriteHCL(w io.Writer, o *Overlay) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, c := range o.Components {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("component", []string{c.Name}).Body()
		if c.Enabled != nil {
			block.SetAttributeValue("enabled", cty.BoolVal(*c.Enabled))
		}
		if c.Ordinal != nil {
			block.SetAttributeValue("ordinal", cty.NumberIntVal(int64(*c.Ordinal)))
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// WriteYAML encodes o as YAML.
func WriteYAML(w io.Writer, o *Overlay) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(o); err != nil {
		return err
	}
	return enc.Close()
}
