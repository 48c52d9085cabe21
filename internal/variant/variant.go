// Package variant defines the accelerated runtime packages the installer can select.
package variant

import (
	"fmt"
	"slices"
	"strings"

	"github.com/facefusion/ffinstall/internal/config"
)

// GenericPackage is the package name shared by every variant's import path.
// Requirement lines starting with it are replaced by the selected variant.
const GenericPackage = "onnxruntime"

// Variant names.
const (
	Default  = "default"
	CUDA     = "cuda"
	OpenVINO = "openvino"
	DirectML = "directml"
	MIGraphX = "migraphx"
	ROCm     = "rocm"
)

// Variant is a runtime backend pinned to a package and version.
type Variant struct {
	Name    string `json:"name"`
	Package string `json:"package"`
	Version string `json:"version"`
}

// Requirement returns the pinned requirement specifier, e.g. onnxruntime-gpu==1.24.1.
func (v Variant) Requirement() string {
	return v.Package + "==" + v.Version
}

// Table maps variant names to variants available on one host OS.
type Table map[string]Variant

// BuildTable returns the variants available on o.
func BuildTable(o config.OS) Table {
	t := Table{
		Default: {Name: Default, Package: "onnxruntime", Version: "1.24.1"},
	}

	if o == config.OSWindows || o == config.OSLinux {
		t[CUDA] = Variant{Name: CUDA, Package: "onnxruntime-gpu", Version: "1.24.1"}
		t[OpenVINO] = Variant{Name: OpenVINO, Package: "onnxruntime-openvino", Version: "1.23.0"}
	}
	if o == config.OSWindows {
		t[DirectML] = Variant{Name: DirectML, Package: "onnxruntime-directml", Version: "1.24.1"}
	}
	if o == config.OSLinux {
		t[MIGraphX] = Variant{Name: MIGraphX, Package: "onnxruntime-migraphx", Version: "1.23.2"}
		t[ROCm] = Variant{Name: ROCm, Package: "onnxruntime-rocm", Version: "1.22.2.post1"}
	}

	return t
}

// Names returns the variant names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the variant registered under name.
func (t Table) Lookup(name string) (Variant, error) {
	v, ok := t[name]
	if !ok {
		return Variant{}, fmt.Errorf("unsupported variant %q (supported: %s)", name, strings.Join(t.Names(), ", "))
	}
	return v, nil
}
