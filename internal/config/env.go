package config

import (
	"os"
	"runtime"
)

// OS represents the host operating system.
type OS string

const (
	OSLinux   OS = "linux"
	OSWindows OS = "windows"
	OSDarwin  OS = "darwin"
)

// EnvCondaPrefix is set by conda to the root of the activated environment.
const EnvCondaPrefix = "CONDA_PREFIX"

// DetectOS returns the operating system the binary is running on.
func DetectOS() OS {
	return OS(runtime.GOOS)
}

// ListSeparator returns the separator used by path list variables on o.
func (o OS) ListSeparator() string {
	if o == OSWindows {
		return ";"
	}
	return ":"
}

// Environment describes the isolated environment the installer runs in.
type Environment struct {
	// Active reports whether CONDA_PREFIX is present, even when empty.
	Active bool
	// Prefix is the environment root.
	Prefix string
}

// DetectEnvironment inspects the process environment for an activated conda environment.
func DetectEnvironment() Environment {
	return environmentFrom(os.LookupEnv)
}

func environmentFrom(lookup func(string) (string, bool)) Environment {
	prefix, ok := lookup(EnvCondaPrefix)
	return Environment{Active: ok, Prefix: prefix}
}
