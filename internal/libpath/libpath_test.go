package libpath

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facefusion/ffinstall/internal/config"
)

func mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(d, 0755))
	}
}

func TestVar(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "LD_LIBRARY_PATH", Var(config.OSLinux))
	assert.Equal(t, "PATH", Var(config.OSWindows))
	assert.Empty(t, Var(config.OSDarwin))
}

func TestCandidates_Linux(t *testing.T) {
	t.Parallel()
	prefix := t.TempDir()
	mkdirs(t, filepath.Join(prefix, "lib", "python3.12"))

	got := Candidates(config.OSLinux, prefix, "/usr/local/cuda/lib64:/opt/lib")
	assert.Equal(t, []string{
		filepath.Join(prefix, "lib"),
		filepath.Join(prefix, "lib", "python3.12", "site-packages", "tensorrt_libs"),
		"/usr/local/cuda/lib64",
		"/opt/lib",
	}, got)
}

func TestCandidates_LinuxNewestPython(t *testing.T) {
	t.Parallel()
	prefix := t.TempDir()
	lib := filepath.Join(prefix, "lib")
	// python3.9 sorts after python3.12 lexically
	mkdirs(t,
		filepath.Join(lib, "python3.9", "site-packages", "tensorrt_libs"),
		filepath.Join(lib, "python3.12", "site-packages", "tensorrt_libs"),
		filepath.Join(lib, "python3.11", "site-packages", "tensorrt_libs"),
		filepath.Join(lib, "pythonlibs"),
	)
	require.NoError(t, os.WriteFile(filepath.Join(lib, "python3.13"), nil, 0644))

	got := Candidates(config.OSLinux, prefix, "")
	assert.Equal(t, []string{
		lib,
		filepath.Join(lib, "python3.12", "site-packages", "tensorrt_libs"),
	}, got)
	assert.Equal(t, got, Compute(config.OSLinux, prefix, ""))
}

func TestCandidates_LinuxNoPython(t *testing.T) {
	t.Parallel()
	prefix := t.TempDir()

	got := Candidates(config.OSLinux, prefix, "")
	assert.Equal(t, []string{filepath.Join(prefix, "lib")}, got)
}

func TestCandidates_Windows(t *testing.T) {
	t.Parallel()

	got := Candidates(config.OSWindows, "C:/envs/ff", `C:/Windows/system32;C:/Program Files/NVIDIA/bin`)
	assert.Equal(t, []string{
		filepath.Join("C:/envs/ff", "Lib"),
		filepath.Join("C:/envs/ff", "Lib", "site-packages", "tensorrt_libs"),
		"C:/Windows/system32",
		"C:/Program Files/NVIDIA/bin",
	}, got)
}

func TestCandidates_Unsupported(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Candidates(config.OSDarwin, "/opt/conda", "/usr/lib"))
}

func TestCompute_Linux(t *testing.T) {
	t.Parallel()
	prefix := t.TempDir()
	lib := filepath.Join(prefix, "lib")
	trt := filepath.Join(lib, "python3.11", "site-packages", "tensorrt_libs")
	cuda := filepath.Join(t.TempDir(), "cuda")
	mkdirs(t, trt, cuda)
	missing := filepath.Join(prefix, "missing")

	current := strings.Join([]string{cuda, missing, lib, "", cuda}, ":")

	got := Compute(config.OSLinux, prefix, current)
	assert.Equal(t, []string{lib, trt, cuda}, got)
	assert.Equal(t, lib+":"+trt+":"+cuda, Join(config.OSLinux, got))
}

func TestCompute_LinuxWithoutTensorRT(t *testing.T) {
	t.Parallel()
	prefix := t.TempDir()
	lib := filepath.Join(prefix, "lib")
	// Interpreter present but tensorrt wheel not installed
	mkdirs(t, filepath.Join(lib, "python3.12", "site-packages"))

	assert.Equal(t, []string{lib}, Compute(config.OSLinux, prefix, ""))
}

func TestCompute_Windows(t *testing.T) {
	t.Parallel()
	prefix := t.TempDir()
	lib := filepath.Join(prefix, "Lib")
	trt := filepath.Join(lib, "site-packages", "tensorrt_libs")
	sys32 := filepath.Join(t.TempDir(), "system32")
	mkdirs(t, trt, sys32)

	current := strings.Join([]string{sys32, filepath.Join(prefix, "nope"), trt, sys32}, ";")

	got := Compute(config.OSWindows, prefix, current)
	assert.Equal(t, []string{lib, trt, sys32}, got)
	assert.Equal(t, lib+";"+trt+";"+sys32, Join(config.OSWindows, got))
}

func TestCompute_NothingExists(t *testing.T) {
	t.Parallel()
	prefix := filepath.Join(t.TempDir(), "gone")

	got := Compute(config.OSLinux, prefix, "/ffinstall/does/not/exist")
	assert.Empty(t, got)
	assert.Empty(t, Join(config.OSLinux, got))
}

func TestDedup(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"b", "a", "c"}, Dedup([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, Dedup(nil))
}
