//go:build e2e

package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gexec"
)

// project is a scratch FaceFusion checkout with fake pip and conda on PATH.
// The fakes record their arguments, one invocation per line.
type project struct {
	dir    string
	binDir string
	env    map[string]string
}

func newProject(requirements string) *project {
	dir := GinkgoT().TempDir()
	p := &project{
		dir:    dir,
		binDir: filepath.Join(dir, "bin"),
		env:    map[string]string{},
	}
	Expect(os.MkdirAll(p.binDir, 0755)).To(Succeed())

	p.fakeTool("pip", 0)
	p.fakeTool("conda", 0)
	p.writeFile("requirements.txt", requirements)
	// keep concurrent suites off the shared default lock
	p.writeFile(".ffinstall.yaml", fmt.Sprintf("lockFile: %s\n", filepath.Join(dir, "ffinstall.lock")))

	p.env["PATH"] = p.binDir + string(os.PathListSeparator) + os.Getenv("PATH")
	return p
}

func (p *project) writeFile(name, content string) {
	Expect(os.WriteFile(filepath.Join(p.dir, name), []byte(content), 0644)).To(Succeed())
}

// fakeTool installs a shell script that logs its arguments and exits with code.
func (p *project) fakeTool(name string, code int) {
	script := fmt.Sprintf("#!/bin/sh\necho \"$*\" >> %q\nexit %d\n", p.logFile(name), code)
	Expect(os.WriteFile(filepath.Join(p.binDir, name), []byte(script), 0755)).To(Succeed())
}

func (p *project) logFile(tool string) string {
	return filepath.Join(p.dir, tool+".log")
}

// calls returns the recorded invocations of tool.
func (p *project) calls(tool string) []string {
	data, err := os.ReadFile(p.logFile(tool))
	if os.IsNotExist(err) {
		return nil
	}
	Expect(err).NotTo(HaveOccurred())
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func (p *project) setenv(key, value string) {
	p.env[key] = value
}

// run starts ffinstall in the project directory and waits for it to exit.
func (p *project) run(args ...string) *gexec.Session {
	session := p.start(args...)
	Eventually(session).WithTimeout(30 * time.Second).Should(gexec.Exit())
	return session
}

func (p *project) start(args ...string) *gexec.Session {
	cmd := exec.Command(ffinstallBin, args...)
	cmd.Dir = p.dir
	cmd.Env = p.environ()

	fmt.Fprintf(GinkgoWriter, "$ ffinstall %s\n", strings.Join(args, " "))
	session, err := gexec.Start(cmd, GinkgoWriter, GinkgoWriter)
	Expect(err).NotTo(HaveOccurred())
	return session
}

func (p *project) environ() []string {
	var env []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := p.env[key]; ok || key == "CONDA_PREFIX" || key == "LD_LIBRARY_PATH" {
			continue
		}
		env = append(env, kv)
	}
	for k, v := range p.env {
		env = append(env, k+"="+v)
	}
	return env
}
