//go:build e2e

package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("ffinstall", func() {
	var p *project

	BeforeEach(func() {
		if runtime.GOOS != "linux" {
			Skip("fake tools are shell scripts")
		}
		p = newProject("numpy==2.2.0\nonnxruntime==1.20.0\nopencv-python==4.11.0.86\n")
	})

	Context("Basic Commands", func() {
		It("prints the version", func() {
			session := p.run("--version")
			Expect(session).To(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say(`FaceFusion \d+\.\d+\.\d+`))
		})

		It("fails without a variant", func() {
			session := p.run("--skip-conda")
			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say(`required flag\(s\) "onnxruntime" not set`))
			Expect(p.calls("pip")).To(BeEmpty())
		})

		It("rejects variants of other platforms", func() {
			session := p.run("--onnxruntime", "directml", "--skip-conda")
			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say(`unsupported variant "directml"`))
			Expect(p.calls("pip")).To(BeEmpty())
		})
	})

	Context("Conda Environment", func() {
		It("refuses to run outside an activated environment", func() {
			session := p.run("--onnxruntime", "default")
			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say(`conda is not activated`))
			Expect(p.calls("pip")).To(BeEmpty())
		})

		It("installs without an environment when skipped", func() {
			session := p.run("--onnxruntime", "openvino", "--skip-conda")
			Expect(session).To(gexec.Exit(0))

			Expect(p.calls("pip")).To(Equal([]string{
				"uninstall onnxruntime onnxruntime-openvino -y -q",
				"install numpy==2.2.0 opencv-python==4.11.0.86 onnxruntime-openvino==1.23.0",
			}))
			Expect(p.calls("conda")).To(BeEmpty())
		})
	})

	Context("CUDA", func() {
		var prefix string

		BeforeEach(func() {
			prefix = filepath.Join(p.dir, "env")
			Expect(os.MkdirAll(filepath.Join(prefix, "lib"), 0755)).To(Succeed())
			p.setenv("CONDA_PREFIX", prefix)
		})

		It("persists the library path into the environment", func() {
			// pip creates tensorrt_libs while installing
			trt := filepath.Join(prefix, "lib", "python3.12", "site-packages", "tensorrt_libs")
			script := "#!/bin/sh\necho \"$*\" >> " + p.logFile("pip") + "\nmkdir -p " + trt + "\n"
			Expect(os.WriteFile(filepath.Join(p.binDir, "pip"), []byte(script), 0755)).To(Succeed())
			p.setenv("LD_LIBRARY_PATH", "/nonexistent/cuda:"+filepath.Join(prefix, "lib"))

			session := p.run("--onnxruntime", "cuda", "--force-reinstall")
			Expect(session).To(gexec.Exit(0))

			Expect(p.calls("pip")).To(Equal([]string{
				"uninstall onnxruntime onnxruntime-gpu -y -q",
				"install --force-reinstall numpy==2.2.0 opencv-python==4.11.0.86 onnxruntime-gpu==1.24.1",
			}))
			Expect(p.calls("conda")).To(Equal([]string{
				"env config vars set LD_LIBRARY_PATH=" + filepath.Join(prefix, "lib") + ":" + trt,
			}))
		})

		It("keeps going when pip fails", func() {
			p.fakeTool("pip", 1)

			session := p.run("--onnxruntime", "cuda", "--log-level", "warn")
			Expect(session).To(gexec.Exit(0))
			Expect(session.Err).To(gbytes.Say(`command exited with non-zero status`))
			Expect(p.calls("pip")).To(HaveLen(2))
			Expect(p.calls("conda")).To(HaveLen(1))
		})

		It("fails when conda cannot be launched", func() {
			Expect(os.Remove(filepath.Join(p.binDir, "conda"))).To(Succeed())
			p.setenv("PATH", p.binDir)

			session := p.run("--onnxruntime", "cuda")
			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say(`patch failed`))
			Expect(p.calls("pip")).To(HaveLen(2))
		})
	})

	Context("Dry Run", func() {
		It("prints the plan as JSON without running anything", func() {
			p.setenv("CONDA_PREFIX", p.dir)

			session := p.run("--onnxruntime", "rocm", "--dry-run", "-o", "json")
			Expect(session).To(gexec.Exit(0))

			var plan struct {
				Variant struct {
					Package string `json:"package"`
				} `json:"variant"`
				Steps []struct {
					Step string   `json:"step"`
					Args []string `json:"args"`
				} `json:"steps"`
			}
			Expect(json.Unmarshal(session.Out.Contents(), &plan)).To(Succeed())
			Expect(plan.Variant.Package).To(Equal("onnxruntime-rocm"))
			Expect(plan.Steps).To(HaveLen(2))
			Expect(plan.Steps[1].Args).To(HaveExactElements("install", "numpy==2.2.0", "opencv-python==4.11.0.86", "onnxruntime-rocm==1.22.2.post1"))

			Expect(p.calls("pip")).To(BeEmpty())
		})
	})

	Context("Interrupt", func() {
		It("exits cleanly on SIGINT", func() {
			script := "#!/bin/sh\necho \"$*\" >> " + p.logFile("pip") + "\nexec sleep 30 </dev/null >/dev/null 2>&1\n"
			Expect(os.WriteFile(filepath.Join(p.binDir, "pip"), []byte(script), 0755)).To(Succeed())

			session := p.start("--onnxruntime", "default", "--skip-conda")
			Eventually(func() []string { return p.calls("pip") }).WithTimeout(10 * time.Second).ShouldNot(BeEmpty())

			session.Signal(syscall.SIGINT)
			Eventually(session).WithTimeout(10 * time.Second).Should(gexec.Exit(0))
		})
	})

	Context("Lock", func() {
		It("refuses to run while another installer holds the lock", func() {
			script := "#!/bin/sh\necho \"$*\" >> " + p.logFile("pip") + "\nexec sleep 5 </dev/null >/dev/null 2>&1\n"
			Expect(os.WriteFile(filepath.Join(p.binDir, "pip"), []byte(script), 0755)).To(Succeed())

			first := p.start("--onnxruntime", "default", "--skip-conda")
			Eventually(func() []string { return p.calls("pip") }).WithTimeout(10 * time.Second).ShouldNot(BeEmpty())

			second := p.run("--onnxruntime", "default", "--skip-conda")
			Expect(second).To(gexec.Exit(1))
			Expect(second.Err).To(gbytes.Say(`installer locked`))

			first.Kill()
			Eventually(first).WithTimeout(10 * time.Second).Should(gexec.Exit())
		})
	})
})
