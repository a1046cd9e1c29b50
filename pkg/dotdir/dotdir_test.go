package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opentoolset/relay/pkg/dotdir"
)

var _ = Describe("Manager", func() {
	Describe("Target", func() {
		It("uses the override directory when provided", func() {
			override := filepath.Join(GinkgoT().TempDir(), "custom")
			m := dotdir.NewManager()

			target, err := m.Target(override)
			Expect(err).NotTo(HaveOccurred())
			Expect(target).To(Equal(override))

			info, err := os.Stat(target)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("creates the override directory if missing", func() {
			override := filepath.Join(GinkgoT().TempDir(), "a", "b", ".relay")
			m := dotdir.NewManager()

			target, err := m.Target(override)
			Expect(err).NotTo(HaveOccurred())
			Expect(target).To(BeADirectory())
		})

		It("prefers a local .relay/ directory over home", func() {
			tmp := GinkgoT().TempDir()
			Expect(os.MkdirAll(filepath.Join(tmp, ".relay"), 0o755)).To(Succeed())

			cwd, err := os.Getwd()
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Chdir(tmp)).To(Succeed())
			DeferCleanup(func() { _ = os.Chdir(cwd) })

			m := dotdir.NewManager()
			target, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())

			// Resolve symlinks: on some systems TempDir is behind /private
			// or similar.
			resolved, err := filepath.EvalSymlinks(target)
			Expect(err).NotTo(HaveOccurred())
			expected, err := filepath.EvalSymlinks(filepath.Join(tmp, ".relay"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved).To(Equal(expected))
		})
	})
})
