package app_test

import (
	"bytes"
	"os"

	. "github.com/mandelsoft/emodel/pkg/testutils"
	. "github.com/mandelsoft/goutils/testutils"
	"github.com/mandelsoft/vfs/pkg/vfs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/emodel/cmds/mmctl/app"
	"github.com/mandelsoft/emodel/pkg/metamodel"
)

var _ = Describe("mmctl", func() {
	var fs vfs.FileSystem
	var cmd *cobra.Command
	var buf *bytes.Buffer

	run := func(args ...string) error {
		cmd = app.New(fs)
		cmd.SetOut(buf)
		cmd.SetArgs(append([]string{"-d", "testdata"}, args...))
		return cmd.Execute()
	}

	BeforeEach(func() {
		fs = Must(TestFileSystem("testdata", false))
		buf = bytes.NewBuffer(nil)
	})

	AfterEach(func() {
		vfs.Cleanup(fs)
	})

	It("lists files", func() {
		MustBeSuccessful(run("list"))
		Expect("\n" + buf.String()).To(Equal(`
xmi    library.ecore
schema library.hcl
xmi    tolkien.xmi
`))
	})

	It("defines metamodels", func() {
		MustBeSuccessful(run("define", "library.hcl", "copy.ecore"))
		Expect(buf.String()).To(Equal("package library (http://example.org/library) written to copy.ecore\n"))
		Expect(vfs.ReadFile(fs, "testdata/copy.ecore")).To(Equal(Must(vfs.ReadFile(fs, "testdata/library.ecore"))))
	})

	It("inspects metamodels", func() {
		MustBeSuccessful(run("-m", "library.hcl", "inspect", "--no-color"))
		Expect("\n" + buf.String()).To(Equal(`
package library (http://example.org/library)
  Book
    - attribute title: EString
  Author
    - attribute name: EString
    - reference books: Book [containment, many]
`))
	})

	It("inspects metamodels as yaml", func() {
		MustBeSuccessful(run("inspect", "library.ecore", "-o", "yaml"))
		Expect(buf.String()).To(MatchYAML(`
- name: library
  uri: http://example.org/library
  prefix: lib
  classes:
  - name: Book
    features:
    - name: title
      kind: attribute
      type: EString
  - name: Author
    features:
    - name: name
      kind: attribute
      type: EString
    - name: books
      kind: reference
      target: Book
      containment: true
      many: true
`))
	})

	It("converts instances", func() {
		MustBeSuccessful(run("-m", "library.hcl", "convert", "tolkien.xmi", "tolkien.yaml"))
		MustBeSuccessful(run("-m", "library.hcl", "convert", "tolkien.yaml", "copy"))
		Expect(buf.String()).To(Equal("tolkien.xmi converted to tolkien.yaml\ntolkien.yaml converted to copy.xmi\n"))
		Expect(vfs.ReadFile(fs, "testdata/copy.xmi")).To(Equal(Must(vfs.ReadFile(fs, "testdata/tolkien.xmi"))))
	})

	It("uses config files", func() {
		os.Setenv("MMCTL_TEST_MODEL", "library.hcl")
		DeferCleanup(os.Unsetenv, "MMCTL_TEST_MODEL")
		MustBeSuccessful(vfs.WriteFile(fs, "testdata/config.yaml", []byte(`
format: yaml
metamodels:
- ${MMCTL_TEST_MODEL}
`), 0o600))
		MustBeSuccessful(run("--config", "testdata/config.yaml", "convert", "tolkien.xmi", "copy"))
		Expect(buf.String()).To(Equal("tolkien.xmi converted to copy.yaml\n"))
		Expect(Must(fs.Stat("testdata/copy.yaml")).Mode().IsRegular()).To(BeTrue())
	})

	It("reports broken config files", func() {
		err := run("--config", "testdata/missing.yaml", "list")
		Expect(vfs.IsErrNotExist(err)).To(BeTrue())

		MustBeSuccessful(vfs.WriteFile(fs, "testdata/config.yaml", []byte("format: [\n"), 0o600))
		err = run("--config", "testdata/config.yaml", "list")
		Expect(err).To(MatchError(ContainSubstring(`config file "testdata/config.yaml"`)))

		MustBeSuccessful(vfs.WriteFile(fs, "testdata/config.yaml", []byte("unknown: true\n"), 0o600))
		err = run("--config", "testdata/config.yaml", "list")
		Expect(err).To(MatchError(ContainSubstring("unknown")))
	})

	It("generates and validates instances", func() {
		MustBeSuccessful(run("-m", "library.ecore", "generate", "Author", "random", "--seed", "4711", "--ids"))
		Expect(buf.String()).To(MatchRegexp(`^[0-9]+ objects written to random.xmi\n$`))
		buf.Reset()
		MustBeSuccessful(run("-m", "library.ecore", "validate", "random.xmi", "tolkien.xmi", "library.ecore"))
		Expect(buf.String()).To(Equal("random.xmi: ok\ntolkien.xmi: ok\nlibrary.ecore: ok\n"))
	})

	It("resolves qualified class names", func() {
		MustBeSuccessful(run("-m", "library.hcl", "generate", "http://example.org/library#Book", "book.yaml", "-s", "1"))
		Expect(buf.String()).To(Equal("1 objects written to book.yaml\n"))
	})

	It("reports errors", func() {
		Expect(run("-m", "library.hcl", "generate", "Shelf", "x.xmi")).To(MatchError(metamodel.ErrUnknownClass))
		Expect(run("inspect")).To(MatchError("no metamodel given"))
		Expect(run("inspect", "-o", "table", "library.hcl")).To(MatchError(`unknown output format "table"`))
	})

	It("reports invalid files", func() {
		err := run("validate", "tolkien.xmi")
		Expect(err).To(MatchError("1 of 1 files invalid"))
		Expect(buf.String()).To(HavePrefix("tolkien.xmi: "))
	})
})
