package utils_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/emodel/pkg/utils"
)

var _ = Describe("utils", func() {
	It("hashes canonical json", func() {
		a := map[string]any{"b": 1, "a": []string{"x"}}
		Expect(utils.HashData(a)).To(Equal(utils.HashData([]byte(`{"a":["x"],"b":1}`))))
		Expect(utils.HashData(nil)).To(Equal(""))
		Expect(utils.HashData("text")).To(Equal(utils.HashData([]byte("text"))))
	})
})
