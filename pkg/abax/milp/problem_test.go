package milp_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/abax-solver/abax/pkg/abax"
	"github.com/abax-solver/abax/pkg/abax/milp"
)

var _ = Describe("ReadProblem", func() {
	It("should read a problem with inequality rows", func() {
		p, err := milp.ReadProblem(strings.NewReader(knapsackJSON))
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Sense).To(Equal(abax.Maximize))
		Expect(p.NVars()).To(Equal(4))
		Expect(p.A).To(BeNil())
		rows, cols := p.G.Dims()
		Expect(rows).To(Equal(5))
		Expect(cols).To(Equal(4))
		Expect(p.H).To(Equal([]float64{14, 1, 1, 1, 1}))
		Expect(p.Integer).To(Equal([]bool{true, true, true, true}))
	})

	It("should read a problem with equality rows", func() {
		doc := `{"sense": "min", "c": [1, 2], "a": [[1, 1]], "b": [3]}`
		p, err := milp.ReadProblem(strings.NewReader(doc))
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Sense).To(Equal(abax.Minimize))
		rows, cols := p.A.Dims()
		Expect(rows).To(Equal(1))
		Expect(cols).To(Equal(2))
		Expect(p.B).To(Equal([]float64{3}))
		Expect(p.G).To(BeNil())
		Expect(p.Integer).To(BeNil())
	})

	It("should reject an unknown sense", func() {
		doc := `{"sense": "best", "c": [1], "g": [[1]], "h": [1]}`
		_, err := milp.ReadProblem(strings.NewReader(doc))
		Expect(err).To(MatchError(ContainSubstring(`unknown optimization sense "best"`)))
	})

	It("should reject a ragged matrix row", func() {
		doc := `{"sense": "min", "c": [1, 2], "g": [[1, 2], [3]], "h": [4, 5]}`
		_, err := milp.ReadProblem(strings.NewReader(doc))
		Expect(err).To(MatchError(ContainSubstring(`matrix "g" row 1 has 1 entries, want 2`)))
	})

	It("should reject a problem without variables", func() {
		doc := `{"sense": "min", "c": [], "g": [[1]], "h": [1]}`
		_, err := milp.ReadProblem(strings.NewReader(doc))
		Expect(err).To(MatchError(ContainSubstring("at least one variable")))
	})

	It("should reject a problem without constraints", func() {
		doc := `{"sense": "min", "c": [1]}`
		_, err := milp.ReadProblem(strings.NewReader(doc))
		Expect(err).To(MatchError(ContainSubstring("at least one constraint row")))
	})

	It("should reject a mismatched rhs", func() {
		doc := `{"sense": "min", "c": [1], "g": [[1]], "h": [1, 2]}`
		_, err := milp.ReadProblem(strings.NewReader(doc))
		Expect(err).To(MatchError(ContainSubstring("inequality rhs has 2 entries, want 1")))
	})

	It("should reject a mismatched integrality mask", func() {
		doc := `{"sense": "min", "c": [1, 2], "g": [[1, 0]], "h": [1], "integer": [true]}`
		_, err := milp.ReadProblem(strings.NewReader(doc))
		Expect(err).To(MatchError(ContainSubstring("integrality mask has 1 entries, want 2")))
	})

	It("should reject malformed JSON", func() {
		_, err := milp.ReadProblem(strings.NewReader("{"))
		Expect(err).To(MatchError(ContainSubstring("decoding problem")))
	})
})
