package maxsat_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/abax-solver/abax/pkg/abax/maxsat"
)

var _ = Describe("ParseWCNF", func() {
	It("should fail if there is no header", func() {
		instance := "10 1 2 0\n"
		_, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).To(HaveOccurred())
	})

	It("should parse a weighted partial instance", func() {
		instance := "c a small instance\n" +
			"p wcnf 3 4 10\n" +
			"10 1 2 0\n" +
			"10 -1 3 0\n" +
			"3 2 0\n" +
			"2 3 0\n"
		p, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).ToNot(HaveOccurred())
		Expect(p.NVars).To(Equal(3))
		Expect(p.Hard).To(Equal([][]int{{1, 2}, {-1, 3}}))
		Expect(p.Soft).To(Equal([]maxsat.SoftClause{
			{Lits: []int{2}, Weight: 3},
			{Lits: []int{3}, Weight: 2},
		}))
		Expect(p.TotalSoftWeight()).To(Equal(int64(5)))
	})

	It("should treat every clause as soft when the header has no top weight", func() {
		instance := "p wcnf 2 2\n" +
			"4 1 0\n" +
			"7 -1 2 0\n"
		p, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Hard).To(BeEmpty())
		Expect(p.Soft).To(HaveLen(2))
		Expect(p.TotalSoftWeight()).To(Equal(int64(11)))
	})

	It("should tolerate blank lines and comments between clauses", func() {
		instance := "c header next\n" +
			"p wcnf 2 2 5\n" +
			"\n" +
			"5 1 2 0\n" +
			"c a soft clause\n" +
			"1 -2 0\n"
		p, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Hard).To(HaveLen(1))
		Expect(p.Soft).To(HaveLen(1))
	})

	It("should fail when the clause count does not match the header", func() {
		instance := "p wcnf 2 3 5\n" +
			"5 1 0\n" +
			"1 2 0\n"
		_, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).To(MatchError(ContainSubstring("header declares 3 clauses, found 2")))
	})

	It("should fail on a literal outside the declared range", func() {
		instance := "p wcnf 2 1 5\n" +
			"5 1 3 0\n"
		_, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).To(MatchError(ContainSubstring("literal 3 out of range")))
	})

	It("should fail on a non positive weight", func() {
		instance := "p wcnf 2 1 5\n" +
			"0 1 0\n"
		_, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).To(MatchError(ContainSubstring("invalid weight")))
	})

	It("should fail on a clause without terminator", func() {
		instance := "p wcnf 2 1 5\n" +
			"5 1 2\n"
		_, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).To(MatchError(ContainSubstring("does not end with 0")))
	})

	It("should fail on a duplicate header", func() {
		instance := "p wcnf 2 1 5\n" +
			"p wcnf 2 1 5\n" +
			"5 1 0\n"
		_, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).To(MatchError(ContainSubstring("duplicate header")))
	})
})
