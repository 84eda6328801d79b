package maxsat_test

import (
	"context"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/abax-solver/abax/pkg/abax"
	"github.com/abax-solver/abax/pkg/abax/maxsat"
)

func TestMaxSat(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MaxSAT Suite")
}

var _ = Describe("Solve", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should find the optimum of a weighted partial instance", func() {
		p := &maxsat.Problem{
			NVars: 2,
			Hard:  [][]int{{1, 2}},
			Soft: []maxsat.SoftClause{
				{Lits: []int{-1}, Weight: 2},
				{Lits: []int{-2}, Weight: 2},
				{Lits: []int{1}, Weight: 1},
			},
		}
		sol, err := maxsat.Solve(ctx, p)
		Expect(err).ToNot(HaveOccurred())
		// with a zero required guarantee the run ends Guaranteed when the
		// bounds meet while hopeless subproblems are still open, Optimal
		// when the open set drains first; both prove the incumbent optimal
		Expect(sol.Status).To(BeElementOf(abax.StatusOptimal, abax.StatusGuaranteed))
		Expect(sol.Weight).To(Equal(int64(3)))
		Expect(sol.Values[1]).To(BeTrue())
		Expect(sol.Values[2]).To(BeFalse())
	})

	It("should find the same optimum under every enumeration strategy", func() {
		instance := "p wcnf 3 5 100\n" +
			"100 1 2 3 0\n" +
			"100 -1 -2 0\n" +
			"1 1 0\n" +
			"2 2 0\n" +
			"3 3 0\n"
		p, err := maxsat.ParseWCNF(strings.NewReader(instance))
		Expect(err).ToNot(HaveOccurred())

		strategies := []abax.EnumStrategy{
			abax.BestFirst, abax.BreadthFirst, abax.DepthFirst, abax.DiveAndBest,
		}
		for _, strategy := range strategies {
			sol, err := maxsat.Solve(ctx, p, abax.WithEnumerationStrategy(strategy))
			Expect(err).ToNot(HaveOccurred(), "strategy %s", strategy)
			Expect(sol.Status).To(BeElementOf(abax.StatusOptimal, abax.StatusGuaranteed), "strategy %s", strategy)
			Expect(sol.Weight).To(Equal(int64(5)), "strategy %s", strategy)
		}
	})

	It("should report unsatisfiable hard clauses", func() {
		p := &maxsat.Problem{
			NVars: 1,
			Hard:  [][]int{{1}, {-1}},
			Soft:  []maxsat.SoftClause{{Lits: []int{1}, Weight: 1}},
		}
		_, err := maxsat.Solve(ctx, p)
		Expect(err).To(MatchError(maxsat.ErrUnsatisfiable))
	})

	It("should solve a pure SAT instance with no soft clauses", func() {
		p := &maxsat.Problem{
			NVars: 2,
			Hard:  [][]int{{1, 2}, {-1, 2}},
		}
		sol, err := maxsat.Solve(ctx, p)
		Expect(err).ToNot(HaveOccurred())
		Expect(sol.Status).To(Equal(abax.StatusOptimal))
		Expect(sol.Weight).To(Equal(int64(0)))
		Expect(sol.Values[2]).To(BeTrue())
	})

	It("should stop at the subproblem limit and keep the incumbent", func() {
		p := &maxsat.Problem{
			NVars: 2,
			Hard:  [][]int{{1, 2}},
			Soft: []maxsat.SoftClause{
				{Lits: []int{-1}, Weight: 2},
				{Lits: []int{-2}, Weight: 2},
				{Lits: []int{1}, Weight: 1},
			},
		}
		sol, err := maxsat.Solve(ctx, p, abax.WithMaxNSub(1))
		Expect(err).ToNot(HaveOccurred())
		Expect(sol.Status).To(Equal(abax.StatusMaxNSub))
		Expect(sol.Weight).To(BeNumerically(">=", 1))
	})

	It("should stop at the level limit", func() {
		p := &maxsat.Problem{
			NVars: 3,
			Hard:  [][]int{{1, 2, 3}},
			Soft: []maxsat.SoftClause{
				{Lits: []int{-1}, Weight: 1},
				{Lits: []int{-2}, Weight: 1},
				{Lits: []int{-3}, Weight: 1},
			},
		}
		sol, err := maxsat.Solve(ctx, p, abax.WithMaxLevel(1))
		Expect(err).ToNot(HaveOccurred())
		Expect(sol.Status).To(Equal(abax.StatusMaxLevel))
	})

	It("should report an incomplete run when a limit hits before any model", func() {
		p := &maxsat.Problem{
			NVars: 1,
			Hard:  [][]int{{1}},
		}
		_, err := maxsat.Solve(ctx, p, abax.WithMaxCPUTime(0))
		Expect(err).To(MatchError(maxsat.ErrIncomplete))
	})

	It("should reject an invalid problem before solving", func() {
		p := &maxsat.Problem{
			NVars: 1,
			Hard:  [][]int{{2}},
		}
		_, err := maxsat.Solve(ctx, p)
		Expect(err).To(MatchError(ContainSubstring("out of range")))
	})
})
