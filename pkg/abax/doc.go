// Package abax is a problem independent branch and cut enumeration
// framework. A Master owns the global primal and dual bounds, the open
// subproblem set, the enumeration strategy and the termination policy;
// the problem specific work lives in implementations of the Sub
// interface, which solve their relaxation, propose bounds and branch
// into child subproblems.
//
// A Master is configured through functional options and started with
// Optimize, which runs until optimality is proven, the required
// guarantee is reached, a resource limit fires or a subproblem reports
// an error. The subpackages maxsat and milp ship two reference Sub
// implementations; the vbc subpackage streams the growing enumeration
// tree to a visualization log.
package abax
