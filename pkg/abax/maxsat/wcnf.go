package maxsat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ParseWCNF reads a weighted partial MaxSAT instance in WCNF format
// see: https://maxsat-evaluations.github.io/
//
//	c comment
//	p wcnf <variables> <clauses> <top>
//	<weight> <literal> ... <literal> 0
//
// Clauses carrying at least the top weight are hard, every other clause is
// soft with the given weight. When the header omits the top weight all
// clauses are soft.
func ParseWCNF(r io.Reader) (*Problem, error) {
	reader := bufio.NewReader(r)

	commentLine := regexp.MustCompile(`^c(\s.*)?$`)
	headerLine := regexp.MustCompile(`^p\s+wcnf(\s|$)`)

	var (
		problem    *Problem
		top        int64
		numClauses int
		sawClauses int
	)

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error reading wcnf data: %w", err)
		}
		atEOF := errors.Is(err, io.EOF)
		line = strings.TrimSpace(line)

		switch {
		case line == "" || commentLine.MatchString(line):
			// ignore comments and blank lines

		case headerLine.MatchString(line):
			if problem != nil {
				return nil, fmt.Errorf("duplicate header (%s)", line)
			}
			fields := strings.Fields(line)
			if len(fields) != 4 && len(fields) != 5 {
				return nil, fmt.Errorf("invalid statement: (%s). Valid format is p wcnf <variables> <clauses> [top]", line)
			}
			numVariables, err := strconv.Atoi(fields[2])
			if err != nil || numVariables < 1 {
				return nil, fmt.Errorf("invalid number (%s) in statement (%s)", fields[2], line)
			}
			numClauses, err = strconv.Atoi(fields[3])
			if err != nil || numClauses < 0 {
				return nil, fmt.Errorf("invalid number (%s) in statement (%s)", fields[3], line)
			}
			if len(fields) == 5 {
				top, err = strconv.ParseInt(fields[4], 10, 64)
				if err != nil || top < 1 {
					return nil, fmt.Errorf("invalid top weight (%s) in statement (%s)", fields[4], line)
				}
			}
			problem = &Problem{NVars: numVariables}

		default:
			if problem == nil {
				return nil, fmt.Errorf("invalid wcnf format: missing header 'p wcnf <variables> <clauses> [top]'")
			}
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, fmt.Errorf("invalid clause (%s): want <weight> <literals...> 0", line)
			}
			if fields[len(fields)-1] != "0" {
				return nil, fmt.Errorf("invalid clause (%s): does not end with 0", line)
			}
			weight, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil || weight < 1 {
				return nil, fmt.Errorf("invalid weight (%s) in clause (%s)", fields[0], line)
			}
			lits := make([]int, 0, len(fields)-2)
			for _, field := range fields[1 : len(fields)-1] {
				lit, err := strconv.Atoi(field)
				if err != nil {
					return nil, fmt.Errorf("invalid clause (%s): %s is not a number", line, field)
				}
				if lit == 0 {
					return nil, fmt.Errorf("invalid clause (%s): 0 is only valid as the terminator", line)
				}
				if abs(lit) > problem.NVars {
					return nil, fmt.Errorf("invalid clause (%s): literal %d out of range, only %d variables declared", line, lit, problem.NVars)
				}
				lits = append(lits, lit)
			}
			if top > 0 && weight >= top {
				problem.Hard = append(problem.Hard, lits)
			} else {
				problem.Soft = append(problem.Soft, SoftClause{Lits: lits, Weight: weight})
			}
			sawClauses++
		}

		if atEOF {
			break
		}
	}

	if problem == nil {
		return nil, fmt.Errorf("invalid wcnf format: missing header 'p wcnf <variables> <clauses> [top]'")
	}
	if sawClauses != numClauses {
		return nil, fmt.Errorf("invalid format: header declares %d clauses, found %d", numClauses, sawClauses)
	}
	return problem, nil
}
