package vbc

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/abax-solver/abax/pkg/abax"
)

// Node colors of the VBC tree visualization palette.
const (
	colorUnprocessed = 5
	colorProcessing  = 6
	colorProcessed   = 2
	colorDormant     = 9
	colorFathomed    = 4
)

// Writer emits the enumeration tree of a run as a VBC tool tree log. It
// implements abax.TreeObserver; every event is written as one line with a
// hh:mm:ss.cc timestamp relative to the creation of the Writer:
//
//	N <parent> <node> <color>   a node entered the tree
//	P <node> <color>            a node changed its status
//	L <value>                   the global lower bound moved
//	U <value>                   the global upper bound moved
//
// Write errors are sticky and reported by Err; the observer callbacks have
// no error path.
type Writer struct {
	sense   abax.Sense
	w       *bufio.Writer
	elapsed func() time.Duration
	err     error
}

var _ abax.TreeObserver = (*Writer)(nil)

// New returns a Writer logging to w. The sense decides which of the two
// global bounds is the lower one.
func New(w io.Writer, sense abax.Sense) *Writer {
	epoch := time.Now()
	return newWriter(w, sense, func() time.Duration { return time.Since(epoch) })
}

func newWriter(w io.Writer, sense abax.Sense, elapsed func() time.Duration) *Writer {
	v := &Writer{
		sense:   sense,
		w:       bufio.NewWriter(w),
		elapsed: elapsed,
	}
	for _, line := range []string{
		"#TYPE: COMPLETE TREE",
		"#TIME: SET",
		"#BOUNDS: SET",
		"#INFORMATION: STANDARD",
		"#NODE_NUMBER: NONE",
	} {
		v.line(line)
	}
	return v
}

func (v *Writer) NewNode(id, parentID, level int) {
	v.event("N %d %d %d", parentID, id, colorUnprocessed)
}

func (v *Writer) PaintNode(id int, status abax.SubStatus) {
	v.event("P %d %d", id, color(status))
}

func (v *Writer) NewBounds(primal, dual float64) {
	lower, upper := dual, primal
	if v.sense == abax.Maximize {
		lower, upper = primal, dual
	}
	if !math.IsInf(lower, 0) {
		v.event("L %g", lower)
	}
	if !math.IsInf(upper, 0) {
		v.event("U %g", upper)
	}
}

// Flush writes buffered events through to the underlying writer.
func (v *Writer) Flush() error {
	if v.err != nil {
		return v.err
	}
	v.err = v.w.Flush()
	return v.err
}

// Err returns the first write error encountered.
func (v *Writer) Err() error { return v.err }

func (v *Writer) line(s string) {
	if v.err != nil {
		return
	}
	_, v.err = fmt.Fprintln(v.w, s)
}

func (v *Writer) event(format string, args ...interface{}) {
	if v.err != nil {
		return
	}
	_, v.err = fmt.Fprintf(v.w, "%s %s\n", stamp(v.elapsed()), fmt.Sprintf(format, args...))
}

// stamp renders a duration as hh:mm:ss.cc, the timestamp format of VBC
// tree logs.
func stamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := int64(d / (10 * time.Millisecond))
	return fmt.Sprintf("%02d:%02d:%02d.%02d",
		cs/360000, cs/6000%60, cs/100%60, cs%100)
}

func color(status abax.SubStatus) int {
	switch status {
	case abax.SubProcessing:
		return colorProcessing
	case abax.SubProcessed:
		return colorProcessed
	case abax.SubDormant:
		return colorDormant
	case abax.SubFathomed:
		return colorFathomed
	}
	return colorUnprocessed
}
