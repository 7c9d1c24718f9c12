package history

import (
	"testing"

	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(StackTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type StackTestSuite struct{}

func (s *StackTestSuite) TestEmptySignals(c *gc.C) {
	var st Stack[string]
	c.Assert(st.IsEmpty(), gc.Equals, true)

	v, ok := st.Pop()
	c.Assert(ok, gc.Equals, false)
	c.Assert(v, gc.Equals, "")

	v, ok = st.Peek()
	c.Assert(ok, gc.Equals, false)
	c.Assert(v, gc.Equals, "")
	c.Assert(st.Inspect(), gc.HasLen, 0)
}

func (s *StackTestSuite) TestLIFO(c *gc.C) {
	var st Stack[string]
	st.Push("x")
	st.Push("y")
	st.Push("z")
	c.Assert(st.Len(), gc.Equals, 3)

	top, ok := st.Peek()
	c.Assert(ok, gc.Equals, true)
	c.Assert(top, gc.Equals, "z")
	c.Assert(st.Len(), gc.Equals, 3)

	for _, want := range []string{"z", "y", "x"} {
		got, ok := st.Pop()
		c.Assert(ok, gc.Equals, true)
		c.Assert(got, gc.Equals, want)
	}
	c.Assert(st.IsEmpty(), gc.Equals, true)
}

func (s *StackTestSuite) TestInspectIsMostRecentFirstCopy(c *gc.C) {
	var st Stack[string]
	st.Push("first")
	st.Push("second")

	view := st.Inspect()
	c.Assert(view, gc.DeepEquals, []string{"second", "first"})

	view[0] = "mutated"
	top, _ := st.Peek()
	c.Assert(top, gc.Equals, "second")
}

func (s *StackTestSuite) TestClear(c *gc.C) {
	var st Stack[int]
	st.Push(1)
	st.Push(2)
	st.Clear()
	c.Assert(st.IsEmpty(), gc.Equals, true)

	st.Push(3)
	c.Assert(st.Inspect(), gc.DeepEquals, []int{3})
}
