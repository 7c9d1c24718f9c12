package preview

import (
	"testing"

	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(PreviewTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type PreviewTestSuite struct{}

func (s *PreviewTestSuite) TestSentences(c *gc.C) {
	got := Sentences("Cats purr. Dogs bark!  Do birds sing? trailing words")
	c.Assert(got, gc.DeepEquals, []string{"Cats purr.", "Dogs bark!", "Do birds sing?", "trailing words"})
	c.Assert(Sentences("   "), gc.HasLen, 0)
}

func (s *PreviewTestSuite) TestBestSentence(c *gc.C) {
	sentences, best := BestSentence("Cats purr. Dogs bark at cats! Birds sing.", "dog bark cats")
	c.Assert(sentences, gc.HasLen, 3)
	c.Assert(best, gc.Equals, 1)
}

func (s *PreviewTestSuite) TestNoOverlap(c *gc.C) {
	_, best := BestSentence("Cats purr.", "fish")
	c.Assert(best, gc.Equals, -1)

	_, best = BestSentence("Cats purr.", "")
	c.Assert(best, gc.Equals, -1)
}
