package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	gc "gopkg.in/check.v1"

	"docsearch/internal/domain"
)

var _ = gc.Suite(new(StoreTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type StoreTestSuite struct {
	dir   string
	store *Store
}

func (s *StoreTestSuite) SetUpTest(c *gc.C) {
	s.dir = c.MkDir()
	s.store = NewStore(s.dir, "")
	write(c, s.dir, "b.txt", "dog bird")
	write(c, s.dir, "a.txt", "cat dog")
	write(c, s.dir, "notes.md", "ignored")
	c.Assert(os.Mkdir(filepath.Join(s.dir, "sub.txt"), 0o755), gc.IsNil)
}

func (s *StoreTestSuite) TestListDocuments(c *gc.C) {
	docs, err := s.store.ListDocuments(context.TODO())
	c.Assert(err, gc.IsNil)
	c.Assert(docs, gc.DeepEquals, []domain.Document{
		{ID: "a", Content: "cat dog"},
		{ID: "b", Content: "dog bird"},
	})
}

func (s *StoreTestSuite) TestMissingFolderIsSourceUnavailable(c *gc.C) {
	st := NewStore(filepath.Join(s.dir, "missing"), ".txt")
	_, err := st.ListDocuments(context.TODO())
	c.Assert(errors.Is(err, domain.ErrSourceUnavailable), gc.Equals, true)
}

func (s *StoreTestSuite) TestPersistThenRead(c *gc.C) {
	c.Assert(s.store.Persist(context.TODO(), "gpt_1", "an answer"), gc.IsNil)

	text, err := s.store.Read(context.TODO(), "gpt_1")
	c.Assert(err, gc.IsNil)
	c.Assert(text, gc.Equals, "an answer")

	docs, err := s.store.ListDocuments(context.TODO())
	c.Assert(err, gc.IsNil)
	c.Assert(docs, gc.HasLen, 3)
	c.Assert(docs[2], gc.DeepEquals, domain.Document{ID: "gpt_1", Content: "an answer"})
}

func (s *StoreTestSuite) TestPersistCreatesFolder(c *gc.C) {
	st := NewStore(filepath.Join(s.dir, "new", "docs"), "txt")
	c.Assert(st.Persist(context.TODO(), "gpt_2", "x"), gc.IsNil)
	_, err := os.Stat(filepath.Join(s.dir, "new", "docs", "gpt_2.txt"))
	c.Assert(err, gc.IsNil)
}

func (s *StoreTestSuite) TestReadMissing(c *gc.C) {
	for _, id := range []string{"nope", "", "../a", `..\a`} {
		_, err := s.store.Read(context.TODO(), id)
		c.Assert(errors.Is(err, domain.ErrDocumentNotFound), gc.Equals, true, gc.Commentf("id %q", id))
	}
}

func (s *StoreTestSuite) TestExtensionMatchedExactly(c *gc.C) {
	write(c, s.dir, "Upper.TXT", "shouting dog")
	write(c, s.dir, "c.TXT", "another cat")

	docs, err := s.store.ListDocuments(context.TODO())
	c.Assert(err, gc.IsNil)
	c.Assert(docs, gc.DeepEquals, []domain.Document{
		{ID: "a", Content: "cat dog"},
		{ID: "b", Content: "dog bird"},
	})
	for _, d := range docs {
		text, err := s.store.Read(context.TODO(), d.ID)
		c.Assert(err, gc.IsNil)
		c.Assert(text, gc.Equals, d.Content)
	}
}

func write(c *gc.C, dir, name, text string) {
	c.Assert(os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644), gc.IsNil)
}
