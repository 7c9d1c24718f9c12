package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	gc "gopkg.in/check.v1"

	"docsearch/internal/config"
)

var _ = gc.Suite(new(LoggingTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type LoggingTestSuite struct{}

func (s *LoggingTestSuite) TestJSONToFile(c *gc.C) {
	path := filepath.Join(c.MkDir(), "logs", "app.log")
	logger, closer, err := New(config.LoggingConfig{Level: "debug", Format: "json", File: path}, logrus.Fields{"app": "docsearch"})
	c.Assert(err, gc.IsNil)

	logger.WithField("component", "test").Debug("hello")
	c.Assert(closer.Close(), gc.IsNil)

	data, err := os.ReadFile(path)
	c.Assert(err, gc.IsNil)
	var entry map[string]interface{}
	c.Assert(json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry), gc.IsNil)
	c.Assert(entry["msg"], gc.Equals, "hello")
	c.Assert(entry["app"], gc.Equals, "docsearch")
	c.Assert(entry["component"], gc.Equals, "test")
	c.Assert(entry["level"], gc.Equals, "debug")
}

func (s *LoggingTestSuite) TestUnknownLevelIsInfo(c *gc.C) {
	logger, closer, err := New(config.LoggingConfig{Level: "verbose", File: ""}, nil)
	c.Assert(err, gc.IsNil)
	defer closer.Close()
	c.Assert(logger.Logger.GetLevel(), gc.Equals, logrus.InfoLevel)
}
