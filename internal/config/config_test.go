package config

import (
	"os"
	"path/filepath"
	"testing"

	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(ConfigTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type ConfigTestSuite struct {
	dir string
}

var envVars = []string{
	"DOCSEARCH_DOCUMENTS_DIR",
	"DOCSEARCH_COMPLETION_TYPE",
	"DOCSEARCH_OPENAI_BASE_URL",
	"DOCSEARCH_OPENAI_MODEL",
	"DOCSEARCH_CACHE_TYPE",
	"DOCSEARCH_REDIS_ADDR",
	"DOCSEARCH_LOG_LEVEL",
	"DOCSEARCH_LOG_FORMAT",
	"DOCSEARCH_LOG_FILE",
	"DOCSEARCH_METRICS_ENABLED",
	"DOCSEARCH_METRICS_ADDR",
}

func (s *ConfigTestSuite) SetUpTest(c *gc.C) {
	s.dir = c.MkDir()
	for _, v := range envVars {
		c.Assert(os.Unsetenv(v), gc.IsNil)
	}
}

func (s *ConfigTestSuite) TearDownTest(c *gc.C) {
	for _, v := range envVars {
		c.Assert(os.Unsetenv(v), gc.IsNil)
	}
}

func (s *ConfigTestSuite) TestMissingFileYieldsDefaults(c *gc.C) {
	cfg, err := Load(filepath.Join(s.dir, "absent.yaml"))
	c.Assert(err, gc.IsNil)
	c.Assert(cfg.Documents, gc.DeepEquals, DocumentsConfig{Dir: "./documents", Extension: ".txt"})
	c.Assert(cfg.Completion.Type, gc.Equals, "openai")
	c.Assert(cfg.Completion.OpenAI.APIKeyEnv, gc.Equals, "OPENAI_API_KEY")
	c.Assert(cfg.Cache.Type, gc.Equals, "none")
	c.Assert(cfg.Logging.File, gc.Equals, "docsearch.log")
	c.Assert(cfg.Metrics.Enabled, gc.Equals, false)
}

func (s *ConfigTestSuite) TestPartialFileKeepsDefaults(c *gc.C) {
	path := filepath.Join(s.dir, "config.yaml")
	yml := `
documents:
  dir: /srv/docs
completion:
  type: openai
  openai:
    model: local-llm
    base_url: http://localhost:11434/v1
cache:
  type: redis
logging:
  level: debug
  format: json
`
	c.Assert(os.WriteFile(path, []byte(yml), 0o644), gc.IsNil)

	cfg, err := Load(path)
	c.Assert(err, gc.IsNil)
	c.Assert(cfg.Documents.Dir, gc.Equals, "/srv/docs")
	c.Assert(cfg.Documents.Extension, gc.Equals, ".txt")
	c.Assert(cfg.Completion.OpenAI.Model, gc.Equals, "local-llm")
	c.Assert(cfg.Completion.OpenAI.BaseURL, gc.Equals, "http://localhost:11434/v1")
	c.Assert(cfg.Completion.OpenAI.APIKeyEnv, gc.Equals, "OPENAI_API_KEY")
	c.Assert(cfg.Cache.Redis, gc.NotNil)
	c.Assert(cfg.Cache.Redis.Addr, gc.Equals, "localhost:6379")
	c.Assert(cfg.Cache.Redis.TTLSecs, gc.Equals, 86400)
	c.Assert(cfg.Logging.Level, gc.Equals, "debug")
	c.Assert(cfg.Logging.Format, gc.Equals, "json")
}

func (s *ConfigTestSuite) TestEnvOverrides(c *gc.C) {
	c.Assert(os.Setenv("DOCSEARCH_DOCUMENTS_DIR", "/tmp/corpus"), gc.IsNil)
	c.Assert(os.Setenv("DOCSEARCH_COMPLETION_TYPE", "none"), gc.IsNil)
	c.Assert(os.Setenv("DOCSEARCH_REDIS_ADDR", "redis:6380"), gc.IsNil)
	c.Assert(os.Setenv("DOCSEARCH_CACHE_TYPE", "redis"), gc.IsNil)
	c.Assert(os.Setenv("DOCSEARCH_METRICS_ENABLED", "true"), gc.IsNil)
	c.Assert(os.Setenv("DOCSEARCH_LOG_FILE", "-"), gc.IsNil)

	cfg, err := Load(filepath.Join(s.dir, "absent.yaml"))
	c.Assert(err, gc.IsNil)
	c.Assert(cfg.Documents.Dir, gc.Equals, "/tmp/corpus")
	c.Assert(cfg.Completion.Type, gc.Equals, "none")
	c.Assert(cfg.Cache.Type, gc.Equals, "redis")
	c.Assert(cfg.Cache.Redis.Addr, gc.Equals, "redis:6380")
	c.Assert(cfg.Metrics.Enabled, gc.Equals, true)
	c.Assert(cfg.Logging.File, gc.Equals, "-")
}

func (s *ConfigTestSuite) TestInvalidYAML(c *gc.C) {
	path := filepath.Join(s.dir, "bad.yaml")
	c.Assert(os.WriteFile(path, []byte("documents: [unclosed"), 0o644), gc.IsNil)
	_, err := Load(path)
	c.Assert(err, gc.NotNil)
}

func (s *ConfigTestSuite) TestSaveRoundTrip(c *gc.C) {
	path := filepath.Join(s.dir, "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Documents.Dir = "/data"
	c.Assert(Save(path, cfg), gc.IsNil)

	loaded, err := Load(path)
	c.Assert(err, gc.IsNil)
	c.Assert(loaded, gc.DeepEquals, cfg)
}
