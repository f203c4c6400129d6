package config

import (
	"os"
	"path/filepath"
	"testing"

	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(ConfigTestSuite))

// Register our test-suite with go test.
func Test(t *testing.T) { gc.TestingT(t) }

type ConfigTestSuite struct {
	saved map[string]*string
}

var envKeys = []string{
	"UNNET_DATA_DIR", "UNNET_EDGE_FILE", "UNNET_WORKERS", "UNNET_STRICT",
	"UNNET_PERMISSIVE_XML", "UNNET_LOG_LEVEL", "UNNET_LOG_FORMAT", "UNNET_DB_DSN",
}

func (s *ConfigTestSuite) SetUpTest(c *gc.C) {
	s.saved = make(map[string]*string)
	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			s.saved[key] = &v
		} else {
			s.saved[key] = nil
		}
		c.Assert(os.Unsetenv(key), gc.IsNil)
	}
}

func (s *ConfigTestSuite) TearDownTest(c *gc.C) {
	for key, v := range s.saved {
		if v == nil {
			_ = os.Unsetenv(key)
		} else {
			_ = os.Setenv(key, *v)
		}
	}
}

func (s *ConfigTestSuite) TestDefaults(c *gc.C) {
	cfg := Load()
	c.Assert(cfg, gc.DeepEquals, &Config{
		DataDir:   "data",
		EdgeFile:  filepath.Join("data", "edges.csv"),
		Workers:   1,
		LogLevel:  "info",
		LogFormat: "text",
	})
}

func (s *ConfigTestSuite) TestFromEnvironment(c *gc.C) {
	c.Assert(os.Setenv("UNNET_DATA_DIR", "/corpus"), gc.IsNil)
	c.Assert(os.Setenv("UNNET_WORKERS", "8"), gc.IsNil)
	c.Assert(os.Setenv("UNNET_STRICT", "true"), gc.IsNil)
	c.Assert(os.Setenv("UNNET_PERMISSIVE_XML", "1"), gc.IsNil)
	c.Assert(os.Setenv("UNNET_DB_DSN", "postgresql://root@localhost:26257/unnet"), gc.IsNil)

	cfg := Load()
	c.Assert(cfg.DataDir, gc.Equals, "/corpus")
	c.Assert(cfg.EdgeFile, gc.Equals, filepath.Join("/corpus", "edges.csv"))
	c.Assert(cfg.Workers, gc.Equals, 8)
	c.Assert(cfg.Strict, gc.Equals, true)
	c.Assert(cfg.PermissiveXML, gc.Equals, true)
	c.Assert(cfg.DBDSN, gc.Equals, "postgresql://root@localhost:26257/unnet")
}

func (s *ConfigTestSuite) TestInvalidValuesFallBack(c *gc.C) {
	c.Assert(os.Setenv("UNNET_WORKERS", "many"), gc.IsNil)
	c.Assert(os.Setenv("UNNET_STRICT", "maybe"), gc.IsNil)
	c.Assert(os.Setenv("UNNET_EDGE_FILE", "/tmp/e.csv"), gc.IsNil)

	cfg := Load()
	c.Assert(cfg.Workers, gc.Equals, 1)
	c.Assert(cfg.Strict, gc.Equals, false)
	c.Assert(cfg.EdgeFile, gc.Equals, "/tmp/e.csv")
}
