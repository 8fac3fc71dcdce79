package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ConfigSuite is a test suite for config operations.
type ConfigSuite struct {
	suite.Suite
	tempDir string
}

func (s *ConfigSuite) SetupTest() {
	s.tempDir = s.T().TempDir()
	os.Unsetenv("NETWORKAI_LISTEN")
	os.Unsetenv("NETWORKAI_LLM_API_KEY")
	os.Unsetenv("NETWORKAI_SCORE_FLOOR")
	os.Unsetenv("NETWORKAI_FAIL_OPEN")
	os.Unsetenv("GEMINI_API_KEY")
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefault() {
	cfg := Default()

	s.Equal(DefaultListen, cfg.Listen)
	s.Equal(DefaultLLMModel, cfg.LLM.Model)
	s.Equal(0.2, cfg.LLM.Temperature)
	s.Equal(DefaultScoreFloor, cfg.Scoring.Floor)
	s.Equal(DefaultMaxResults, cfg.Scoring.MaxResults)
	s.Equal(DefaultMaxKeywords, cfg.MaxKeywords)
	s.True(cfg.Validation.FailOpen)
	s.True(cfg.Catalog.Watch)
}

func (s *ConfigSuite) TestLoadMissingFile() {
	cfg, err := Load(filepath.Join(s.tempDir, "does-not-exist.yaml"))
	s.Require().NoError(err)
	s.Equal(Default(), cfg)
}

func (s *ConfigSuite) TestLoadFile() {
	path := filepath.Join(s.tempDir, "config.yaml")
	content := `
listen: ":9000"
llm:
  model: gemini-2.5-pro
  temperature: 0.5
scoring:
  floor: 0.5
  max_results: 5
`
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(":9000", cfg.Listen)
	s.Equal("gemini-2.5-pro", cfg.LLM.Model)
	s.Equal(0.5, cfg.LLM.Temperature)
	s.Equal(0.5, cfg.Scoring.Floor)
	s.Equal(5, cfg.Scoring.MaxResults)
}

func (s *ConfigSuite) TestEnvOverrides() {
	os.Setenv("NETWORKAI_LISTEN", ":7777")
	os.Setenv("NETWORKAI_LLM_API_KEY", "env-key")
	os.Setenv("NETWORKAI_SCORE_FLOOR", "0")
	defer func() {
		os.Unsetenv("NETWORKAI_LISTEN")
		os.Unsetenv("NETWORKAI_LLM_API_KEY")
		os.Unsetenv("NETWORKAI_SCORE_FLOOR")
	}()

	cfg, err := Load(filepath.Join(s.tempDir, "missing.yaml"))
	s.Require().NoError(err)
	s.Equal(":7777", cfg.Listen)
	s.Equal("env-key", cfg.LLM.APIKey)
	s.Zero(cfg.Scoring.Floor)
}

func (s *ConfigSuite) TestInvalidFloorKeepsConfigured() {
	os.Setenv("NETWORKAI_SCORE_FLOOR", "not-a-number")
	defer os.Unsetenv("NETWORKAI_SCORE_FLOOR")

	cfg, err := Load(filepath.Join(s.tempDir, "missing.yaml"))
	s.Require().NoError(err)
	s.Equal(DefaultScoreFloor, cfg.Scoring.Floor)
}

func (s *ConfigSuite) TestGeminiKeyFallback() {
	os.Setenv("GEMINI_API_KEY", "legacy-key")
	defer os.Unsetenv("GEMINI_API_KEY")

	cfg, err := Load(filepath.Join(s.tempDir, "missing.yaml"))
	s.Require().NoError(err)
	s.Equal("legacy-key", cfg.LLM.APIKey)
}
