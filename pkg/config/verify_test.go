package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{name: "missing server listen", modify: func(c *Config) { c.Server.Listen = "" }, wantErr: true, errMsg: "server.listen is required"},
		{name: "missing server timeout", modify: func(c *Config) { c.Server.Timeout = 0 }, wantErr: true, errMsg: "server.timeout is required"},
		{name: "missing llm endpoint", modify: func(c *Config) { c.LLM.Endpoint = "" }, wantErr: true, errMsg: "llm.endpoint is required"},
		{name: "missing llm model", modify: func(c *Config) { c.LLM.Model = "" }, wantErr: true, errMsg: "llm.model is required"},
		{name: "remote browser without profile", modify: func(c *Config) { c.Browser.ProfileDir = ""; c.Browser.RemoteURL = "ws://127.0.0.1:9222/devtools/browser/x" }},
		{name: "exec browser without profile", modify: func(c *Config) { c.Browser.ProfileDir = "" }, wantErr: true, errMsg: "browser.profile_dir"},
		{name: "extraction without max chars", modify: func(c *Config) { c.Extraction.Enabled = true; c.Extraction.MaxChars = 0 }, wantErr: true, errMsg: "extraction.max_chars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)
	require.NotNil(t, schema.Definitions)
	cfgDef, ok := schema.Definitions["Config"]
	require.True(t, ok)
	for _, section := range []string{"server", "database", "browser", "llm", "automation", "extraction"} {
		_, found := cfgDef.Properties.Get(section)
		assert.True(t, found, "section %s", section)
	}
}

func TestSchemaProperties(t *testing.T) {
	assert.Empty(t, schemaProperties(map[string]any{}))
	props := schemaProperties(map[string]any{"$defs": map[string]any{"Config": map[string]any{"properties": map[string]any{"server": 1}}}})
	assert.Len(t, props, 1)
}
