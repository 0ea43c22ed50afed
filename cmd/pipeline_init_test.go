//go:build !integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineEnv_Close_Nil(t *testing.T) {
	pe := &pipelineEnv{}
	assert.NotPanics(t, func() {
		pe.Close()
	})
}

func TestInitStore_Disabled(t *testing.T) {
	cfg = testConfig(t)
	cfg.Store.Driver = "none"

	st, err := initStore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestInitStore_UnknownDriver(t *testing.T) {
	cfg = testConfig(t)
	cfg.Store.Driver = "mysql"

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestInitPipeline_Offline(t *testing.T) {
	cfg = testConfig(t)

	env, err := initPipeline(context.Background())
	require.NoError(t, err)
	defer env.Close()

	assert.NotNil(t, env.Store)
	assert.NotNil(t, env.Pipeline)
	assert.Greater(t, env.Catalog.Entities.Len(), 0)
	assert.Empty(t, env.Warnings)
}

func TestInitPipeline_MissingOverlayIsWarning(t *testing.T) {
	cfg = testConfig(t)
	cfg.Catalog.EntitiesPath = filepath.Join(t.TempDir(), "missing.yaml")

	env, err := initPipeline(context.Background())
	require.NoError(t, err)
	defer env.Close()

	require.Len(t, env.Warnings, 1)
	assert.Contains(t, env.Warnings[0], "entity catalog not found")
}

func TestInitPipeline_MalformedOverlayFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entities.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities: [::"), 0o644))

	cfg = testConfig(t)
	cfg.Catalog.EntitiesPath = path

	env, err := initPipeline(context.Background())
	assert.Nil(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load catalog")
}

func TestInitPipeline_UnknownProvider(t *testing.T) {
	cfg = testConfig(t)
	cfg.LLM.Provider = "gpt"

	env, err := initPipeline(context.Background())
	assert.Nil(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
