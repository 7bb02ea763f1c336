package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFindRemapTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, ok, err := FindRemapToml(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, ConfigName), path)

	dir, ok, err := FindProjectRoot(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, root, dir)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.Engine.Lookahead)
	assert.Equal(t, 64, cfg.Engine.MaxBacktrack)
	assert.Equal(t, 10000, cfg.Engine.LiteralCacheSize)
	assert.Equal(t, 5000, cfg.Engine.InterpCacheSize)
	assert.Equal(t, "30m0s", cfg.Engine.TTL().String())
	assert.Equal(t, "civet", cfg.Dialect.Lang)
	assert.Equal(t, "ts", cfg.Dialect.TargetLang)
	assert.NotEmpty(t, cfg.Cache.Dir)
}

func TestLoadConfigKeepsExplicitZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigName)
	writeFile(t, path, `
[engine]
lookahead = 0
cache_ttl = "5s"

[dialect]
target_lang = "tsx"

[dialect.options]
comptime = true
parseOptions = { coffeeCompat = false }

[[alias]]
generated = ["!=="]
dialect = ["isnt"]

[cache]
dir = "cache"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Engine.Lookahead, "explicit zero kept")
	assert.Equal(t, 64, cfg.Engine.MaxBacktrack)
	assert.Equal(t, "5s", cfg.Engine.TTL().String())
	assert.Equal(t, "civet", cfg.Dialect.Lang)
	assert.Equal(t, "tsx", cfg.Dialect.TargetLang)
	assert.Equal(t, true, cfg.Dialect.Options["comptime"])
	assert.Equal(t, filepath.Join(filepath.Dir(path), "cache"), cfg.Cache.Dir)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.True(t, reg.IsSpelling("!==", "isnt"))
}

func TestLoadConfigRejects(t *testing.T) {
	cases := map[string]string{
		"negative lookahead": "[engine]\nlookahead = -1\n",
		"bad ttl":            "[engine]\ncache_ttl = \"soon\"\n",
		"empty alias":        "[[alias]]\ngenerated = []\ndialect = [\"x\"]\n",
		"unknown key":        "[engine]\nlookahed = 2\n",
		"syntax":             "[engine\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigName)
			writeFile(t, path, body)
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestFingerprintTracksEngineSettings(t *testing.T) {
	a, b := Default(), Default()
	da, err := a.Fingerprint()
	require.NoError(t, err)
	db, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, da, db)

	b.Cache.Dir = "/elsewhere"
	db, err = b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, da, db, "cache dir does not change output")

	b.Engine.MaxBacktrack = 8
	db, err = b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}

func TestHasherSeparatesFields(t *testing.T) {
	x := NewHasher().String("ab").String("c").Sum()
	y := NewHasher().String("a").String("bc").Sum()
	assert.NotEqual(t, x, y)
	assert.Len(t, x.Short(), 12)
	assert.Equal(t, Combine(x, y), Combine(x, y))
	assert.NotEqual(t, Combine(x, y), Combine(y, x))
}

func TestLoadJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pages", "index"+JobSuffix)
	writeFile(t, path, `
host = "index.svelte"
base_map = "out/index.tsx.map"
output = "/abs/index.map"

[[block]]
code = "gen/block0.ts"
map = "gen/block0.map.json"

[[block]]
[block.error]
offset = 7
message = "unexpected"
`)
	job, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "index", job.Name())
	assert.Equal(t, filepath.Join(dir, "pages", "index.svelte"), job.Host)
	assert.Equal(t, filepath.Join(dir, "pages", "out", "index.tsx.map"), job.BaseMap)
	assert.Equal(t, "/abs/index.map", job.Output)
	assert.Equal(t, "index.svelte", job.File)
	require.Len(t, job.Blocks, 2)
	assert.Equal(t, filepath.Join(dir, "pages", "gen", "block0.ts"), job.Blocks[0].Code)
	require.NotNil(t, job.Blocks[1].Error)
	assert.Equal(t, 7, job.Blocks[1].Error.Offset)
}

func TestLoadJobErrors(t *testing.T) {
	dir := t.TempDir()
	noHost := filepath.Join(dir, "a"+JobSuffix)
	writeFile(t, noHost, "output = \"x\"\n")
	_, err := LoadJob(noHost)
	assert.ErrorIs(t, err, ErrJobHostMissing)

	empty := filepath.Join(dir, "b"+JobSuffix)
	writeFile(t, empty, "host = \"x.svelte\"\n[[block]]\nmap = \"m.json\"\n")
	_, err = LoadJob(empty)
	assert.ErrorIs(t, err, ErrJobBlockEmpty)
}

func TestFindJobs(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b/two" + JobSuffix, "a/one" + JobSuffix, "node_modules/x" + JobSuffix, ".git/y" + JobSuffix, "a/notes.toml"} {
		writeFile(t, filepath.Join(root, p), "host = \"h\"\n")
	}
	jobs, err := FindJobs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "one"+JobSuffix),
		filepath.Join(root, "b", "two"+JobSuffix),
	}, jobs)
}
