package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const namesDmp = `1	|	root	|		|	scientific name	|
2	|	Bacteria	|	Bacteria <bacteria>	|	scientific name	|
131567	|	cellular organisms	|		|	scientific name	|
1224	|	Proteobacteria	|		|	scientific name	|
1236	|	Gammaproteobacteria	|		|	scientific name	|
135623	|	Vibrionales	|		|	scientific name	|
641	|	Vibrionaceae	|		|	scientific name	|
662	|	Vibrio	|		|	scientific name	|
666	|	Vibrio cholerae	|		|	scientific name	|
666	|	Bacillus cholerae	|		|	synonym	|
`

const nodesDmp = `1	|	1	|	no rank	|		|	8	|
131567	|	1	|	cellular root	|		|	8	|
2	|	131567	|	domain	|		|	0	|
1224	|	2	|	phylum	|		|	0	|
1236	|	1224	|	class	|		|	0	|
135623	|	1236	|	order	|		|	0	|
641	|	135623	|	family	|		|	0	|
662	|	641	|	genus	|		|	0	|
666	|	662	|	species	|		|	0	|
`

const vibrioTag = "Bacteria, Proteobacteria, Gammaproteobacteria, " +
	"Vibrionales, Vibrionaceae, Vibrio"

// setupHome points HOME to a temporary directory with NCBI dump files,
// so commands run offline.
func setupHome(t *testing.T, store string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	dump := filepath.Join(home, "taxdump")
	require.NoError(t, os.MkdirAll(dump, 0755))
	writeFile(t, dump, "names.dmp", namesDmp)
	writeFile(t, dump, "nodes.dmp", nodesDmp)

	t.Setenv("MPDB_TAXONOMY_DUMP_DIR", dump)
	t.Setenv("MPDB_TAXONOMY_STORE", store)
	t.Setenv("MPDB_JOBS_NUMBER", "2")
	// dump URL must never be used
	t.Setenv("MPDB_TAXONOMY_DUMP_URL", "http://127.0.0.1:1/taxdump.tar.gz")
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := getRootCmd()
	buf := new(bytes.Buffer)
	c.SetOut(buf)
	c.SetErr(buf)
	c.SetArgs(args)
	err := c.Execute()
	return buf.String(), err
}

func TestRootVersion(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		c := getRootCmd()
		c.Version = "version: v1.2.3\nbuild:   abc123"

		buf := new(bytes.Buffer)
		c.SetOut(buf)
		c.SetArgs([]string{flag})

		require.NoError(t, c.Execute(), flag)
		out := buf.String()
		assert.Contains(t, out, "v1.2.3", flag)
		assert.Contains(t, out, "abc123", flag)
		assert.NotContains(t, out, "mpdb version", flag)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := runCmd(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "mpdb")
	assert.Contains(t, out, "MPDB_")
	for _, v := range []string{
		"otu", "fetch", "annotate", "lineage", "taxdump", "config",
	} {
		assert.Contains(t, out, v)
	}
}

func TestRootSettings(t *testing.T) {
	c := getRootCmd()
	assert.NotNil(t, c.PersistentPreRunE)
	assert.NotNil(t, c.RunE)
	assert.True(t, c.SilenceErrors)
	assert.True(t, c.SilenceUsage)
	assert.NotSame(t, c, getRootCmd())

	for _, v := range []string{
		"jobs-number", "store", "log-level", "metrics-file",
	} {
		assert.NotNil(t, c.PersistentFlags().Lookup(v), v)
	}
}

func TestRootInvalidCommand(t *testing.T) {
	out, err := runCmd(t, "nonexistent-command")
	require.Error(t, err)
	assert.True(t,
		strings.Contains(out, "unknown") ||
			strings.Contains(err.Error(), "unknown"))
}

func TestBootstrapCreatesFiles(t *testing.T) {
	home := setupHome(t, "memory")

	_, err := runCmd(t, "config")
	require.NoError(t, err)

	for _, v := range []string{
		filepath.Join(home, ".config", "mpdb", "config.yaml"),
		filepath.Join(home, ".local", "share", "mpdb", "logs", "mpdb.log"),
	} {
		_, err = os.Stat(v)
		assert.NoError(t, err, v)
	}

	log, err := os.ReadFile(
		filepath.Join(home, ".local", "share", "mpdb", "logs", "mpdb.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), runID)
}
