package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdgo/fsd/export"
)

// workspace changes into a fresh directory holding files.
func workspace(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
	t.Chdir(dir)
}

func execute(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

const hiddenService = `service Api
{
	method do
	{
		dto: Hidden;
	}:
	{
	}

	[tag(name: hidden)]
	data Hidden {}
}
`

func TestCheck(t *testing.T) {
	workspace(t, map[string]string{
		"ok.fsd":      "service A { data B {} }\n",
		"bad.fsd":     "service A { data }\n",
		"dir/c.fsd":   "service C;\n",
		"dir/skip.go": "package skip\n",
	})

	code, stdout, stderr := execute("check", "ok.fsd", "dir")
	assert.Equal(t, exitOK, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "checked 2 files: ok")

	code, stdout, stderr = execute("check", "ok.fsd", "bad.fsd")
	assert.Equal(t, exitInvalid, code)
	want := "bad.fsd(1,18): error: expected data name\n" +
		"  service A { data }\n" +
		"  " + strings.Repeat(" ", 17) + "^\n"
	assert.Equal(t, want, stdout)
	assert.Contains(t, stderr, "checked 2 files: 1 with errors")

	code, _, stderr = execute("check", "missing.fsd")
	assert.Equal(t, exitError, code)
	assert.True(t, strings.HasPrefix(stderr, "error: "))
}

func TestCheckExcludeTag(t *testing.T) {
	workspace(t, map[string]string{"api.fsd": hiddenService})

	code, _, _ := execute("check", "api.fsd")
	assert.Equal(t, exitOK, code)

	code, stdout, _ := execute("check", "--exclude-tag", "hidden", "api.fsd")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stdout, "api.fsd(5,8): error: Unknown field type 'Hidden'. ('hidden' tags are excluded.)")
}

func TestCheckMaxErrors(t *testing.T) {
	workspace(t, map[string]string{
		"api.fsd":   "service A { data B { x: X; y: Y; z: Z; } }\n",
		".fsd.toml": "max_errors = 1\n",
	})

	code, stdout, _ := execute("check", "api.fsd")
	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, 1, strings.Count(stdout, "error:"))
	assert.Contains(t, stdout, "... and 2 more\n")
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		want   string
	}{
		{"bad color", `color = "sometimes"`, `"oneof" check`},
		{"negative max", "max_errors = -1", `"min" check`},
		{"wide indent", "[format]\nindent_width = 12", `"max" check`},
		{"empty tag", `exclude_tags = [""]`, `"required" check`},
		{"unknown key", "colour = \"on\"", "unknown keys: colour"},
		{"syntax", "color = ", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workspace(t, map[string]string{
				"api.fsd":   "service A;\n",
				"fsd.toml":  tt.config,
				".fsd.toml": "",
			})
			code, _, stderr := execute("--config", "fsd.toml", "check", "api.fsd")
			assert.Equal(t, exitError, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestConfigDiscovery(t *testing.T) {
	workspace(t, map[string]string{
		".fsd.toml":   "exclude_tags = [\"hidden\"]\n",
		"sub/api.fsd": hiddenService,
	})
	t.Chdir("sub")

	code, stdout, _ := execute("check", "api.fsd")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stdout, "('hidden' tags are excluded.)")
}

func TestFormat(t *testing.T) {
	canonical := "service A\n{\n  data B\n  {\n    x: int32;\n  }\n}\n"
	workspace(t, map[string]string{
		"a.fsd": "service A { data B { x: int32; } }",
		"b.fsd": canonical,
	})

	code, stdout, _ := execute("format", "a.fsd")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, canonical, stdout)

	code, stdout, _ = execute("format", "--check", "a.fsd", "b.fsd")
	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, "a.fsd\n", stdout)

	code, _, _ = execute("format", "-w", "a.fsd")
	assert.Equal(t, exitOK, code)
	data, err := os.ReadFile("a.fsd")
	require.NoError(t, err)
	assert.Equal(t, canonical, string(data))

	code, _, stderr := execute("format", "-w", "--check", "a.fsd")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "--write cannot be used with --check")
}

func TestFormatConfig(t *testing.T) {
	workspace(t, map[string]string{
		"a.fsd":     "service A { data B {} }",
		".fsd.toml": "[format]\nuse_tabs = true\n",
	})

	code, stdout, _ := execute("format", "a.fsd")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "service A\n{\n\tdata B\n\t{\n\t}\n}\n", stdout)
}

func TestDump(t *testing.T) {
	workspace(t, map[string]string{"api.fsd": hiddenService})

	code, stdout, _ := execute("dump", "api.fsd")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, `"name": "Api"`)

	code, stdout, _ = execute("dump", "--format", "yaml", "api.fsd")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "name: Api\n")

	code, _, _ = execute("dump", "-f", "msgpack", "-o", "api.msgpack", "api.fsd")
	assert.Equal(t, exitOK, code)
	f, err := os.Open("api.msgpack")
	require.NoError(t, err)
	defer f.Close()
	doc, err := export.Decode(f, export.MsgPack)
	require.NoError(t, err)
	assert.Equal(t, "Api", doc.Name)
	assert.Len(t, doc.Members, 2)

	code, _, stderr := execute("dump", "--exclude-tag", "hidden", "api.fsd")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stderr, "Unknown field type 'Hidden'.")

	code, _, stderr = execute("dump", "--format", "xml", "api.fsd")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, `unknown export format "xml"`)
}

func TestVerboseLogging(t *testing.T) {
	workspace(t, map[string]string{"api.fsd": "service A;\n"})

	code, _, stderr := execute("-v", "check", "api.fsd")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "parsed service definition")
	assert.NotContains(t, stderr, "level=DEBUG-4")

	_, _, stderr = execute("-vv", "check", "api.fsd")
	assert.Contains(t, stderr, "level=DEBUG-4")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := execute("version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "fsd "))
}

func TestColor(t *testing.T) {
	workspace(t, map[string]string{"bad.fsd": "service A { data }\n"})

	_, stdout, _ := execute("--color", "on", "check", "bad.fsd")
	assert.Contains(t, stdout, "\x1b[")

	_, stdout, _ = execute("--color", "off", "check", "bad.fsd")
	assert.NotContains(t, stdout, "\x1b[")

	assert.False(t, useColor("auto", &bytes.Buffer{}))
}

func TestCaretPadding(t *testing.T) {
	tests := []struct {
		line   string
		column int
		want   string
	}{
		{"abc", 1, ""},
		{"abc", 3, "  "},
		{"\tx", 2, "\t"},
		{"世界x", 3, "    "},
		{"ab", 9, "  "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, caretPadding(tt.line, tt.column), "%q col %d", tt.line, tt.column)
	}
}
