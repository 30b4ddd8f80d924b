package format

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/relver/internal/errors"
)

func TestDetect(t *testing.T) {
	tests := map[string]struct {
		path     string
		explicit string
		expected Format
	}{
		"package.json by extension": {path: "pkg/package.json", expected: JSONManifest},
		"cargo toml by extension":   {path: "Cargo.toml", expected: TOMLManifest},
		"cargo lock by name":        {path: "Cargo.lock", expected: TOMLLock},
		"generic lock extension":    {path: "deps.lock", expected: TOMLLock},
		"csproj is markup":          {path: "App/App.csproj", expected: Markup},
		"props is markup":           {path: "Directory.Build.props", expected: Markup},
		"xml is markup":             {path: "pom.xml", expected: Markup},
		"explicit tag wins":         {path: "weird.cfg", explicit: "toml", expected: TOMLManifest},
		"explicit generic":          {path: "version.go", explicit: "generic", expected: Generic},
		"explicit xml alias":        {path: "file.data", explicit: "xml", expected: Markup},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := Detect(tc.path, tc.explicit)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f)
		})
	}
}

func TestDetect_Unknown(t *testing.T) {
	_, err := Detect("README.md", "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.UnknownFormat))

	_, err = Detect("pkg/package.json", "ini")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.UnknownFormat))
}

// adapterFixtures pairs each format with content holding version 1.2.3,
// used by the cross-adapter contract tests below.
func adapterFixtures() map[string]struct {
	format  Format
	target  Target
	content string
} {
	return map[string]struct {
		format  Format
		target  Target
		content string
	}{
		"json top-level": {
			format:  JSONManifest,
			content: "{\n  \"name\": \"widget\",\n  \"version\": \"1.2.3\",\n  \"private\": true\n}\n",
		},
		"json dependency": {
			format:  JSONManifest,
			target:  Target{Dependency: "gadget"},
			content: "{\n  \"name\": \"widget\",\n  \"dependencies\": {\n    \"gadget\": \"1.2.3\"\n  }\n}\n",
		},
		"toml package": {
			format:  TOMLManifest,
			content: "[package]\nname = \"widget\"\nversion = \"1.2.3\"\nedition = \"2021\"\n",
		},
		"toml dependency": {
			format:  TOMLManifest,
			target:  Target{Dependency: "gadget"},
			content: "[package]\nname = \"widget\"\nversion = \"0.1.0\"\n\n[dependencies]\ngadget = \"1.2.3\"\n",
		},
		"lock table": {
			format:  TOMLLock,
			target:  Target{Dependency: "gadget"},
			content: "[[package]]\nname = \"gadget\"\nversion = \"1.2.3\"\n\n[[package]]\nname = \"widget\"\nversion = \"0.1.0\"\n",
		},
		"markup element": {
			format:  Markup,
			content: "<Project>\n  <PropertyGroup>\n    <Version>1.2.3</Version>\n  </PropertyGroup>\n</Project>\n",
		},
		"generic single pattern": {
			format:  Generic,
			target:  Target{Patterns: []string{`const appVersion = "([^"]+)"`}},
			content: "package main\n\nconst appVersion = \"1.2.3\"\n",
		},
	}
}

// TestPatch_Idempotent verifies re-patching content already at the target
// version yields byte-identical output for every adapter.
func TestPatch_Idempotent(t *testing.T) {
	for name, fx := range adapterFixtures() {
		t.Run(name, func(t *testing.T) {
			once, err := Patch(fx.format, fx.content, fx.target, "2.0.0")
			require.NoError(t, err)
			twice, err := Patch(fx.format, once, fx.target, "2.0.0")
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

// TestPatch_Composable verifies patching v1 then v2 equals patching v2
// directly.
func TestPatch_Composable(t *testing.T) {
	for name, fx := range adapterFixtures() {
		t.Run(name, func(t *testing.T) {
			via, err := Patch(fx.format, fx.content, fx.target, "1.9.0")
			require.NoError(t, err)
			via, err = Patch(fx.format, via, fx.target, "2.0.0")
			require.NoError(t, err)

			direct, err := Patch(fx.format, fx.content, fx.target, "2.0.0")
			require.NoError(t, err)
			assert.Equal(t, direct, via)
		})
	}
}

// TestPatch_RoundTrip verifies locate(patch(content, v)) returns v.
func TestPatch_RoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	fixtures := adapterFixtures()

	properties.Property("located version equals patched version", prop.ForAll(
		func(major, minor, patch int) bool {
			v := versionString(major, minor, patch)
			for _, fx := range fixtures {
				patched, err := Patch(fx.format, fx.content, fx.target, v)
				if err != nil {
					return false
				}
				spans, err := Locate(fx.format, patched, fx.target)
				if err != nil {
					return false
				}
				for _, s := range spans {
					if s.In(patched) != v {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 99),
		gen.IntRange(0, 99),
		gen.IntRange(0, 99),
	))

	properties.TestingRun(t)
}

func versionString(major, minor, patch int) string {
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}
