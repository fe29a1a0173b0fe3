package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/f3rmion/dsearch/internal/config"
	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestPrintResults(t *testing.T) {
	withoutColor(t)

	results := []dict.Result{
		{Entry: dict.Entry{DictID: "zh-en", Headword: "中国", Reading: "zhōng guó", Definition: "China; Middle Kingdom", Tags: "noun,place"}},
		{Entry: dict.Entry{DictID: "en-en", Headword: "run", Definition: "move swiftly"}},
	}

	tests := []struct {
		name     string
		showDict bool
		want     string
	}{
		{
			name:     "single dictionary",
			showDict: false,
			want: "中国 zhōng guó\n" +
				"  1. China\n" +
				"  2. Middle Kingdom\n" +
				"  noun, place\n" +
				"\n" +
				"run\n" +
				"  1. move swiftly\n",
		},
		{
			name:     "all dictionaries",
			showDict: true,
			want: "中国 zhōng guó [zh-en]\n" +
				"  1. China\n" +
				"  2. Middle Kingdom\n" +
				"  noun, place\n" +
				"\n" +
				"run [en-en]\n" +
				"  1. move swiftly\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printResults(&buf, "q", results, tt.showDict)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintResults_Empty(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	printResults(&buf, "xyz", nil, false)
	assert.Equal(t, "No results for \"xyz\"\n", buf.String())
}

func TestPrintDictionaries(t *testing.T) {
	withoutColor(t)

	dicts := []dict.Dictionary{
		{ID: "zh-en", Name: "Chinese", Language: "zh", Gloss: "en"},
		{ID: "en-en", Name: "English", Language: "en", Gloss: "en"},
	}

	var buf bytes.Buffer
	printDictionaries(&buf, dicts, map[string]int{"zh-en": 12}, "en-en")
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "  zh-en")
	assert.Contains(t, out, "* en-en")
	assert.Contains(t, out, "zh→en")
	assert.Regexp(t, `zh-en.*\s12\n`, out)
	assert.Regexp(t, `en-en.*\s0\n`, out)

	buf.Reset()
	printDictionaries(&buf, nil, nil, dict.AllTarget)
	assert.Contains(t, buf.String(), "dsearch init")
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()

	dicts, err := loadRegistry(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDictionaries(), dicts)

	custom := []dict.Dictionary{{ID: "de-en", Name: "German", Language: "de", Gloss: "en"}}
	require.NoError(t, config.SaveDictionaries(filepath.Join(dir, config.DictionariesFile), custom))

	dicts, err = loadRegistry(dir)
	require.NoError(t, err)
	assert.Equal(t, custom, dicts)

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DictionariesFile), []byte("dictionaries: [:"), 0644))
	_, err = loadRegistry(dir)
	assert.Error(t, err)
}
