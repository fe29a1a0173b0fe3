// Package pinyin derives pinyin readings for Chinese headwords and queries.
package pinyin

import (
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// toneMarks maps tone-marked vowels to their base vowel.
var toneMarks = map[rune]rune{
	'ā': 'a', 'á': 'a', 'ǎ': 'a', 'à': 'a',
	'ē': 'e', 'é': 'e', 'ě': 'e', 'è': 'e',
	'ī': 'i', 'í': 'i', 'ǐ': 'i', 'ì': 'i',
	'ō': 'o', 'ó': 'o', 'ǒ': 'o', 'ò': 'o',
	'ū': 'u', 'ú': 'u', 'ǔ': 'u', 'ù': 'u',
	'ǖ': 'ü', 'ǘ': 'ü', 'ǚ': 'ü', 'ǜ': 'ü',
	'Ā': 'a', 'Á': 'a', 'Ǎ': 'a', 'À': 'a',
	'Ē': 'e', 'É': 'e', 'Ě': 'e', 'È': 'e',
}

// Romanizer converts Han text to pinyin.
type Romanizer struct {
	tone  gopinyin.Args
	plain gopinyin.Args
}

// NewRomanizer creates a romanizer.
func NewRomanizer() *Romanizer {
	tone := gopinyin.NewArgs()
	tone.Style = gopinyin.Tone // zhōng

	plain := gopinyin.NewArgs()
	plain.Style = gopinyin.Normal // zhong

	return &Romanizer{tone: tone, plain: plain}
}

// Reading returns tone-marked syllables separated by spaces. Non-Han runs are
// kept as written.
func (r *Romanizer) Reading(text string) string {
	var parts []string
	for _, run := range splitRuns(text) {
		if run.han {
			parts = append(parts, gopinyin.LazyPinyin(run.text, r.tone)...)
			continue
		}
		if s := strings.TrimSpace(run.text); s != "" {
			parts = append(parts, strings.Fields(s)...)
		}
	}
	return strings.Join(parts, " ")
}

// Plain returns lowercase toneless pinyin with spaces removed, so that
// "中国", "zhōng guó" and "Zhongguo" all become "zhongguo". ü is written v.
func (r *Romanizer) Plain(text string) string {
	var b strings.Builder
	for _, run := range splitRuns(text) {
		if run.han {
			for _, syl := range gopinyin.LazyPinyin(run.text, r.plain) {
				b.WriteString(syl)
			}
			continue
		}
		b.WriteString(StripTones(run.text))
	}
	return strings.ReplaceAll(b.String(), "ü", "v")
}

// StripTones lowercases s and removes tone marks, spaces and tone digits.
// A digit 1-5 counts as a tone digit only when it ends a syllable: it follows
// a vowel, n, g or r and is not part of a longer number. "ni3hao3" becomes
// "nihao" while "mp3" and "a100" keep their digits.
func StripTones(s string) string {
	runes := []rune(strings.ToLower(s))

	var b strings.Builder
	for i, r := range runes {
		if base, ok := toneMarks[r]; ok {
			b.WriteRune(base)
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}
		if isToneDigit(runes, i) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isToneDigit(runes []rune, i int) bool {
	r := runes[i]
	if r < '1' || r > '5' || i == 0 {
		return false
	}
	if i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
		return false
	}
	prev := runes[i-1]
	if base, ok := toneMarks[prev]; ok {
		prev = base
	}
	return strings.ContainsRune("aeiouüvngr", prev)
}

// HasHan reports whether s contains any Han character.
func HasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

type run struct {
	text string
	han  bool
}

// splitRuns splits text into alternating Han and non-Han runs.
func splitRuns(text string) []run {
	var runs []run
	var cur strings.Builder
	curHan := false

	for i, r := range text {
		han := unicode.Is(unicode.Han, r)
		if i > 0 && han != curHan && cur.Len() > 0 {
			runs = append(runs, run{text: cur.String(), han: curHan})
			cur.Reset()
		}
		curHan = han
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		runs = append(runs, run{text: cur.String(), han: curHan})
	}
	return runs
}
