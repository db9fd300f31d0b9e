package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Translator rewrites Chinese commands into their English equivalents before phrase extraction.
// It works on two levels: whole command templates ("请把X拿给我" -> "please grab X to me") and a
// noun dictionary for the object inside the template.
type Translator struct {
	nouns map[string]string
}

type commandTemplate struct {
	pattern  *regexp.Regexp
	template string
}

// Command templates are tried in order, first match wins. Each has exactly one capture group:
// the object phrase.
var commandTemplates = []commandTemplate{
	{regexp.MustCompile(`请.*?[把将]?(.+?)拿给我`), "please grab the %s to me"},
	{regexp.MustCompile(`[把将](.+?)拿给我`), "grab the %s to me"},
	{regexp.MustCompile(`请?帮我找(?:一下|到)?(.+)`), "please find the %s"},
	{regexp.MustCompile(`识别(?:一下)?(.+)`), "identify the %s"},
	{regexp.MustCompile(`找(?:一下|到)?(.+)`), "find the %s"},
	{regexp.MustCompile(`(.+?)在哪里?`), "locate the %s"},
}

var builtinNouns = map[string]string{
	"红色汽车": "red car",
	"蓝色卡车": "blue truck",
	"可乐":   "coke",
	"可口可乐": "coke",
	"手机":   "phone",
	"苹果":   "apple",
	"杯子":   "cup",
	"人":    "person",
	"自行车":  "bicycle",
	"摩托车":  "motorcycle",
	"飞机":   "airplane",
	"公交车":  "bus",
	"火车":   "train",
	"船":    "boat",
	"汽车":   "car",
	"卡车":   "truck",
	"红色":   "red",
	"蓝色":   "blue",
	"绿色":   "green",
	"黄色":   "yellow",
	"黑色":   "black",
	"白色":   "white",
}

func NewTranslator() *Translator {
	nouns := make(map[string]string, len(builtinNouns))
	for chinese, english := range builtinNouns {
		nouns[chinese] = english
	}
	return &Translator{nouns: nouns}
}

// AddNouns registers additional noun translations (for example, loaded from a user-supplied file).
func (t *Translator) AddNouns(nouns map[string]string) {
	for chinese, english := range nouns {
		t.nouns[chinese] = english
	}
}

// Translate rewrites a Chinese command into English. If no command template matches and the noun
// dictionary can't fully translate the text either, falls back to "find <original text>" so that
// downstream extraction always has something to work with.
func (t *Translator) Translate(text string) string {
	text = strings.TrimSpace(text)
	for _, commandTemplate := range commandTemplates {
		match := commandTemplate.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		return fmt.Sprintf(commandTemplate.template, t.translateNoun(match[1]))
	}
	translated := t.translateNoun(text)
	if !ContainsCJK(translated) {
		return translated
	}
	return "find " + text
}

// translateNoun replaces every known dictionary entry inside the phrase. Longer entries are
// replaced first so that "红色汽车" wins over "红色" + "汽车".
func (t *Translator) translateNoun(phrase string) string {
	keys := make([]string, 0, len(t.nouns))
	for chinese := range t.nouns {
		keys = append(keys, chinese)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if len(keys[j]) > len(keys[i]) {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	for _, chinese := range keys {
		phrase = strings.ReplaceAll(phrase, chinese, " "+t.nouns[chinese]+" ")
	}
	return strings.Join(strings.Fields(phrase), " ")
}

// ContainsCJK reports whether the text contains characters from the CJK Unified Ideographs range.
func ContainsCJK(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
