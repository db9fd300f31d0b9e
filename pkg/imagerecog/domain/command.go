package domain

import (
	"errors"
	"regexp"
	"strings"

	"yanbo.cc/imagerecog/pkg/common"
)

var ErrNoObjectPhrase = errors.New("could not extract an object phrase from the command")

// Stop words removed by the last-resort fallback. Everything a command can say around the object.
var stopWords = []string{"please", "grab", "get", "find", "identify", "locate", "for", "me", "to", "the", "a", "an"}

// Command patterns are tried in order, most specific first, and the first match wins. Each has
// exactly one capture group: the object phrase.
var commandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`show me (?:a |the )?(.+?)(?: please)?$`),
	regexp.MustCompile(`grab (?:the|a) (.+?) (?:to|for) me`),
	regexp.MustCompile(`(?:identify|find|locate|get|bring) (?:the |me )?(.+?)(?: for me)?$`),
}

// CommandInterpreter extracts the phrase naming the object of interest from a raw natural-language
// command such as "please grab the apple to me". Commands are highly variable, so extraction is a
// prioritized cascade of increasingly permissive heuristics; the stop-word fallback guarantees it
// succeeds for any non-empty input.
type CommandInterpreter struct {
	translator *Translator
	logger     common.Logger
}

func NewCommandInterpreter(translator *Translator, config *common.Config, logger common.Logger) *CommandInterpreter {
	translationTablePath := config.GetString(ConfigKeyTranslationTablePath)
	if translationTablePath != "" {
		nouns, err := loadNounTable(translationTablePath)
		if err != nil {
			logger.Log("failed to load the translation table: " + err.Error() + "\n")
		} else {
			translator.AddNouns(nouns)
		}
	}
	return &CommandInterpreter{
		translator: translator,
		logger:     logger,
	}
}

// ObjectPhrase returns the object phrase mentioned in the command. Fails with ErrNoObjectPhrase
// only if the input, after all fallback heuristics, yields an empty phrase.
func (c *CommandInterpreter) ObjectPhrase(commandText string) (string, error) {
	commandText = strings.TrimSpace(commandText)
	if ContainsCJK(commandText) {
		commandText = c.translator.Translate(commandText)
	}
	commandText = strings.ToLower(strings.TrimSpace(commandText))
	if commandText == "" {
		return "", ErrNoObjectPhrase
	}
	for _, pattern := range commandPatterns {
		match := pattern.FindStringSubmatch(commandText)
		if match != nil && strings.TrimSpace(match[1]) != "" {
			return cleanPhrase(match[1]), nil
		}
	}
	// "X please": strip the word "please" and take the first remaining token.
	if strings.Contains(commandText, "please") {
		remainder := strings.Fields(strings.ReplaceAll(commandText, "please", " "))
		if len(remainder) > 0 {
			return cleanPhrase(remainder[0]), nil
		}
	}
	// "the X": the first token after the first "the".
	if index := strings.Index(commandText, "the "); index != -1 {
		remainder := strings.Fields(commandText[index+len("the "):])
		if len(remainder) > 0 {
			return cleanPhrase(remainder[0]), nil
		}
	}
	// Last resort: drop the stop words and take the first token that remains.
	words := strings.Fields(commandText)
	for _, word := range words {
		if !common.IsStringInSlice(word, stopWords) {
			return cleanPhrase(word), nil
		}
	}
	if len(words) > 0 {
		return cleanPhrase(words[len(words)-1]), nil
	}
	return "", ErrNoObjectPhrase
}

func cleanPhrase(phrase string) string {
	phrase = strings.TrimSpace(phrase)
	phrase = common.RemoveDoubleQuotesIfAny(phrase)
	phrase = common.RemoveSingleQuotesIfAny(phrase)
	return strings.Trim(phrase, ".,!?")
}

// loadNounTable reads extra noun translations from disk, one "<foreign>=<english>" pair per line.
func loadNounTable(path string) (map[string]string, error) {
	lines, err := common.ReadAllLines(path)
	if err != nil {
		return nil, err
	}
	nouns := make(map[string]string)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		nouns[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return nouns, nil
}
