package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/whyrusleeping/hellabot"

	"yanbo.cc/imagerecog/pkg/common"
	"yanbo.cc/imagerecog/pkg/imagerecog/api"
	"yanbo.cc/imagerecog/pkg/imagerecog/infrastructure/web"
)

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	_ = godotenv.Load()
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	botName := config.GetStringOrDefault("botName", "recog")
	roomName := config.GetStringOrDefault("roomName", "recog")
	serverName := config.GetStringOrDefault("serverName", "irc.euirc.net:6667")
	recognizer := api.NewAPI(config)
	defer recognizer.Stop()
	urlFinder := web.NewURLFinder()
	ircBot, err := hbot.NewBot(serverName, botName)
	if err != nil {
		return err
	}
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return true
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			if m.Command != "PRIVMSG" {
				return true
			}
			if !strings.HasPrefix(strings.ToLower(m.Content), strings.ToLower(botName)) {
				return true
			}
			what := strings.TrimSpace(m.Content[len(botName):])
			if len(what) == 0 || len(m.To) == 0 || m.To[0] != '#' {
				return false
			}
			if what[0] == ',' || what[0] == ':' {
				what = strings.TrimSpace(what[1:])
			}
			b.Reply(m, m.From+" "+respond(recognizer, urlFinder, what))
			return true
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Channels = []string{"#" + roomName}
	ircBot.Run()
	return nil
}

// respond runs one recognition for a chat message which should contain an image URL and a
// command, e.g. "recog, find the red car https://example.com/street.jpg".
func respond(recognizer api.API, urlFinder common.URLFinder, what string) string {
	imageURL := ""
	for _, url := range urlFinder.FindURLs(what) {
		if common.IsImageFormat(url) {
			imageURL = url
			break
		}
	}
	if imageURL == "" {
		return "give me a link to a .jpg/.png image along with the command"
	}
	imagePath := filepath.Join(os.TempDir(), "image_"+uuid.NewString()[:8]+filepath.Ext(imageURL))
	err := common.DownloadFromURL(imageURL, imagePath)
	if err != nil {
		return "I couldn't load that image :("
	}
	defer func() {
		_ = os.Remove(imagePath)
	}()
	commandText := strings.TrimSpace(strings.ReplaceAll(what, imageURL, ""))
	result, err := recognizer.Recognize(commandText, imagePath, "")
	if err != nil {
		return "I'm borked :( " + err.Error()
	}
	if !result.Detections.Recognized {
		return "sorry, I cannot locate it"
	}
	return fmt.Sprintf("%s found at %s", result.ObjectPhrase, result.Detections.CoordinateString())
}
