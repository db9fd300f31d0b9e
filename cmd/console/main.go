package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

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
	_ = godotenv.Load() // provider API keys, if a .env file is present
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	recognizer := api.NewAPI(config)
	defer recognizer.Stop()
	providers := recognizer.ProviderNames()
	if len(providers) == 0 {
		return fmt.Errorf("no vision model providers are available (set XAI_API_KEY or DASHSCOPE_API_KEY, or start Ollama)")
	}
	imagePath := config.GetStringOrDefault(api.ConfigKeyImagePath, "sample.jpg")
	provider := ""
	urlFinder := web.NewURLFinder()
	fmt.Printf("Providers: %s. Commands: \":image <path>\", \":provider <name>\", or a request such as \"please grab the coke to me\".\n", strings.Join(providers, ", "))
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, ":image "):
			imagePath = strings.TrimSpace(line[len(":image "):])
			fmt.Println("working on " + imagePath)
			continue
		case strings.HasPrefix(line, ":provider "):
			provider = strings.TrimSpace(line[len(":provider "):])
			continue
		}
		commandImagePath := imagePath
		// An image URL pasted straight into the command takes precedence over the configured image.
		if url := firstImageURL(urlFinder, line); url != "" {
			downloadedPath, err := downloadImage(url)
			if err != nil {
				fmt.Println(err)
				continue
			}
			commandImagePath = downloadedPath
			line = strings.TrimSpace(strings.ReplaceAll(line, url, ""))
		}
		result, err := recognizer.Recognize(line, commandImagePath, provider)
		if err != nil {
			fmt.Println(err)
			recognizer.Speak(err.Error())
			continue
		}
		fmt.Println(result.Summary)
		if result.AnnotatedPath != "" {
			fmt.Println("annotated image saved to " + result.AnnotatedPath)
		}
	}
	return nil
}

func firstImageURL(urlFinder common.URLFinder, line string) string {
	for _, url := range urlFinder.FindURLs(line) {
		if common.IsImageFormat(url) {
			return url
		}
	}
	return ""
}

func downloadImage(url string) (string, error) {
	path := filepath.Join(os.TempDir(), "image_"+uuid.NewString()[:8]+filepath.Ext(url))
	err := common.DownloadFromURL(url, path)
	if err != nil {
		return "", err
	}
	return path, nil
}
