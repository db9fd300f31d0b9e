package espeak

import (
	"os/exec"
	"strconv"
	"sync"

	"yanbo.cc/imagerecog/pkg/common"
)

const (
	// ConfigKeyVoice which espeak voice to use
	ConfigKeyVoice = "espeakVoice"
	// ConfigKeySpeed words per minute
	ConfigKeySpeed = "espeakSpeed"
)

var mutex sync.Mutex

// Speaker speaks text by shelling out to the espeak binary. Overlapping announcements sound like
// garbage, so only one can play at a time.
type Speaker struct {
	voice string
	speed int
}

func NewSpeaker(config *common.Config) *Speaker {
	return &Speaker{
		voice: config.GetStringOrDefault(ConfigKeyVoice, "en"),
		speed: config.GetIntOrDefault(ConfigKeySpeed, 160),
	}
}

func (s *Speaker) Speak(text string) error {
	mutex.Lock()
	defer mutex.Unlock()
	return exec.Command("espeak", "-v", s.voice, "-s", strconv.Itoa(s.speed), text).Run()
}
