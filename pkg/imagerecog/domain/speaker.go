package domain

// Speaker plays the given text as speech.
type Speaker interface {
	Speak(text string) error
}
