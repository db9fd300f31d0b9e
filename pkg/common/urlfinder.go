package common

// URLFinder finds all URLs in free-form text (users often paste image links straight into the chat).
type URLFinder interface {
	FindURLs(str string) []string
}
