package helpers

import (
	"errors"
	"strings"
)

func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// UsernameFromProfileURL extracts the member handle from a canonical
// profile URL, e.g. "https://host/in/jane-doe/" -> "jane-doe".
func UsernameFromProfileURL(profileURL string) (string, error) {
	if !strings.Contains(profileURL, "/in/") {
		return "", errors.New("not a profile URL")
	}
	tail, err := GetSplitPart(profileURL, "/in/", 1)
	if err != nil {
		return "", err
	}
	username, err := GetSplitPart(tail, "/", 0)
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", errors.New("empty profile handle")
	}
	return username, nil
}
