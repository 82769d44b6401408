package overlay

import "fmt"

// Shadow records a file that was not indexed because a source higher in the
// load order already supplied the same relative path.
type Shadow struct {
	Key           string `json:"key"`
	Kept          string `json:"kept"`
	KeptSource    string `json:"kept_source"`
	Ignored       string `json:"ignored"`
	IgnoredSource string `json:"ignored_source"`
}

func (s Shadow) String() string {
	return fmt.Sprintf("%s: %s shadows %s", s.Key, s.KeptSource, s.IgnoredSource)
}
