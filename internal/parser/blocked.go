package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBlocked matches any *BlockedError.
var ErrBlocked = errors.New("blocked by anti-bot protection")

// BlockedError reports the indicator that marked a page as a challenge page.
type BlockedError struct {
	URL       string
	Indicator string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("blocked by anti-bot protection at %s (found %q)", e.URL, e.Indicator)
}

func (e *BlockedError) Is(target error) bool {
	return target == ErrBlocked
}

// Phrases seen on challenge and CAPTCHA interstitials. Matching is a plain
// case-insensitive substring test and will drift as the target site changes.
var blockIndicators = []string{
	"captcha",
	"are you a robot",
	"verify you are human",
	"verify that you are human",
	"access denied",
	"unusual traffic",
	"checking your browser",
	"security challenge",
	"please enable js and disable any ad blocker",
}

// DetectBlock returns the first block indicator found in text.
func DetectBlock(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, indicator := range blockIndicators {
		if strings.Contains(lower, indicator) {
			return indicator, true
		}
	}
	return "", false
}
