package scraper

import (
	"regexp"
	"strings"
)

// BlockType describes why a rendered page looks like a bot wall
type BlockType string

const (
	BlockNone      BlockType = ""
	BlockCaptcha   BlockType = "captcha"
	BlockBotWall   BlockType = "bot_wall"
	BlockHTTPError BlockType = "http_error"
)

// BotDetector recognises challenge and error pages served instead of menus
type BotDetector struct {
	captchaPatterns []*regexp.Regexp
	botPatterns     []*regexp.Regexp
	blockPatterns   []*regexp.Regexp
}

// NewBotDetector creates a new bot detector
func NewBotDetector() *BotDetector {
	return &BotDetector{
		captchaPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(re|h)?captcha\b`),
			regexp.MustCompile(`(?i)verify you are (a )?human`),
			regexp.MustCompile(`(?i)select all images`),
		},
		botPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)access denied`),
			regexp.MustCompile(`(?i)checking your browser`),
			regexp.MustCompile(`(?i)bot detected`),
			regexp.MustCompile(`(?i)unusual traffic`),
			regexp.MustCompile(`(?i)ddos protection`),
		},
		blockPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)403 forbidden`),
			regexp.MustCompile(`(?i)429 too many requests`),
			regexp.MustCompile(`(?i)503 service unavailable`),
		},
	}
}

// Detect inspects the rendered text and title of a page.
// Long pages only count as blocked on a captcha marker.
func (bd *BotDetector) Detect(body, title string) (BlockType, string) {
	content := title + "\n" + body

	for _, pattern := range bd.captchaPatterns {
		if pattern.MatchString(content) {
			return BlockCaptcha, pattern.String()
		}
	}

	if len(strings.TrimSpace(body)) > 4000 {
		return BlockNone, ""
	}

	for _, pattern := range bd.blockPatterns {
		if pattern.MatchString(content) {
			return BlockHTTPError, pattern.String()
		}
	}
	for _, pattern := range bd.botPatterns {
		if pattern.MatchString(content) {
			return BlockBotWall, pattern.String()
		}
	}
	return BlockNone, ""
}
