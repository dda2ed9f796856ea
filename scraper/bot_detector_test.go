package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBotDetector_Detect(t *testing.T) {
	bd := NewBotDetector()

	tests := []struct {
		name  string
		title string
		body  string
		want  BlockType
	}{
		{"menu page", "Margherita Pizza - Pizza Palace - Zomato", "Margherita Pizza ₹349", BlockNone},
		{"captcha", "Just a moment", "Please verify you are a human", BlockCaptcha},
		{"recaptcha in long page", "Zomato", strings.Repeat("menu ", 1000) + "reCAPTCHA", BlockCaptcha},
		{"bot wall", "Access Denied", "You don't have permission", BlockBotWall},
		{"rate limited", "", "429 Too Many Requests", BlockHTTPError},
		{"long page mentions access denied", "Swiggy", strings.Repeat("dish ", 1000) + "access denied", BlockNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := bd.Detect(tt.body, tt.title)
			assert.Equal(t, tt.want, got)
		})
	}
}
