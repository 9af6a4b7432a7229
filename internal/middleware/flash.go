package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// FlashCookieName carries one-time messages across a redirect
const FlashCookieName = "flash"

const pendingFlashKey = "pendingFlash"

// AddFlash queues a message to be shown on the next rendered page
func AddFlash(c *gin.Context, message string) {
	messages := append(pendingFlash(c), message)
	c.Set(pendingFlashKey, messages)

	payload, err := json.Marshal(messages)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode flash messages")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookieName, base64.RawURLEncoding.EncodeToString(payload), 0, "/", "", secureCookies(c), true)
}

// ConsumeFlash returns the queued messages and forgets them
func ConsumeFlash(c *gin.Context) []string {
	messages := pendingFlash(c)
	if len(messages) > 0 {
		c.Set(pendingFlashKey, []string(nil))
		clearFlashCookie(c)
		return messages
	}

	raw, err := c.Cookie(FlashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	clearFlashCookie(c)

	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil
	}
	return messages
}

func pendingFlash(c *gin.Context) []string {
	if v, ok := c.Get(pendingFlashKey); ok {
		if messages, ok := v.([]string); ok {
			return messages
		}
	}
	return nil
}

func clearFlashCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookieName, "", -1, "/", "", secureCookies(c), true)
}
