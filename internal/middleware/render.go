package middleware

import (
	"github.com/gin-gonic/gin"
)

// Render writes an HTML page with the values every page header needs
// (the signed-in user and pending flash messages).
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["CurrentUser"]; !ok {
		if user := CurrentUser(c); user != nil {
			data["CurrentUser"] = user
		}
	}
	data["Messages"] = ConsumeFlash(c)
	c.HTML(status, name, data)
}
