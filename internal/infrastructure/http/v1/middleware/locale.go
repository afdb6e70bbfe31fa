package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "saletype/internal/core/context"
	"saletype/internal/i18n"
)

// HeaderContentLanguage echoes the negotiated locale.
const HeaderContentLanguage = "Content-Language"

// Locale negotiates the request locale from the lang query parameter or
// Accept-Language and stores it in the request context.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.Match(c.GetHeader("Accept-Language"))
		if lang := c.Query("lang"); lang != "" {
			locale = i18n.Normalize(lang)
		}

		ctx := appctx.WithLocale(c.Request.Context(), locale)
		c.Request = c.Request.WithContext(ctx)
		c.Set("locale", locale)
		c.Header(HeaderContentLanguage, locale)

		c.Next()
	}
}
