package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"saletype/internal/core/apperror"
	appctx "saletype/internal/core/context"
)

// HeaderCompanyID selects the working company of the request.
const HeaderCompanyID = "X-Company-ID"

// JWTValidator turns a bearer token into the caller.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth requires a bearer token and stores the caller in the request
// context. X-Company-ID switches the working company among the companies
// of the token.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		switch {
		case scheme == "":
			abort(c, apperror.NewUnauthorized("missing authorization header"))
			return
		case !ok || !strings.EqualFold(scheme, "bearer") || token == "":
			abort(c, apperror.NewUnauthorized("invalid authorization header format"))
			return
		}

		user, err := validator.ValidateToken(token)
		if err != nil {
			abort(c, apperror.NewUnauthorized("invalid token"))
			return
		}

		if companyID := c.GetHeader(HeaderCompanyID); companyID != "" {
			if !user.CanAccessCompany(companyID) {
				abort(c, apperror.NewForbidden("company not allowed").WithDetail("company_id", companyID))
				return
			}
			user.CompanyID = companyID
		}

		c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
		c.Set("user_id", user.UserID)
		c.Set("company_id", user.CompanyID)

		c.Next()
	}
}

func abort(c *gin.Context, err *apperror.AppError) {
	_ = c.Error(err)
	c.Abort()
}
