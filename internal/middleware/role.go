package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guidely/guidely-backend/internal/model"
	"github.com/guidely/guidely-backend/internal/response"
)

// RequireTeacher restricts a route to teacher accounts.
func RequireTeacher() gin.HandlerFunc {
	return requireUserType(model.UserTypeTeacher, response.ErrTeacherAccessOnly)
}

// RequireStudent restricts a route to student accounts.
func RequireStudent() gin.HandlerFunc {
	return requireUserType(model.UserTypeStudent, response.ErrStudentAccessOnly)
}

func requireUserType(userType model.UserType, code response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
			return
		}

		if claims.UserType != userType {
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}

		c.Next()
	}
}
