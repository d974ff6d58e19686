package server

import (
	"compress/gzip"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/domain/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtCookieName = "jwt_token"
	userIDKey     = "user_id"
	bearerPrefix  = "Bearer "
)

func (api *TaskAPI) issueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(api.cfg.TokenTTL).Unix(),
	})
	return token.SignedString([]byte(api.cfg.JWTSecret))
}

func (api *TaskAPI) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrUnauthorized
		}
		return []byte(api.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.ErrUnauthorized
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.ErrUnauthorized
	}
	return userID, nil
}

// Токен принимается из заголовка Authorization или из cookie jwt_token.
func (api *TaskAPI) authMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := ""
		if header := ctx.GetHeader("Authorization"); strings.HasPrefix(header, bearerPrefix) {
			tokenString = strings.TrimPrefix(header, bearerPrefix)
		} else if cookie, err := ctx.Cookie(jwtCookieName); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
			return
		}

		userID, err := api.parseToken(tokenString)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
			return
		}

		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}

func currentUserID(ctx *gin.Context) (string, bool) {
	userID, exists := ctx.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

type gzipResponseWriter struct {
	gin.ResponseWriter
	gw   *gzip.Writer
	skip bool
}

var nonCompressibleStatuses = map[int]bool{
	http.StatusNoContent:   true,
	http.StatusNotModified: true,
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if nonCompressibleStatuses[statusCode] {
		w.skip = true
	} else {
		w.Header().Del("Content-Length")
		w.Header().Set("Content-Encoding", "gzip")
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if w.skip {
		return w.ResponseWriter.Write(data)
	}
	if w.gw == nil {
		w.gw = gzip.NewWriter(w.ResponseWriter)
	}
	n, err := w.gw.Write(data)
	if err != nil {
		return n, errors.ErrGzipCompressionFailed
	}
	return n, nil
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) { return w.Write([]byte(s)) }

func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead {
			ctx.Next()
			return
		}

		acceptEnc := strings.ToLower(ctx.GetHeader("Accept-Encoding"))
		if !strings.Contains(acceptEnc, "gzip") {
			ctx.Next()
			return
		}

		ctx.Header("Vary", "Accept-Encoding")

		wrapped := &gzipResponseWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = wrapped

		ctx.Next()

		if wrapped.gw != nil {
			if err := wrapped.gw.Close(); err != nil {
				_ = ctx.Error(errors.ErrGzipCompressionFailed)
			}
		}
	}
}
