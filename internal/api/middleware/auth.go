package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"voting-service/internal/models"
)

const actorKey = "actor"

// AuthMiddleware resolves the request identity from a JWT issued by the
// surrounding platform. The core only ever sees the opaque claims.
type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// RequireAuth rejects requests without a valid bearer token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := am.parse(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: err.Error(),
			})
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth resolves identity when a token is present and lets the
// request through anonymously otherwise. Vote casting uses this: whether
// anonymity is acceptable is a per-session decision made by the engine.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			actor, err := am.parse(c)
			if err != nil {
				c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: err.Error(),
				})
				c.Abort()
				return
			}
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

func (am *AuthMiddleware) parse(c *gin.Context) (models.ActorContext, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return models.ActorContext{}, models.ErrAuthRequired
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(am.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return models.ActorContext{}, models.ErrAuthRequired
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.ActorContext{}, models.ErrAuthRequired
	}

	actor := models.ActorContext{}
	if v, ok := claims["voter_id"].(string); ok {
		actor.VoterID = v
	}
	if v, ok := claims["organization_id"].(string); ok {
		actor.OrganizationID = v
	}
	if v, ok := claims["role"].(string); ok {
		actor.Role = v
	}
	return actor, nil
}

// GetActor returns the resolved identity, zero-valued for anonymous
// requests.
func GetActor(c *gin.Context) models.ActorContext {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(models.ActorContext); ok {
			return actor
		}
	}
	return models.ActorContext{}
}
