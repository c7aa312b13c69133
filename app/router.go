// Package app wires the HTTP endpoints together
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitwise74/recipe-api/app/recipe"
	"bitwise74/recipe-api/app/root"
	"bitwise74/recipe-api/app/user"
	"bitwise74/recipe-api/db"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/service"
	"bitwise74/recipe-api/internal/storage"
	"bitwise74/recipe-api/pkg/middleware"
	"bitwise74/recipe-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDeps opens the database and object store configured through viper
func NewDeps(ctx context.Context) (*internal.Deps, error) {
	gdb, err := db.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	store, err := storage.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage, %w", err)
	}

	return &internal.Deps{
		DB:    gdb,
		Argon: security.New(),
		Tokens: security.NewTokenIssuer(
			viper.GetString("jwt.secret"),
			viper.GetDuration("jwt.access_ttl"),
			viper.GetDuration("jwt.refresh_ttl"),
		),
		Uploader: service.NewUploader(store, viper.GetInt64("upload.max_size")),
	}, nil
}

// NewCacheStore returns the response cache selected by cache.type
func NewCacheStore() persist.CacheStore {
	if viper.GetString("cache.type") == "redis" {
		return persist.NewRedisStore(redis.NewClient(&redis.Options{
			Network: "tcp",
			Addr:    viper.GetString("cache.redis_addr"),
		}))
	}

	return persist.NewMemoryStore(time.Minute)
}

func NewRouter(d *internal.Deps, store persist.CacheStore) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     strings.Split(viper.GetString("host.cors"), ","),
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	if local, ok := d.Uploader.Store.(*storage.Local); ok {
		router.Static(viper.GetString("storage.public_url"), local.Dir)
	}

	rateLimit := viper.GetInt("security.rate_limit")
	maxUploadSize := d.Uploader.MaxSize + 1<<20

	jwt := middleware.NewJWTMiddleware(d.DB, d.Tokens)
	turnstile := middleware.NewTurnstileMiddleware("")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
	})
	jsonLimit := middleware.BodySizeLimiter(1 << 20)
	uploadLimit := middleware.BodySizeLimiter(maxUploadSize)

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat			-> Used to check if the server and database are alive
		m.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })

		// GET /api/schema			-> OpenAPI document, YAML or ?format=json
		m.GET("/schema", cache.CacheByRequestURI(store, time.Hour), root.Schema)

		// GET /api/docs			-> Swagger UI for the schema
		m.GET("/docs", root.Docs)
	}

	u := m.Group("/user")
	{
		// POST /api/user/create		-> Registers a new user
		u.POST("/create", turnstile, jsonLimit, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/user/token			-> Logs in a user and returns a token pair
		u.POST("/token", jsonLimit, func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/user/token/refresh		-> Rotates a refresh token
		u.POST("/token/refresh", jsonLimit, func(c *gin.Context) { user.UserRefresh(c, d) })

		// GET /api/user/me			-> Returns the authenticated user
		u.GET("/me", jwt, func(c *gin.Context) { user.UserFetch(c, d) })

		// PUT|PATCH /api/user/me		-> Updates the authenticated user
		u.PUT("/me", jwt, jsonLimit, func(c *gin.Context) { user.UserUpdate(c, d) })
		u.PATCH("/me", jwt, jsonLimit, func(c *gin.Context) { user.UserUpdate(c, d) })

		// DELETE /api/user/me			-> Deletes the user and everything it owns
		u.DELETE("/me", jwt, func(c *gin.Context) { user.UserDelete(c, d) })

		// POST /api/user/profile		-> Creates the profile of the authenticated user
		u.POST("/profile", jwt, jsonLimit, func(c *gin.Context) { user.ProfileCreate(c, d) })

		// GET /api/user/profile		-> Returns the profile
		u.GET("/profile", jwt, func(c *gin.Context) { user.ProfileFetch(c, d) })

		// PUT|PATCH /api/user/profile		-> Updates the profile
		u.PUT("/profile", jwt, jsonLimit, func(c *gin.Context) { user.ProfileUpdate(c, d) })
		u.PATCH("/profile", jwt, jsonLimit, func(c *gin.Context) { user.ProfileUpdate(c, d) })

		// POST /api/user/profile/picture	-> Uploads a profile picture
		u.POST("/profile/picture", jwt, uploadLimit, func(c *gin.Context) { user.ProfileUploadPicture(c, d) })
	}

	r := m.Group("/recipe", jwt)
	{
		// GET /api/recipe/recipes		-> Lists recipes, ?tags=1,2&ingredients=3 filter them
		r.GET("/recipes", func(c *gin.Context) { recipe.RecipeList(c, d) })

		// POST /api/recipe/recipes		-> Creates a recipe with nested tags and ingredients
		r.POST("/recipes", jsonLimit, func(c *gin.Context) { recipe.RecipeCreate(c, d) })

		// GET /api/recipe/recipes/:id		-> Returns a recipe
		r.GET("/recipes/:id", func(c *gin.Context) { recipe.RecipeFetch(c, d) })

		// PUT|PATCH /api/recipe/recipes/:id	-> Updates a recipe
		r.PUT("/recipes/:id", jsonLimit, func(c *gin.Context) { recipe.RecipeUpdate(c, d) })
		r.PATCH("/recipes/:id", jsonLimit, func(c *gin.Context) { recipe.RecipeUpdate(c, d) })

		// DELETE /api/recipe/recipes/:id	-> Deletes a recipe
		r.DELETE("/recipes/:id", func(c *gin.Context) { recipe.RecipeDelete(c, d) })

		// POST /api/recipe/recipes/:id/upload-image	-> Uploads the recipe image
		r.POST("/recipes/:id/upload-image", uploadLimit, func(c *gin.Context) { recipe.RecipeUploadImage(c, d) })

		attributeRoutes[model.Tag](r, "/tags", d, jsonLimit)
		attributeRoutes[model.Ingredient](r, "/ingredients", d, jsonLimit)
	}

	return router
}

// attributeRoutes registers the tag or ingredient endpoints under path
func attributeRoutes[T service.Attribute](r *gin.RouterGroup, path string, d *internal.Deps, jsonLimit gin.HandlerFunc) {
	// GET /api/recipe/{tags,ingredients}		-> Lists them, ?assigned_only=1 hides unused ones
	r.GET(path, func(c *gin.Context) { recipe.AttributeList[T](c, d) })

	// PUT|PATCH /api/recipe/{tags,ingredients}/:id	-> Renames one
	r.PUT(path+"/:id", jsonLimit, func(c *gin.Context) { recipe.AttributeUpdate[T](c, d) })
	r.PATCH(path+"/:id", jsonLimit, func(c *gin.Context) { recipe.AttributeUpdate[T](c, d) })

	// DELETE /api/recipe/{tags,ingredients}/:id	-> Deletes one and unlinks it from every recipe
	r.DELETE(path+"/:id", func(c *gin.Context) { recipe.AttributeDelete[T](c, d) })
}
