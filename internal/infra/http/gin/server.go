package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"minpaku/internal/infra/config"
	"minpaku/internal/infra/obs"
)

type AuthHTTP interface {
	Signup(c *gin.Context)
	Verify(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
	UpdateMe(c *gin.Context)
}

type HouseHTTP interface {
	Search(c *gin.Context)
	Home(c *gin.Context)
	Detail(c *gin.Context)
}

type ReservationHTTP interface {
	Input(c *gin.Context)
	Confirm(c *gin.Context)
	Create(c *gin.Context)
	List(c *gin.Context)
}

type ReviewHTTP interface {
	List(c *gin.Context)
	Post(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type FavoriteHTTP interface {
	Add(c *gin.Context)
	Remove(c *gin.Context)
	List(c *gin.Context)
}

type AdminHouseHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	House          HouseHTTP
	Reservation    ReservationHTTP
	Review         ReviewHTTP
	Favorite       FavoriteHTTP
	AdminHouse     AdminHouseHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/signup", h.Auth.Signup)
		api.GET("/auth/verify", h.Auth.Verify)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
		api.PUT("/auth/me", h.Auth.UpdateMe)
	}
	if h.House != nil {
		api.GET("/houses", h.House.Search)
		api.GET("/houses/home", h.House.Home)
		api.GET("/houses/:id", h.House.Detail)
	}
	if h.Reservation != nil {
		api.POST("/houses/:id/reservations/input", h.Reservation.Input)
		api.GET("/reservations/confirm", h.Reservation.Confirm)
		api.POST("/reservations/create", h.Reservation.Create)
		api.GET("/reservations", h.Reservation.List)
	}
	if h.Review != nil {
		api.GET("/houses/:id/reviews", h.Review.List)
		api.POST("/houses/:id/reviews", h.Review.Post)
		api.PUT("/houses/:id/reviews/:reviewId", h.Review.Update)
		api.DELETE("/houses/:id/reviews/:reviewId", h.Review.Delete)
	}
	if h.Favorite != nil {
		api.PUT("/houses/:id/favorite", h.Favorite.Add)
		api.DELETE("/houses/:id/favorite", h.Favorite.Remove)
		api.GET("/favorites", h.Favorite.List)
	}
	if h.AdminHouse != nil {
		adminGroup := api.Group("/admin/houses")
		adminGroup.POST("", h.AdminHouse.Create)
		adminGroup.PUT("/:id", h.AdminHouse.Update)
		adminGroup.DELETE("/:id", h.AdminHouse.Delete)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug", "dev", "local":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
