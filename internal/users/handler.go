package users

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/resultkit/authz"
	"github.com/kbukum/resultkit/database"
	"github.com/kbukum/resultkit/result"
	"github.com/kbukum/resultkit/server"
	"github.com/kbukum/resultkit/server/middleware"
)

// Handler exposes Service over HTTP.
type Handler struct {
	svc   *Service
	perms authz.Checker
}

// NewHandler creates a Handler that authorizes with Permissions.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, perms: authz.NewMapChecker(Permissions)}
}

// Register mounts the routes on r:
//
//	POST /auth/register      public
//	POST /auth/login         public
//	GET  /users/me           authenticated
//	GET  /users              user:read
//	GET  /users/:id          user:read
//	GET  /users/summary      user:summary
func (h *Handler) Register(r gin.IRouter, verifier middleware.TokenVerifier) {
	public := r.Group("/auth")
	public.POST("/register", server.Handle(h.register))
	public.POST("/login", server.Handle(h.login))

	protected := r.Group("/users", middleware.Auth(middleware.AuthConfig{Verifier: verifier}))
	protected.GET("/me", server.Handle(h.me))
	protected.GET("/summary", middleware.RequirePermission(h.perms, PermSummary), server.Handle(h.summary))
	protected.GET("", middleware.RequirePermission(h.perms, PermRead), server.Handle(h.list))
	protected.GET("/:id", middleware.RequirePermission(h.perms, PermRead), server.Handle(h.get))
}

// register never grants a role; accounts created over HTTP are plain users.
func (h *Handler) register(c *gin.Context) result.Result[*User] {
	return result.FlatMap(server.Bind[CreateRequest](c), func(req CreateRequest) result.Result[*User] {
		req.Role = ""
		return h.svc.Create(c.Request.Context(), req)
	})
}

func (h *Handler) login(c *gin.Context) result.Result[Token] {
	return result.FlatMap(server.Bind[LoginRequest](c), func(req LoginRequest) result.Result[Token] {
		return h.svc.Login(c.Request.Context(), req)
	})
}

func (h *Handler) me(c *gin.Context) result.Result[*User] {
	return h.svc.Me(c.Request.Context())
}

func (h *Handler) get(c *gin.Context) result.Result[*User] {
	return h.svc.Get(c.Request.Context(), c.Param("id"))
}

func (h *Handler) list(c *gin.Context) result.Result[database.Page[User]] {
	var req database.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return result.ValidationError[database.Page[User]]("page and page_size must be integers")
	}
	return h.svc.List(c.Request.Context(), req)
}

func (h *Handler) summary(c *gin.Context) result.Result[Summary] {
	return h.svc.Summary(c.Request.Context())
}
