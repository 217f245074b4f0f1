package users

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/resultkit/auth"
	"github.com/kbukum/resultkit/database"
	"github.com/kbukum/resultkit/events"
	"github.com/kbukum/resultkit/observability"
	"github.com/kbukum/resultkit/resilience"
	"github.com/kbukum/resultkit/result"
	"github.com/kbukum/resultkit/validation"
)

const (
	resource        = "user"
	defaultPoolWait = 2 * time.Second
	retryBackoff    = 50 * time.Millisecond
)

// DBSource yields the open database. *database.Component implements it, so
// a Service can be built before the component starts.
type DBSource interface {
	DB() *database.DB
}

// Deps are the collaborators of Service. Events and Metrics may be nil.
type Deps struct {
	DB        DBSource
	Tokens    *auth.TokenService
	Passwords *auth.Hasher
	Events    events.Publisher
	Metrics   *observability.ResultMetrics
	// Pool bounds the concurrent queries of Summary. Defaults to 4 slots.
	Pool *resilience.Bulkhead
}

// Service implements the user operations.
type Service struct {
	db        DBSource
	repo      Repository
	tokens    *auth.TokenService
	passwords *auth.Hasher
	events    events.Publisher
	metrics   *observability.ResultMetrics
	pool      *resilience.Bulkhead
	retry     resilience.RetryConfig
}

// NewService creates a Service.
func NewService(d Deps) *Service {
	pub := d.Events
	if pub == nil {
		pub = events.Multi{}
	}
	pool := d.Pool
	if pool == nil {
		pool = resilience.NewBulkhead(resilience.BulkheadConfig{Name: "users", MaxConcurrent: 4, MaxWait: defaultPoolWait})
	}
	retry := resilience.DefaultRetryConfig()
	retry.InitialBackoff = retryBackoff
	return &Service{
		db:        d.DB,
		tokens:    d.Tokens,
		passwords: d.Passwords,
		events:    pub,
		metrics:   d.Metrics,
		pool:      pool,
		retry:     retry,
	}
}

// Create registers an account and publishes user.created on success.
// A taken email is an AlreadyExists failure.
func (s *Service) Create(ctx context.Context, req CreateRequest) result.Result[*User] {
	req.Email = normalizeEmail(req.Email)
	return events.Run(ctx, s.events, events.Options{Name: EventCreated}, "CreateUser",
		func(ctx context.Context) result.Result[*User] {
			return observability.Observe(ctx, s.metrics, "users.create", func(ctx context.Context) result.Result[*User] {
				return s.create(ctx, req)
			})
		}, req.Email)
}

func (s *Service) create(ctx context.Context, req CreateRequest) result.Result[*User] {
	hashed := result.FlatMap(validation.Validated(req), func(r CreateRequest) result.Result[string] {
		return s.passwords.HashPassword(r.Password)
	})
	return result.FlatMap(hashed, func(hash string) result.Result[*User] {
		u := &User{
			Email:        req.Email,
			Name:         strings.TrimSpace(req.Name),
			Role:         req.Role,
			PasswordHash: hash,
		}
		if u.Role == "" {
			u.Role = RoleUser
		}
		return database.RunInTx(ctx, s.db.DB(), func(tx *gorm.DB) result.Result[*User] {
			return database.From(u, s.repo.Insert(ctx, tx, u), resource)
		})
	})
}

// Get looks a user up by ID. A malformed ID is a Validation failure and an
// unknown one NotFound. Transient database failures are retried.
func (s *Service) Get(ctx context.Context, id string) result.Result[*User] {
	return observability.Observe(ctx, s.metrics, "users.get", func(ctx context.Context) result.Result[*User] {
		return result.FlatMap(validation.ParseUUID("id", id), func(uid uuid.UUID) result.Result[*User] {
			return resilience.RetryResult(ctx, s.retry, func(ctx context.Context) result.Result[*User] {
				u, err := s.repo.FindByID(ctx, s.db.DB().GormDB, uid.String())
				return database.From(u, err, resource)
			})
		})
	})
}

// Me returns the user named by the claims in ctx.
func (s *Service) Me(ctx context.Context) result.Result[*User] {
	return result.FlatMap(auth.RequireClaims(ctx), func(c *auth.Claims) result.Result[*User] {
		return s.Get(ctx, c.Subject)
	})
}

// List returns one page of users, newest first.
func (s *Service) List(ctx context.Context, req database.PageRequest) result.Result[database.Page[User]] {
	return observability.Observe(ctx, s.metrics, "users.list", func(ctx context.Context) result.Result[database.Page[User]] {
		return database.Paginate[User](s.repo.Query(ctx, s.db.DB().GormDB), req, resource)
	})
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords fail alike with Unauthorized. user.login is published for
// both outcomes.
func (s *Service) Login(ctx context.Context, req LoginRequest) result.Result[Token] {
	email := normalizeEmail(req.Email)
	return events.Run(ctx, s.events, events.Options{Name: EventLogin, On: events.OnBoth}, "Login",
		func(ctx context.Context) result.Result[Token] {
			return observability.Observe(ctx, s.metrics, "users.login", func(ctx context.Context) result.Result[Token] {
				return s.login(ctx, req)
			})
		}, email)
}

func (s *Service) login(ctx context.Context, req LoginRequest) result.Result[Token] {
	user := result.FlatMap(validation.Validated(req), func(r LoginRequest) result.Result[*User] {
		u, err := s.repo.FindByEmail(ctx, s.db.DB().GormDB, r.Email)
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return result.UnauthorizedError[*User](auth.InvalidCredentialsMessage)
		}
		return database.From(u, err, resource)
	})
	verified := result.FlatMap(user, func(u *User) result.Result[*User] {
		return result.Map(s.passwords.CheckPassword(u.PasswordHash, req.Password), func(struct{}) *User { return u })
	})
	return result.FlatMap(verified, func(u *User) result.Result[Token] {
		return result.Map(s.tokens.Issue(u.ID, u.Role), func(token string) Token {
			return Token{AccessToken: token, TokenType: "Bearer", UserID: u.ID}
		})
	})
}

// Summary counts all users and admins with concurrent queries on the
// service's bulkhead.
func (s *Service) Summary(ctx context.Context) result.Result[Summary] {
	return observability.Observe(ctx, s.metrics, "users.summary", func(ctx context.Context) result.Result[Summary] {
		count := func(role string) func() result.Result[int64] {
			f := result.AsyncOn(s.pool, func() result.Result[int64] {
				n, err := s.repo.CountByRole(ctx, s.db.DB().GormDB, role)
				return database.From(n, err, resource)
			})
			return func() result.Result[int64] {
				r, err := f.Await(ctx)
				if err != nil {
					return result.Fail[int64](err)
				}
				return r
			}
		}
		counts := result.CombineFuncs(count(""), count(RoleAdmin))
		return result.Map(counts, func(n []int64) Summary {
			return Summary{Total: n[0], Admins: n[1]}
		})
	})
}
