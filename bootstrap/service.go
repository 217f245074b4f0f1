package bootstrap

import (
	"fmt"
	"slices"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/kbukum/resultkit/auth"
	"github.com/kbukum/resultkit/database"
	"github.com/kbukum/resultkit/di"
	"github.com/kbukum/resultkit/events"
	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/observability"
	"github.com/kbukum/resultkit/server"
)

// Service is an App over AppConfig with the standard infrastructure built
// and registered: telemetry, database, event publishers and the HTTP server.
// Components start in that order and stop in reverse.
type Service struct {
	*App[*AppConfig]

	Database  *database.Component
	Server    *server.Server
	Bus       *events.Bus
	Stream    *events.Stream
	Kafka     *events.KafkaPublisher
	Redis     *events.RedisPublisher
	Publisher events.Publisher
	Tokens    *auth.TokenService
	Passwords *auth.Hasher
	Metrics   *observability.ResultMetrics
}

// NewService builds the infrastructure described by cfg. Nothing connects
// until Run or RunTask starts the components. Publisher fans out to the
// bus and to the log, SSE stream, Kafka and Redis publishers as configured.
func NewService(cfg *AppConfig, opts ...Option) (*Service, error) {
	app, err := NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	s := &Service{App: app}
	log := app.Logger

	if err := app.RegisterComponent(&telemetry{
		cfg:     cfg.Observability,
		service: cfg.Name,
		version: app.Version,
		env:     cfg.Environment,
	}); err != nil {
		return nil, err
	}

	s.Metrics, err = observability.NewResultMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("result metrics: %w", err)
	}

	s.Database = database.NewComponent(cfg.Database, log)
	if err := app.RegisterComponent(s.Database); err != nil {
		return nil, err
	}

	if err := s.buildEvents(cfg.Events, log); err != nil {
		return nil, err
	}

	s.Tokens, err = auth.NewTokenService(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	s.Passwords = auth.NewHasher(cfg.Auth.BcryptCost)

	srvCfg := cfg.Server
	if s.Stream != nil {
		// gzip buffers, which would stall server-sent events.
		srvCfg.Compression.ExcludedPaths = append(slices.Clone(srvCfg.Compression.ExcludedPaths), cfg.Events.StreamPath)
	}
	s.Server = server.New(srvCfg, log)
	if cfg.Observability.Enabled {
		s.Server.GinEngine().Use(otelgin.Middleware(cfg.Name))
	}
	if err := s.Server.ApplyMiddleware(); err != nil {
		return nil, err
	}
	s.Server.RegisterHealth(cfg.Name, app.Components.Check)
	s.Server.RegisterVersion()
	if s.Stream != nil {
		s.Server.GinEngine().GET(cfg.Events.StreamPath, s.Stream.Handler())
	}
	if err := app.RegisterComponent(s.Server); err != nil {
		return nil, err
	}

	singletons := map[string]any{
		di.Names.Database:   s.Database,
		di.Names.Events:     s.Publisher,
		di.Names.Tokens:     s.Tokens,
		di.Names.Passwords:  s.Passwords,
		di.Names.Metrics:    s.Metrics,
		di.Names.HTTPServer: s.Server,
	}
	for key, v := range singletons {
		if err := app.Container.RegisterSingleton(key, v); err != nil {
			return nil, fmt.Errorf("register %s: %w", key, err)
		}
	}
	return s, nil
}

func (s *Service) buildEvents(cfg EventsConfig, log *logger.Logger) error {
	s.Bus = events.NewBus(log)
	pubs := events.Multi{s.Bus}

	if cfg.Log {
		pubs = append(pubs, events.NewLogPublisher(log))
	}
	if cfg.Stream {
		s.Stream = events.NewStream(log)
		if err := s.RegisterComponent(s.Stream); err != nil {
			return err
		}
		pubs = append(pubs, s.Stream)
	}
	if cfg.Kafka.Enabled {
		kp, err := events.NewKafkaPublisher(cfg.Kafka, log)
		if err != nil {
			return err
		}
		s.Kafka = kp
		if err := s.RegisterComponent(&kafkaComponent{pub: kp}); err != nil {
			return err
		}
		pubs = append(pubs, kp)
	}
	if cfg.Redis.Enabled {
		rp, err := events.NewRedisPublisher(cfg.Redis, log)
		if err != nil {
			return err
		}
		s.Redis = rp
		if err := s.RegisterComponent(rp); err != nil {
			return err
		}
		pubs = append(pubs, rp)
	}
	s.Publisher = pubs
	return nil
}

// DB returns the started database, or nil before Start.
func (s *Service) DB() *database.DB {
	return s.Database.DB()
}

