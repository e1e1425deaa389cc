package campusdesk

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/MrEthical07/campusdesk/api"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/internal/xdg"
	"github.com/MrEthical07/campusdesk/jwt"
	"github.com/MrEthical07/campusdesk/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder assembles a [Desk]. A Builder is single-use.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	storage    session.Storage
	httpClient *http.Client
	noticeSink NoticeSink
	logger     *zap.Logger
	navigator  Navigator
	now        func() time.Time

	built bool
}

// New describes the new operation and its observable behavior.
//
// New starts from [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig replaces the whole configuration with a copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis supplies the client used by the redis storage backend instead of one
// dialed from Storage.RedisAddr.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStorage describes the withstorage operation and its observable behavior.
//
// WithStorage bypasses Storage.Backend and persists the session in s.
func (b *Builder) WithStorage(s session.Storage) *Builder {
	b.storage = s
	return b
}

// WithHTTPClient sets the client used for backend requests.
func (b *Builder) WithHTTPClient(c *http.Client) *Builder {
	b.httpClient = c
	return b
}

// WithNoticeSink describes the withnoticesink operation and its observable behavior.
//
// Without a sink notices are logged.
func (b *Builder) WithNoticeSink(sink NoticeSink) *Builder {
	b.noticeSink = sink
	return b
}

// WithLogger sets the logger. The default discards everything.
func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// WithNavigator receives the destinations the desk navigates to.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithClock replaces time.Now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build validates the configuration, opens the storage backend and wires the API
// client to the session store. It may be called once.
func (b *Builder) Build() (*Desk, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	// -------- TOKENS --------
	key := cfg.Session.VerifyKey
	if len(key) == 0 && cfg.Session.VerifyKeyFile != "" {
		raw, err := os.ReadFile(cfg.Session.VerifyKeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read verify key: %v", ErrInvalidConfig, err)
		}
		key = raw
	}
	tokens, err := jwt.NewReader(jwt.Config{
		SigningMethod: jwt.SigningMethod(cfg.Session.SigningMethod),
		Key:           key,
		Issuer:        cfg.Session.Issuer,
		Leeway:        cfg.Session.Leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// -------- STORAGE --------
	storage := b.storage
	var fileStorage *session.FileStorage
	if storage == nil {
		switch cfg.Storage.Backend {
		case StorageMemory:
			storage = session.NewMemoryStorage()
		case StorageRedis:
			client := b.redis
			if client == nil {
				client = redis.NewClient(&redis.Options{
					Addr: cfg.Storage.RedisAddr,
					DB:   cfg.Storage.RedisDB,
				})
			}
			storage = session.NewRedisStorage(client, cfg.Storage.RedisPrefix)
		default:
			path := cfg.Storage.Path
			if path == "" {
				if path, err = xdg.SessionFile(); err != nil {
					return nil, err
				}
			}
			fileStorage = session.NewFileStorage(path)
			storage = fileStorage
		}
	}

	// -------- MEALS --------
	loc, err := cfg.Meals.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	windows, err := cfg.Meals.MealWindows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// -------- DESK --------
	sink := b.noticeSink
	if sink == nil {
		sink = LogSink{Logger: logger}
	}
	desk := &Desk{
		config:  cfg,
		store:   session.NewStore(storage),
		tokens:  tokens,
		notices: newNoticeDispatcher(cfg.Notices, sink),
		metrics: NewMetrics(cfg.Metrics),
		log:     logger,
		nav:     b.navigator,
		now:     now,
		board:   campus.NewBoard(nil),
		choices: campus.NewChoiceBook(loc),
		loc:     loc,
		windows: windows,
	}
	desk.store.OnTransition(func(a session.Action, s session.Session) {
		logger.Debug("session transition",
			zap.Stringer("kind", a.Kind),
			zap.Stringer("op", a.Op),
			zap.Stringer("phase", s.Phase()))
	})

	client, err := api.New(api.Options{
		BaseURL:        cfg.API.BaseURL,
		HTTPClient:     b.httpClient,
		Timeout:        cfg.API.Timeout,
		Tokens:         api.TokenFunc(desk.store.Token),
		OnUnauthorized: desk.handleUnauthorized,
		Observer:       desk.metrics,
		Logger:         logger,
		UserAgent:      cfg.API.UserAgent,
	})
	if err != nil {
		desk.notices.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	desk.client = client

	if fileStorage != nil && cfg.Storage.Watch {
		if err := desk.watchStorage(fileStorage); err != nil {
			logger.Warn("session file not watched", zap.String("path", fileStorage.Path()), zap.Error(err))
		}
	}

	b.built = true

	return desk, nil
}
