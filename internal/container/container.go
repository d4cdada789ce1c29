package container

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/oksasatya/petaverse-auth/config"
	"github.com/oksasatya/petaverse-auth/internal/application"
	repo "github.com/oksasatya/petaverse-auth/internal/domain/repository"
	esinfra "github.com/oksasatya/petaverse-auth/internal/infrastructure/elasticsearch"
	gcsinfra "github.com/oksasatya/petaverse-auth/internal/infrastructure/gcs"
	"github.com/oksasatya/petaverse-auth/internal/infrastructure/mail"
	"github.com/oksasatya/petaverse-auth/pkg/helpers"
	"github.com/oksasatya/petaverse-auth/pkg/mailer"
	"github.com/oksasatya/petaverse-auth/pkg/telemetry"
)

// Container holds the components built once at startup and shared by the
// router modules. Redis, Telemetry and the optional clients may be nil.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
	Cookies *helpers.Manager
	Service *application.Service
	Redis   *redis.Client
	Tracer  trace.Tracer

	Telemetry *telemetry.Telemetry
	ES        *elasticsearch.Client
	GCS       *storage.Client
	RabbitPub *helpers.RabbitPublisher

	closers []func(context.Context) error
}

// New wires the service around an already opened store. It is what tests use.
func New(cfg *config.Config, logger *logrus.Logger, users repo.UserRepository, sender application.OTPSender) *Container {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	svc := application.NewService(users, jwt, sender, logger)
	return &Container{
		Config:  cfg,
		Logger:  logger,
		Users:   users,
		JWT:     jwt,
		Cookies: helpers.NewCookie(cfg.CookieDomain),
		Service: svc,
		Tracer:  noop.NewTracerProvider().Tracer(""),
	}
}

// Build opens every configured backend and returns the wired container.
// On error whatever was already opened is closed.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (c *Container, err error) {
	var closers []func(context.Context) error
	defer func() {
		if err != nil {
			closeAll(ctx, closers)
		}
	}()

	tel, err := telemetry.New(ctx, telemetry.Options{
		Enabled:     cfg.OtelEnabled,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		SampleRate:  cfg.OtelSampleRate,
		ServiceName: cfg.AppName,
		Environment: cfg.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	closers = append(closers, tel.Shutdown)

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, store.Close)

	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if rdb != nil {
		closers = append(closers, func(context.Context) error { return rdb.Close() })
	} else {
		logger.Warn("REDIS_ADDR not set; rate limiting disabled")
	}

	sender, pub, err := newOTPSender(cfg, logger)
	if err != nil {
		return nil, err
	}
	if pub != nil {
		closers = append(closers, func(context.Context) error { pub.Close(); return nil })
	}

	c = New(cfg, logger, store.Users, sender)
	c.Telemetry = tel
	c.Tracer = tel.Tracer
	c.Service.Tracer = tel.Tracer
	c.Redis = rdb
	c.RabbitPub = pub

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: %w", err)
	}
	if es != nil {
		c.ES = es
		c.Service.Indexer = esinfra.NewUserIndex(es, cfg.ESUsersIndex)
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		closers = append(closers, func(context.Context) error { return gcs.Close() })
		c.GCS = gcs
		c.Service.Archiver = gcsinfra.NewArchive(gcs, cfg.GCSBucket)
	}

	c.closers = closers
	return c, nil
}

func newOTPSender(cfg *config.Config, logger *logrus.Logger) (application.OTPSender, *helpers.RabbitPublisher, error) {
	branding := mail.Branding{AppName: cfg.AppName, CompanyName: cfg.CompanyName}
	if !cfg.MailSendEnabled {
		logger.Warn("MAIL_SEND_ENABLED=false; otp mails are logged, not sent")
		return &mail.LogSender{Logger: logger}, nil, nil
	}
	switch cfg.MailTransport {
	case config.MailQueue:
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return &mail.QueueSender{Pub: pub, Branding: branding}, pub, nil
	default:
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		return &mail.DirectSender{Client: mg, Branding: branding}, nil, nil
	}
}

// Close waits for in-flight OTP mails, then releases every backend in reverse order.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.Service != nil {
		if err := c.Service.Drain(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain otp mails: %w", err))
		}
	}
	if err := closeAll(ctx, c.closers); err != nil {
		errs = append(errs, err)
	}
	c.closers = nil
	return errors.Join(errs...)
}

func closeAll(ctx context.Context, closers []func(context.Context) error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
