package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/oksasatya/petaverse-auth/internal/domain/entity"
	repo "github.com/oksasatya/petaverse-auth/internal/domain/repository"
	"github.com/oksasatya/petaverse-auth/pkg/helpers"
)

// OTPMessage is what the mail side needs to deliver a verification code.
type OTPMessage struct {
	Email string
	Name  string
	Code  string
}

// OTPSender delivers verification codes. Delivery is best effort.
type OTPSender interface {
	SendOTP(ctx context.Context, msg OTPMessage) error
}

// UserDocument is the searchable projection of a user; it carries no credentials.
type UserDocument struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Country    string `json:"country"`
	IsVerified bool   `json:"isVerified"`
}

// UserIndexer keeps a search index of users in sync with the store.
type UserIndexer interface {
	Index(ctx context.Context, doc UserDocument) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]UserDocument, error)
}

// Archiver keeps a copy of deleted accounts.
type Archiver interface {
	ArchiveDeleted(ctx context.Context, u *entity.User) error
}

// Service is the user lifecycle: register, verify, login, profile changes and deletion.
// Optional collaborators (Indexer, Archiver) are skipped when nil.
type Service struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Mailer   OTPSender
	Indexer  UserIndexer
	Archiver Archiver
	Logger   *logrus.Logger
	Tracer   trace.Tracer

	// GenerateOTP produces verification codes; helpers.GenOTPCode by default.
	GenerateOTP func() (string, error)

	mail sync.WaitGroup
}

func NewService(repo repo.UserRepository, jwt *helpers.JWTManager, mailer OTPSender, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &Service{
		Repo:        repo,
		JWT:         jwt,
		Mailer:      mailer,
		Logger:      logger,
		Tracer:      noop.NewTracerProvider().Tracer(""),
		GenerateOTP: helpers.GenOTPCode,
	}
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	DateOfBirth time.Time
	Country     string
}

type VerifyInput struct {
	Email string
	Code  string
}

type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput carries optional replacements; zero values keep the stored field.
type UpdateProfileInput struct {
	Name        string
	DateOfBirth *time.Time
	Country     string
}

// Session is an issued bearer token for an authenticated user.
type Session struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

func (s *Service) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.Tracer.Start(ctx, "user."+op)
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("auth.error_kind", KindOf(err).String()))
		if KindOf(err) == KindInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

// Register creates a Pending user and dispatches the OTP mail without waiting for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (u *entity.User, err error) {
	ctx, span := s.start(ctx, "register")
	defer func() { finish(span, err) }()

	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, ErrUserExists
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, internal("lookup user", err)
	}

	code, err := s.GenerateOTP()
	if err != nil {
		return nil, internal("generate otp", err)
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, internal("hash password", err)
	}

	u = &entity.User{
		Name:              in.Name,
		Email:             in.Email,
		Password:          hash,
		DateOfBirth:       in.DateOfBirth,
		Country:           in.Country,
		VerificationToken: &code,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration for the same email
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, internal("create user", err)
	}
	stats.Add(statRegistered, 1)
	span.SetAttributes(attribute.String("user.id", u.ID))

	s.index(ctx, u)
	s.dispatchOTP(ctx, OTPMessage{Email: u.Email, Name: u.Name, Code: code})
	return u, nil
}

// Verify consumes the OTP, activates the account and issues a session token.
func (s *Service) Verify(ctx context.Context, in VerifyInput) (sess *Session, err error) {
	ctx, span := s.start(ctx, "verify")
	defer func() { finish(span, err) }()

	u, err := s.Repo.GetByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFoundEmail(in.Email)
	}
	if err != nil {
		return nil, internal("lookup user", err)
	}
	if !helpers.CompareOTP(in.Code, u.VerificationToken) {
		stats.Add(statVerifyRejected, 1)
		return nil, ErrInvalidOTP
	}

	// a concurrent verify may have consumed the code since the read
	err = s.Repo.Activate(ctx, u, in.Code)
	if errors.Is(err, repo.ErrNotFound) {
		stats.Add(statVerifyRejected, 1)
		return nil, ErrInvalidOTP
	}
	if err != nil {
		return nil, internal("activate user", err)
	}
	stats.Add(statVerified, 1)
	s.index(ctx, u)

	return s.issue(u)
}

// Login checks the password and phase of the account and issues a session token.
// Unknown email, wrong password and unverified account are reported distinctly.
func (s *Service) Login(ctx context.Context, in LoginInput) (sess *Session, err error) {
	ctx, span := s.start(ctx, "login")
	defer func() { finish(span, err) }()

	u, err := s.Repo.GetByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) {
		stats.Add(statLoginRejected, 1)
		return nil, ErrLoginUserNotFound
	}
	if err != nil {
		return nil, internal("lookup user", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, in.Password) {
		stats.Add(statLoginRejected, 1)
		return nil, ErrInvalidCredentials
	}
	if u.Phase() != entity.PhaseActive {
		stats.Add(statLoginRejected, 1)
		return nil, ErrUserNotVerified
	}
	stats.Add(statLoginOK, 1)
	return s.issue(u)
}

func (s *Service) issue(u *entity.User) (*Session, error) {
	token, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, internal("generate token", err)
	}
	return &Session{User: u, Token: token, ExpiresAt: exp}, nil
}

// UpdateProfile replaces name, date of birth and country when a non-empty value is supplied.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (u *entity.User, err error) {
	ctx, span := s.start(ctx, "update_profile")
	defer func() { finish(span, err) }()

	u, err = s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		// the guard resolved this id moments ago
		s.Logger.WithField("user_id", userID).Warn("authenticated user vanished before profile update")
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, internal("lookup user", err)
	}

	if in.Name != "" {
		u.Name = in.Name
	}
	if in.DateOfBirth != nil && !in.DateOfBirth.IsZero() {
		u.DateOfBirth = *in.DateOfBirth
	}
	if in.Country != "" {
		u.Country = in.Country
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internal("update user", err)
	}
	stats.Add(statProfileUpdated, 1)
	s.index(ctx, u)
	return u, nil
}

// Delete removes the account registered under email, whoever the caller is.
func (s *Service) Delete(ctx context.Context, email string) (u *entity.User, err error) {
	ctx, span := s.start(ctx, "delete")
	defer func() { finish(span, err) }()

	u, err = s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFoundEmail(email)
	}
	if err != nil {
		return nil, internal("lookup user", err)
	}
	if err := s.Repo.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errNotFoundEmail(email)
		}
		return nil, internal("delete user", err)
	}
	stats.Add(statDeleted, 1)

	if s.Indexer != nil {
		if ierr := s.Indexer.Remove(ctx, u.ID); ierr != nil {
			s.Logger.WithError(ierr).WithField("user_id", u.ID).Warn("remove from index failed")
		}
	}
	if s.Archiver != nil {
		if aerr := s.Archiver.ArchiveDeleted(ctx, u); aerr != nil {
			s.Logger.WithError(aerr).WithField("user_id", u.ID).Warn("archive deleted user failed")
		}
	}
	return u, nil
}

// GetProfile reloads the authenticated user.
func (s *Service) GetProfile(ctx context.Context, userID string) (u *entity.User, err error) {
	ctx, span := s.start(ctx, "get_profile")
	defer func() { finish(span, err) }()

	u, err = s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, internal("lookup user", err)
	}
	return u, nil
}

// ListAll returns every stored record unfiltered.
func (s *Service) ListAll(ctx context.Context) (users []entity.User, err error) {
	ctx, span := s.start(ctx, "list_all")
	defer func() { finish(span, err) }()

	users, err = s.Repo.List(ctx)
	if err != nil {
		return nil, internal("list users", err)
	}
	return users, nil
}

// SearchUsers queries the user index. Without an index it returns no hits.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) (docs []UserDocument, err error) {
	ctx, span := s.start(ctx, "search")
	defer func() { finish(span, err) }()

	if s.Indexer == nil {
		return []UserDocument{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	docs, err = s.Indexer.Search(ctx, q, size)
	if err != nil {
		return nil, internal("search users", err)
	}
	return docs, nil
}

func (s *Service) index(ctx context.Context, u *entity.User) {
	if s.Indexer == nil {
		return
	}
	doc := UserDocument{ID: u.ID, Name: u.Name, Email: u.Email, Country: u.Country, IsVerified: u.IsVerified}
	if err := s.Indexer.Index(ctx, doc); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
	}
}

// dispatchOTP sends the code on its own goroutine; failures are logged and dropped.
func (s *Service) dispatchOTP(ctx context.Context, msg OTPMessage) {
	if s.Mailer == nil {
		s.Logger.WithField("email", msg.Email).Warn("no otp mailer configured")
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.mail.Add(1)
	go func() {
		defer s.mail.Done()
		if err := s.Mailer.SendOTP(ctx, msg); err != nil {
			stats.Add(statOTPMailFailed, 1)
			s.Logger.WithError(err).WithField("email", msg.Email).Error("error sending otp email")
			return
		}
		s.Logger.WithField("email", msg.Email).Info("otp email dispatched")
	}()
}

// Drain blocks until every in-flight OTP mail has finished or ctx is done.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.mail.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
