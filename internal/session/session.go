package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitdash-session||"
	tokensSetKey     = "fitdash-sessions"

	fieldUsername    = "username"
	fieldCreatedAt   = "created_at"
	fieldProfileMenu = "profile_menu"

	maxUsernameLength = 64
)

var (
	ErrEmptyUsername   = errors.New("username empty")
	ErrUsernameTooLong = errors.New("username too long")
	ErrSessionNotFound = errors.New("session not found")
)

// Page is the view the dashboard client shows.
type Page string

const (
	PageLogin     Page = "login"
	PageDashboard Page = "dashboard"
)

type View struct {
	Page            Page   `json:"page"`
	Username        string `json:"username,omitempty"`
	ProfileMenuOpen bool   `json:"profileMenuOpen"`
}

var loginView = View{Page: PageLogin}

// Service keeps dashboard sessions in redis. Logging in is a view switch:
// any non-empty username gets a session, no credentials are checked.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// injectable for tests
	RandStringFunc func(s int) (string, error)
	Now            func() time.Time
}

func NewService(ttl time.Duration, redisClient *redis.Client) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
		Now:            time.Now,
	}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (s *Service) Login(ctx context.Context, username string) (_ string, err error) {
	ctx, span := tracing.Start(ctx, "session.login")
	defer func() { tracing.EndSpan(span, err) }()

	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrEmptyUsername
	}
	if len(username) > maxUsernameLength {
		return "", ErrUsernameTooLong
	}

	token, err := s.RandStringFunc(35)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	createdAt := strconv.FormatInt(s.Now().Unix(), 10)
	if err := s.redisClient.HSet(ctx, sessionKey(token),
		fieldUsername, username,
		fieldCreatedAt, createdAt,
		fieldProfileMenu, "0",
	).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("add session to set: %w", err)
	}

	return token, nil
}

// Logout drops the session. It reports whether the session existed.
func (s *Service) Logout(ctx context.Context, token string) (_ bool, err error) {
	ctx, span := tracing.Start(ctx, "session.logout")
	defer func() { tracing.EndSpan(span, err) }()

	deleted, err := s.redisClient.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}

	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, fmt.Errorf("remove session from set: %w", err)
	}

	return deleted > 0, nil
}

// View returns what the client should render for the given token: the
// login page for unknown or expired sessions, the dashboard otherwise.
func (s *Service) View(ctx context.Context, token string) (_ View, err error) {
	ctx, span := tracing.Start(ctx, "session.view")
	defer func() { tracing.EndSpan(span, err) }()

	if token == "" {
		return loginView, nil
	}

	fields, err := s.redisClient.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return View{}, fmt.Errorf("get session: %w", err)
	}
	if len(fields) == 0 {
		return loginView, nil
	}

	expired, err := s.expired(fields[fieldCreatedAt])
	if err != nil {
		return View{}, err
	}
	if expired {
		return loginView, nil
	}

	return View{
		Page:            PageDashboard,
		Username:        fields[fieldUsername],
		ProfileMenuOpen: fields[fieldProfileMenu] == "1",
	}, nil
}

// ToggleProfileMenu flips the profile dropdown and returns whether it is now open.
func (s *Service) ToggleProfileMenu(ctx context.Context, token string) (_ bool, err error) {
	ctx, span := tracing.Start(ctx, "session.toggleProfileMenu")
	defer func() { tracing.EndSpan(span, err) }()

	current, err := s.redisClient.HGet(ctx, sessionKey(token), fieldProfileMenu).Result()
	if errors.Is(err, redis.Nil) {
		return false, ErrSessionNotFound
	}
	if err != nil {
		return false, fmt.Errorf("get profile menu state: %w", err)
	}

	open := current != "1"
	if err := s.redisClient.HSet(ctx, sessionKey(token), fieldProfileMenu, boolField(open)).Err(); err != nil {
		return false, fmt.Errorf("set profile menu state: %w", err)
	}

	return open, nil
}

// CloseProfileMenu is what a click outside of the dropdown does.
func (s *Service) CloseProfileMenu(ctx context.Context, token string) (err error) {
	ctx, span := tracing.Start(ctx, "session.closeProfileMenu")
	defer func() { tracing.EndSpan(span, err) }()

	exists, err := s.redisClient.Exists(ctx, sessionKey(token)).Result()
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if exists == 0 {
		return ErrSessionNotFound
	}

	if err := s.redisClient.HSet(ctx, sessionKey(token), fieldProfileMenu, boolField(false)).Err(); err != nil {
		return fmt.Errorf("set profile menu state: %w", err)
	}
	return nil
}

func (s *Service) IsLogged(ctx context.Context, token string) (bool, error) {
	createdAt, err := s.redisClient.HGet(ctx, sessionKey(token), fieldCreatedAt).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	expired, err := s.expired(createdAt)
	if err != nil {
		return false, err
	}
	return !expired, nil
}

// ScanAndClean runs through all sessions, drops the ones older than the TTL
// and returns their tokens.
func (s *Service) ScanAndClean(ctx context.Context) []string {
	tokens, err := s.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("!!! session service, scan and clean, get sessions: %s", err)
		return nil
	}

	if len(tokens) == 0 {
		log.Debugln("=> session service, scan and clean abort, no sessions")
		return nil
	}

	log.Debugf("=> session service, scan and clean [%d sessions] start ...", len(tokens))
	var toRemove []string
	for _, token := range tokens {
		createdAt, err := s.redisClient.HGet(ctx, sessionKey(token), fieldCreatedAt).Result()
		if errors.Is(err, redis.Nil) {
			// stale set member, the session hash is already gone
			toRemove = append(toRemove, token)
			continue
		}
		if err != nil {
			log.Errorf("=> session service, scan and clean token %s: %s", token, err)
			continue
		}

		expired, err := s.expired(createdAt)
		if err != nil {
			log.Errorf("=> session service, scan and clean token %s: %s", token, err)
			continue
		}
		if expired {
			toRemove = append(toRemove, token)
		}
	}

	var removed []string
	for _, token := range toRemove {
		if err := s.redisClient.Del(ctx, sessionKey(token)).Err(); err != nil {
			log.Errorf("=> session service, clean token %s: %s", token, err)
			continue
		}
		if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> session service, clean token %s: %s", token, err)
			continue
		}
		removed = append(removed, token)
	}

	log.Debugf("=> session service, scan and clean done, removed %d sessions", len(removed))
	return removed
}

func (s *Service) expired(createdAtUnixStr string) (bool, error) {
	createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse session created at: %w", err)
	}
	return s.Now().Sub(time.Unix(createdAtUnix, 0)) > s.ttl, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
