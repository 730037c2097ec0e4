package infra

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// ErrTicketInvalido covers unknown, expired and already used tickets.
var ErrTicketInvalido = errors.New("ticket invalido o expirado")

// TicketGrant is what a download ticket gives access to.
type TicketGrant struct {
	UsuarioID     int64
	RecaudacionID int64
	FicheroID     int64
}

func (g TicketGrant) encode() string {
	return fmt.Sprintf("%d:%d:%d", g.UsuarioID, g.RecaudacionID, g.FicheroID)
}

func decodeGrant(s string) (TicketGrant, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return TicketGrant{}, ErrTicketInvalido
	}
	var ids [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return TicketGrant{}, ErrTicketInvalido
		}
		ids[i] = n
	}
	return TicketGrant{UsuarioID: ids[0], RecaudacionID: ids[1], FicheroID: ids[2]}, nil
}

// TicketStore issues single-use download tickets.
type TicketStore interface {
	Issue(ctx context.Context, g TicketGrant, ttl time.Duration) (string, error)
	// Redeem consumes the ticket; a second call fails with ErrTicketInvalido.
	Redeem(ctx context.Context, ticket string) (TicketGrant, error)
}

const ticketKeyPrefix = "recauda:ticket:"

type redisTickets struct{ rdb *redis.Client }

func NewRedisTicketStore(rdb *redis.Client) TicketStore { return &redisTickets{rdb: rdb} }

func (s *redisTickets) Issue(ctx context.Context, g TicketGrant, ttl time.Duration) (string, error) {
	t := uuid.NewString()
	if err := s.rdb.Set(ctx, ticketKeyPrefix+t, g.encode(), ttl).Err(); err != nil {
		return "", fmt.Errorf("ticket: guardar: %w", err)
	}
	return t, nil
}

func (s *redisTickets) Redeem(ctx context.Context, ticket string) (TicketGrant, error) {
	v, err := s.rdb.GetDel(ctx, ticketKeyPrefix+ticket).Result()
	if errors.Is(err, redis.Nil) {
		return TicketGrant{}, ErrTicketInvalido
	}
	if err != nil {
		return TicketGrant{}, fmt.Errorf("ticket: canjear: %w", err)
	}
	return decodeGrant(v)
}

// memTickets keeps tickets in process memory when no redis is configured.
type memTickets struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]memTicket
}

type memTicket struct {
	grant   TicketGrant
	expires time.Time
}

func NewMemoryTicketStore() TicketStore {
	return &memTickets{now: time.Now, items: map[string]memTicket{}}
}

func (s *memTickets) Issue(_ context.Context, g TicketGrant, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, v := range s.items {
		if now.After(v.expires) {
			delete(s.items, k)
		}
	}
	t := uuid.NewString()
	s.items[t] = memTicket{grant: g, expires: now.Add(ttl)}
	return t, nil
}

func (s *memTickets) Redeem(_ context.Context, ticket string) (TicketGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[ticket]
	if !ok {
		return TicketGrant{}, ErrTicketInvalido
	}
	delete(s.items, ticket)
	if s.now().After(v.expires) {
		return TicketGrant{}, ErrTicketInvalido
	}
	return v.grant, nil
}
