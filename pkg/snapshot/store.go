package snapshot

import (
	"context"
	"os"
	"time"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/utils/cache"
	"github.com/mpapenbr/league-results/pkg/utils/cache/loadercache"
)

type (
	loaded struct {
		league  *League
		modTime time.Time
		size    int64
	}
	StoreOption func(*Store)
	// Store keeps loaded league files until they change on disk.
	Store struct {
		c cache.Cache[string, loaded]
		l *log.Logger
	}
)

func WithStoreLogger(l *log.Logger) StoreOption {
	return func(s *Store) {
		s.l = l
	}
}

func NewStore(opts ...StoreOption) *Store {
	ret := &Store{l: log.Default().Named("snapshot")}
	for _, opt := range opts {
		opt(ret)
	}
	ret.c = loadercache.New[string, loaded](
		loadercache.WithLoader[string, loaded](ret.load),
		loadercache.WithValidator[string, loaded](unchanged),
		loadercache.WithExpiration[string, loaded](0),
		loadercache.WithLogger[string, loaded](ret.l.Named("cache")),
	)
	return ret
}

// Get returns the league stored at path. The returned value is shared and
// must not be modified, use Load for a private copy.
func (s *Store) Get(ctx context.Context, path string) (*League, error) {
	v, err := s.c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return v.league, nil
}

func (s *Store) Invalidate(ctx context.Context, path string) {
	s.c.Invalidate(ctx, path)
}

func (s *Store) load(_ context.Context, path string) (*loaded, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	league, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.l.Debug("loaded league", log.String("path", path), log.Int("races", len(league.Races)))
	return &loaded{league: league, modTime: fi.ModTime(), size: fi.Size()}, nil
}

func unchanged(path string, v *loaded) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.ModTime().Equal(v.modTime) && fi.Size() == v.size
}
