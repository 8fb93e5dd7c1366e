package family

import (
	"context"
	"errors"
	"sync"
	"time"

	"family-sync/core/cache"
	"family-sync/core/model"
	"family-sync/core/reconcile"
	"family-sync/core/remote"
	"family-sync/core/session"

	"go.uber.org/zap"
)

// remoteAPI is the slice of the remote client this feature consumes.
type remoteAPI interface {
	FetchUsers(ctx context.Context) remote.Result[[]model.User]
	FetchStatuses(ctx context.Context) remote.Result[[]model.PresenceStatus]
	UpsertStatus(ctx context.Context, st model.PresenceStatus) error
}

// cacheAPI is the slice of the local cache this feature consumes.
type cacheAPI interface {
	Users(ctx context.Context) ([]model.User, error)
	SaveUsers(ctx context.Context, users []model.User) error
	Statuses(ctx context.Context) ([]model.PresenceStatus, error)
	SaveStatuses(ctx context.Context, statuses []model.PresenceStatus) error
}

// Member is a family member with their derived presence state.
type Member struct {
	User   model.User `json:"user"`
	Status Status     `json:"status"`
}

// MapPoint is one pin on the family map.
type MapPoint struct {
	User     model.User     `json:"user"`
	Position model.Position `json:"position"`
	Status   Status         `json:"status"`
}

// Service assembles the family and map screens' aggregates.
type Service struct {
	remote  remoteAPI
	cache   cacheAPI
	session session.Provider
	cfg     Config
	logger  *zap.Logger
}

// NewService creates a new family service.
func NewService(rc remoteAPI, store cacheAPI, sess session.Provider, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		remote:  rc,
		cache:   store,
		session: sess,
		cfg:     cfg,
		logger:  logger,
	}
}

// fetchJoined reconciles users and statuses concurrently. A missing status
// collection is tolerated (members read as offline); missing users mean
// there is nothing to show.
func (s *Service) fetchJoined(ctx context.Context) ([]model.User, []model.PresenceStatus, error) {
	var (
		users    []model.User
		statuses []model.PresenceStatus
		uErr     error
		stErr    error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		users, uErr = reconcile.Resolve(s.remote.FetchUsers(ctx),
			func(v []model.User) error { return s.cache.SaveUsers(ctx, v) },
			func() ([]model.User, error) { return s.cache.Users(ctx) })
	}()
	go func() {
		defer wg.Done()
		statuses, stErr = reconcile.Resolve(s.remote.FetchStatuses(ctx),
			func(v []model.PresenceStatus) error { return s.cache.SaveStatuses(ctx, v) },
			func() ([]model.PresenceStatus, error) { return s.cache.Statuses(ctx) })
	}()
	wg.Wait()

	if uErr != nil && !errors.Is(uErr, cache.ErrDataNotFound) {
		return nil, nil, uErr
	}
	if stErr != nil && !errors.Is(stErr, cache.ErrDataNotFound) {
		return nil, nil, stErr
	}
	return users, statuses, nil
}

// Members returns every family member with a derived status. A member with
// no presence row yet is offline since unknown.
func (s *Service) Members(ctx context.Context) ([]Member, error) {
	users, statuses, err := s.fetchJoined(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int]model.PresenceStatus, len(statuses))
	for _, st := range statuses {
		byUser[st.UserID] = st
	}

	now := time.Now().UTC()
	members := make([]Member, 0, len(users))
	for _, u := range users {
		st, ok := byUser[u.ID]
		if !ok {
			members = append(members, Member{User: u, Status: Status{Kind: StatusOffline}})
			continue
		}
		members = append(members, Member{User: u, Status: DeriveStatus(st, s.cfg, now)})
	}
	return members, nil
}

// Positions returns the map pins. A status referencing a user missing from
// the directory is dropped, never surfaced as an error.
func (s *Service) Positions(ctx context.Context) ([]MapPoint, error) {
	users, statuses, err := s.fetchJoined(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	now := time.Now().UTC()
	points := make([]MapPoint, 0, len(statuses))
	for _, st := range statuses {
		u, ok := byID[st.UserID]
		if !ok {
			continue
		}
		points = append(points, MapPoint{
			User:     u,
			Position: st.Position,
			Status:   DeriveStatus(st, s.cfg, now),
		})
	}
	return points, nil
}

// ReportStatus upserts the signed-in account's presence row. This is the
// inbound surface for the presence pinger; failures propagate.
func (s *Service) ReportStatus(ctx context.Context, lat, lng float64) error {
	acc := s.session.Account()
	if acc == nil {
		return session.ErrNotSignedIn
	}
	return s.remote.UpsertStatus(ctx, model.PresenceStatus{
		UserID:     acc.ID,
		LastOnline: model.FormatTime(time.Now()),
		Position:   model.Position{Latitude: lat, Longitude: lng},
	})
}
