package matching

import (
	"context"
	"sort"

	"github.com/albertle/networkx/models"
)

// PersistFunc durably records a user's post-mutation state. It runs
// inside the user's mutation scope but before the in-memory commit, so
// a persistence failure leaves the store and index untouched.
type PersistFunc func(ctx context.Context, user *models.User) error

// Service wires the profile store, tag index, scoring engine, and
// coordinator into the matching core. One instance is owned by the
// process and passed to the flows; there is no ambient global state.
type Service struct {
	cfg    Config
	store  *Store
	index  *TagIndex
	engine *Engine
	coord  *Coordinator
}

// NewService validates cfg and builds an empty matching core.
func NewService(cfg Config) (*Service, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:    cfg,
		store:  NewStore(),
		index:  NewTagIndex(),
		engine: engine,
		coord:  NewCoordinator(),
	}, nil
}

// Engine exposes the scoring engine for callers that need breakdowns.
func (s *Service) Engine() *Engine { return s.engine }

// Config returns the active matching configuration.
func (s *Service) Config() Config { return s.cfg }

// Get returns a consistent snapshot of one user.
func (s *Service) Get(username string) (*models.User, error) {
	var u *models.User
	err := s.coord.Snapshot(func() error {
		var err error
		u, err = s.store.Get(username)
		return err
	})
	return u, err
}

// Register creates a user and indexes its tags in one atomic step.
// persist, when non-nil, writes the durable record first; the
// in-memory state is only committed once persistence succeeds.
func (s *Service) Register(ctx context.Context, user *models.User, persist PersistFunc) error {
	u := user.Clone()
	u.Tags = models.NormalizeTags(u.Tags)

	return s.coord.WithUser(u.Username, func() error {
		if _, err := s.store.Get(u.Username); err == nil {
			return ErrConflict
		}
		if persist != nil {
			if err := persist(ctx, u); err != nil {
				return err
			}
		}
		return s.coord.Commit(func() error {
			if err := s.store.Create(u); err != nil {
				return err
			}
			for _, tag := range u.Tags {
				s.index.Add(u.Username, u.Role, tag)
			}
			registeredUsers.Set(float64(s.store.Len()))
			indexedTags.Set(float64(s.index.TagCount()))
			return nil
		})
	})
}

// Update applies an attribute or tag-set mutation under the user's
// exclusive scope. mutate receives a copy of the current state;
// identity and role are immutable and survive any attempt to change
// them. The profile store and tag index are updated atomically.
func (s *Service) Update(ctx context.Context, username string, mutate func(*models.User) error, persist PersistFunc) (*models.User, error) {
	var updated *models.User

	err := s.coord.WithUser(username, func() error {
		current, err := s.store.Get(username)
		if err != nil {
			return err
		}

		next := current.Clone()
		if err := mutate(next); err != nil {
			return err
		}

		// Identity, role, and credentials are not mutable through this path.
		next.Username = current.Username
		next.Role = current.Role
		next.PasswordHash = current.PasswordHash
		next.CreatedAt = current.CreatedAt
		if next.Role == models.RoleCreator {
			next.Sponsor = nil
		} else {
			next.Creator = nil
		}
		next.Tags = models.NormalizeTags(next.Tags)

		if persist != nil {
			if err := persist(ctx, next); err != nil {
				return err
			}
		}

		return s.coord.Commit(func() error {
			if err := s.store.Replace(next); err != nil {
				return err
			}
			s.reindex(next, current.Tags)
			updated = next.Clone()
			indexedTags.Set(float64(s.index.TagCount()))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetTags reconciles the user's tag set to exactly tags. This is the
// mutation path behind match queries that submit their full desired
// tag set.
func (s *Service) SetTags(ctx context.Context, username string, tags []string, persist PersistFunc) (*models.User, error) {
	return s.Update(ctx, username, func(u *models.User) error {
		u.Tags = tags
		return nil
	}, persist)
}

// AddTag adds one tag; adding a tag the user already holds is a no-op.
func (s *Service) AddTag(ctx context.Context, username, tag string, persist PersistFunc) (*models.User, error) {
	return s.Update(ctx, username, func(u *models.User) error {
		u.Tags = append(u.Tags, tag)
		return nil
	}, persist)
}

// RemoveTag removes one tag; removing an absent tag is a no-op.
func (s *Service) RemoveTag(ctx context.Context, username, tag string, persist PersistFunc) (*models.User, error) {
	tag = models.NormalizeTag(tag)
	return s.Update(ctx, username, func(u *models.User) error {
		kept := u.Tags[:0]
		for _, t := range u.Tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		u.Tags = kept
		return nil
	}, persist)
}

// reindex applies the tag-set delta between oldTags and user.Tags.
func (s *Service) reindex(user *models.User, oldTags []string) {
	oldSet := make(map[string]struct{}, len(oldTags))
	for _, t := range oldTags {
		oldSet[t] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(user.Tags))
	for _, t := range user.Tags {
		newSet[t] = struct{}{}
		if _, had := oldSet[t]; !had {
			s.index.Add(user.Username, user.Role, t)
		}
	}
	for _, t := range oldTags {
		if _, still := newSet[t]; !still {
			s.index.Remove(user.Username, t)
		}
	}
}

// Warm bulk-loads users into the store and index at startup, before
// the process accepts traffic.
func (s *Service) Warm(users []*models.User) error {
	for _, u := range users {
		cp := u.Clone()
		cp.Tags = models.NormalizeTags(cp.Tags)
		if err := s.store.Create(cp); err != nil {
			return err
		}
		for _, tag := range cp.Tags {
			s.index.Add(cp.Username, cp.Role, tag)
		}
	}
	registeredUsers.Set(float64(s.store.Len()))
	indexedTags.Set(float64(s.index.TagCount()))
	return nil
}

// FindMatches ranks the best-fit counterparts for username.
//
// The subject and its candidate set are gathered under one snapshot;
// scoring, thresholding, and ranking run outside any lock. Candidates
// come from the tag index union; a subject with no tags falls back to
// a full scan of the opposite role, since tags narrow the search but
// must never exclude every candidate. Results are ordered by score
// descending, then username ascending, truncated to limit (the
// configured maximum when limit <= 0).
func (s *Service) FindMatches(ctx context.Context, username string, limit int) ([]models.Match, error) {
	if limit <= 0 || limit > s.cfg.MaxResults {
		limit = s.cfg.MaxResults
	}

	var subject *models.User
	var candidates []*models.User

	err := s.coord.Snapshot(func() error {
		var err error
		subject, err = s.store.Get(username)
		if err != nil {
			return err
		}

		opposite := subject.Role.Opposite()
		if len(subject.Tags) == 0 {
			candidates = s.store.AllByRole(opposite, username)
			return nil
		}
		for _, name := range s.index.CandidatesForTags(subject.Tags, opposite, username) {
			u, err := s.store.Get(name)
			if err != nil {
				continue
			}
			candidates = append(candidates, u)
		}
		return nil
	})
	if err != nil {
		matchQueriesTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	matches := make([]models.Match, 0, len(candidates))
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			matchQueriesTotal.WithLabelValues("cancelled").Inc()
			return nil, err
		}
		score, err := s.engine.Score(subject, cand)
		if err != nil {
			return nil, err
		}
		if score < s.cfg.MinScore {
			continue
		}
		matches = append(matches, models.MatchSummary(cand, score))
	}
	candidatesScored.Observe(float64(len(candidates)))

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return matches[a].Username < matches[b].Username
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	matchQueriesTotal.WithLabelValues("ok").Inc()
	return matches, nil
}
