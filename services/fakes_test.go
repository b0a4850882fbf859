package services

import (
	"context"
	"io"
	"sync"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/repositories"
	"github.com/Dosada05/school-tournament/storage"
)

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	order   []string
	matches map[string]models.Match
	listErr error
}

func newFakeMatchRepo(seed ...models.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: make(map[string]models.Match)}
	for _, m := range seed {
		r.put(m)
	}
	return r
}

func (r *fakeMatchRepo) put(m models.Match) {
	if _, ok := r.matches[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.matches[m.ID] = m
}

func (r *fakeMatchRepo) get(id string) models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matches[id]
}

func (r *fakeMatchRepo) all() []models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Match, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.matches[id])
	}
	return out
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[match.ID]; ok {
		return repositories.ErrMatchAlreadyExists
	}
	if s, ok := match.Slot(); ok {
		for _, other := range r.matches {
			if os, has := other.Slot(); has && os == s {
				return repositories.ErrMatchSlotTaken
			}
		}
	}
	r.put(*match)
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &m, nil
}

func (r *fakeMatchRepo) List(ctx context.Context, exec repositories.SQLExecutor, filter repositories.MatchFilter) ([]models.Match, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Match, 0)
	for _, m := range r.all() {
		if filter.Key != nil && m.BracketKey() != *filter.Key {
			continue
		}
		if filter.Key == nil && filter.Discipline != "" && m.Discipline != filter.Discipline {
			continue
		}
		if filter.State != "" && m.State != filter.State {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMatchRepo) update(id string, apply func(*models.Match)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	apply(&m)
	r.matches[id] = m
	return nil
}

func (r *fakeMatchRepo) UpdateSlot(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if s, ok := match.Slot(); ok {
		for _, other := range r.all() {
			if os, has := other.Slot(); has && other.ID != match.ID && os == s {
				return repositories.ErrMatchSlotTaken
			}
		}
	}
	return r.update(match.ID, func(m *models.Match) {
		m.Week, m.Day, m.Time, m.State = match.Week, match.Day, match.Time, match.State
	})
}

func (r *fakeMatchRepo) UpdateTeams(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	return r.update(match.ID, func(m *models.Match) {
		m.TeamA, m.TeamB = match.TeamA, match.TeamB
	})
}

func (r *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	return r.update(match.ID, func(m *models.Match) {
		m.State, m.ScoreA, m.ScoreB = match.State, match.ScoreA, match.ScoreB
	})
}

func (r *fakeMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	teams []models.Team
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.BracketKey() == team.BracketKey() && t.SameTeam(team.TeamRef) {
			return repositories.ErrTeamConflict
		}
	}
	r.teams = append(r.teams, *team)
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) List(ctx context.Context, exec repositories.SQLExecutor, filter repositories.TeamFilter) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Team, 0)
	for _, t := range r.teams {
		if filter.Key != nil && t.BracketKey() != *filter.Key {
			continue
		}
		if filter.Key == nil && filter.Discipline != "" && t.Discipline != filter.Discipline {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTeamRepo) UpdateGroup(ctx context.Context, exec repositories.SQLExecutor, id, group string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.teams {
		if r.teams[i].ID == id {
			r.teams[i].Group = group
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.teams {
		if r.teams[i].ID == id {
			r.teams = append(r.teams[:i], r.teams[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

type message struct {
	room, kind string
	payload    interface{}
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []message
}

func (n *recordingNotifier) BroadcastToRoom(roomID, messageType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message{room: roomID, kind: messageType, payload: payload})
}

func (n *recordingNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.messages {
		if m.kind == kind {
			c++
		}
	}
	return c
}

type fakeUploader struct {
	keys      []string
	deleted   []string
	size      int
	deleteErr error
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.keys = append(u.keys, key)
	u.size = len(b)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	if u.deleteErr != nil {
		return u.deleteErr
	}
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string { return "https://cdn.example.com/" + key }
