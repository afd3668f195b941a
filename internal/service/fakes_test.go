package service

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/live-commerce-backend/internal/client"
	"github.com/iliyamo/live-commerce-backend/internal/model"
	"github.com/iliyamo/live-commerce-backend/internal/queue"
	"github.com/iliyamo/live-commerce-backend/internal/repository"
)

type fakeInventory struct {
	stock     map[int64]int
	getErr    error
	reduceErr error
	calls     []string
}

func newFakeInventory(stock map[int64]int) *fakeInventory {
	return &fakeInventory{stock: stock}
}

func (f *fakeInventory) GetProduct(_ context.Context, id int64) (*client.Product, error) {
	f.calls = append(f.calls, "get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	n, ok := f.stock[id]
	if !ok {
		return nil, client.ErrProductNotFound
	}
	return &client.Product{ID: id, Name: "p", Stock: &n}, nil
}

func (f *fakeInventory) ReduceStock(_ context.Context, id int64, quantity int) error {
	f.calls = append(f.calls, "reduce")
	if f.reduceErr != nil {
		return f.reduceErr
	}
	f.stock[id] -= quantity
	return nil
}

type fakeReservationStore struct {
	saved []model.Reservation
	err   error
}

func (f *fakeReservationStore) Create(_ context.Context, res *model.Reservation) error {
	if f.err != nil {
		return f.err
	}
	res.ID = uint64(len(f.saved) + 1)
	f.saved = append(f.saved, *res)
	return nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	for i := range f.saved {
		if f.saved[i].ID == id {
			r := f.saved[i]
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReservationStore) List(context.Context) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0, len(f.saved))
	for i := len(f.saved) - 1; i >= 0; i-- {
		out = append(out, f.saved[i])
	}
	return out, nil
}

type fakePublisher struct {
	events []queue.ReservationCreatedEvent
	err    error
}

func (f *fakePublisher) PublishReservationCreated(_ context.Context, ev queue.ReservationCreatedEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeStreamStore struct {
	mu      sync.Mutex
	rows    map[uint64]model.StreamSession
	nextID  uint64
	updates int
}

func newFakeStreamStore() *fakeStreamStore {
	return &fakeStreamStore{rows: map[uint64]model.StreamSession{}}
}

func (f *fakeStreamStore) Create(_ context.Context, s *model.StreamSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	f.rows[s.ID] = *s
	return nil
}

func (f *fakeStreamStore) GetByID(_ context.Context, id uint64) (*model.StreamSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeStreamStore) Update(_ context.Context, s *model.StreamSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[s.ID]; !ok {
		return repository.ErrNotFound
	}
	f.updates++
	f.rows[s.ID] = *s
	return nil
}

func (f *fakeStreamStore) ListActive(context.Context) ([]model.StreamSession, error) {
	return f.filter(func(s model.StreamSession) bool { return s.IsActive }), nil
}

func (f *fakeStreamStore) ListByHost(_ context.Context, hostID string) ([]model.StreamSession, error) {
	return f.filter(func(s model.StreamSession) bool { return s.HostID == hostID }), nil
}

func (f *fakeStreamStore) filter(keep func(model.StreamSession) bool) []model.StreamSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.StreamSession{}
	for id := uint64(1); id <= f.nextID; id++ {
		if s, ok := f.rows[id]; ok && keep(s) {
			out = append(out, s)
		}
	}
	return out
}

type fakeTokens struct {
	token string
	err   error
	got   []string
}

func (f *fakeTokens) GenerateToken(channel string, uid uint32) (RTCToken, error) {
	f.got = append(f.got, channel)
	if f.err != nil {
		return RTCToken{}, f.err
	}
	return RTCToken{Channel: channel, UID: uid, Token: f.token}, nil
}

type fakeChatStore struct {
	rows []model.ChatMessage
	err  error
}

func (f *fakeChatStore) Create(_ context.Context, m *model.ChatMessage) error {
	if f.err != nil {
		return f.err
	}
	m.ID = uint64(len(f.rows) + 1)
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeChatStore) ListByStream(_ context.Context, streamID uint64) ([]model.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.ChatMessage{}
	for _, m := range f.rows {
		if m.StreamID == streamID {
			out = append(out, m)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")
