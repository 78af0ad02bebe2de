package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/repository"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/provider"
)

var errStoreDown = errors.New("store unavailable")

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
	err   error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*model.User{}}
}

func (m *memoryUsers) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, repository.ErrUserAlreadyExists
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return user, nil
}

func (m *memoryUsers) GetUser(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) UpdateUser(_ context.Context, id string, params repository.UpdateUserParams) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if params.Email != nil {
		for _, other := range m.users {
			if other.ID != id && other.Email == *params.Email {
				return nil, repository.ErrUserAlreadyExists
			}
		}
		u.Email = *params.Email
	}
	if params.Name != nil {
		name := *params.Name
		u.Name = &name
	}
	if params.PasswordHash != nil {
		u.PasswordHash = *params.PasswordHash
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type memoryIdentities struct {
	mu         sync.Mutex
	identities []*model.Identity
	logins     int
	createErr  error
}

func (m *memoryIdentities) CreateIdentity(_ context.Context, identity *model.Identity) (*model.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, i := range m.identities {
		if i.Provider == identity.Provider && i.ProviderID == identity.ProviderID {
			return nil, repository.ErrIdentityAlreadyExists
		}
	}
	identity.ID = uuid.NewString()
	m.identities = append(m.identities, identity)
	return identity, nil
}

func (m *memoryIdentities) GetIdentityByProvider(_ context.Context, providerID, provider string) (*model.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.identities {
		if i.Provider == provider && i.ProviderID == providerID {
			return i, nil
		}
	}
	return nil, repository.ErrIdentityNotFound
}

func (m *memoryIdentities) UpdateLastLogin(_ context.Context, userID, provider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.identities {
		if i.UserID == userID && i.Provider == provider {
			m.logins++
			return nil
		}
	}
	return repository.ErrIdentityNotFound
}

// memoryActivities is an in-memory ActivityRepository honouring owner scoping,
// filters, date sorting and pagination.
type memoryActivities struct {
	mu         sync.Mutex
	activities []*model.Activity
	lastFilter repository.FilterActivitiesParams
	err        error
}

func (m *memoryActivities) CreateActivity(_ context.Context, activity *model.Activity) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	activity.ID = uuid.NewString()
	activity.CreatedAt = time.Now().UTC()
	activity.UpdatedAt = activity.CreatedAt
	stored := *activity
	m.activities = append(m.activities, &stored)
	return activity, nil
}

func (m *memoryActivities) find(userID, id string) *model.Activity {
	for _, a := range m.activities {
		if a.ID == id && a.UserID == userID {
			return a
		}
	}
	return nil
}

func (m *memoryActivities) GetActivity(_ context.Context, userID, id string) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	a := m.find(userID, id)
	if a == nil {
		return nil, repository.ErrActivityNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memoryActivities) ListActivities(
	_ context.Context,
	params repository.FilterActivitiesParams,
) ([]*model.Activity, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = params
	if m.err != nil {
		return nil, 0, m.err
	}

	var matched []*model.Activity
	for _, a := range m.activities {
		if a.UserID != params.UserID {
			continue
		}
		if params.Type != nil && a.Type != *params.Type {
			continue
		}
		if params.Search != nil {
			q := strings.ToLower(*params.Search)
			if !strings.Contains(strings.ToLower(a.Name), q) && !strings.Contains(strings.ToLower(a.Description), q) {
				continue
			}
		}
		if params.From != nil && a.Date.Before(*params.From) {
			continue
		}
		if params.To != nil && a.Date.After(*params.To) {
			continue
		}
		copied := *a
		matched = append(matched, &copied)
	}

	slices.SortStableFunc(matched, func(a, b *model.Activity) int {
		if params.SortDesc {
			return b.Date.Compare(a.Date)
		}
		return a.Date.Compare(b.Date)
	})

	total := int64(len(matched))
	start := min(int(params.Offset), len(matched))
	end := len(matched)
	if params.Limit > 0 {
		end = min(start+int(params.Limit), len(matched))
	}

	return matched[start:end], total, nil
}

func (m *memoryActivities) UpdateActivity(
	_ context.Context,
	userID, id string,
	params repository.UpdateActivityParams,
) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.find(userID, id)
	if a == nil {
		return nil, repository.ErrActivityNotFound
	}
	if params.Type != nil {
		a.Type = *params.Type
	}
	if params.Name != nil {
		a.Name = *params.Name
	}
	if params.Description != nil {
		a.Description = *params.Description
	}
	if params.Amount != nil {
		a.Amount = *params.Amount
	}
	if params.Unit != nil {
		a.Unit = *params.Unit
	}
	if params.CarbonCO2 != nil {
		a.CarbonCO2 = *params.CarbonCO2
	}
	if params.Date != nil {
		a.Date = *params.Date
	}
	copied := *a
	return &copied, nil
}

func (m *memoryActivities) DeleteActivity(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.activities {
		if a.ID == id && a.UserID == userID {
			m.activities = slices.Delete(m.activities, i, i+1)
			return nil
		}
	}
	return repository.ErrActivityNotFound
}

type fakeTokens struct{}

func (fakeTokens) IssueToken(userID string) (string, error) {
	return "token-" + userID, nil
}

type fakeGoogle struct {
	identity *provider.GoogleIdentity
	err      error
}

func (f *fakeGoogle) ValidateIDToken(context.Context, string) (*provider.GoogleIdentity, error) {
	return f.identity, f.err
}

type sentEmail struct {
	to      []string
	subject string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeSender) SendHTML(to []string, subject, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{to: to, subject: subject})
	return f.err
}

func ptr[T any](v T) *T { return &v }
