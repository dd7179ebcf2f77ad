package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/queue"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRoles struct {
	roles     []models.Role
	createErr map[string]error
	countErr  error
}

func (f *fakeRoles) Count(ctx context.Context) (int64, error) {
	return int64(len(f.roles)), f.countErr
}

func (f *fakeRoles) Create(ctx context.Context, role *models.Role) error {
	if err := f.createErr[role.Name]; err != nil {
		return err
	}
	role.ID = uuid.New()
	f.roles = append(f.roles, *role)
	return nil
}

func (f *fakeRoles) GetByNames(ctx context.Context, names []string) ([]models.Role, error) {
	var out []models.Role
	for _, r := range f.roles {
		for _, n := range names {
			if r.Name == n {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func seededRoles(names ...string) *fakeRoles {
	f := &fakeRoles{}
	for _, n := range names {
		_ = f.Create(context.Background(), &models.Role{Name: n})
	}
	return f
}

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*models.User
	lookupErr error
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]*models.User{}}
	for i := range users {
		u := users[i]
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrConflict
		}
	}
	user.ID = uuid.New()
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.byID {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsers) password(id uuid.UUID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].Password
}

type fakeRefreshTokens struct {
	tokens map[string]models.RefreshToken
}

func newFakeRefreshTokens() *fakeRefreshTokens {
	return &fakeRefreshTokens{tokens: map[string]models.RefreshToken{}}
}

func (f *fakeRefreshTokens) Create(ctx context.Context, token *models.RefreshToken) error {
	token.ID = uuid.New()
	f.tokens[token.Token] = *token
	return nil
}

func (f *fakeRefreshTokens) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (f *fakeRefreshTokens) DeleteByToken(ctx context.Context, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshTokens) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for k, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

// fakeResetTokens keeps at most one token per user and updates the password
// in users on redemption.
type fakeResetTokens struct {
	mu        sync.Mutex
	byUser    map[uuid.UUID]models.PasswordResetToken
	users     *fakeUsers
	creates   int
	createErr error
}

func newFakeResetTokens(users *fakeUsers) *fakeResetTokens {
	return &fakeResetTokens{byUser: map[uuid.UUID]models.PasswordResetToken{}, users: users}
}

func (f *fakeResetTokens) GetByUser(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (f *fakeResetTokens) GetByUserAndToken(ctx context.Context, userID uuid.UUID, token string) (*models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byUser[userID]
	if !ok || t.Token != token {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (f *fakeResetTokens) Create(ctx context.Context, token *models.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byUser[token.UserID]; ok {
		return repository.ErrConflict
	}
	f.creates++
	token.ID = uuid.New()
	f.byUser[token.UserID] = *token
	return nil
}

func (f *fakeResetTokens) Redeem(ctx context.Context, token *models.PasswordResetToken, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.byUser[token.UserID]
	if !ok || current.ID != token.ID {
		return repository.ErrNotFound
	}
	delete(f.byUser, token.UserID)

	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	f.users.byID[token.UserID].Password = passwordHash
	return nil
}

type recordingDispatcher struct {
	mu    sync.Mutex
	tasks []queue.MailTask
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, task queue.MailTask) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, task)
}

func (d *recordingDispatcher) sent() []queue.MailTask {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]queue.MailTask(nil), d.tasks...)
}
