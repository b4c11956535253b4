package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/smallpress/blog-backend/internal/config"
	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/mail"
	"github.com/smallpress/blog-backend/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		AccessTokenSecret:  "access-secret-for-tests-0123456789",
		RefreshTokenSecret: "refresh-secret-for-tests-0123456789",
		VerifyTokenSecret:  "verify-secret-for-tests-0123456789",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		VerifyTokenTTL:     72 * time.Hour,
	}
}

type memoryAccountRepo struct {
	mu       sync.Mutex
	accounts map[int64]domain.Account
}

func newMemoryAccountRepo(seed ...domain.Account) *memoryAccountRepo {
	repo := &memoryAccountRepo{accounts: make(map[int64]domain.Account)}
	for _, a := range seed {
		repo.accounts[a.ID] = a
	}
	return repo
}

func (m *memoryAccountRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.RegisteredAt = time.Now().UTC()
	m.accounts[account.ID] = account
	return account, nil
}

func (m *memoryAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (m *memoryAccountRepo) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *memoryAccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAccountRepo) SetVerified(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.IsVerified = true
	m.accounts[id] = a
	return nil
}

type memoryTokenRepo struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	accounts  *memoryAccountRepo
	nextID    int64
	rows      map[string]domain.RefreshToken
	teardowns int
}

func newMemoryTokenRepo(accounts *memoryAccountRepo) *memoryTokenRepo {
	return &memoryTokenRepo{accounts: accounts, rows: make(map[string]domain.RefreshToken)}
}

func (m *memoryTokenRepo) Save(ctx context.Context, userID int64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.rows[token] = domain.RefreshToken{ID: m.nextID, UserID: userID, Token: token}
	return nil
}

func (m *memoryTokenRepo) DeleteByValue(ctx context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[token]
	if !ok {
		return 0, domain.ErrNotFound
	}
	delete(m.rows, token)
	return row.ID, nil
}

func (m *memoryTokenRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardowns++
	for value, row := range m.rows {
		if row.UserID == userID {
			delete(m.rows, value)
		}
	}
	return nil
}

func (m *memoryTokenRepo) teardownCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teardowns
}

func (m *memoryTokenRepo) ListForUser(ctx context.Context, userID int64) ([]domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RefreshToken
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memoryTokenRepo) IsSuperuser(ctx context.Context, userID int64) (bool, error) {
	account, err := m.accounts.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return account.IsSuperuser, nil
}

// InTx serializes whole transactions, like the row lock a concurrent DELETE
// takes in Postgres: the second redeemer blocks until the first commits and
// then finds the row gone.
func (m *memoryTokenRepo) InTx(ctx context.Context, fn func(ctx context.Context, repo repository.RefreshTokenRepository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

type captureDispatcher struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (d *captureDispatcher) Dispatch(ctx context.Context, msg mail.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
	return nil
}

func (d *captureDispatcher) last() (mail.Message, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.messages) == 0 {
		return mail.Message{}, false
	}
	return d.messages[len(d.messages)-1], true
}
