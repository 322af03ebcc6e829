package exam

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/futig/examgenie/internal/entity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccountStore keeps registered accounts
type AccountStore interface {
	Create(ctx context.Context, acc *StoredAccount) error
	GetByEmail(ctx context.Context, email string) (*StoredAccount, error)
}

type StoredAccount struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// MemoryAccounts is an AccountStore that lives as long as the process
type MemoryAccounts struct {
	mu       sync.RWMutex
	accounts map[string]*StoredAccount
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{accounts: make(map[string]*StoredAccount)}
}

func (m *MemoryAccounts) Create(_ context.Context, acc *StoredAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeEmail(acc.Email)
	if _, exists := m.accounts[key]; exists {
		return entity.ErrEmailTaken
	}
	m.accounts[key] = acc
	return nil
}

func (m *MemoryAccounts) GetByEmail(_ context.Context, email string) (*StoredAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[normalizeEmail(email)]
	if !ok {
		return nil, entity.ErrInvalidCredentials
	}
	return acc, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account; every field is required.
func (uc *Usecase) Register(ctx context.Context, req *entity.RegisterRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: username, email and password", entity.ErrMissingField)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	acc := &StoredAccount{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		CreatedAt:    uc.now(),
	}
	if err := uc.accounts.Create(ctx, acc); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// Login checks the credentials and returns the public account record
func (uc *Usecase) Login(ctx context.Context, req *entity.LoginRequest) (*entity.Account, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password", entity.ErrMissingField)
	}

	acc, err := uc.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(req.Password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}

	return &entity.Account{
		ID:    entity.AccountID(acc.ID),
		Name:  acc.Username,
		Email: acc.Email,
	}, nil
}
