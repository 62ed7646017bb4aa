package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/thorfins/thorfins-be/internal/auth"
	"github.com/thorfins/thorfins-be/internal/mail"
	"github.com/thorfins/thorfins-be/internal/middleware"
	"github.com/thorfins/thorfins-be/internal/models"
	"github.com/thorfins/thorfins-be/internal/storage"
)

const testSecret = "test-secret"

var testCurrencyID = uuid.MustParse("0c7f8f2a-1f7d-4e62-9a30-0a30a383be61")

// fakeUserStore is an in-memory UserStore for handler tests.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]models.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user.Currency = &models.Currency{ID: user.CurrencyID, Name: "US Dollar", Symbol: "$", Code: "USD"}
	return user, nil
}

func (f *fakeUserStore) MarkVerified(_ context.Context, id uuid.UUID) error {
	return f.mutate(id, func(user *models.User) {
		user.Verified = true
		user.UpdatedAt = time.Now()
	})
}

func (f *fakeUserStore) SetVerifyCode(_ context.Context, id uuid.UUID, code int, updatedAt time.Time) error {
	return f.mutate(id, func(user *models.User) {
		user.VerifyCode = code
		user.UpdatedAt = updatedAt
	})
}

func (f *fakeUserStore) SetPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	return f.mutate(id, func(user *models.User) {
		user.PasswordHash = passwordHash
		user.UpdatedAt = time.Now()
	})
}

func (f *fakeUserStore) SetCurrency(ctx context.Context, id, currencyID uuid.UUID) (models.User, error) {
	if err := f.mutate(id, func(user *models.User) {
		user.CurrencyID = currencyID
		user.UpdatedAt = time.Now()
	}); err != nil {
		return models.User{}, err
	}
	return f.GetUserByID(ctx, id)
}

func (f *fakeUserStore) mutate(id uuid.UUID, fn func(*models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	fn(&user)
	f.users[id] = user
	return nil
}

// backdate shifts a user's updated_at into the past to simulate an elapsed
// verification window.
func (f *fakeUserStore) backdate(t *testing.T, email string, by time.Duration) {
	t.Helper()
	user, err := f.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NoError(t, f.mutate(user.ID, func(u *models.User) {
		u.UpdatedAt = u.UpdatedAt.Add(-by)
	}))
}

func (f *fakeUserStore) mustGet(t *testing.T, email string) models.User {
	t.Helper()
	user, err := f.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	return user
}

// fakeCategoryStore is an in-memory CategoryStore.
type fakeCategoryStore struct {
	mu         sync.Mutex
	categories map[uuid.UUID]models.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: map[uuid.UUID]models.Category{}}
}

func (f *fakeCategoryStore) ListCategories(_ context.Context, userID uuid.UUID) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Category{}
	for _, cat := range f.categories {
		if cat.UserID == nil || *cat.UserID == userID {
			cat.Transaction = []models.Transaction{}
			out = append(out, cat)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) GetCategory(_ context.Context, id, _ uuid.UUID) (models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cat, ok := f.categories[id]
	if !ok {
		return models.Category{}, storage.ErrNotFound
	}
	cat.Transaction = []models.Transaction{}
	return cat, nil
}

func (f *fakeCategoryStore) CreateCategory(_ context.Context, category models.Category) (models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	f.categories[category.ID] = category
	return category, nil
}

func (f *fakeCategoryStore) UpdateCategory(_ context.Context, id uuid.UUID, name, icon string) (models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cat, ok := f.categories[id]
	if !ok {
		return models.Category{}, storage.ErrNotFound
	}
	cat.Name = name
	cat.Icon = icon
	cat.UpdatedAt = time.Now()
	f.categories[id] = cat
	return cat, nil
}

func (f *fakeCategoryStore) DeleteCategory(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryStore) seed(cat models.Category) models.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cat.ID == uuid.Nil {
		cat.ID = uuid.New()
	}
	f.categories[cat.ID] = cat
	return cat
}

// fakeTransactionStore is an in-memory TransactionStore.
type fakeTransactionStore struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]models.Transaction
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{transactions: map[uuid.UUID]models.Transaction{}}
}

func (f *fakeTransactionStore) ListTransactions(_ context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Transaction{}
	for _, tx := range f.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactionStore) GetTransaction(_ context.Context, id uuid.UUID) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.transactions[id]
	if !ok {
		return models.Transaction{}, storage.ErrNotFound
	}
	return tx, nil
}

func (f *fakeTransactionStore) CreateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	f.transactions[tx.ID] = tx
	return tx, nil
}

func (f *fakeTransactionStore) UpdateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[tx.ID]; !ok {
		return models.Transaction{}, storage.ErrNotFound
	}
	tx.UpdatedAt = time.Now()
	f.transactions[tx.ID] = tx
	return tx, nil
}

func (f *fakeTransactionStore) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.transactions, id)
	return nil
}

func (f *fakeTransactionStore) Amounts(_ context.Context, userID uuid.UUID) (models.Amounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var amounts models.Amounts
	for _, tx := range f.transactions {
		if tx.UserID != userID {
			continue
		}
		switch tx.Type {
		case models.TransactionIncome:
			amounts.TotalIncome += tx.Amount
		case models.TransactionExpense:
			amounts.TotalExpense += tx.Amount
		}
	}
	amounts.Total = amounts.TotalIncome - amounts.TotalExpense
	return amounts, nil
}

func (f *fakeTransactionStore) seed(tx models.Transaction) models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	f.transactions[tx.ID] = tx
	return tx
}

// recordingMailer captures dispatched codes; dispatch runs on a goroutine so
// assertions receive from the channel with a timeout.
type recordingMailer struct {
	sent chan sentCode
}

type sentCode struct {
	email string
	code  int
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan sentCode, 16)}
}

func (m *recordingMailer) SendCode(_ context.Context, email string, code int) error {
	m.sent <- sentCode{email: email, code: code}
	return nil
}

func (m *recordingMailer) waitForCode(t *testing.T) sentCode {
	t.Helper()
	select {
	case sc := <-m.sent:
		return sc
	case <-time.After(2 * time.Second):
		t.Fatal("no verification mail dispatched")
		return sentCode{}
	}
}

type env struct {
	server       *httptest.Server
	tokens       *auth.TokenManager
	users        *fakeUserStore
	categories   *fakeCategoryStore
	transactions *fakeTransactionStore
	mailer       *recordingMailer
}

// newEnv wires every handler against in-memory fakes behind a test server.
func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		tokens:       auth.NewTokenManager(testSecret, "test"),
		users:        newFakeUserStore(),
		categories:   newFakeCategoryStore(),
		transactions: newFakeTransactionStore(),
		mailer:       newRecordingMailer(),
	}

	mux := http.NewServeMux()
	requireAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.Auth(e.tokens, next)
	}
	NewAuthHandler(e.users, e.tokens, e.mailer).Register(mux, requireAuth)
	NewCategoryHandler(e.categories).Register(mux, requireAuth)
	NewTransactionHandler(e.transactions).Register(mux, requireAuth)
	NewReportsHandler(e.transactions).Register(mux, requireAuth)

	e.server = httptest.NewServer(mux)
	t.Cleanup(e.server.Close)
	return e
}

var _ mail.Sender = (*recordingMailer)(nil)

// do issues a JSON request against the test server. An empty token omits the
// Authorization header.
func (e *env) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// tokenFor mints a session token for a seeded user.
func (e *env) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := e.tokens.Generate(userID)
	require.NoError(t, err)
	return token
}
