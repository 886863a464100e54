package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/internal/db/dbtest"
	"github.com/jobnest/jobnest-backend/internal/guard"
	"github.com/jobnest/jobnest-backend/internal/storage"
	"github.com/jobnest/jobnest-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

type recordingMailer struct {
	mu   sync.Mutex
	sent map[string]string // email -> secret
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(map[string]string)}
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, toEmail, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[toEmail] = secret
	return nil
}

func (m *recordingMailer) secretFor(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sent[email]
	return s, ok
}

type fakeFileStorage struct {
	mu      sync.Mutex
	deleted []string
	seq     int
}

func (f *fakeFileStorage) PresignUpload(_ context.Context, folder, filename, _ string) (*storage.PresignedUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	key := fmt.Sprintf("%s/%d-%s", folder, f.seq, filename)
	return &storage.PresignedUpload{
		UploadURL: "https://upload.test/" + key,
		FileURL:   "https://cdn.test/" + key,
		Key:       key,
	}, nil
}

func (f *fakeFileStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

type testEnv struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	docRepo   repository.DocumentRepository
	mailer    *recordingMailer
	files     *fakeFileStorage
	auth      AuthService
	resets    PasswordResetService
	users     UserService
	documents DocumentService
	clock     *testClock
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := dbtest.SetupTestDB(t)
	require.NoError(t, err)

	env := &testEnv{
		db:        testDB,
		userRepo:  repository.NewUserRepository(testDB),
		resetRepo: repository.NewPasswordResetRepository(testDB),
		docRepo:   repository.NewDocumentRepository(testDB),
		mailer:    newRecordingMailer(),
		files:     &fakeFileStorage{},
		clock:     &testClock{now: time.Now()},
	}

	env.auth = NewAuthService(env.userRepo, env.resetRepo, testJWTSecret, 15*time.Minute)
	env.resets = NewPasswordResetService(env.resetRepo, env.userRepo, env.mailer, time.Hour)
	env.resets.(*passwordResetService).now = env.clock.Now
	env.users = NewUserService(env.userRepo, env.resets)
	env.documents = NewDocumentService(env.docRepo, env.files)
	return env
}

func (e *testEnv) createUser(t *testing.T, email, password string, role model.UserRole) *model.User {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{Email: email, PasswordHash: hash, Name: "Test", Role: role, Active: true}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

// breakStorage closes the connection pool so every later query fails
func (e *testEnv) breakStorage(t *testing.T) {
	t.Helper()
	sqlDB, err := e.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func sessionOf(user *model.User) *guard.Session {
	return &guard.Session{UserID: user.ID, Email: user.Email, Role: user.Role}
}
