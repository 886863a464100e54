package repository

import (
	"context"
	"testing"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/db/dbtest"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDocumentTest(t *testing.T) (UserRepository, DocumentRepository) {
	testDB, err := dbtest.SetupTestDB(t)
	require.NoError(t, err)
	return NewUserRepository(testDB), NewDocumentRepository(testDB)
}

func TestDocumentRepository_CreateAndList(t *testing.T) {
	users, docs := setupDocumentTest(t)
	ctx := context.Background()
	owner := createTestUser(t, users, "employer@example.com", model.RoleEmployer)

	doc := &model.Document{
		OwnerID:       owner.ID,
		ApplicantName: "Kim Minsu",
		FileName:      "resume.pdf",
		ContentType:   "application/pdf",
		StorageKey:    "documents/1/abc.pdf",
		Tags:          pq.StringArray{"backend", "senior"},
	}
	require.NoError(t, docs.Create(ctx, doc))
	assert.NotZero(t, doc.ID)

	found, err := docs.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"backend", "senior"}, found.Tags)

	list, err := docs.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = docs.ListByOwner(ctx, owner.ID+100)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDocumentRepository_DeleteOwned(t *testing.T) {
	users, docs := setupDocumentTest(t)
	ctx := context.Background()
	employerA := createTestUser(t, users, "a@example.com", model.RoleEmployer)
	employerB := createTestUser(t, users, "b@example.com", model.RoleEmployer)

	doc := &model.Document{
		OwnerID:       employerB.ID,
		ApplicantName: "Lee Jiwoo",
		FileName:      "cv.pdf",
		ContentType:   "application/pdf",
		StorageKey:    "documents/2/cv.pdf",
	}
	require.NoError(t, docs.Create(ctx, doc))

	n, err := docs.DeleteOwned(ctx, doc.ID, employerA.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = docs.FindByID(ctx, doc.ID)
	require.NoError(t, err, "non-owner delete must leave the document in place")

	n, err = docs.DeleteOwned(ctx, doc.ID, employerB.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = docs.FindByID(ctx, doc.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
