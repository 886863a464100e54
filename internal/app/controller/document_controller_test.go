package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	"github.com/jobnest/jobnest-backend/internal/db/dbtest"
	apperrors "github.com/jobnest/jobnest-backend/internal/errors"
	"github.com/jobnest/jobnest-backend/internal/guard"
	"github.com/jobnest/jobnest-backend/internal/middleware"
	"github.com/jobnest/jobnest-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopFiles struct{}

func (noopFiles) PresignUpload(_ context.Context, folder, filename, _ string) (*storage.PresignedUpload, error) {
	key := folder + "/" + filename
	return &storage.PresignedUpload{UploadURL: "https://upload.test/" + key, FileURL: "https://cdn.test/" + key, Key: key}, nil
}

func (noopFiles) Delete(context.Context, string) error { return nil }

// withUser stands in for Authenticate by placing a session on the context
func withUser(userID uint, role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserRoleKey, role)
		c.Set(middleware.SessionKey, &guard.Session{UserID: userID, Role: role})
		c.Next()
	}
}

func setupDocumentControllerTest(t *testing.T, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)

	testDB, err := dbtest.SetupTestDB(t)
	require.NoError(t, err)

	ctrl := NewDocumentController(service.NewDocumentService(repository.NewDocumentRepository(testDB), noopFiles{}))

	router := gin.New()
	group := router.Group("/documents", withUser(userID, model.RoleEmployer))
	group.POST("", ctrl.CreateUpload)
	group.GET("", ctrl.List)
	group.DELETE("/:id", ctrl.Delete)
	return router
}

func TestDocumentController_CreateAndList(t *testing.T) {
	router := setupDocumentControllerTest(t, 7)

	w := doJSON(router, http.MethodPost, "/documents", map[string]interface{}{
		"applicant_name": "Kim", "file_name": "cv.pdf", "content_type": "application/pdf", "tags": []string{"backend"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Document model.Document          `json:"document"`
		Upload   storage.PresignedUpload `json:"upload"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, uint(7), created.Document.OwnerID)
	assert.NotEmpty(t, created.Upload.UploadURL)

	w = doJSON(router, http.MethodGet, "/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Count)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/documents/%d", created.Document.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDocumentController_Errors(t *testing.T) {
	router := setupDocumentControllerTest(t, 7)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name: "Disallowed content type", method: http.MethodPost, path: "/documents",
			body:       map[string]string{"applicant_name": "Kim", "file_name": "cv.exe", "content_type": "application/x-msdownload"},
			wantStatus: http.StatusBadRequest, wantCode: apperrors.UploadInvalidFileType,
		},
		{
			name: "Missing fields", method: http.MethodPost, path: "/documents",
			body:       map[string]string{"file_name": "cv.pdf"},
			wantStatus: http.StatusBadRequest, wantCode: apperrors.ValidationInvalidInput,
		},
		{
			name: "Invalid id", method: http.MethodDelete, path: "/documents/abc",
			wantStatus: http.StatusBadRequest, wantCode: apperrors.ValidationInvalidID,
		},
		{
			name: "Unknown document", method: http.MethodDelete, path: "/documents/999",
			wantStatus: http.StatusNotFound, wantCode: apperrors.ResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}
