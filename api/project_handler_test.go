package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/project-showcase-backend/errs"
	"github.com/rpupo63/project-showcase-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type mockProjectStore struct {
	mock.Mock
}

func (m *mockProjectStore) FindAllWithAuthor(ctx context.Context) ([]*models.Project, error) {
	args := m.Called(ctx)
	projects, _ := args.Get(0).([]*models.Project)
	return projects, args.Error(1)
}

func (m *mockProjectStore) CreateForAuthor(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

type stubSessions struct {
	session *Session
	err     error
}

func (s stubSessions) Resolve(w http.ResponseWriter, r *http.Request) (*Session, error) {
	return s.session, s.err
}

// envelope decodes any of the response shapes
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Results json.RawMessage   `json:"results"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

var signedIn = stubSessions{session: &Session{AuthorID: uuid.New(), Email: "ada@example.com"}}

func newTestProjectHandler(store projectStore, sessions SessionResolver) projectHandler {
	return newProjectHandler(store, sessions, newBodyValidator(0))
}

func validBody(authorID uuid.UUID) string {
	return `{
		"title": "gendry",
		"description": "coverage badges for go projects",
		"githubRepository": "https://github.com/ada/gendry",
		"tags": ["go", "ci"],
		"coverImg": "https://img.example/gendry.png",
		"authorId": "` + authorID.String() + `"
	}`
}

func TestProjectHandler_Get(t *testing.T) {
	t.Run("returns every project with its author", func(t *testing.T) {
		store := new(mockProjectStore)
		author := &models.Author{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}
		projects := []*models.Project{
			{ID: uuid.New(), Title: "one", Tags: datatypes.NewJSONSlice([]string{"go"}), AuthorID: author.ID, Author: author},
			{ID: uuid.New(), Title: "two", Tags: datatypes.NewJSONSlice([]string{}), AuthorID: author.ID, Author: author},
		}
		store.On("FindAllWithAuthor", mock.Anything).Return(projects, nil)

		h := newTestProjectHandler(store, stubSessions{})
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodGet, "/api/project", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.Equal(t, "", env.Message)

		var results []models.Project
		require.NoError(t, json.Unmarshal(env.Results, &results))
		require.Len(t, results, 2)
		for _, p := range results {
			require.NotNil(t, p.Author)
			assert.Equal(t, author.ID, p.Author.ID)
		}
		store.AssertExpectations(t)
	})

	t.Run("empty list is an array, not null", func(t *testing.T) {
		store := new(mockProjectStore)
		store.On("FindAllWithAuthor", mock.Anything).Return(nil, nil)

		h := newTestProjectHandler(store, stubSessions{})
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodGet, "/api/project", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.JSONEq(t, `[]`, string(env.Results))
	})

	t.Run("persistence failure is a generic 500", func(t *testing.T) {
		store := new(mockProjectStore)
		store.On("FindAllWithAuthor", mock.Anything).Return(nil, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

		h := newTestProjectHandler(store, stubSessions{})
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodGet, "/api/project", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "Internal Error", env.Message)
		assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	})
}

func TestProjectHandler_Post(t *testing.T) {
	t.Run("creates the project and echoes the submitted fields", func(t *testing.T) {
		store := new(mockProjectStore)
		authorID := uuid.New()
		createdID := uuid.New()
		store.On("CreateForAuthor", mock.Anything, mock.AnythingOfType("*models.Project")).
			Run(func(args mock.Arguments) {
				p := args.Get(1).(*models.Project)
				p.ID = createdID
				p.CreatedAt = time.Now()
				p.UpdatedAt = p.CreatedAt
			}).
			Return(nil)

		h := newTestProjectHandler(store, signedIn)
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(validBody(authorID))))

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)

		var created models.Project
		require.NoError(t, json.Unmarshal(env.Results, &created))
		assert.Equal(t, createdID, created.ID)
		assert.Equal(t, "gendry", created.Title)
		assert.Equal(t, "coverage badges for go projects", created.Description)
		assert.Equal(t, "https://github.com/ada/gendry", created.GithubRepository)
		assert.Equal(t, datatypes.JSONSlice[string]{"go", "ci"}, created.Tags)
		assert.Equal(t, "https://img.example/gendry.png", created.CoverImg)
		assert.Equal(t, authorID, created.AuthorID)
		store.AssertExpectations(t)
	})

	t.Run("accepts an empty tag list", func(t *testing.T) {
		store := new(mockProjectStore)
		store.On("CreateForAuthor", mock.Anything, mock.Anything).Return(nil)

		body := strings.Replace(validBody(uuid.New()), `["go", "ci"]`, `[]`, 1)
		h := newTestProjectHandler(store, signedIn)
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var created struct {
			Results struct {
				Tags json.RawMessage `json:"tags"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.JSONEq(t, `[]`, string(created.Results.Tags))
	})

	t.Run("no session is 401 regardless of body", func(t *testing.T) {
		for _, body := range []string{validBody(uuid.New()), `{}`, `not json`} {
			store := new(mockProjectStore)
			h := newTestProjectHandler(store, stubSessions{})
			rec := httptest.NewRecorder()
			h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(body)))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, "Unauthorized", env.Message)
			store.AssertNotCalled(t, "CreateForAuthor", mock.Anything, mock.Anything)
		}
	})

	t.Run("session resolver failure is 500", func(t *testing.T) {
		store := new(mockProjectStore)
		h := newTestProjectHandler(store, stubSessions{err: errors.New("sign refreshed token")})
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(validBody(uuid.New()))))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		store.AssertNotCalled(t, "CreateForAuthor", mock.Anything, mock.Anything)
	})

	t.Run("each missing field is reported and nothing is persisted", func(t *testing.T) {
		fields := []string{"title", "description", "githubRepository", "tags", "coverImg", "authorId"}
		for _, missing := range fields {
			t.Run(missing, func(t *testing.T) {
				var body map[string]any
				require.NoError(t, json.Unmarshal([]byte(validBody(uuid.New())), &body))
				delete(body, missing)
				raw, err := json.Marshal(body)
				require.NoError(t, err)

				store := new(mockProjectStore)
				h := newTestProjectHandler(store, signedIn)
				rec := httptest.NewRecorder()
				h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(string(raw))))

				assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
				env := decodeEnvelope(t, rec)
				assert.False(t, env.Success)
				assert.Equal(t, "Validation Error", env.Message)
				assert.Equal(t, map[string]string{missing: missing + " is required"}, env.Errors)
				store.AssertNotCalled(t, "CreateForAuthor", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("wrong types are field errors", func(t *testing.T) {
		body := strings.Replace(validBody(uuid.New()), `"title": "gendry"`, `"title": 42`, 1)
		body = strings.Replace(body, `["go", "ci"]`, `"go"`, 1)

		store := new(mockProjectStore)
		h := newTestProjectHandler(store, signedIn)
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Contains(t, env.Errors, "title")
		assert.Contains(t, env.Errors["title"], "invalid type")
		assert.Contains(t, env.Errors, "tags")
		store.AssertNotCalled(t, "CreateForAuthor", mock.Anything, mock.Anything)
	})

	t.Run("author id must be a uuid", func(t *testing.T) {
		body := strings.Replace(validBody(uuid.Nil), uuid.Nil.String(), "clx0author", 1)

		store := new(mockProjectStore)
		h := newTestProjectHandler(store, signedIn)
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "authorId must be a valid UUID", env.Errors["authorId"])
	})

	t.Run("uppercase author id is accepted", func(t *testing.T) {
		authorID := uuid.New()
		body := strings.Replace(validBody(authorID), authorID.String(), strings.ToUpper(authorID.String()), 1)

		store := new(mockProjectStore)
		store.On("CreateForAuthor", mock.Anything, mock.MatchedBy(func(p *models.Project) bool {
			return p.AuthorID == authorID
		})).Return(nil)

		h := newTestProjectHandler(store, signedIn)
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		store.AssertExpectations(t)
	})

	t.Run("null tag is rejected before persisting", func(t *testing.T) {
		body := strings.Replace(validBody(uuid.New()), `["go", "ci"]`, `["go", null]`, 1)

		store := new(mockProjectStore)
		h := newTestProjectHandler(store, signedIn)
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, map[string]string{"tags": "tags must only contain strings"}, env.Errors)
		store.AssertNotCalled(t, "CreateForAuthor", mock.Anything, mock.Anything)
	})

	t.Run("malformed json is a body error", func(t *testing.T) {
		store := new(mockProjectStore)
		h := newTestProjectHandler(store, signedIn)
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(`{"title":`)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, map[string]string{"body": "request body must be valid JSON"}, env.Errors)
	})

	t.Run("unknown author is a generic 500", func(t *testing.T) {
		store := new(mockProjectStore)
		store.On("CreateForAuthor", mock.Anything, mock.Anything).Return(errs.NewNotFound("author"))

		h := newTestProjectHandler(store, signedIn)
		rec := httptest.NewRecorder()
		h.handle()(rec, httptest.NewRequest(http.MethodPost, "/api/project", strings.NewReader(validBody(uuid.New()))))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Internal Error", env.Message)
		assert.Nil(t, env.Results)
		store.AssertNumberOfCalls(t, "CreateForAuthor", 1)
	})
}

func TestProjectHandler_OtherMethods(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			store := new(mockProjectStore)
			h := newTestProjectHandler(store, signedIn)
			rec := httptest.NewRecorder()
			h.handle()(rec, httptest.NewRequest(method, "/api/project", strings.NewReader(validBody(uuid.New()))))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			if method != http.MethodHead {
				env := decodeEnvelope(t, rec)
				assert.False(t, env.Success)
				assert.Equal(t, "Bad Request", env.Message)
			}
			store.AssertNotCalled(t, "FindAllWithAuthor", mock.Anything)
			store.AssertNotCalled(t, "CreateForAuthor", mock.Anything, mock.Anything)
		})
	}
}
