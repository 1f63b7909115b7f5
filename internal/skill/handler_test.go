// AngelaMos | 2026
// handler_test.go

package skill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type fakeRepo struct {
	skills []Skill
	err    error
	params ListParams
}

func (f *fakeRepo) List(_ context.Context, params ListParams) ([]Skill, int, error) {
	f.params = params
	if f.err != nil {
		return nil, 0, f.err
	}

	sorted := append([]Skill(nil), f.skills...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Downloads > sorted[j].Downloads
	})

	start := min(params.Offset(), len(sorted))
	end := min(start+params.PageSize, len(sorted))
	return sorted[start:end], len(sorted), nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Skill, error) {
	return f.find(func(sk Skill) bool { return sk.ID == id })
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (*Skill, error) {
	return f.find(func(sk Skill) bool { return sk.Slug == slug })
}

func (f *fakeRepo) find(match func(Skill) bool) (*Skill, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.skills {
		if match(f.skills[i]) {
			return &f.skills[i], nil
		}
	}
	return nil, fmt.Errorf("get skill: %w", core.ErrNotFound)
}

func seedSkills() []Skill {
	return []Skill{
		{ID: "1", Slug: "pdf", Name: "PDF", Downloads: 10},
		{ID: "2", Slug: "xlsx", Name: "XLSX", Downloads: 500},
		{ID: "3", Slug: "docx", Name: "DOCX", Downloads: 42},
	}
}

type listBody struct {
	Success bool            `json:"success"`
	Data    []SkillResponse `json:"data"`
	Meta    core.Pagination `json:"meta"`
}

func serve(repo Repository, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListOrdersByDownloads(t *testing.T) {
	rec := serve(&fakeRepo{skills: seedSkills()}, "/skills")

	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	assert.Equal(t, "xlsx", body.Data[0].Slug)
	assert.Equal(t, "docx", body.Data[1].Slug)
	assert.Equal(t, "pdf", body.Data[2].Slug)
	assert.Equal(t, 3, body.Meta.Total)
	assert.Equal(t, 1, body.Meta.TotalPages)
}

func TestListPaginationIsClamped(t *testing.T) {
	repo := &fakeRepo{skills: seedSkills()}

	rec := serve(repo, "/skills?page=0&page_size=1000")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ListParams{Page: 1, PageSize: 100}, repo.params)

	rec = serve(repo, "/skills?page=2&page_size=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "pdf", body.Data[0].Slug)
	assert.Equal(t, 2, body.Meta.TotalPages)
}

func TestListEmptyIsArray(t *testing.T) {
	rec := serve(&fakeRepo{}, "/skills")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestGet(t *testing.T) {
	repo := &fakeRepo{skills: seedSkills()}

	rec := serve(repo, "/skills/docx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"downloads":42`)

	rec = serve(repo, "/skills/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPrefersIDOverSlug(t *testing.T) {
	const (
		pdfID   = "6f1c2a9e-3b4d-4c1a-9e7f-0a1b2c3d4e5f"
		otherID = "0d9e8f7a-6b5c-4d3e-8f1a-2b3c4d5e6f70"
	)
	repo := &fakeRepo{skills: []Skill{
		{ID: "b1e2c3d4-5f6a-4b7c-8d9e-0f1a2b3c4d5e", Slug: pdfID, Name: "Squatter"},
		{ID: pdfID, Slug: "pdf", Name: "PDF"},
		{ID: "c2d3e4f5-6a7b-4c8d-9e0f-1a2b3c4d5e6f", Slug: otherID, Name: "Odd slug"},
	}}

	rec := serve(repo, "/skills/"+pdfID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"PDF"`)

	rec = serve(repo, "/skills/"+otherID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Odd slug"`)
}

func TestStoreFailure(t *testing.T) {
	repo := &fakeRepo{err: core.StoreError("list skills", errors.New("timeout"))}

	rec := serve(repo, "/skills")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "timeout")

	rec = serve(repo, "/skills/pdf")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
