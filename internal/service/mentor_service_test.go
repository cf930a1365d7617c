package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
)

type mockMentorRepo struct {
	items    map[string]*models.Mentor
	nipIndex map[string]string
	seq      int
}

func newMockMentorRepo() *mockMentorRepo {
	return &mockMentorRepo{items: make(map[string]*models.Mentor), nipIndex: make(map[string]string)}
}

func (m *mockMentorRepo) GetAll(ctx context.Context) ([]models.Mentor, error) {
	out := make([]models.Mentor, 0, len(m.items))
	for _, mentor := range m.items {
		out = append(out, *mentor)
	}
	return out, nil
}

func (m *mockMentorRepo) GetByID(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *mentor
	return &clone, nil
}

func (m *mockMentorRepo) ExistsByNIP(ctx context.Context, nip, excludeID string) (bool, error) {
	id, ok := m.nipIndex[nip]
	if !ok {
		return false, nil
	}
	if excludeID != "" && id == excludeID {
		return false, nil
	}
	return true, nil
}

func (m *mockMentorRepo) Create(ctx context.Context, mentor *models.Mentor) error {
	if mentor.ID == "" {
		m.seq++
		mentor.ID = "mentor-" + string(rune('a'+m.seq))
	}
	clone := *mentor
	m.items[mentor.ID] = &clone
	m.nipIndex[mentor.NIP] = mentor.ID
	return nil
}

func (m *mockMentorRepo) Update(ctx context.Context, mentor *models.Mentor) error {
	existing, ok := m.items[mentor.ID]
	if !ok {
		return store.ErrNotFound
	}
	delete(m.nipIndex, existing.NIP)
	clone := *mentor
	m.items[mentor.ID] = &clone
	m.nipIndex[mentor.NIP] = mentor.ID
	return nil
}

func (m *mockMentorRepo) Delete(ctx context.Context, id string) error {
	mentor, ok := m.items[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(m.nipIndex, mentor.NIP)
	delete(m.items, id)
	return nil
}

type mockInternReader struct {
	byMentor map[string][]models.Intern
}

func (m *mockInternReader) GetByMentorID(ctx context.Context, mentorID string) ([]models.Intern, error) {
	return m.byMentor[mentorID], nil
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected an app error, got %v", err)
	return appErr.Code
}

func TestMentorCreateHashesPassword(t *testing.T) {
	repo := newMockMentorRepo()
	svc := NewMentorService(repo, &mockInternReader{}, nil, nil)

	mentor, err := svc.Create(context.Background(), CreateMentorRequest{
		Name: "Budi Santoso", NIP: "100", Division: "Distribusi", Password: "rahasia1",
	})
	require.NoError(t, err)
	assert.Empty(t, mentor.PasswordHash, "responses never carry the hash")

	stored := repo.items[mentor.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("rahasia1")))
}

func TestMentorCreateDefaultPassword(t *testing.T) {
	repo := newMockMentorRepo()
	svc := NewMentorService(repo, &mockInternReader{}, nil, nil)

	mentor, err := svc.Create(context.Background(), CreateMentorRequest{
		Name: "Siti", NIP: "200", Division: "TI",
	})
	require.NoError(t, err)

	stored := repo.items[mentor.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(defaultMentorPassword)))
}

func TestMentorCreateDuplicateNIP(t *testing.T) {
	repo := newMockMentorRepo()
	svc := NewMentorService(repo, &mockInternReader{}, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateMentorRequest{Name: "Budi", NIP: "100", Division: "Distribusi"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateMentorRequest{Name: "Siti", NIP: "100", Division: "TI"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrorCode(t, err))
}

func TestMentorCreateValidation(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), &mockInternReader{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateMentorRequest{Name: "Budi"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))

	_, err = svc.Create(context.Background(), CreateMentorRequest{
		Name: "Budi", NIP: "100", Division: "Distribusi", Password: "short",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestMentorUpdateKeepsOwnNIP(t *testing.T) {
	repo := newMockMentorRepo()
	svc := NewMentorService(repo, &mockInternReader{}, nil, nil)
	ctx := context.Background()

	mentor, err := svc.Create(ctx, CreateMentorRequest{Name: "Budi", NIP: "100", Division: "Distribusi"})
	require.NoError(t, err)

	// Updating without changing the NIP must not trip the uniqueness check.
	updated, err := svc.Update(ctx, mentor.ID, UpdateMentorRequest{
		Name: "Budi Santoso", NIP: "100", Division: "Distribusi", Position: "Manager",
	})
	require.NoError(t, err)
	assert.Equal(t, "Manager", updated.Position)
}

func TestMentorUpdateRejectsTakenNIP(t *testing.T) {
	repo := newMockMentorRepo()
	svc := NewMentorService(repo, &mockInternReader{}, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateMentorRequest{Name: "Budi", NIP: "100", Division: "Distribusi"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateMentorRequest{Name: "Siti", NIP: "200", Division: "TI"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.ID, UpdateMentorRequest{Name: "Siti", NIP: "100", Division: "TI"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrorCode(t, err))
}

func TestMentorDeleteRefusedWithAssignedInterns(t *testing.T) {
	repo := newMockMentorRepo()
	interns := &mockInternReader{byMentor: map[string][]models.Intern{}}
	svc := NewMentorService(repo, interns, nil, nil)
	ctx := context.Background()

	mentor, err := svc.Create(ctx, CreateMentorRequest{Name: "Budi", NIP: "100", Division: "Distribusi"})
	require.NoError(t, err)
	interns.byMentor[mentor.ID] = []models.Intern{{ID: "i1", MentorID: mentor.ID, Status: models.StatusPending}}

	err = svc.Delete(ctx, mentor.ID)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrorCode(t, err))
	assert.Contains(t, repo.items, mentor.ID, "refused delete leaves the record in place")

	interns.byMentor[mentor.ID] = nil
	require.NoError(t, svc.Delete(ctx, mentor.ID))
	assert.NotContains(t, repo.items, mentor.ID)
}

func TestMentorDeleteMissing(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), &mockInternReader{}, nil, nil)
	err := svc.Delete(context.Background(), "absent")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}

func TestMentorRecountCountsApprovedOnly(t *testing.T) {
	repo := newMockMentorRepo()
	interns := &mockInternReader{byMentor: map[string][]models.Intern{}}
	svc := NewMentorService(repo, interns, nil, nil)
	ctx := context.Background()

	mentor, err := svc.Create(ctx, CreateMentorRequest{Name: "Budi", NIP: "100", Division: "Distribusi"})
	require.NoError(t, err)
	interns.byMentor[mentor.ID] = []models.Intern{
		{Status: models.StatusActive},
		{Status: models.StatusAlumni},
		{Status: models.StatusPending},
	}

	require.NoError(t, svc.RecountInterns(ctx, mentor.ID))
	assert.Equal(t, 2, repo.items[mentor.ID].TotalInterns, "pending submissions are excluded")
}

func TestMentorRecountMissingMentorIsNoop(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), &mockInternReader{}, nil, nil)
	assert.NoError(t, svc.RecountInterns(context.Background(), "gone"))
}

func TestMentorListFilterAndPagination(t *testing.T) {
	repo := newMockMentorRepo()
	svc := NewMentorService(repo, &mockInternReader{}, nil, nil)
	ctx := context.Background()

	seedMentors := []CreateMentorRequest{
		{Name: "Agus", NIP: "1", Division: "Pembangkitan"},
		{Name: "Budi", NIP: "2", Division: "Distribusi"},
		{Name: "Citra", NIP: "3", Division: "Distribusi"},
	}
	for _, req := range seedMentors {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	mentors, pagination, err := svc.List(ctx, models.MentorFilter{Division: "Distribusi"})
	require.NoError(t, err)
	require.Len(t, mentors, 2)
	assert.Equal(t, "Budi", mentors[0].Name, "sorted by name")
	assert.Equal(t, 2, pagination.TotalCount)
	for _, mentor := range mentors {
		assert.Empty(t, mentor.PasswordHash)
	}

	mentors, pagination, err = svc.List(ctx, models.MentorFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, mentors, 1)
	assert.Equal(t, 3, pagination.TotalCount)

	mentors, _, err = svc.List(ctx, models.MentorFilter{Search: "bud"})
	require.NoError(t, err)
	require.Len(t, mentors, 1)
	assert.Equal(t, "Budi", mentors[0].Name)
}
