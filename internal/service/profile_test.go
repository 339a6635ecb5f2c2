package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cardiolog/cardiolog-go/internal/model"
	"github.com/cardiolog/cardiolog-go/internal/repository"
)

// MockProfileStore is a mock implementation of ProfileStore.
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileStore) Create(ctx context.Context, p *model.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileStore) Update(ctx context.Context, p *model.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func mustPatch(t *testing.T, body string) model.ProfilePatch {
	t.Helper()
	var patch model.ProfilePatch
	require.NoError(t, json.Unmarshal([]byte(body), &patch))
	return patch
}

var me = model.Identity{
	ID:        "u-1",
	Email:     "a@x.com",
	CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestMe_WithoutProfile(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("GetByUserID", mock.Anything, "u-1").Return(nil, repository.ErrProfileNotFound)

	resp, err := NewProfileService(profiles).Me(context.Background(), me)

	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.ID)
	assert.Equal(t, "a@x.com", resp.Email)
	assert.Equal(t, "", resp.Name)
	assert.Nil(t, resp.Age)
	assert.Nil(t, resp.BloodType)
	assert.Equal(t, me.CreatedAt, resp.CreatedAt)
}

func TestMe_WithProfile(t *testing.T) {
	age := 52
	blood := "A-"
	profiles := new(MockProfileStore)
	profiles.On("GetByUserID", mock.Anything, "u-1").
		Return(&model.Profile{UserID: "u-1", Name: "Ann", Age: &age, BloodType: &blood}, nil)

	resp, err := NewProfileService(profiles).Me(context.Background(), me)

	require.NoError(t, err)
	assert.Equal(t, "Ann", resp.Name)
	assert.Equal(t, &age, resp.Age)
	assert.Equal(t, &blood, resp.BloodType)
}

func TestMe_StoreFailure(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("GetByUserID", mock.Anything, "u-1").Return(nil, errors.New("db down"))

	_, err := NewProfileService(profiles).Me(context.Background(), me)
	assert.Error(t, err)
}

func TestUpdateMe_CreatesOnFirstUse(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("GetByUserID", mock.Anything, "u-1").Return(nil, repository.ErrProfileNotFound)
	profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.UserID == "u-1" && p.Name == "Ann" && p.Age != nil && *p.Age == 41
	})).Return(nil)

	resp, err := NewProfileService(profiles).UpdateMe(context.Background(), me, mustPatch(t, `{"name":"Ann","age":"41"}`))

	require.NoError(t, err)
	assert.Equal(t, "Ann", resp.Name)
	require.NotNil(t, resp.Age)
	assert.Equal(t, 41, *resp.Age)
	profiles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateMe_LeavesAbsentFieldsUntouched(t *testing.T) {
	age := 41
	weight := 80.0
	existing := &model.Profile{ID: "p-1", UserID: "u-1", Name: "Ann", Age: &age, Weight: &weight}

	profiles := new(MockProfileStore)
	profiles.On("GetByUserID", mock.Anything, "u-1").Return(existing, nil)
	profiles.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp, err := NewProfileService(profiles).UpdateMe(context.Background(), me, mustPatch(t, `{"weight":"heavy","bloodType":"B+"}`))

	require.NoError(t, err)
	assert.Equal(t, "Ann", resp.Name)
	assert.Equal(t, 41, *resp.Age)
	assert.Nil(t, resp.Weight, "unparsable weight is stored as null")
	require.NotNil(t, resp.BloodType)
	assert.Equal(t, "B+", *resp.BloodType)
	profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateMe_CreationRaceFallsBackToUpdate(t *testing.T) {
	winner := &model.Profile{ID: "p-1", UserID: "u-1", Name: "Concurrent"}

	profiles := new(MockProfileStore)
	profiles.On("GetByUserID", mock.Anything, "u-1").Return(nil, repository.ErrProfileNotFound).Once()
	profiles.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateProfile).Once()
	profiles.On("GetByUserID", mock.Anything, "u-1").Return(winner, nil).Once()
	profiles.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.ID == "p-1" && p.Height != nil && *p.Height == 172
	})).Return(nil).Once()

	resp, err := NewProfileService(profiles).UpdateMe(context.Background(), me, mustPatch(t, `{"height":172}`))

	require.NoError(t, err)
	assert.Equal(t, "Concurrent", resp.Name)
	require.NotNil(t, resp.Height)
	assert.InDelta(t, 172.0, *resp.Height, 1e-9)
	profiles.AssertExpectations(t)
}

func TestUpdateMe_CreateFailure(t *testing.T) {
	profiles := new(MockProfileStore)
	profiles.On("GetByUserID", mock.Anything, "u-1").Return(nil, repository.ErrProfileNotFound)
	profiles.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := NewProfileService(profiles).UpdateMe(context.Background(), me, mustPatch(t, `{"name":"Ann"}`))

	assert.EqualError(t, err, "db down")
}
