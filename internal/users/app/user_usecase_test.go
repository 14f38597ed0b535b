package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"userhub/internal/users/adapters/services"
	"userhub/internal/users/app"
	"userhub/internal/users/domain/entities"
	"userhub/internal/users/ports/api"
)

const testSecret = "test-secret-key"

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func useCaseContext() context.Context {
	return context.Background()
}

func newUseCase(repo *mockUserRepository) (api.UserUseCase, error) {
	passwordSvc := services.NewBcrypt(bcrypt.MinCost)
	tokenSvc := services.NewJWT(testSecret, time.Hour)
	return app.NewUserUseCase(repo, passwordSvc, tokenSvc), nil
}

func TestCreateUserSuccess(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	payload := validPayload()
	payload.Age = intPtr(30)
	payload.Budget = floatPtr(99.5)

	repo.On("FindByUsername", mock.Anything, "alice").Return(nil, entities.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Username == "alice" && u.PasswordHash != "secret123"
	})).Return(&entities.User{
		ID:           "user-id-1",
		FirstName:    "Alice",
		Username:     "alice",
		PasswordHash: "$2a$04$hash",
		Age:          30,
		Gender:       "female",
		IsActive:     true,
		Budget:       99.5,
		CreatedAt:    time.Now().UTC(),
	}, nil)

	created, token, err := useCase.CreateUser(ctx, payload)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "user-id-1", created.ID)
	assert.NotEqual(t, "secret123", created.PasswordHash, "plaintext must never reach storage")
	require.NotEmpty(t, token)

	// Токен должен расшифровываться секретом сервера и содержать id и username.
	parsed, err := jwt.ParseWithClaims(token, &services.Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(*services.Claims)
	require.True(t, ok)
	assert.Equal(t, "user-id-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	repo.AssertExpectations(t)
}

func TestCreateUserHashesPasswordBeforeWrite(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	payload := validPayload()

	var storedHash string
	repo.On("FindByUsername", mock.Anything, "alice").Return(nil, entities.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		storedHash = args.Get(1).(*entities.User).PasswordHash
	}).Return(&entities.User{ID: "id", Username: "alice", PasswordHash: "h"}, nil)

	_, _, err = useCase.CreateUser(ctx, payload)
	require.NoError(t, err)

	require.NotEmpty(t, storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret123")),
		"stored value should be a bcrypt hash of the submitted password")
}

func TestCreateUserValidationFailure(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	payload := validPayload()
	payload.Gender = nil

	created, token, err := useCase.CreateUser(ctx, payload)

	require.Error(t, err)
	assert.Nil(t, created)
	assert.Empty(t, token)

	var validationErr *app.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	repo.On("FindByUsername", mock.Anything, "alice").Return(&entities.User{
		ID:       "existing-id",
		Username: "alice",
	}, nil)

	created, token, err := useCase.CreateUser(ctx, validPayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrUsernameTaken)
	assert.Nil(t, created)
	assert.Empty(t, token)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Проверка занятости username и вставка не атомарны: проигравший гонку
// получает конфликт от уникального индекса хранилища.
func TestCreateUserRaceLosesToUniqueIndex(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	repo.On("FindByUsername", mock.Anything, "alice").Return(nil, entities.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, entities.ErrUsernameTaken)

	created, _, err := useCase.CreateUser(ctx, validPayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrUsernameTaken)
	assert.Nil(t, created)
}

func TestListUsersComputesOffset(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	page := []entities.User{{ID: "a"}, {ID: "b"}}
	repo.On("Find", mock.Anything, 5, 10).Return(page, nil)
	repo.On("Count", mock.Anything).Return(int64(42), nil)

	// limit 5, страница 3 -> смещение 5*(3-1)=10.
	found, total, err := useCase.ListUsers(ctx, 5, 3)

	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, int64(42), total)
	repo.AssertExpectations(t)
}

func TestListUsersFirstPageOffsetZero(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	repo.On("Find", mock.Anything, 10, 0).Return([]entities.User{{ID: "a"}}, nil)
	repo.On("Count", mock.Anything).Return(int64(1), nil)

	_, _, err = useCase.ListUsers(ctx, 10, 1)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListUsersStoreError(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	storeErr := errors.New("connection reset")
	repo.On("Find", mock.Anything, 10, 0).Return(nil, storeErr)

	found, total, err := useCase.ListUsers(ctx, 10, 1)

	require.Error(t, err)
	assert.Nil(t, found)
	assert.Zero(t, total)
	repo.AssertNotCalled(t, "Count", mock.Anything)
}

func TestUpdateUserRehashesChangedPassword(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	current := &entities.User{
		ID:           "user-id-1",
		Username:     "alice",
		PasswordHash: "$2a$04$oldhash",
	}
	repo.On("FindByID", mock.Anything, "user-id-1").Return(current, nil)

	var replaced *entities.User
	repo.On("Replace", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		replaced = args.Get(1).(*entities.User)
	}).Return(&entities.User{ID: "user-id-1", Username: "alice"}, nil)

	payload := validPayload()
	payload.Password = strPtr("brand-new-password")

	_, err = useCase.UpdateUser(ctx, "user-id-1", payload)
	require.NoError(t, err)

	require.NotNil(t, replaced)
	assert.NotEqual(t, "brand-new-password", replaced.PasswordHash)
	assert.NotEqual(t, current.PasswordHash, replaced.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(replaced.PasswordHash), []byte("brand-new-password")))
}

func TestUpdateUserKeepsUnchangedPasswordHash(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	current := &entities.User{
		ID:           "user-id-1",
		Username:     "alice",
		PasswordHash: "$2a$04$storedhash",
	}
	repo.On("FindByID", mock.Anything, "user-id-1").Return(current, nil)

	var replaced *entities.User
	repo.On("Replace", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		replaced = args.Get(1).(*entities.User)
	}).Return(current, nil)

	// Payload несет неизмененный сохраненный хэш - повторного хэширования нет.
	payload := validPayload()
	payload.Password = strPtr("$2a$04$storedhash")

	_, err = useCase.UpdateUser(ctx, "user-id-1", payload)
	require.NoError(t, err)

	require.NotNil(t, replaced)
	assert.Equal(t, "$2a$04$storedhash", replaced.PasswordHash)
}

func TestUpdateUserNotFound(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, "missing-id").Return(nil, entities.ErrUserNotFound)

	updated, err := useCase.UpdateUser(ctx, "missing-id", validPayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
	assert.Nil(t, updated)
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestUpdateUserMissingPasswordRejected(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	payload := validPayload()
	payload.Password = nil

	updated, err := useCase.UpdateUser(ctx, "user-id-1", payload)

	require.Error(t, err)
	assert.Nil(t, updated)

	var validationErr *app.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "password", validationErr.Field)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateUserAppliesDefaultsOnReplace(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	current := &entities.User{
		ID:           "user-id-1",
		Username:     "alice",
		PasswordHash: "$2a$04$storedhash",
		LastName:     "Smith",
		Age:          44,
		IsActive:     false,
		Budget:       10,
	}
	repo.On("FindByID", mock.Anything, "user-id-1").Return(current, nil)

	var replaced *entities.User
	repo.On("Replace", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		replaced = args.Get(1).(*entities.User)
	}).Return(current, nil)

	// Замена всего документа: отсутствующие необязательные поля получают
	// значения по умолчанию, а не прежние значения.
	payload := validPayload()
	payload.Password = strPtr("$2a$04$storedhash")

	_, err = useCase.UpdateUser(ctx, "user-id-1", payload)
	require.NoError(t, err)

	require.NotNil(t, replaced)
	assert.Equal(t, "", replaced.LastName)
	assert.Equal(t, 0, replaced.Age)
	assert.True(t, replaced.IsActive)
	assert.Equal(t, float64(0), replaced.Budget)
	assert.Equal(t, "user-id-1", replaced.ID, "identifier is immutable")
}

func TestDeleteUserReturnsPriorDocument(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	prior := &entities.User{ID: "user-id-1", Username: "alice", Gender: "female"}
	repo.On("Delete", mock.Anything, "user-id-1").Return(prior, nil)

	deleted, err := useCase.DeleteUser(ctx, "user-id-1")

	require.NoError(t, err)
	assert.Equal(t, prior, deleted)
}

func TestDeleteUserNotFound(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	repo.On("Delete", mock.Anything, "missing-id").Return(nil, entities.ErrUserNotFound)

	deleted, err := useCase.DeleteUser(ctx, "missing-id")

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
	assert.Nil(t, deleted)
}

func TestUpdateUserIsActiveExplicitFalse(t *testing.T) {
	ctx := useCaseContext()
	repo := new(mockUserRepository)
	useCase, err := newUseCase(repo)
	require.NoError(t, err)

	current := &entities.User{ID: "user-id-1", PasswordHash: "$2a$04$storedhash"}
	repo.On("FindByID", mock.Anything, "user-id-1").Return(current, nil)

	var replaced *entities.User
	repo.On("Replace", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		replaced = args.Get(1).(*entities.User)
	}).Return(current, nil)

	payload := validPayload()
	payload.Password = strPtr("$2a$04$storedhash")
	payload.IsActive = boolPtr(false)

	_, err = useCase.UpdateUser(ctx, "user-id-1", payload)
	require.NoError(t, err)

	require.NotNil(t, replaced)
	assert.False(t, replaced.IsActive)
}
