package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"userhub/internal/users/app/dto"
	"userhub/internal/users/domain/entities"
	"userhub/internal/users/ports/api"
	"userhub/internal/users/ports/repositories"
	svc "userhub/internal/users/ports/services"
	"userhub/pkg/logger"
)

const (
	methodListUsers  = "ListUsers"
	methodCreateUser = "CreateUser"
	methodUpdateUser = "UpdateUser"
	methodDeleteUser = "DeleteUser"

	msgListingUsers       = "listing users"
	msgUsersListed        = "users listed successfully"
	msgStartCreation      = "starting user creation"
	msgInvalidPayload     = "payload validation failed"
	msgUsernameExists     = "user with this username already exists"
	msgUserCreated        = "user created successfully"
	msgTokenGenerated     = "access token generated for new user"
	msgStartUpdate        = "starting user update"
	msgUserNotFoundUpdate = "user not found for update"
	msgUserUpdated        = "user updated successfully"
	msgStartDeletion      = "starting user deletion"
	msgUserDeleted        = "user deleted successfully"

	msgErrCountUsers        = "failed to count users"
	msgErrFindUsers         = "failed to find users"
	msgErrCheckExistingUser = "failed to check existing username"
	msgErrHashPassword      = "failed to hash password"
	msgErrCreateUser        = "failed to create user"
	msgErrGenerateToken     = "failed to generate token for new user"
	msgErrReplaceUser       = "failed to replace user"
	msgErrDeleteUser        = "failed to delete user"

	errCtxListingUsers     = "listing users"
	errCtxCountingUsers    = "counting users"
	errCtxValidatingUser   = "validating user payload"
	errCtxCheckingUsername = "checking username"
	errCtxHashingPassword  = "hashing password"
	errCtxCreatingUser     = "creating user"
	errCtxGeneratingToken  = "generating token"
	errCtxFindingUser      = "finding user"
	errCtxReplacingUser    = "replacing user"
	errCtxDeletingUser     = "deleting user"
)

// UserUseCaseImpl реализует интерфейс api.UserUseCase.
type UserUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
}

// NewUserUseCase создает новый экземпляр сервиса пользователей.
func NewUserUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// ListUsers возвращает страницу пользователей и общее количество записей.
func (u *UserUseCaseImpl) ListUsers(ctx context.Context, limit, page int) ([]entities.User, int64, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListUsers),
		zap.Int("limit", limit), zap.Int("page", page))
	log.Debug(ctx, msgListingUsers)

	offset := limit * (page - 1)
	if offset < 0 {
		offset = 0
	}

	users, err := u.userRepo.Find(ctx, limit, offset)
	if err != nil {
		log.Error(ctx, msgErrFindUsers, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}

	total, err := u.userRepo.Count(ctx)
	if err != nil {
		log.Error(ctx, msgErrCountUsers, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxCountingUsers, err)
	}

	log.Debug(ctx, msgUsersListed, zap.Int("returned", len(users)), zap.Int64("total", total))
	return users, total, nil
}

// CreateUser проверяет payload, хэширует пароль и создает пользователя.
// Проверка занятости username и вставка не атомарны: при гонке двух
// одинаковых создаваемых пользователей последним рубежом служит уникальный
// индекс хранилища, и проигравший получает entities.ErrUsernameTaken.
func (u *UserUseCaseImpl) CreateUser(ctx context.Context, payload *dto.UserPayload) (*entities.User, string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateUser))
	log.Debug(ctx, msgStartCreation)

	if err := ValidateUser(payload, ModeCreate); err != nil {
		log.Debug(ctx, msgInvalidPayload, zap.Error(err))
		return nil, "", fmt.Errorf("%s: %w", errCtxValidatingUser, err)
	}

	existing, err := u.userRepo.FindByUsername(ctx, *payload.Username)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, "", fmt.Errorf("%s: %w", errCtxCheckingUsername, err)
	}
	if existing != nil {
		log.Debug(ctx, msgUsernameExists, zap.String("username", *payload.Username))
		return nil, "", fmt.Errorf("%s: %w", errCtxCheckingUsername, entities.ErrUsernameTaken)
	}

	hash, err := u.passwordSvc.Hash(ctx, *payload.Password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, "", fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	user := payload.ToEntity()
	user.PasswordHash = hash

	created, err := u.userRepo.Create(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, "", fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}
	log.Info(ctx, msgUserCreated, zap.String("userID", created.ID))

	token, _, err := u.tokenSvc.GenerateToken(ctx, created.ID, created.Username)
	if err != nil {
		log.Error(ctx, msgErrGenerateToken, zap.Error(err))
		return nil, "", fmt.Errorf("%s: %w", errCtxGeneratingToken, err)
	}
	log.Debug(ctx, msgTokenGenerated, zap.String("userID", created.ID))

	return created, token, nil
}

// UpdateUser полностью заменяет документ пользователя по ID. Пароль хэшируется
// заново, кроме случая когда payload содержит неизмененный сохраненный хэш.
func (u *UserUseCaseImpl) UpdateUser(ctx context.Context, id string, payload *dto.UserPayload) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateUser), zap.String("userID", id))
	log.Debug(ctx, msgStartUpdate)

	if err := ValidateUser(payload, ModeUpdate); err != nil {
		log.Debug(ctx, msgInvalidPayload, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUser, err)
	}

	current, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgUserNotFoundUpdate)
			return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
		}
		log.Error(ctx, msgErrReplaceUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	user := payload.ToEntity()
	user.ID = id

	if *payload.Password == current.PasswordHash {
		user.PasswordHash = current.PasswordHash
	} else {
		hash, err := u.passwordSvc.Hash(ctx, *payload.Password)
		if err != nil {
			log.Error(ctx, msgErrHashPassword, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
		}
		user.PasswordHash = hash
	}

	updated, err := u.userRepo.Replace(ctx, user)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgUserNotFoundUpdate)
		} else {
			log.Error(ctx, msgErrReplaceUser, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxReplacingUser, err)
	}

	log.Info(ctx, msgUserUpdated, zap.String("userID", updated.ID))
	return updated, nil
}

// DeleteUser удаляет пользователя по ID и возвращает прежнее содержимое документа.
func (u *UserUseCaseImpl) DeleteUser(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteUser), zap.String("userID", id))
	log.Debug(ctx, msgStartDeletion)

	deleted, err := u.userRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, "user not found for deletion")
		} else {
			log.Error(ctx, msgErrDeleteUser, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	log.Info(ctx, msgUserDeleted, zap.String("userID", deleted.ID))
	return deleted, nil
}
