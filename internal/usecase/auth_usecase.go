package usecase

import (
	"context"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/internal/infrastructure/firebase"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/logger"
)

// AuthUseCase covers account lifecycle: registration, sensitive operations
// behind password reauthentication, and full account deletion with data purge.
type AuthUseCase struct {
	authClient *firebase.FirebaseAuthClient
	userRepo   repository.UserRepository
}

func NewAuthUseCase(authClient *firebase.FirebaseAuthClient, userRepo repository.UserRepository) *AuthUseCase {
	return &AuthUseCase{
		authClient: authClient,
		userRepo:   userRepo,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	PhoneNo  string
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	uid, err := uc.authClient.CreateUser(ctx, input.Email, input.Password, input.Name)
	if err != nil {
		return nil, errors.BadRequest("Failed to create account", err)
	}

	user := &entity.User{
		ID:      uid,
		Email:   input.Email,
		Name:    input.Name,
		PhoneNo: input.PhoneNo,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// The auth record exists but the profile write failed. Roll the auth
		// record back so the email is not left half-registered.
		if delErr := uc.authClient.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to roll back auth user %s after profile write failure: %v", uid, delErr)
		}
		return nil, err
	}

	return user, nil
}

func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID, name, phoneNo string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.PhoneNo = phoneNo

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// reauthenticate verifies the user's current password before a sensitive
// operation proceeds.
func (uc *AuthUseCase) reauthenticate(ctx context.Context, userID, password string) error {
	email, err := uc.authClient.GetUserEmail(ctx, userID)
	if err != nil {
		return errors.Internal("Failed to look up account", err)
	}

	if err := uc.authClient.VerifyPassword(ctx, email, password); err != nil {
		return errors.Unauthorized("Current password is incorrect", err)
	}

	return nil
}

func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := uc.reauthenticate(ctx, userID, currentPassword); err != nil {
		return err
	}

	if err := uc.authClient.UpdateUserPassword(ctx, userID, newPassword); err != nil {
		return errors.Internal("Failed to update password", err)
	}

	return nil
}

// SignOut revokes the user's refresh tokens. Issued ID tokens stay valid until
// they expire; revocation only blocks minting new ones.
func (uc *AuthUseCase) SignOut(ctx context.Context, userID string) error {
	return uc.authClient.RevokeRefreshTokens(ctx, userID)
}

// DeleteAccount purges the user's listings, interests and notifications, then
// removes the profile and finally the auth record. Purge runs first so a
// mid-sequence failure leaves a still-deletable account rather than orphaned
// documents with no owner.
func (uc *AuthUseCase) DeleteAccount(ctx context.Context, userID, password string) error {
	if err := uc.reauthenticate(ctx, userID, password); err != nil {
		return err
	}

	if err := uc.userRepo.PurgeUserData(ctx, userID); err != nil {
		return errors.Internal("Failed to delete account data", err)
	}

	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return errors.Internal("Failed to delete profile", err)
	}

	if err := uc.authClient.DeleteUser(ctx, userID); err != nil {
		return errors.Internal("Failed to delete account", err)
	}

	logger.Info("Account %s deleted", userID)
	return nil
}
