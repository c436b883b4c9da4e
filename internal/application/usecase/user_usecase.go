package usecase

import (
	"time"

	"github.com/jhoicas/Timetrack-api/internal/application/dto"
	"github.com/jhoicas/Timetrack-api/internal/domain"
	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

// UserUseCase consultas de usuario y cambio de rol (administración).
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// GetProfile devuelve el usuario autenticado.
func (uc *UserUseCase) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// ChangeRole cambia el rol de sistema de un usuario. Solo un super_admin:
// el rol es mutable únicamente por un administrador.
func (uc *UserUseCase) ChangeRole(actor dto.Actor, userID, newRole string) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrPermissionDenied
	}
	switch newRole {
	case entity.RoleEmployee, entity.RoleLead, entity.RoleManager, entity.RoleManagement, entity.RoleSuperAdmin:
	default:
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.userRepo.UpdateRole(userID, newRole); err != nil {
		return nil, err
	}
	user.Role = newRole
	user.UpdatedAt = time.Now()
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
