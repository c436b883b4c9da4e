package repository

import "github.com/jhoicas/Timetrack-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	// UpdateRole cambia solo el rol de sistema (acción de administrador).
	UpdateRole(id, role string) error
	List(limit, offset int) ([]*entity.User, error)
}
