package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

const roleAssignmentsQuery = `
SELECT tb_user.id AS user_id, tb_user.email AS username, tb_user.password AS password,
       tb_role.id AS role_id, tb_role.authority AS authority
FROM tb_user
INNER JOIN tb_user_role ON tb_user.id = tb_user_role.user_id
INNER JOIN tb_role ON tb_role.id = tb_user_role.role_id
WHERE tb_user.email = ?`

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type roleAssignmentRow struct {
	UserID    int64
	Username  string
	Password  string
	RoleID    int64
	Authority string
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	err := conn(ctx, r.db).
		Preload("Roles").
		Where("email = ?", username).
		First(&m).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", domain.ErrDatabase, err)
	}

	roles := domain.NewRoleSet()
	for _, rm := range m.Roles {
		role, err := domain.ParseRole(rm.Authority)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", username, err)
		}
		roles.Add(role)
	}

	var birth time.Time
	if m.BirthDate != nil {
		birth = *m.BirthDate
	}
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		BirthDate:    birth,
		PasswordHash: m.Password,
		Roles:        roles,
	}, nil
}

func (r *UserRepository) SearchRoleAssignments(ctx context.Context, username string) ([]domain.RoleAssignment, error) {
	var rows []roleAssignmentRow
	if err := conn(ctx, r.db).Raw(roleAssignmentsQuery, username).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: role assignments: %v", domain.ErrDatabase, err)
	}

	out := make([]domain.RoleAssignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RoleAssignment{
			UserID:         row.UserID,
			Username:       row.Username,
			CredentialHash: row.Password,
			RoleID:         row.RoleID,
			RoleTag:        row.Authority,
		})
	}
	return out, nil
}
