package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

// UserRepository reads users and the roles they reference by id.
type UserRepository struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users: db.Collection(collectionUsers),
		roles: db.Collection(collectionRoles),
	}
}

type userDocument struct {
	ID           int64     `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Phone        string    `bson:"phone,omitempty"`
	BirthDate    time.Time `bson:"birth_date,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	RoleIDs      []int64   `bson:"role_ids"`
}

type roleDocument struct {
	ID        int64  `bson:"_id"`
	Authority string `bson:"authority"`
}

type roleAssignmentRow struct {
	UserID    int64  `bson:"user_id"`
	Username  string `bson:"username"`
	Password  string `bson:"password"`
	RoleID    int64  `bson:"role_id"`
	Authority string `bson:"authority"`
}

// FindByUsername loads the user whose email matches username, roles included.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.users.FindOne(ctx, bson.M{"email": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", domain.ErrDatabase, err)
	}

	roles := domain.NewRoleSet()
	if len(doc.RoleIDs) > 0 {
		cur, err := r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": doc.RoleIDs}})
		if err != nil {
			return nil, fmt.Errorf("%w: find roles: %v", domain.ErrDatabase, err)
		}
		var docs []roleDocument
		if err := cur.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("%w: decode roles: %v", domain.ErrDatabase, err)
		}
		for _, d := range docs {
			role, err := domain.ParseRole(d.Authority)
			if err != nil {
				return nil, fmt.Errorf("user %s: %w", username, err)
			}
			roles.Add(role)
		}
	}

	return &domain.User{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		Phone:        doc.Phone,
		BirthDate:    doc.BirthDate,
		PasswordHash: doc.PasswordHash,
		Roles:        roles,
	}, nil
}

// SearchRoleAssignments flattens the user's role ids into one row per role,
// each repeating the credential columns.
func (r *UserRepository) SearchRoleAssignments(ctx context.Context, username string) ([]domain.RoleAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"email": username}}},
		{{Key: "$unwind", Value: "$role_ids"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionRoles,
			"localField":   "role_ids",
			"foreignField": "_id",
			"as":           "role",
		}}},
		{{Key: "$unwind", Value: "$role"}},
		{{Key: "$project", Value: bson.M{
			"_id":       0,
			"user_id":   "$_id",
			"username":  "$email",
			"password":  "$password_hash",
			"role_id":   "$role._id",
			"authority": "$role.authority",
		}}},
	}

	cur, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: role assignments: %v", domain.ErrDatabase, err)
	}
	var rows []roleAssignmentRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode role assignments: %v", domain.ErrDatabase, err)
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
