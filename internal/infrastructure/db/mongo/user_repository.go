package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/organizae/users-service/internal/core/domain"
	"github.com/organizae/users-service/internal/core/ports"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
	userSequence       = "users"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// publicProjection drops the password hash at query time.
var publicProjection = bson.D{{Key: "password", Value: 0}}

// UserRepository stores users in MongoDB with integer ids drawn from a
// counters collection.
type UserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoUser struct {
	ID       int64  `bson:"_id"`
	Name     string `bson:"name"`
	Email    string `bson:"email"`
	Password string `bson:"password,omitempty"`
	Role     string `bson:"role"`
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{ID: m.ID, Name: m.Name, Email: m.Email, Password: m.Password, Role: m.Role}
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	doc := mongoUser{ID: id, Name: u.Name, Email: u.Email, Password: u.Password, Role: role}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return nil, mapError("insert user", err)
	}

	doc.Password = ""
	return doc.toDomain(), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	cur, err := r.users.Find(ctx, bson.D{}, options.Find().
		SetProjection(publicProjection).
		SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, mapError("list users", err)
	}

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError("list users", err)
	}

	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, *d.toDomain())
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var doc mongoUser
	err := r.users.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(publicProjection)).Decode(&doc)
	if err != nil {
		return nil, mapError("find user", err)
	}
	return doc.toDomain(), nil
}

// FindByEmail is the only lookup that loads the password hash.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc mongoUser
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, mapError("find user by email", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	set := bson.M{"name": u.Name, "email": u.Email, "role": u.Role}
	if u.Password != "" {
		set["password"] = u.Password
	}

	var doc mongoUser
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": u.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(publicProjection),
	).Decode(&doc)
	if err != nil {
		return nil, mapError("update user", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, mapError("delete user", err)
	}
	return res.DeletedCount, nil
}

func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func mapError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrUserNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrEmailInUse
	}
	return fmt.Errorf("%s: %w", op, err)
}
