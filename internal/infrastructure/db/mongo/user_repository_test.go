package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/organizae/users-service/internal/core/domain"
)

func counterResponse(seq int64) bson.D {
	return bson.D{
		{Key: "ok", Value: 1},
		{Key: "value", Value: bson.D{{Key: "_id", Value: userSequence}, {Key: "seq", Value: seq}}},
	}
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns sequential id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(counterResponse(5), mtest.CreateSuccessResponse())

		u, err := repo.Create(context.Background(), &domain.User{Name: "Ana", Email: "ana@example.com", Password: "hash"})
		if err != nil {
			mt.Fatalf("Create returned error: %v", err)
		}
		if u.ID != 5 || u.Role != domain.RoleUser || u.Password != "" {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("create maps duplicate key", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(counterResponse(6), mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: users_email_key",
		}))

		if _, err := repo.Create(context.Background(), &domain.User{Email: "ana@example.com"}); !errors.Is(err, domain.ErrEmailInUse) {
			mt.Fatalf("expected ErrEmailInUse, got %v", err)
		}
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		ns := mt.DB.Name() + "." + usersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: int64(2)},
			{Key: "name", Value: "Bia"},
			{Key: "email", Value: "bia@example.com"},
			{Key: "role", Value: domain.RoleAdmin},
		}))

		u, err := repo.FindByID(context.Background(), 2)
		if err != nil {
			mt.Fatalf("FindByID returned error: %v", err)
		}
		if u.ID != 2 || u.Role != domain.RoleAdmin || u.Password != "" {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+usersCollection, mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), 404); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("update not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		if _, err := repo.Update(context.Background(), &domain.User{ID: 9, Name: "X"}); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("delete reports affected rows", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		n, err := repo.Delete(context.Background(), 2)
		if err != nil || n != 1 {
			mt.Fatalf("expected 1 deleted, got %d, %v", n, err)
		}
	})
}
