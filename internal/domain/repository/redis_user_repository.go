package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authgate/internal/common"
	"authgate/internal/domain/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// createUserScript reserves the username and email index keys and writes the
// user hash in one step. Returns 0 when either index key is already taken.
var createUserScript = redis.NewScript(`
	if redis.call("exists", KEYS[1]) == 1 or redis.call("exists", KEYS[2]) == 1 then
		return 0
	end
	redis.call("set", KEYS[1], ARGV[1])
	redis.call("set", KEYS[2], ARGV[1])
	redis.call("hset", KEYS[3],
		"id", ARGV[1],
		"username", ARGV[2],
		"email", ARGV[3],
		"hashed_password", ARGV[4],
		"created_at", ARGV[5],
		"updated_at", ARGV[5])
	return 1
`)

// redisUserRepository needs a single-node client: the create script touches
// three keys that do not share a cluster hash slot.
type redisUserRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisUserRepository(rdb *redis.Client, prefix string) UserRepository {
	return &redisUserRepository{rdb: rdb, prefix: prefix}
}

func (r *redisUserRepository) userKey(id string) string {
	return r.prefix + ":user:" + id
}

func (r *redisUserRepository) usernameKey(username string) string {
	return r.prefix + ":username:" + username
}

func (r *redisUserRepository) emailKey(email string) string {
	return r.prefix + ":email:" + email
}

func (r *redisUserRepository) Create(ctx context.Context, user *model.User) error {
	id := uuid.NewString()
	now := time.Now().UTC()

	keys := []string{r.usernameKey(user.Username), r.emailKey(user.Email), r.userKey(id)}
	created, err := createUserScript.Run(ctx, r.rdb, keys,
		id, user.Username, user.Email, user.HashedPassword, now.Format(time.RFC3339Nano)).Int()
	if err != nil {
		return fmt.Errorf("redisUserRepository.Create: %w", err)
	}
	if created == 0 {
		return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *redisUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	id, err := r.rdb.Get(ctx, r.usernameKey(username)).Result()
	if err != nil {
		return nil, wrapRedisFindErr("redisUserRepository.FindByUsername", err)
	}
	return r.findByID(ctx, id)
}

func (r *redisUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	ids, err := r.rdb.MGet(ctx, r.usernameKey(username), r.emailKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisUserRepository.FindByUsernameOrEmail: %w", err)
	}
	for _, v := range ids {
		if id, ok := v.(string); ok && id != "" {
			return r.findByID(ctx, id)
		}
	}
	return nil, common.ErrNotFound
}

func (r *redisUserRepository) findByID(ctx context.Context, id string) (*model.User, error) {
	fields, err := r.rdb.HGetAll(ctx, r.userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisUserRepository.findByID: %w", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrNotFound
	}

	user := &model.User{
		ID:             fields["id"],
		Username:       fields["username"],
		Email:          fields["email"],
		HashedPassword: fields["hashed_password"],
	}
	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"]); err != nil {
		return nil, fmt.Errorf("redisUserRepository.findByID: created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339Nano, fields["updated_at"]); err != nil {
		return nil, fmt.Errorf("redisUserRepository.findByID: updated_at: %w", err)
	}
	return user, nil
}

func wrapRedisFindErr(op string, err error) error {
	if errors.Is(err, redis.Nil) {
		return common.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
