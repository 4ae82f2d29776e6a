package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/rs/zerolog"
)

const (
	redisUsersKey  = "flashapi:users"
	redisNextIdKey = "flashapi:users:next_id"
)

// RedisStore keeps users as JSON values in a single redis hash keyed by id.
type RedisStore struct {
	logger zerolog.Logger
	pool   *redis.Pool
}

func NewRedisStore(addr string, poolsize int, logger zerolog.Logger) (*RedisStore, error) {
	pool := &redis.Pool{
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
		MaxIdle:     poolsize,
		IdleTimeout: 5 * time.Minute,
	}

	// fail at startup rather than on the first request
	c := pool.Get()
	defer c.Close()
	if _, err := c.Do("PING"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}

	logger.Info().Str("addr", addr).Msg("connected to redis")

	return &RedisStore{
		logger: logger,
		pool:   pool,
	}, nil
}

func (r *RedisStore) Close() error {
	return r.pool.Close()
}

func (r *RedisStore) Get(id int) (User, error) {
	c := r.pool.Get()
	defer c.Close()

	data, err := redis.Bytes(c.Do("HGET", redisUsersKey, strconv.Itoa(id)))
	if err == redis.ErrNil {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}

	return decodeUser(data)
}

func (r *RedisStore) List() ([]User, error) {
	c := r.pool.Get()
	defer c.Close()

	values, err := redis.ByteSlices(c.Do("HVALS", redisUsersKey))
	if err != nil && err != redis.ErrNil {
		return nil, err
	}

	users := make([]User, 0, len(values))
	for _, data := range values {
		user, err := decodeUser(data)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	sortUsers(users)
	return users, nil
}

func (r *RedisStore) Create(name string) (User, error) {
	if name == "" {
		return User{}, ErrEmptyName
	}

	c := r.pool.Get()
	defer c.Close()

	id, err := redis.Int(c.Do("INCR", redisNextIdKey))
	if err != nil {
		return User{}, err
	}

	user := User{Id: id, Name: name}
	if err := r.put(c, user); err != nil {
		return User{}, err
	}

	r.logger.Debug().Int("id", id).Msg("created user")
	return user, nil
}

func (r *RedisStore) Update(user User) (User, error) {
	if user.Name == "" {
		return User{}, ErrEmptyName
	}

	c := r.pool.Get()
	defer c.Close()

	exists, err := redis.Bool(c.Do("HEXISTS", redisUsersKey, strconv.Itoa(user.Id)))
	if err != nil {
		return User{}, err
	}
	if !exists {
		return User{}, ErrUserNotFound
	}

	if err := r.put(c, user); err != nil {
		return User{}, err
	}

	return user, nil
}

func (r *RedisStore) Delete(id int) error {
	c := r.pool.Get()
	defer c.Close()

	removed, err := redis.Int(c.Do("HDEL", redisUsersKey, strconv.Itoa(id)))
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrUserNotFound
	}

	r.logger.Debug().Int("id", id).Msg("deleted user")
	return nil
}

func (r *RedisStore) put(c redis.Conn, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	_, err = c.Do("HSET", redisUsersKey, strconv.Itoa(user.Id), data)
	return err
}

func decodeUser(data []byte) (User, error) {
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return User{}, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return user, nil
}
