package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

type User struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmptyName    = errors.New("user name is empty")
)

// UserStore is shared by every connection, so implementations must be safe
// for concurrent use.
type UserStore interface {
	Get(id int) (User, error)
	List() ([]User, error)
	Create(name string) (User, error)
	Update(user User) (User, error)
	Delete(id int) error
}

// KvStore keeps users in memory for the lifetime of the process.
type KvStore struct {
	logger zerolog.Logger
	values map[int]User
	nextId int
	mu     sync.RWMutex
}

func NewKvStore(logger zerolog.Logger) *KvStore {
	return &KvStore{
		values: make(map[int]User),
		nextId: 1,
		logger: logger,
	}
}

func (k *KvStore) Get(id int) (User, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	user, exists := k.values[id]
	if !exists {
		return User{}, ErrUserNotFound
	}

	return user, nil
}

func (k *KvStore) List() ([]User, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	users := make([]User, 0, len(k.values))
	for _, user := range k.values {
		users = append(users, user)
	}

	sortUsers(users)
	return users, nil
}

func (k *KvStore) Create(name string) (User, error) {
	if name == "" {
		return User{}, ErrEmptyName
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	user := User{Id: k.nextId, Name: name}
	k.values[user.Id] = user
	k.nextId++

	k.logger.Debug().Int("id", user.Id).Msg("created user")
	return user, nil
}

func (k *KvStore) Update(user User) (User, error) {
	if user.Name == "" {
		return User{}, ErrEmptyName
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.values[user.Id]; !exists {
		return User{}, ErrUserNotFound
	}

	k.values[user.Id] = user
	return user, nil
}

func (k *KvStore) Delete(id int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.values[id]; !exists {
		return ErrUserNotFound
	}

	delete(k.values, id)
	k.logger.Debug().Int("id", id).Msg("deleted user")
	return nil
}

func sortUsers(users []User) {
	sort.Slice(users, func(i, j int) bool {
		return users[i].Id < users[j].Id
	})
}
