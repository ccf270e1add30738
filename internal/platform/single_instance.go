package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"os"
	"os/user"
)

// ErrDisplayBusy means another launcharc display owns the profile for this user.
var ErrDisplayBusy = errors.New("launcharc display already open for this user")

const (
	lockPortBase  = 20000
	lockPortCount = 20000
)

// DisplayLock keeps a second launcharc window from editing the same saved
// profile. It is held for the lifetime of the display process.
type DisplayLock struct {
	key      string
	listener net.Listener
}

// LockDisplay claims the display for profileName and the current OS user.
// The claim is a loopback listener, so it vanishes if the process dies.
func LockDisplay(profileName string) (*DisplayLock, error) {
	key := displayKey(profileName, currentUser())
	listener, err := net.Listen("tcp", lockEndpoint(key))
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrDisplayBusy, key, err)
	}
	return &DisplayLock{key: key, listener: listener}, nil
}

// Unlock lets another display start. Calling it twice is harmless.
func (lock *DisplayLock) Unlock() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// Key is the profile/user pair the lock covers.
func (lock *DisplayLock) Key() string {
	if lock == nil {
		return ""
	}
	return lock.key
}

func currentUser() string {
	if account, err := user.Current(); err == nil && account.Username != "" {
		return account.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

func displayKey(profileName, username string) string {
	return profileName + "@" + username
}

func lockEndpoint(key string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	return fmt.Sprintf("127.0.0.1:%d", lockPortBase+int(hash.Sum32()%lockPortCount))
}
