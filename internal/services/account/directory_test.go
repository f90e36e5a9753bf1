package account

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/deadnumber/internal/dependencies/mocks"
	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/storage"
	"github.com/mcoot/deadnumber/internal/storage/memory"
	"github.com/mcoot/deadnumber/internal/testutil"
)

type DirectorySuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
	directory *Directory
	ctx       context.Context
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.directory = New(s.storage, s.clock, Config{BcryptCost: bcrypt.MinCost}, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *DirectorySuite) TestRegisterSucceeds() {
	err := s.directory.Register(s.ctx, "Alice", "secret")
	s.Require().NoError(err)
	s.Equal(1, s.directory.Count())
}

func (s *DirectorySuite) TestRegisterPersistsHashedSecret() {
	_ = s.directory.Register(s.ctx, "  Alice ", "secret")

	secret, err := s.storage.Lookup("alice")
	s.Require().NoError(err)
	s.NotEqual("secret", secret)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(secret), []byte("secret")))
}

func (s *DirectorySuite) TestRegisterIsCaseInsensitive() {
	s.Require().NoError(s.directory.Register(s.ctx, "Alice", "one"))

	err := s.directory.Register(s.ctx, "alice", "two")
	s.ErrorIs(err, model.ErrAlreadyExists)
	s.Equal(1, s.directory.Count())
}

func (s *DirectorySuite) TestRegisterRejectsInvalidUsernames() {
	for _, name := range []string{"", "   ", "a:b", "a|b", "a;b"} {
		err := s.directory.Register(s.ctx, name, "pw")
		s.ErrorIs(err, model.ErrInvalidUsername, "username %q", name)
	}
	s.Zero(s.directory.Count())
}

func (s *DirectorySuite) TestRegisterRejectsInvalidPasswords() {
	for _, pw := range []string{"", "a|b", "a\nb"} {
		err := s.directory.Register(s.ctx, "alice", pw)
		s.ErrorIs(err, model.ErrInvalidPassword)
	}
}

func (s *DirectorySuite) TestRegisterRollsBackOnStorageFailure() {
	s.storage.FailAppends(errors.New("disk full"))

	err := s.directory.Register(s.ctx, "alice", "pw")
	s.ErrorIs(err, model.ErrStorage)
	s.Zero(s.directory.Count())

	_, err = s.directory.Login(s.ctx, "alice", "pw")
	s.ErrorIs(err, model.ErrInvalidCredentials)

	s.storage.FailAppends(nil)
	s.NoError(s.directory.Register(s.ctx, "alice", "pw"))
}

// Login tests

func (s *DirectorySuite) TestLoginSucceeds() {
	_ = s.directory.Register(s.ctx, "Alice", "pw")

	id, err := s.directory.Login(s.ctx, " ALICE ", "pw")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), id)
	s.True(s.directory.IsOnline("alice"))
}

func (s *DirectorySuite) TestLoginWrongPassword() {
	_ = s.directory.Register(s.ctx, "alice", "pw")

	_, err := s.directory.Login(s.ctx, "alice", "nope")
	s.ErrorIs(err, model.ErrInvalidCredentials)
	s.False(s.directory.IsOnline("alice"))
}

func (s *DirectorySuite) TestLoginUnknownUser() {
	_, err := s.directory.Login(s.ctx, "ghost", "pw")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *DirectorySuite) TestLoginTwiceFails() {
	_ = s.directory.Register(s.ctx, "alice", "pw")
	_, _ = s.directory.Login(s.ctx, "alice", "pw")

	_, err := s.directory.Login(s.ctx, "Alice", "pw")
	s.ErrorIs(err, model.ErrAlreadyOnline)
}

func (s *DirectorySuite) TestConcurrentLoginHasExactlyOneWinner() {
	_ = s.directory.Register(s.ctx, "alice", "pw")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.directory.Login(s.ctx, "alice", "pw")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, online := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, model.ErrAlreadyOnline):
			online++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, successes)
	s.Equal(attempts-1, online)
}

// Logout tests

func (s *DirectorySuite) TestLogoutAllowsLoginAgain() {
	_ = s.directory.Register(s.ctx, "alice", "pw")
	_, _ = s.directory.Login(s.ctx, "alice", "pw")

	s.directory.Logout("alice")
	s.False(s.directory.IsOnline("alice"))

	_, err := s.directory.Login(s.ctx, "alice", "pw")
	s.NoError(err)
}

func (s *DirectorySuite) TestLogoutIsIdempotent() {
	_ = s.directory.Register(s.ctx, "alice", "pw")

	s.directory.Logout("alice")
	s.directory.Logout("alice")
	s.directory.Logout("nobody")
	s.False(s.directory.IsOnline("alice"))
}

// Load tests

func (s *DirectorySuite) TestLoadAcceptsLegacyPlainTextRecords() {
	s.storage = memory.New(
		storage.Credential{Username: "Bob", Secret: "hunter2"},
		storage.Credential{Username: "bob", Secret: "other"},
		storage.Credential{Username: "bad|name", Secret: "x"},
	)
	s.directory = New(s.storage, s.clock, Config{BcryptCost: bcrypt.MinCost}, testutil.NopLogger())
	s.Require().NoError(s.directory.Load(s.ctx))

	s.Equal(1, s.directory.Count())

	_, err := s.directory.Login(s.ctx, "bob", "other")
	s.ErrorIs(err, model.ErrInvalidCredentials)

	id, err := s.directory.Login(s.ctx, "BOB", "hunter2")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("bob"), id)
}

func (s *DirectorySuite) TestLoadThenRegisterSeesExisting() {
	s.storage = memory.New(storage.Credential{Username: "alice", Secret: "pw"})
	s.directory = New(s.storage, s.clock, Config{BcryptCost: bcrypt.MinCost}, testutil.NopLogger())
	s.Require().NoError(s.directory.Load(s.ctx))

	err := s.directory.Register(s.ctx, "ALICE", "pw")
	s.ErrorIs(err, model.ErrAlreadyExists)
}

func (s *DirectorySuite) TestVerifySecret() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)

	s.True(verifySecret(string(hash), "pw"))
	s.False(verifySecret(string(hash), "PW"))
	s.True(verifySecret("plain", "plain"))
	s.False(verifySecret("plain", "plain2"))
	s.True(strings.HasPrefix(string(hash), "$2"))
}
