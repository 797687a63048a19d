package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalState(t *testing.T) {
	assert.Equal(t, Anonymous, Anon().State())
	assert.Equal(t, Anonymous, Principal{}.State())
	assert.Equal(t, Authenticated, As("alice").State())
	assert.False(t, Anon().IsAuthenticated())
	assert.True(t, As("alice").IsAuthenticated())
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "authenticated", Authenticated.String())
}

func TestCanAccessUser(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		target    string
		want      error
	}{
		{name: "owner", principal: As("alice"), target: "alice", want: nil},
		{name: "other user", principal: As("alice"), target: "bob", want: ErrForbidden},
		{name: "anonymous", principal: Anon(), target: "alice", want: ErrUnauthenticated},
		{name: "anonymous empty target", principal: Anon(), target: "", want: ErrUnauthenticated},
		{name: "empty target", principal: As("alice"), target: "", want: ErrForbidden},
		{name: "case differs", principal: As("alice"), target: "Alice", want: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessUser(tt.principal, tt.target))
		})
	}
}

func TestCanMutateFeedback(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		owner     string
		want      error
	}{
		{name: "owner", principal: As("alice"), owner: "alice", want: nil},
		{name: "not owner", principal: As("bob"), owner: "alice", want: ErrForbidden},
		{name: "anonymous", principal: Anon(), owner: "alice", want: ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutateFeedback(tt.principal, tt.owner))
		})
	}
}

func TestDeniesEveryoneButOwner(t *testing.T) {
	users := []string{"alice", "bob", "carol", "dave"}
	for _, actor := range users {
		for _, owner := range users {
			err := CanMutateFeedback(As(actor), owner)
			if actor == owner {
				assert.NoError(t, err, "%s on own feedback", actor)
			} else {
				assert.ErrorIs(t, err, ErrForbidden, "%s on feedback of %s", actor, owner)
			}
		}
	}
}

func TestRequireAuthenticated(t *testing.T) {
	assert.ErrorIs(t, RequireAuthenticated(Anon()), ErrUnauthenticated)
	assert.NoError(t, RequireAuthenticated(As("alice")))
}
